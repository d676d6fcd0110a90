package bootstrap

import (
	"context"
	"errors"
	"io"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
	"github.com/unkn0wn-root/repo-bootstrap/internal/rtfmt"
)

var errNoFetcher = errors.New("bootstrap: no fetcher configured")

// Command runs a bootstrap with injectable dependencies.
type Command struct {
	fs      FS
	fetcher Fetcher
	logger  *zap.Logger
	tracer  trace.Tracer
}

func New(f Fetcher) *Command {
	return &Command{
		fs:      OSFS{},
		fetcher: f,
		logger:  zap.NewNop(),
		tracer:  noop.NewTracerProvider().Tracer(""),
	}
}

func (c *Command) WithFS(fsys FS) *Command {
	if fsys != nil {
		c.fs = fsys
	}
	return c
}

func (c *Command) WithLogger(l *zap.Logger) *Command {
	if l != nil {
		c.logger = l
	}
	return c
}

func (c *Command) WithTracer(t trace.Tracer) *Command {
	if t != nil {
		c.tracer = t
	}
	return c
}

// Run performs one bootstrap. The returned error is fatal; fetch failures
// are carried by the Summary instead, see Summary.Err.
func (c *Command) Run(ctx context.Context, o Opt) (Summary, error) {
	o = withDefaults(o)
	if o.List {
		return Summary{}, c.list(o.Out)
	}
	if c.fetcher == nil {
		return Summary{}, errdef.Wrap(errdef.CodeUnknown, errNoFetcher, "")
	}

	log := c.logger.With(zap.String("dir", o.Dir))
	r := runner{
		fs:     c.fs,
		f:      c.fetcher,
		o:      o,
		rep:    newReporter(o, log),
		log:    log,
		tracer: c.tracer,
	}
	return r.run(ctx)
}

// list prints what a run would manage without touching anything.
func (c *Command) list(w io.Writer) error {
	out := rtfmt.New(w, nil)
	out.Println("Directories:")
	for _, d := range RequiredDirs() {
		out.Printf("  %s\n", d)
	}

	files := CanonicalFiles()
	width := lo.Max(lo.Map(files, func(f RemoteFile, _ int) int { return len(f.LocalPath) }))
	out.Println("Files:")
	for _, f := range files {
		if c.fetcher == nil {
			out.Printf("  %s\n", f.LocalPath)
			continue
		}
		out.Printf("  %-*s  %s\n", width, f.LocalPath, c.fetcher.URL(f.RemotePath))
	}
	if err := out.Err(); err != nil {
		return errdef.Wrap(errdef.CodeUnknown, err, "bootstrap: list")
	}
	return nil
}
