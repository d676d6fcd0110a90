package bootstrap

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
)

type runner struct {
	fs     FS
	f      Fetcher
	o      Opt
	rep    *reporter
	log    *zap.Logger
	tracer trace.Tracer
	sum    Summary
}

func (r *runner) run(ctx context.Context) (Summary, error) {
	src := r.f.Source()
	ctx, span := r.tracer.Start(ctx, "bootstrap run",
		trace.WithAttributes(
			attribute.String("template.source", src.String()),
			attribute.Bool("bootstrap.dry_run", r.o.DryRun),
			attribute.Bool("bootstrap.overwrite", r.o.Overwrite),
		))
	defer span.End()

	r.header()
	if err := r.steps(ctx); err != nil {
		span.RecordError(err)
		return r.sum, err
	}

	span.SetAttributes(
		attribute.Int("bootstrap.created", len(r.sum.Created())),
		attribute.Int("bootstrap.skipped", len(r.sum.Skipped())),
		attribute.Int("bootstrap.failed", len(r.sum.Failed())),
	)
	if err := r.sum.Print(r.o.Out); err != nil {
		return r.sum, errdef.Wrap(errdef.CodeUnknown, err, "bootstrap: write summary")
	}
	if err := r.rep.Err(); err != nil {
		return r.sum, errdef.Wrap(errdef.CodeUnknown, err, "bootstrap: write report")
	}
	return r.sum, nil
}

func (r *runner) header() {
	mode := "WRITE"
	if r.o.DryRun {
		mode = "DRY-RUN"
	}
	r.rep.line("=== Repo Bootstrap ===")
	r.rep.line("Template source: %s", r.f.Source())
	r.rep.line("Mode: %s | Overwrite: %t", mode, r.o.Overwrite)
}

func (r *runner) steps(ctx context.Context) error {
	if err := r.ensureRoot(); err != nil {
		return err
	}
	for _, d := range RequiredDirs() {
		if err := r.ensureDir(d); err != nil {
			return err
		}
	}
	for _, rf := range CanonicalFiles() {
		if err := r.pull(ctx, rf); err != nil {
			return err
		}
	}
	if r.o.WriteReadme {
		if err := r.writeReadme(); err != nil {
			return err
		}
	}
	if r.o.PatchGitignore {
		return r.patchGitignore()
	}
	return nil
}

// ensureRoot creates the target directory itself without reporting it.
func (r *runner) ensureRoot() error {
	ok, err := r.isDir(r.o.Dir)
	if err != nil || ok || r.o.DryRun {
		return err
	}
	if err := r.fs.MkdirAll(r.o.Dir, dirPerm); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: create %s", r.o.Dir)
	}
	return nil
}

// pull fetches one canonical file. A failed fetch is recorded and the run
// moves on.
func (r *runner) pull(ctx context.Context, rf RemoteFile) error {
	res := r.f.Fetch(ctx, rf.RemotePath)
	if !res.OK() {
		r.sum.add(Outcome{
			Path:   rf.LocalPath,
			Reason: res.Reason(),
			Status: StatusFailed,
			Err:    res.Err,
		})
		r.rep.fail("Failed to fetch %s: %v", res.URL, res.Err)
		return nil
	}
	return r.record(rf.LocalPath, res.Text)
}

func (r *runner) writeReadme() error {
	data, err := r.fs.ReadFile(localPath(r.o.Dir, readmeTemplateFile))
	if errors.Is(err, fs.ErrNotExist) {
		r.rep.fail("%s not found locally; cannot render %s.", readmeTemplateFile, readmeFile)
		return nil
	}
	if err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: read %s", readmeTemplateFile)
	}
	tmpl := strings.ToValidUTF8(string(data), "\uFFFD")
	return r.record(readmeFile, RenderReadme(tmpl, r.o.ProjectName))
}

func (r *runner) record(rel, content string) error {
	wrote, reason, err := r.safeWrite(rel, content)
	if err != nil {
		return err
	}
	if wrote {
		r.sum.add(Outcome{Path: rel, Reason: reason, Status: StatusCreated})
		r.rep.ok("%s: %s", rel, reason)
		return nil
	}
	r.sum.add(Outcome{Path: rel, Reason: reason, Status: StatusSkipped})
	r.rep.skip("%s: %s", rel, reason)
	return nil
}
