package bootstrap

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/rtfmt"
)

type tagStyles struct {
	ok   lipgloss.Style
	skip lipgloss.Style
	err  lipgloss.Style
	dry  lipgloss.Style
}

// newTagStyles binds styles to w so output that is not a terminal stays
// free of escape codes.
func newTagStyles(w io.Writer, noColor bool) tagStyles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return tagStyles{
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		skip: r.NewStyle().Foreground(lipgloss.Color("3")),
		err:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dry:  r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// reporter prints progress lines. Failures go to the error stream.
type reporter struct {
	out     *rtfmt.Writer
	errOut  *rtfmt.Writer
	outTags tagStyles
	errTags tagStyles
}

func newReporter(o Opt, logger *zap.Logger) *reporter {
	logf := logger.Sugar().Warnf
	return &reporter{
		out:     rtfmt.New(o.Out, rtfmt.LogHandler(logf, "write %s: %v", "report")),
		errOut:  rtfmt.New(o.Err, rtfmt.LogHandler(logf, "write %s: %v", "error report")),
		outTags: newTagStyles(o.Out, o.NoColor),
		errTags: newTagStyles(o.Err, o.NoColor),
	}
}

func (r *reporter) line(format string, args ...any) {
	r.out.Printf(format+"\n", args...)
}

func (r *reporter) ok(format string, args ...any) {
	r.tagged(r.out, r.outTags.ok, "[OK]", format, args...)
}

func (r *reporter) skip(format string, args ...any) {
	r.tagged(r.out, r.outTags.skip, "[SKIP]", format, args...)
}

func (r *reporter) dry(format string, args ...any) {
	r.tagged(r.out, r.outTags.dry, "[DRY-RUN]", format, args...)
}

func (r *reporter) fail(format string, args ...any) {
	r.tagged(r.errOut, r.errTags.err, "[ERR]", format, args...)
}

func (r *reporter) tagged(w *rtfmt.Writer, st lipgloss.Style, tag, format string, args ...any) {
	w.Printf("%s %s\n", st.Render(tag), fmt.Sprintf(format, args...))
}

func (r *reporter) Err() error {
	if err := r.out.Err(); err != nil {
		return err
	}
	return r.errOut.Err()
}
