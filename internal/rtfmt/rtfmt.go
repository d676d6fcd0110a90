// Package rtfmt wraps report output so a run can emit many lines and check
// for a broken writer once at the end.
package rtfmt

import (
	"fmt"
	"io"
)

type ErrorHandler func(error)

// Writer remembers the first write failure. Later writes become no-ops.
type Writer struct {
	w       io.Writer
	handler ErrorHandler
	err     error
}

func New(w io.Writer, handler ErrorHandler) *Writer {
	if w == nil {
		w = io.Discard
	}
	return &Writer{w: w, handler: handler}
}

func (w *Writer) Printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, err := fmt.Fprintf(w.w, format, args...)
	w.fail(err)
}

func (w *Writer) Println(args ...any) {
	if w.err != nil {
		return
	}
	_, err := fmt.Fprintln(w.w, args...)
	w.fail(err)
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if err == nil {
		return
	}
	w.err = err
	if w.handler != nil {
		w.handler(err)
	}
}

// LogHandler builds an ErrorHandler that logs using the provided function and
// captures the formatting arguments. The error is passed as the last arg.
func LogHandler(logf func(string, ...any), format string, args ...any) ErrorHandler {
	if logf == nil {
		return nil
	}
	captured := append([]any(nil), args...)
	return func(err error) {
		logf(format, append(captured, err)...)
	}
}
