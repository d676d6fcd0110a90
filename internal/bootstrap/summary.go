package bootstrap

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
	"github.com/unkn0wn-root/repo-bootstrap/internal/rtfmt"
)

type Status int

const (
	StatusCreated Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) Label() string {
	switch s {
	case StatusCreated:
		return "Created/Updated:"
	case StatusSkipped:
		return "Skipped:"
	case StatusFailed:
		return "Failed:"
	default:
		return "Other:"
	}
}

// Outcome records what happened to one file. Err is set for failures.
type Outcome struct {
	Path   string
	Reason string
	Status Status
	Err    error
}

// Summary accumulates outcomes in the order they happened.
type Summary struct {
	Outcomes []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

func (s Summary) byStatus(st Status) []Outcome {
	return lo.Filter(s.Outcomes, func(o Outcome, _ int) bool {
		return o.Status == st
	})
}

func (s Summary) Created() []Outcome { return s.byStatus(StatusCreated) }
func (s Summary) Skipped() []Outcome { return s.byStatus(StatusSkipped) }
func (s Summary) Failed() []Outcome  { return s.byStatus(StatusFailed) }

// Print writes the grouped summary. Empty groups are left out.
func (s Summary) Print(w io.Writer) error {
	out := rtfmt.New(w, nil)
	out.Printf("\n=== Summary ===\n")
	groups := lo.GroupBy(s.Outcomes, func(o Outcome) Status { return o.Status })
	for _, st := range []Status{StatusCreated, StatusSkipped, StatusFailed} {
		items := groups[st]
		if len(items) == 0 {
			continue
		}
		out.Println(st.Label())
		for _, o := range items {
			out.Printf("  - %s (%s)\n", o.Path, o.Reason)
		}
	}
	return out.Err()
}

// Err aggregates every failed fetch into one CodeFetch error, or nil.
func (s Summary) Err() error {
	failed := s.Failed()
	if len(failed) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, o := range failed {
		cause := o.Err
		if cause == nil {
			cause = errors.New(o.Reason)
		}
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", o.Path, cause))
	}
	return errdef.Wrap(errdef.CodeFetch, merr.ErrorOrNil(), "%d template file(s) failed to fetch", len(failed))
}

func (s Summary) ExitCode() int {
	return errdef.ExitCode(s.Err())
}
