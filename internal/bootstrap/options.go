package bootstrap

import (
	"io"
	"strings"
)

// Opt describes how a bootstrap run should behave.
// Fields are plain values so callers can map flags directly.
type Opt struct {
	Dir            string
	Overwrite      bool
	DryRun         bool
	ProjectName    string
	WriteReadme    bool
	PatchGitignore bool
	List           bool
	NoColor        bool
	Out            io.Writer
	Err            io.Writer
}

func withDefaults(o Opt) Opt {
	o.Dir = strings.TrimSpace(o.Dir)
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Err == nil {
		o.Err = io.Discard
	}
	return o
}
