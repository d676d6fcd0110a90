package bootstrap

import (
	"context"

	"github.com/unkn0wn-root/repo-bootstrap/internal/fetch"
)

// RemoteFile maps a path in the template source to a path under the target
// directory. Both use forward slashes.
type RemoteFile struct {
	RemotePath string
	LocalPath  string
}

// Fetcher is the part of fetch.Client the runner depends on.
type Fetcher interface {
	Source() fetch.Source
	URL(remotePath string) string
	Fetch(ctx context.Context, remotePath string) fetch.Result
}

type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
	ActionSkip      Action = "skip"
)

const (
	reasonExists = "exists (skipped)"
	reasonDryRun = "dry-run (would write)"
	reasonWrote  = "written"
)

// writeDecision is what safeWrite does with one target. Preview means the
// action is reported but the filesystem is left alone.
type writeDecision struct {
	Action  Action
	Preview bool
}

// decideWrite is shared by canonical files and README.md.
func decideWrite(exists, overwrite, dryRun bool) writeDecision {
	if exists && !overwrite {
		return writeDecision{Action: ActionSkip}
	}
	act := ActionCreate
	if exists {
		act = ActionOverwrite
	}
	return writeDecision{Action: act, Preview: dryRun}
}

func (d writeDecision) Writes() bool {
	return d.Action != ActionSkip
}

func (d writeDecision) Reason() string {
	switch {
	case d.Action == ActionSkip:
		return reasonExists
	case d.Preview:
		return reasonDryRun
	default:
		return reasonWrote
	}
}
