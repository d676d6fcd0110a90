package bootstrap

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
)

// patchGitignore appends whichever required entries are missing under a
// marker comment. Existing lines are never touched.
func (r *runner) patchGitignore() error {
	p := localPath(r.o.Dir, gitignoreFile)
	data, err := r.fs.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: read %s", gitignoreFile)
	}
	raw := string(data)
	lines := strings.Split(strings.ToValidUTF8(raw, "\uFFFD"), "\n")

	missing := missingGitignoreEntries(lines)
	if len(missing) == 0 {
		r.rep.ok("%s already contains required entries.", gitignoreFile)
		return nil
	}
	list := strings.Join(missing, ", ")
	if r.o.DryRun {
		r.rep.dry("Would append to %s: %s", gitignoreFile, list)
		return nil
	}

	mode := fs.FileMode(filePerm)
	if info, err := r.fs.Stat(p); err == nil {
		mode = info.Mode().Perm()
	}
	if err := r.writeAtomic(p, mode, appendGitignoreBlock(raw, missing)); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: update %s", gitignoreFile)
	}
	r.log.Debug("gitignore patched", zap.Strings("added", missing))
	r.rep.ok("Updated %s with: %s", gitignoreFile, list)
	return nil
}

// missingGitignoreEntries returns the required entries absent from lines, in
// declaration order. Matching is on exact trimmed text, not ignore semantics.
func missingGitignoreEntries(lines []string) []string {
	present := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			present[t] = struct{}{}
		}
	}
	return lo.Filter(GitignoreEntries(), func(e string, _ int) bool {
		_, ok := present[e]
		return !ok
	})
}

// appendGitignoreBlock keeps existing byte for byte and separates the block
// with a newline when the current last line has content.
func appendGitignoreBlock(existing string, entries []string) string {
	var b strings.Builder
	b.WriteString(existing)
	if existing != "" && strings.TrimSpace(lastLine(existing)) != "" {
		b.WriteString("\n")
	}
	b.WriteString(gitignoreMarker + "\n")
	for _, e := range entries {
		b.WriteString(e + "\n")
	}
	return b.String()
}

func lastLine(s string) string {
	s = strings.TrimSuffix(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
