package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullBlock = "# Agent bootstrap defaults\n.env\n.tmp/\n.tmp\ntoken.json\ncredentials.json\n"

func TestPatchGitignoreAppendsAfterExistingRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, gitignoreFile, "node_modules/\n", 0o644)

	_, out, err := runIn(t, &fakeFetcher{files: templateFiles()}, Opt{Dir: dir, PatchGitignore: true})
	require.NoError(t, err)

	assert.Equal(t, "node_modules/\n\n"+fullBlock, readFile(t, dir, gitignoreFile))
	assert.Contains(t, out.out.String(),
		"[OK] Updated .gitignore with: .env, .tmp/, .tmp, token.json, credentials.json\n")
}

func TestPatchGitignoreCreatesFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runIn(t, &fakeFetcher{files: templateFiles()}, Opt{Dir: dir, PatchGitignore: true})
	require.NoError(t, err)

	assert.Equal(t, fullBlock, readFile(t, dir, gitignoreFile))
	info, err := os.Stat(filepath.Join(dir, gitignoreFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestPatchGitignoreOnlyMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, gitignoreFile, "  .env  \n.tmp/\n\n", 0o600)

	_, out, err := runIn(t, &fakeFetcher{}, Opt{Dir: dir, PatchGitignore: true})
	require.NoError(t, err)

	want := "  .env  \n.tmp/\n\n# Agent bootstrap defaults\n.tmp\ntoken.json\ncredentials.json\n"
	assert.Equal(t, want, readFile(t, dir, gitignoreFile))
	assert.Contains(t, out.out.String(), "Updated .gitignore with: .tmp, token.json, credentials.json\n")

	info, err := os.Stat(filepath.Join(dir, gitignoreFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestPatchGitignoreSatisfied(t *testing.T) {
	dir := t.TempDir()
	content := "credentials.json\ntoken.json\n.tmp\n.tmp/\n.env\n"
	writeFile(t, dir, gitignoreFile, content, 0o644)

	_, out, err := runIn(t, &fakeFetcher{}, Opt{Dir: dir, PatchGitignore: true})
	require.NoError(t, err)

	assert.Equal(t, content, readFile(t, dir, gitignoreFile))
	assert.Contains(t, out.out.String(), "[OK] .gitignore already contains required entries.\n")
}

func TestPatchGitignoreKeepsExistingLines(t *testing.T) {
	dir := t.TempDir()
	orig := "# deps\nnode_modules/\n*.log\n.env.local\n"
	writeFile(t, dir, gitignoreFile, orig, 0o644)

	_, _, err := runIn(t, &fakeFetcher{}, Opt{Dir: dir, PatchGitignore: true})
	require.NoError(t, err)

	got := readFile(t, dir, gitignoreFile)
	assert.True(t, strings.HasPrefix(got, orig))

	lines := strings.Split(got, "\n")
	for _, e := range GitignoreEntries() {
		assert.Contains(t, lines, e)
	}
}

func TestPatchGitignoreKeepsInvalidUTF8Bytes(t *testing.T) {
	dir := t.TempDir()
	orig := "caf\xe9/\n"
	writeFile(t, dir, gitignoreFile, orig, 0o644)

	_, _, err := runIn(t, &fakeFetcher{}, Opt{Dir: dir, PatchGitignore: true})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, gitignoreFile))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got, []byte(orig)), "existing bytes changed: %q", got)
	assert.Equal(t, orig+"\n"+fullBlock, string(got))
}

func TestMissingGitignoreEntries(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{name: "empty", lines: nil, want: GitignoreEntries()},
		{name: "blank lines", lines: []string{"", "   "}, want: GitignoreEntries()},
		{
			name:  "literal match only",
			lines: []string{".tmp/", "*.json", ".env*"},
			want:  []string{".env", ".tmp", "token.json", "credentials.json"},
		},
		{
			name:  "trimmed",
			lines: []string{"\t.env", "token.json \r"},
			want:  []string{".tmp/", ".tmp", "credentials.json"},
		},
		{
			name:  "commented entry still counts as absent",
			lines: []string{"# .env"},
			want:  GitignoreEntries(),
		},
		{
			name:  "all present",
			lines: []string{"credentials.json", ".tmp", "token.json", ".env", ".tmp/"},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, missingGitignoreEntries(tt.lines))
		})
	}
}

func TestAppendGitignoreBlock(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{name: "empty", existing: "", want: "# Agent bootstrap defaults\n.env\n"},
		{name: "trailing newline", existing: "a\n", want: "a\n\n# Agent bootstrap defaults\n.env\n"},
		{name: "no trailing newline", existing: "a", want: "a\n# Agent bootstrap defaults\n.env\n"},
		{name: "blank last line", existing: "a\n\n", want: "a\n\n# Agent bootstrap defaults\n.env\n"},
		{name: "whitespace last line", existing: "a\n  \n", want: "a\n  \n# Agent bootstrap defaults\n.env\n"},
		{name: "only newline", existing: "\n", want: "\n# Agent bootstrap defaults\n.env\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appendGitignoreBlock(tt.existing, []string{".env"}))
		})
	}
}
