package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
	"github.com/unkn0wn-root/repo-bootstrap/internal/fetch"
)

var testSource = fetch.Source{Owner: "acme", Repo: "templates", Ref: "main"}

func templateFiles() map[string]string {
	return map[string]string{
		"AGENTS.md":                        "# Agents\n",
		"README_TEMPLATE.md":               "# <Project Name>\n\nAbout <Project Name>.\n",
		"directives/DIRECTIVE_TEMPLATE.md": "# Directive\n",
		"directives/project_init.md":       "# Project init\n",
		".agent/codex_system_prompt.md":    "You are an agent.\n",
	}
}

// templateServer serves files under /acme/templates/main/ and 404s the rest.
func templateServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	prefix := "/" + testSource.Owner + "/" + testSource.Repo + "/" + testSource.Ref + "/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, prefix)]
		if !ok || !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newHTTPFetcher(t *testing.T, base string) fetch.Client {
	t.Helper()
	c, err := fetch.NewClient(&http.Client{}, testSource)
	require.NoError(t, err)
	return c.WithBase(base)
}

// unreachableBase returns the URL of a server that is already closed.
func unreachableBase(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

type fakeFetcher struct {
	files map[string]string
	calls []string
}

func (f *fakeFetcher) Source() fetch.Source { return testSource }

func (f *fakeFetcher) URL(p string) string {
	return fetch.BuildRawURL("https://raw.example.test", testSource.Owner, testSource.Repo, testSource.Ref, p)
}

func (f *fakeFetcher) Fetch(_ context.Context, p string) fetch.Result {
	f.calls = append(f.calls, p)
	res := fetch.Result{Path: p, URL: f.URL(p)}
	text, ok := f.files[p]
	if !ok {
		res.Err = errdef.Wrap(errdef.CodeFetch, errors.New("unexpected status: 404 Not Found"), "")
		return res
	}
	res.Text = text
	return res
}

type runOutput struct {
	out bytes.Buffer
	err bytes.Buffer
}

func runIn(t *testing.T, f Fetcher, o Opt) (Summary, *runOutput, error) {
	t.Helper()
	var ro runOutput
	o.Out = &ro.out
	o.Err = &ro.err
	sum, err := New(f).Run(context.Background(), o)
	return sum, &ro, err
}

func writeFile(t *testing.T, dir, rel, content string, mode fs.FileMode) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), mode))
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

// snapshot captures every path under root with its mode and content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			out[rel] = info.Mode().String()
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[rel] = info.Mode().String() + " " + string(b)
		return nil
	})
	require.NoError(t, err)
	return out
}

func paths(outs []Outcome) []string {
	out := make([]string, 0, len(outs))
	for _, o := range outs {
		out = append(out, o.Path)
	}
	return out
}

// failFS fails MkdirAll for one path and defers everything else to OSFS.
type failFS struct {
	OSFS
	failDir string
}

func (f failFS) MkdirAll(p string, m fs.FileMode) error {
	if filepath.Base(p) == f.failDir {
		return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrPermission}
	}
	return f.OSFS.MkdirAll(p, m)
}
