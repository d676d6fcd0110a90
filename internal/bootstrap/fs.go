package bootstrap

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// TempFile is the handle writeAtomic stages content in before renaming it
// over a governance file or .gitignore.
type TempFile interface {
	io.Writer
	Name() string
	Chmod(fs.FileMode) error
	Sync() error
	Close() error
}

// FS is everything a bootstrap run does to the target directory: stat and
// mkdir for the required dirs, read for README_TEMPLATE.md and .gitignore,
// and temp+rename for every write. Tests swap it to inject failures.
type FS interface {
	Stat(string) (fs.FileInfo, error)
	MkdirAll(string, fs.FileMode) error
	ReadFile(string) ([]byte, error)
	CreateTemp(string, string) (TempFile, error)
	Rename(string, string) error
	Remove(string) error
}

// OSFS applies a run to the real filesystem.
type OSFS struct{}

func (OSFS) Stat(p string) (fs.FileInfo, error)         { return os.Stat(p) }
func (OSFS) MkdirAll(p string, m fs.FileMode) error     { return os.MkdirAll(p, m) }
func (OSFS) ReadFile(p string) ([]byte, error)          { return os.ReadFile(p) }
func (OSFS) CreateTemp(d, pat string) (TempFile, error) { return os.CreateTemp(d, pat) }
func (OSFS) Rename(a, b string) error                   { return os.Rename(a, b) }
func (OSFS) Remove(p string) error                      { return os.Remove(p) }

// localPath turns a slash separated relative path into one under dir.
func localPath(dir, rel string) string {
	return filepath.Join(dir, filepath.FromSlash(rel))
}
