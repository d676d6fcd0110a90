package bootstrap

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
)

// ensureDir makes sure rel exists under the target directory. An existing
// directory is silent.
func (r *runner) ensureDir(rel string) error {
	abs := localPath(r.o.Dir, rel)
	exists, err := r.isDir(abs)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if r.o.DryRun {
		r.rep.dry("mkdir %s", rel)
		return nil
	}
	if err := r.fs.MkdirAll(abs, dirPerm); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: create %s", rel)
	}
	r.log.Debug("directory created", zap.String("dir", abs))
	r.rep.ok("Created directory: %s", rel)
	return nil
}

func (r *runner) isDir(abs string) (bool, error) {
	info, err := r.fs.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return true, nil
	case err == nil:
		return false, errdef.New(errdef.CodeFilesystem, "bootstrap: %s is not a directory", abs)
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: stat %s", abs)
	}
}

// safeWrite writes content to rel unless decideWrite says otherwise. It
// reports whether the file counts as written and why.
func (r *runner) safeWrite(rel, content string) (bool, string, error) {
	abs := localPath(r.o.Dir, rel)
	info, err := r.fs.Stat(abs)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, "", errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: stat %s", rel)
	}
	exists := err == nil

	d := decideWrite(exists, r.o.Overwrite, r.o.DryRun)
	if !d.Writes() {
		return false, d.Reason(), nil
	}

	if parent := path.Dir(rel); parent != "." {
		ok, err := r.isDir(localPath(r.o.Dir, parent))
		if err != nil {
			return false, "", err
		}
		if !ok {
			if d.Preview {
				r.rep.dry("mkdir -p %s", parent)
			} else if err := r.fs.MkdirAll(localPath(r.o.Dir, parent), dirPerm); err != nil {
				return false, "", errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: create %s", parent)
			}
		}
	}

	if d.Preview {
		r.rep.dry("%s file: %s (%d chars)", d.Action, rel, utf8.RuneCountInString(content))
		return true, d.Reason(), nil
	}

	mode := fs.FileMode(filePerm)
	if exists {
		mode = info.Mode().Perm()
	}
	if err := r.writeAtomic(abs, mode, content); err != nil {
		return false, "", errdef.Wrap(errdef.CodeFilesystem, err, "bootstrap: write %s", rel)
	}
	r.log.Debug("file written",
		zap.String("path", abs),
		zap.String("action", string(d.Action)),
		zap.Int("bytes", len(content)),
	)
	return true, d.Reason(), nil
}

// writeAtomic replaces p with data through a temp file in the same
// directory.
func (r *runner) writeAtomic(p string, m fs.FileMode, data string) (err error) {
	f, err := r.fs.CreateTemp(filepath.Dir(p), ".repo-bootstrap-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = r.fs.Remove(tmp)
		}
	}()
	if err = f.Chmod(m); err != nil {
		return err
	}
	if _, err = io.WriteString(f, data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = r.fs.Rename(tmp, p); err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	if err = r.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return r.fs.Rename(tmp, p)
}
