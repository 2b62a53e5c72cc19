// ABOUTME: Root directory handle for a pre-rendered archive, validated once at startup.
// ABOUTME: Wraps the backing filesystem read-only so no request can mutate the archive.
package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// IndexFile is served when a request path names a directory.
const IndexFile = "index.html"

// Root is a validated, read-only view of an archive directory. It holds no
// mutable state and is safe for concurrent use.
type Root struct {
	dir string
	fs  afero.Fs

	// realDir is dir with symlinks evaluated. Empty for non-OS filesystems,
	// which have no symlinks to escape through.
	realDir string
}

// Open validates dir on the host filesystem and returns a Root for it.
func Open(dir string) (*Root, error) {
	return OpenRoot(afero.NewOsFs(), dir)
}

// OpenRoot validates that dir exists on fsys, is a directory, and can be listed.
// Any failure is returned as a *ConfigurationError.
func OpenRoot(fsys afero.Fs, dir string) (*Root, error) {
	if dir == "" {
		return nil, &ConfigurationError{Root: dir, Reason: "path is empty"}
	}

	_, osBacked := fsys.(*afero.OsFs)

	abs := filepath.Clean(dir)
	if osBacked {
		var err error
		abs, err = filepath.Abs(dir)
		if err != nil {
			return nil, &ConfigurationError{Root: dir, Reason: "cannot make path absolute", Cause: err}
		}
	}

	info, err := fsys.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{Root: dir, Reason: "does not exist"}
		}
		return nil, &ConfigurationError{Root: dir, Reason: "cannot stat", Cause: err}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Root: dir, Reason: "not a directory"}
	}

	if err := checkListable(fsys, abs); err != nil {
		return nil, &ConfigurationError{Root: dir, Reason: "not readable", Cause: err}
	}

	root := &Root{
		dir: abs,
		fs:  afero.NewReadOnlyFs(fsys),
	}
	if osBacked {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, &ConfigurationError{Root: dir, Reason: "cannot resolve symlinks", Cause: err}
		}
		root.realDir = resolved
	}
	return root, nil
}

func checkListable(fsys afero.Fs, dir string) error {
	f, err := fsys.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Dir returns the absolute, cleaned root path.
func (r *Root) Dir() string {
	return r.dir
}
