// ABOUTME: Request path resolution: traversal rejection, containment checks, and index.html
// ABOUTME: fallback for directories. Every miss is reported as a *NotFoundError.
package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Causes attached to a *NotFoundError when a request path is rejected before
// touching the filesystem. Callers use them to tell probes from ordinary misses.
var (
	ErrInvalidPath = errors.New("path contains forbidden characters")
	ErrEscapesRoot = errors.New("path escapes root")
)

var errNotRegular = errors.New("not a regular file")

// Asset is a resolved, servable file under a Root.
type Asset struct {
	// Name is the slash-separated path of the file relative to the root.
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time

	path string
	fs   afero.Fs
}

// Open opens the asset for reading. The caller must close the file.
func (a *Asset) Open() (afero.File, error) {
	return a.fs.Open(a.path)
}

// Resolve maps requestPath to a regular file under the root. A path naming a
// directory resolves to that directory's index.html.
func (r *Root) Resolve(requestPath string) (*Asset, error) {
	rel, err := normalize(requestPath)
	if err != nil {
		return nil, notFound(requestPath, err)
	}

	full := filepath.Join(r.dir, filepath.FromSlash(rel))
	if !within(r.dir, full) {
		return nil, notFound(requestPath, ErrEscapesRoot)
	}

	info, err := r.fs.Stat(full)
	if err != nil {
		return nil, notFound(requestPath, err)
	}
	if info.IsDir() {
		full = filepath.Join(full, IndexFile)
		info, err = r.fs.Stat(full)
		if err != nil {
			return nil, notFound(requestPath, err)
		}
	}
	if !info.Mode().IsRegular() {
		return nil, notFound(requestPath, errNotRegular)
	}
	if err := r.checkRealPath(full); err != nil {
		return nil, notFound(requestPath, err)
	}

	name, err := filepath.Rel(r.dir, full)
	if err != nil {
		return nil, notFound(requestPath, err)
	}

	return &Asset{
		Name:        filepath.ToSlash(name),
		ContentType: ContentType(full),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		path:        full,
		fs:          r.fs,
	}, nil
}

// ReadFile resolves requestPath and returns the file's bytes unchanged.
func (r *Root) ReadFile(requestPath string) ([]byte, *Asset, error) {
	asset, err := r.Resolve(requestPath)
	if err != nil {
		return nil, nil, err
	}
	data, err := afero.ReadFile(r.fs, asset.path)
	if err != nil {
		return nil, nil, notFound(requestPath, err)
	}
	return data, asset, nil
}

// checkRealPath rejects files whose symlink-resolved location lies outside the
// symlink-resolved root.
func (r *Root) checkRealPath(full string) error {
	if r.realDir == "" {
		return nil
	}
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return err
	}
	if !within(r.realDir, resolved) {
		return ErrEscapesRoot
	}
	return nil
}

// normalize turns a URL path into a slash-separated path relative to the root.
// Empty and "." segments are dropped and ".." pops the previous segment; a ".."
// with nothing left to pop would climb above the root and is rejected.
func normalize(requestPath string) (string, error) {
	if strings.ContainsAny(requestPath, "\x00\\") {
		return "", ErrInvalidPath
	}

	var segs []string
	for _, seg := range strings.Split(requestPath, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segs) == 0 {
				return "", ErrEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}
	return strings.Join(segs, "/"), nil
}

// within reports whether target is base or lies beneath it.
func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
