package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// Dir is a core.BlobStore over a local directory.
type Dir struct {
	root string
}

// NewDir returns a store rooted at root. The directory is not created or
// checked until the first Stat.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Location returns the data root.
func (d *Dir) Location() string { return d.root }

// Stat reports whether key names a readable regular file under the root.
func (d *Dir) Stat(_ context.Context, key string) error {
	info, err := os.Stat(d.root)
	if err != nil {
		return &core.DataSourceMissingError{Path: d.root, Cause: core.CauseMissingRoot, Err: err}
	}
	if !info.IsDir() {
		return &core.DataSourceMissingError{Path: d.root, Cause: core.CauseMissingRoot, Err: errors.New("not a directory")}
	}

	path, err := d.pathFor(key)
	if err != nil {
		return &core.DataSourceMissingError{Path: key, Cause: core.CauseUnreadable, Err: err}
	}
	info, err = os.Stat(path)
	if err != nil {
		return missingFile(path, err)
	}
	if info.IsDir() {
		return &core.DataSourceMissingError{Path: path, Cause: core.CauseUnreadable, Err: errors.New("is a directory")}
	}

	// Stat does not check permissions; opening does.
	f, err := os.Open(path)
	if err != nil {
		return missingFile(path, err)
	}
	return f.Close()
}

// Open opens the file for key.
func (d *Dir) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := d.pathFor(key)
	if err != nil {
		return nil, &core.DataSourceMissingError{Path: key, Cause: core.CauseUnreadable, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, missingFile(path, err)
	}
	return f, nil
}

// pathFor maps key to a path under the root, rejecting keys that would
// escape it.
func (d *Dir) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	if filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return filepath.Join(d.root, clean), nil
}

func missingFile(path string, err error) error {
	cause := core.CauseUnreadable
	if errors.Is(err, fs.ErrNotExist) {
		cause = core.CauseMissingFile
	}
	return &core.DataSourceMissingError{Path: path, Cause: cause, Err: err}
}
