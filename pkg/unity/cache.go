package unity

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"projgen/pkg/platform"

	"github.com/spf13/afero"
)

// Cache is the existence-check and write side of the aggregate store.
// Implementations assume a single writer per cache directory; no locking is
// done between Exists and Create.
type Cache interface {
	Exists(path string) (bool, error)
	Create(path string) (Aggregate, error)
}

// Aggregate is one generated translation unit being written.
type Aggregate interface {
	// Name returns the path the aggregate is saved under.
	Name() string
	// WriteLine appends text to the aggregate body.
	WriteLine(text string) error
	// Save makes the body visible at Name.
	Save() error
}

// FsCache stores aggregates on an afero filesystem.
type FsCache struct {
	fs afero.Fs
}

// NewFsCache creates a cache over fs. A nil fs means the OS filesystem.
func NewFsCache(fs afero.Fs) *FsCache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FsCache{fs: fs}
}

// Fs returns the underlying filesystem.
func (c *FsCache) Fs() afero.Fs { return c.fs }

// Exists implements Cache.
func (c *FsCache) Exists(path string) (bool, error) {
	return afero.Exists(c.fs, path)
}

// Create implements Cache. Nothing touches the filesystem until Save.
func (c *FsCache) Create(path string) (Aggregate, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrCacheWrite)
	}
	return &fsAggregate{fs: c.fs, path: path}, nil
}

// List returns the regular files directly inside dir, sorted. A missing
// directory yields no entries.
func (c *FsCache) List(dir string) ([]os.FileInfo, error) {
	if !platform.DirExists(c.fs, dir) {
		return nil, nil
	}
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	var files []os.FileInfo
	for _, e := range entries {
		if e.Mode().IsRegular() {
			files = append(files, e)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

// Clear removes every file in dir and returns how many were removed.
func (c *FsCache) Clear(dir string) (int, error) {
	files, err := c.List(dir)
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err := c.fs.Remove(filepath.Join(dir, f.Name())); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", f.Name(), err)
		}
	}
	return len(files), nil
}

type fsAggregate struct {
	fs    afero.Fs
	path  string
	body  bytes.Buffer
	saved bool
}

func (a *fsAggregate) Name() string { return a.path }

func (a *fsAggregate) WriteLine(text string) error {
	if a.saved {
		return fmt.Errorf("%w: %s already saved", ErrCacheWrite, a.path)
	}
	a.body.WriteString(text)
	if n := len(text); n == 0 || text[n-1] != '\n' {
		a.body.WriteByte('\n')
	}
	return nil
}

// Save writes the body to a sibling temp file and renames it into place, so
// a failed save never leaves a partial aggregate under the final name.
func (a *fsAggregate) Save() error {
	if a.saved {
		return nil
	}
	dir := filepath.Dir(a.path)
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrCacheWrite, dir, err)
	}
	tmp := a.path + ".partial"
	if err := afero.WriteFile(a.fs, tmp, a.body.Bytes(), 0o644); err != nil {
		_ = a.fs.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrCacheWrite, a.path, err)
	}
	if err := a.fs.Rename(tmp, a.path); err != nil {
		_ = a.fs.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrCacheWrite, a.path, err)
	}
	a.saved = true
	return nil
}
