// Package jsonfile provides a file-backed implementation of the
// storage.Storage interface. Each collection name maps to one JSON file on
// disk; writes go through a temp file and a rename so a crash mid-write
// never leaves a truncated document behind.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/records-api/internal/storage"
)

// Files maps collection names to file paths.
type Files struct {
	paths map[string]string
}

// New returns a Files backend. paths maps each collection name to the file
// that holds it.
func New(paths map[string]string) *Files {
	cp := make(map[string]string, len(paths))
	for name, p := range paths {
		cp[name] = p
	}
	return &Files{paths: cp}
}

func (f *Files) pathFor(name string) (string, error) {
	p, ok := f.paths[name]
	if !ok || p == "" {
		return "", fmt.Errorf("jsonfile: no path configured for collection %q", name)
	}
	return p, nil
}

// Read returns the file contents for name, or storage.ErrNotExist when the
// file has never been written.
func (f *Files) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.pathFor(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Read: %w", err)
	}
	return data, nil
}

// Write atomically replaces the file for name with doc using the
// temp-file, fsync, rename pattern.
func (f *Files) Write(ctx context.Context, name string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.pathFor(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile.Write: create dir: %w", err)
	}

	// The replacement keeps the permissions of the file it replaces.
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile.Write: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Write: chmod temp: %w", err)
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Write: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Write: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Write: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Write: rename: %w", err)
	}
	return nil
}
