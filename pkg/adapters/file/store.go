// Package file provides filesystem adapters for matrix documents.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/posematch/pkg/domain"
)

// TextExtensions are tried, in order, when a resource path is given without extension.
var TextExtensions = []string{".json", ".txt", ".bytes"}

// Store implements ports.Store using the local filesystem.
// Resource paths are resolved relative to BasePath and may omit the file extension.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to the current directory.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "."
	}
	return &Store{BasePath: basePath}
}

// Resolve maps a resource path to an existing regular file under BasePath.
func (s *Store) Resolve(path string) (string, error) {
	base, err := s.join(path)
	if err != nil {
		return "", err
	}

	candidates := []string{base}
	if filepath.Ext(base) == "" {
		for _, ext := range TextExtensions {
			candidates = append(candidates, base+ext)
		}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to stat resource %s: %w", candidate, err)
		}
		if info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", domain.ErrResourceNotFound, path, s.BasePath)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadText reads the resource at path as text.
// A leading UTF-8 byte order mark is dropped.
func (s *Store) LoadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to read resource %s: %w", resolved, err)
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

// WriteText writes text to path atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
// Relative paths are resolved against BasePath, absolute paths are used as given.
func (s *Store) WriteText(ctx context.Context, path string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: path cannot be empty", domain.ErrWrite)
	}

	destPath := path
	if !filepath.IsAbs(path) {
		destPath = filepath.Join(s.BasePath, path)
	}
	dir := filepath.Dir(destPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to ensure output directory: %v", domain.ErrWrite, err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(destPath)+"-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", domain.ErrWrite, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.WriteString(text); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %v", domain.ErrWrite, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("%w: failed to fsync temp file: %v", domain.ErrWrite, err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %v", domain.ErrWrite, err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("%w: failed to rename temp file: %v", domain.ErrWrite, err)
	}
	return nil
}

// join cleans path and keeps it inside BasePath.
func (s *Store) join(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes %s", domain.ErrResourceNotFound, path, s.BasePath)
	}
	return filepath.Join(s.BasePath, clean), nil
}
