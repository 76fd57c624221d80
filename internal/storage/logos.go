// Package storage keeps uploaded airline logos on disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LogoStore writes each upload under a per-airline directory with a
// generated filename, so concurrent uploads never overwrite each other.
type LogoStore struct {
	baseDir string
}

func NewLogoStore(baseDir string) *LogoStore {
	return &LogoStore{baseDir: baseDir}
}

// Save streams the upload to disk and returns the path relative to the
// store root, which is what gets persisted on the airline row.
func (s *LogoStore) Save(airlineID int64, ext string, r io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, "logos", fmt.Sprintf("%d", airlineID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create logo dir: %w", err)
	}

	name := fmt.Sprintf("logo_%s%s", uuid.NewString(), ext)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create logo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write logo file: %w", err)
	}

	return filepath.Join("logos", fmt.Sprintf("%d", airlineID), name), nil
}

// Path resolves a stored relative path, rejecting anything that escapes the
// store root.
func (s *LogoStore) Path(relPath string) (string, error) {
	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid logo path %q", relPath)
	}
	full := filepath.Join(s.baseDir, clean)
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}
