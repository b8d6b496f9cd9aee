package scans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidCheckID = errors.New("invalid check id")

// Store keeps document scans on the local filesystem, one directory per
// check id under the configured root.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Save writes a scan for a check and returns its storage path relative
// to the root.
func (s *Store) Save(ctx context.Context, checkID, filename string, r io.Reader) (string, error) {
	if err := validateCheckID(checkID); err != nil {
		return "", err
	}
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid scan filename %q", filename)
	}

	dir := filepath.Join(s.Root, checkID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Join(checkID, filename), nil
}

// Open returns a reader over a stored scan path as returned by Save.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid scan path %q", path)
	}
	return os.Open(filepath.Join(s.Root, clean))
}

// DeleteAllForCheck removes every scan stored for a check. Deleting a
// check that never had scans succeeds.
func (s *Store) DeleteAllForCheck(ctx context.Context, checkID string) error {
	if err := validateCheckID(checkID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.Root, checkID))
}

func validateCheckID(checkID string) error {
	if _, err := uuid.Parse(checkID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCheckID, checkID)
	}
	return nil
}
