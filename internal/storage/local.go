package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrAssetNotFound = errors.New("asset not found")

// Store persists uploaded course assets and serves them back by ID.
type Store interface {
	// Save writes the content and returns the generated asset ID.
	Save(filename string, r io.Reader) (string, error)

	// Open returns the content and the original filename for an asset ID.
	Open(id string) (io.ReadCloser, string, error)

	Delete(id string) error
}

// LocalStore keeps assets on the local filesystem. Each asset is stored as
// "<uuid>_<original-name>" so IDs never collide and the original name
// survives the round trip.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(filename string, r io.Reader) (string, error) {
	// Strip any path components a hostile client might send.
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		base = "upload"
	}

	id := uuid.New().String() + "_" + base

	f, err := os.Create(filepath.Join(s.dir, id))
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write asset content: %w", err)
	}

	return id, nil
}

func (s *LocalStore) Open(id string) (io.ReadCloser, string, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrAssetNotFound
		}
		return nil, "", fmt.Errorf("failed to open asset: %w", err)
	}

	return f, originalName(id), nil
}

func (s *LocalStore) Delete(id string) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// resolve validates the ID and maps it to a path inside the store directory.
func (s *LocalStore) resolve(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.Contains(id, "..") {
		return "", ErrAssetNotFound
	}
	return filepath.Join(s.dir, id), nil
}

// originalName recovers the client-supplied filename from an asset ID.
func originalName(id string) string {
	if _, name, ok := strings.Cut(id, "_"); ok && name != "" {
		return name
	}
	return id
}
