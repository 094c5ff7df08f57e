package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path prefix under which stored images are served.
const URLPrefix = "/uploads/"

// Storage defines the interface for image storage operations
type Storage interface {
	// Save writes the image under a generated name and returns its
	// addressable /uploads/ reference
	Save(originalFilename string, data []byte) (string, error)

	// Get retrieves stored image bytes by reference or bare filename
	Get(reference string) ([]byte, error)
}

// LocalStorage implements the Storage interface using local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance, creating the storage
// root if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save writes the image under a fresh uuid-based name that preserves the
// original file extension. Concurrent saves need no coordination because
// names never collide.
func (l *LocalStorage) Save(originalFilename string, data []byte) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalFilename))
	if err := os.WriteFile(filepath.Join(l.basePath, name), data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return URLPrefix + name, nil
}

// Get retrieves a stored image. The reference may be the full /uploads/ path
// or a bare filename; anything resembling a path is reduced to its base name.
func (l *LocalStorage) Get(reference string) ([]byte, error) {
	name := filepath.Base(strings.TrimPrefix(reference, URLPrefix))
	data, err := os.ReadFile(filepath.Join(l.basePath, name))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}
