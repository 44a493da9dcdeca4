// Package blob persists opaque file contents under flat keys.  Metadata
// lives in the repository layer; a blob key is the only link between them.
package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/files-manager/internal/config"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that could escape the store root.
var ErrInvalidKey = errors.New("invalid blob key")

// Store is a flat key/value store for file contents.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the blob; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh, collision-free blob key.
func NewKey() string { return uuid.NewString() }

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.FolderPath)
	case "s3":
		return NewS3(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
}
