package repository

import (
	"context"
	"math"

	"github.com/iliyamo/files-manager/internal/model"
)

// PageSize is the fixed number of nodes returned by FileStore.List.
const PageSize = 20

// MaxPage is the largest page whose offset fits in an int64.
const MaxPage = math.MaxInt64 / PageSize

// UserStore persists accounts.
type UserStore interface {
	// Create inserts a user and returns its id, or ErrEmailExists.
	Create(ctx context.Context, email, passwordHash string) (string, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}

// FileStore persists file tree metadata.
type FileStore interface {
	// Insert assigns a new id to n, persists it and returns the id.
	Insert(ctx context.Context, n *model.FileNode) (string, error)
	FindByID(ctx context.Context, id string) (*model.FileNode, error)
	// FindByIDForOwner behaves like FindByID but reports ErrFileNotFound
	// when the node belongs to someone else.
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.FileNode, error)
	// List returns page (zero-based, PageSize items) of ownerID's nodes whose
	// parent is exactly parentID (nil = root), oldest first.  A negative page
	// or one past MaxPage yields an empty slice.
	List(ctx context.Context, ownerID string, parentID *string, page int) ([]*model.FileNode, error)
	// SetPublic flips the visibility of an owned node; it is a no-op when the
	// node does not exist or is not owned by ownerID.
	SetPublic(ctx context.Context, id, ownerID string, value bool) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
