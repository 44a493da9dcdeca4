// This file defines the MySQL file repository.  A row in `files` is either a
// folder or a leaf; the tree is expressed through the nullable parent_id
// column (NULL = root).

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/files-manager/internal/model"
)

const fileColumns = "id, user_id, name, type, is_public, parent_id, blob_key, created_at"

// FileRepo encapsulates all database queries related to file nodes.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo constructs a FileRepo with the provided DB handle.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// Insert persists n and returns the auto-generated id, which is also stored
// on n.  Ids are monotonic, which gives List its insertion ordering.
func (r *FileRepo) Insert(ctx context.Context, n *model.FileNode) (string, error) {
	ownerID, err := parseID(n.OwnerID)
	if err != nil {
		return "", err
	}
	var parent any
	if n.ParentID != nil {
		pid, err := parseID(*n.ParentID)
		if err != nil {
			return "", err
		}
		parent = pid
	}
	var blobKey any
	if n.BlobKey != "" {
		blobKey = n.BlobKey
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	const q = `INSERT INTO files (user_id, name, type, is_public, parent_id, blob_key, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, ownerID, n.Name, string(n.Kind), n.IsPublic, parent, blobKey, n.CreatedAt)
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	n.ID = formatID(uint64(id))
	return n.ID, nil
}

// FindByID fetches a node regardless of owner.
func (r *FileRepo) FindByID(ctx context.Context, id string) (*model.FileNode, error) {
	fid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE id = ? LIMIT 1", fid)
	return scanFile(row)
}

// FindByIDForOwner fetches a node only if it belongs to ownerID.
func (r *FileRepo) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.FileNode, error) {
	fid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	uid, err := parseID(ownerID)
	if err != nil {
		return nil, ErrFileNotFound
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id = ? AND user_id = ? LIMIT 1", fid, uid)
	return scanFile(row)
}

// List returns one page of ownerID's nodes directly under parentID.
func (r *FileRepo) List(ctx context.Context, ownerID string, parentID *string, page int) ([]*model.FileNode, error) {
	out := []*model.FileNode{}
	if page < 0 || int64(page) > MaxPage {
		return out, nil
	}
	uid, err := parseID(ownerID)
	if err != nil {
		return out, nil
	}

	var rows *sql.Rows
	if parentID == nil {
		const q = "SELECT " + fileColumns + ` FROM files
		           WHERE user_id = ? AND parent_id IS NULL ORDER BY id LIMIT ? OFFSET ?`
		rows, err = r.db.QueryContext(ctx, q, uid, PageSize, page*PageSize)
	} else {
		pid, perr := parseID(*parentID)
		if perr != nil {
			// no node can have an unparseable parent
			return out, nil
		}
		const q = "SELECT " + fileColumns + ` FROM files
		           WHERE user_id = ? AND parent_id = ? ORDER BY id LIMIT ? OFFSET ?`
		rows, err = r.db.QueryContext(ctx, q, uid, pid, PageSize, page*PageSize)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPublic updates is_public when the node belongs to ownerID.
func (r *FileRepo) SetPublic(ctx context.Context, id, ownerID string, value bool) error {
	fid, err := parseID(id)
	if err != nil {
		return nil
	}
	uid, err := parseID(ownerID)
	if err != nil {
		return nil
	}
	_, err = r.db.ExecContext(ctx, "UPDATE files SET is_public = ? WHERE id = ? AND user_id = ?", value, fid, uid)
	return err
}

// Count returns the number of nodes of all users.
func (r *FileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&n)
	return n, err
}

// Ping verifies the connection pool can reach the server.
func (r *FileRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(s rowScanner) (*model.FileNode, error) {
	var (
		id, ownerID uint64
		kind        string
		parent      sql.NullInt64
		blobKey     sql.NullString
		n           model.FileNode
	)
	err := s.Scan(&id, &ownerID, &n.Name, &kind, &n.IsPublic, &parent, &blobKey, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	n.ID = formatID(id)
	n.OwnerID = formatID(ownerID)
	n.Kind = model.FileKind(kind)
	if parent.Valid {
		p := formatID(uint64(parent.Int64))
		n.ParentID = &p
	}
	n.BlobKey = blobKey.String
	return &n, nil
}
