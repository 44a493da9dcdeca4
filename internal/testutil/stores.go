// Package testutil provides in-memory fakes of the stores and the job
// publisher for package tests.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/repository"
)

// Users is an in-memory repository.UserStore.
type Users struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*model.User
	// Err, when set, is returned by every call.
	Err error
}

func NewUsers() *Users { return &Users{byID: map[string]*model.User{}} }

func (u *Users) Create(_ context.Context, email, hash string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return "", u.Err
	}
	for _, x := range u.byID {
		if x.Email == email {
			return "", repository.ErrEmailExists
		}
	}
	u.nextID++
	id := strconv.Itoa(u.nextID)
	u.byID[id] = &model.User{ID: id, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	return id, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	for _, x := range u.byID {
		if x.Email == email {
			cp := *x
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (u *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	x, ok := u.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *x
	return &cp, nil
}

func (u *Users) Count(context.Context) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return int64(len(u.byID)), u.Err
}

// Files is an in-memory repository.FileStore with numeric ids.
type Files struct {
	mu     sync.Mutex
	nextID int
	nodes  map[string]*model.FileNode
	// InsertErr fails Insert; FindErr fails the lookups.
	InsertErr error
	FindErr   error
}

func NewFiles() *Files { return &Files{nodes: map[string]*model.FileNode{}} }

func (f *Files) Insert(_ context.Context, n *model.FileNode) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return "", f.InsertErr
	}
	f.nextID++
	n.ID = strconv.Itoa(f.nextID)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	f.nodes[n.ID] = &cp
	return n.ID, nil
}

func (f *Files) FindByID(_ context.Context, id string) (*model.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(id)
}

func (f *Files) FindByIDForOwner(_ context.Context, id, ownerID string) (*model.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.find(id)
	if err != nil {
		return nil, err
	}
	if n.OwnerID != ownerID {
		return nil, repository.ErrFileNotFound
	}
	return n, nil
}

func (f *Files) find(id string) (*model.FileNode, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	if _, err := strconv.Atoi(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	n, ok := f.nodes[id]
	if !ok {
		return nil, repository.ErrFileNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *Files) List(_ context.Context, ownerID string, parentID *string, page int) ([]*model.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.FileNode{}
	if page < 0 || int64(page) > repository.MaxPage {
		return out, nil
	}
	var match []*model.FileNode
	for _, n := range f.nodes {
		if n.OwnerID != ownerID {
			continue
		}
		if (parentID == nil) != (n.ParentID == nil) {
			continue
		}
		if parentID != nil && *parentID != *n.ParentID {
			continue
		}
		cp := *n
		match = append(match, &cp)
	}
	sort.Slice(match, func(i, j int) bool {
		a, _ := strconv.Atoi(match[i].ID)
		b, _ := strconv.Atoi(match[j].ID)
		return a < b
	})
	start := page * repository.PageSize
	if start >= len(match) {
		return out, nil
	}
	end := start + repository.PageSize
	if end > len(match) {
		end = len(match)
	}
	return append(out, match[start:end]...), nil
}

func (f *Files) SetPublic(_ context.Context, id, ownerID string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.nodes[id]; ok && n.OwnerID == ownerID {
		n.IsPublic = value
	}
	return nil
}

func (f *Files) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.nodes)), nil
}

func (f *Files) Ping(context.Context) error { return nil }
