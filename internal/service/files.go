package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/access"
	"github.com/iliyamo/files-manager/internal/blob"
	"github.com/iliyamo/files-manager/internal/imaging"
	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/repository"
)

// UploadInput is a decoded POST /files body.  ParentID nil means root.
type UploadInput struct {
	Name     string
	Type     string
	ParentID *string
	IsPublic bool
	Data     string // base64, required unless Type is folder
}

// FileService implements the upload pipeline and file reads.
type FileService struct {
	files repository.FileStore
	blobs blob.Store
	jobs  JobPublisher
	log   *zap.Logger
}

func NewFileService(files repository.FileStore, blobs blob.Store, jobs JobPublisher, log *zap.Logger) *FileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileService{files: files, blobs: blobs, jobs: jobs, log: log}
}

// Upload validates in, stores the content and records the node.  Nothing is
// persisted when validation or the parent check fails.
func (s *FileService) Upload(ctx context.Context, ownerID string, in UploadInput) (*model.FileNode, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	kind, ok := model.ParseKind(in.Type)
	if !ok {
		return nil, ErrMissingType
	}
	var data []byte
	if kind != model.KindFolder {
		if in.Data == "" {
			return nil, ErrMissingData
		}
		var err error
		if data, err = base64.StdEncoding.DecodeString(in.Data); err != nil {
			return nil, ErrMissingData
		}
	}

	if in.ParentID != nil {
		parent, err := s.files.FindByID(ctx, *in.ParentID)
		switch {
		case errors.Is(err, repository.ErrFileNotFound), errors.Is(err, repository.ErrInvalidID):
			return nil, ErrParentNotFound
		case err != nil:
			return nil, fmt.Errorf("find parent: %w", err)
		case !parent.IsFolder():
			return nil, ErrParentNotFolder
		}
	}

	node := &model.FileNode{
		OwnerID:  ownerID,
		Name:     in.Name,
		Kind:     kind,
		IsPublic: in.IsPublic,
		ParentID: in.ParentID,
	}
	if kind == model.KindFolder {
		if _, err := s.files.Insert(ctx, node); err != nil {
			return nil, fmt.Errorf("insert folder: %w", err)
		}
		return node, nil
	}

	node.BlobKey = blob.NewKey()
	if err := s.blobs.Put(ctx, node.BlobKey, data); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}
	if _, err := s.files.Insert(ctx, node); err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), node.BlobKey); derr != nil {
			s.log.Warn("orphan blob left behind", zap.String("blob_key", node.BlobKey), zap.Error(derr))
		}
		return nil, fmt.Errorf("insert file: %w", err)
	}

	if kind == model.KindImage && s.jobs != nil {
		if err := s.jobs.PublishThumbnail(ctx, node.ID, ownerID); err != nil {
			s.log.Warn("thumbnail job not enqueued", zap.String("file_id", node.ID), zap.Error(err))
		}
	}
	return node, nil
}

// Get returns the node when requesterID may read it.  Absence, denial and
// lookup failures all surface as ErrNotFound.
func (s *FileService) Get(ctx context.Context, requesterID, id string) (*model.FileNode, error) {
	n, err := s.files.FindByID(ctx, id)
	if err != nil {
		s.logLookup(id, err)
		return nil, ErrNotFound
	}
	if !access.CanRead(n, requesterID) {
		return nil, ErrNotFound
	}
	return n, nil
}

// List returns one page of the owner's nodes under parentID.
func (s *FileService) List(ctx context.Context, ownerID string, parentID *string, page int) ([]*model.FileNode, error) {
	return s.files.List(ctx, ownerID, parentID, page)
}

// SetPublic changes the visibility of an owned node and returns it updated.
func (s *FileService) SetPublic(ctx context.Context, ownerID, id string, value bool) (*model.FileNode, error) {
	n, err := s.files.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		s.logLookup(id, err)
		return nil, ErrNotFound
	}
	if !access.CanWrite(n, ownerID) {
		return nil, ErrNotFound
	}
	if err := s.files.SetPublic(ctx, id, ownerID, value); err != nil {
		return nil, fmt.Errorf("set public: %w", err)
	}
	n.IsPublic = value
	return n, nil
}

// Content returns the bytes of a readable file or one of its derivatives.
// size 0 selects the original.
func (s *FileService) Content(ctx context.Context, requesterID, id string, size int) ([]byte, *model.FileNode, error) {
	n, err := s.Get(ctx, requesterID, id)
	if err != nil {
		return nil, nil, err
	}
	if n.IsFolder() {
		return nil, nil, ErrFolderContent
	}
	key := n.BlobKey
	if size != 0 {
		if !imaging.ValidWidth(size) {
			return nil, nil, ErrInvalidSize
		}
		key = imaging.DerivativeKey(key, size)
	}
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			s.log.Warn("blob read failed", zap.String("blob_key", key), zap.Error(err))
		}
		return nil, nil, ErrNotFound
	}
	return data, n, nil
}

func (s *FileService) logLookup(id string, err error) {
	if errors.Is(err, repository.ErrFileNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return
	}
	s.log.Warn("file lookup failed", zap.String("file_id", id), zap.Error(err))
}
