package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/blob"
	"github.com/iliyamo/files-manager/internal/imaging"
	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/repository"
)

// ThumbnailProcessor writes the fixed-width derivatives of an image next to
// its original blob.  Derivatives are overwritten, so redelivery is safe.
type ThumbnailProcessor struct {
	Files repository.FileStore
	Blobs blob.Store
	Log   *zap.Logger
}

// Handle decodes a ThumbnailJob and processes it.
func (p *ThumbnailProcessor) Handle(ctx context.Context, body []byte) error {
	var job ThumbnailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	return p.Process(ctx, job)
}

func (p *ThumbnailProcessor) Process(ctx context.Context, job ThumbnailJob) error {
	if job.FileID == "" {
		return ErrMissingFileID
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}

	node, err := p.Files.FindByIDForOwner(ctx, job.FileID, job.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return ErrFileNotFound
		}
		return fmt.Errorf("find file: %w", err)
	}
	if node.Kind != model.KindImage || node.BlobKey == "" {
		return ErrNotImage
	}

	src, err := p.Blobs.Get(ctx, node.BlobKey)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}
	for _, w := range imaging.Widths {
		thumb, err := imaging.Thumbnail(src, w)
		if err != nil {
			return fmt.Errorf("thumbnail %d: %w", w, err)
		}
		if err := p.Blobs.Put(ctx, imaging.DerivativeKey(node.BlobKey, w), thumb); err != nil {
			return fmt.Errorf("store thumbnail %d: %w", w, err)
		}
	}

	if p.Log != nil {
		p.Log.Info("thumbnails generated", zap.String("file_id", node.ID), zap.Ints("widths", imaging.Widths))
	}
	return nil
}
