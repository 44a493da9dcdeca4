package testutil

import (
	"context"
	"sync"
)

// Publisher records published jobs instead of sending them.
type Publisher struct {
	mu         sync.Mutex
	Thumbnails [][2]string // {fileID, userID}
	Welcomes   []string
	Err        error
}

func (p *Publisher) PublishThumbnail(_ context.Context, fileID, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Thumbnails = append(p.Thumbnails, [2]string{fileID, userID})
	return nil
}

func (p *Publisher) PublishWelcome(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Welcomes = append(p.Welcomes, userID)
	return nil
}
