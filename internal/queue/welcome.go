package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/repository"
)

// WelcomeProcessor greets newly registered users.  Delivery is a log line
// for now.
type WelcomeProcessor struct {
	Users repository.UserStore
	Log   *zap.Logger
}

func (p *WelcomeProcessor) Handle(ctx context.Context, body []byte) error {
	var job WelcomeJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}
	u, err := p.Users.GetByID(ctx, job.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if p.Log != nil {
		p.Log.Info("Welcome "+u.Email, zap.String("user_id", u.ID))
	}
	return nil
}
