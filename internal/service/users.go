package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/repository"
	"github.com/iliyamo/files-manager/internal/utils"
)

// SessionStore is the subset of the session cache the services rely on.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, bool)
	Revoke(ctx context.Context, token string) error
}

// JobPublisher enqueues background jobs.
type JobPublisher interface {
	PublishThumbnail(ctx context.Context, fileID, userID string) error
	PublishWelcome(ctx context.Context, userID string) error
}

// UserService handles signup and the session lifecycle.
type UserService struct {
	users      repository.UserStore
	sessions   SessionStore
	jobs       JobPublisher
	bcryptCost int
	log        *zap.Logger
}

func NewUserService(users repository.UserStore, sessions SessionStore, jobs JobPublisher, bcryptCost int, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, sessions: sessions, jobs: jobs, bcryptCost: bcryptCost, log: log}
}

// Signup creates an account and enqueues its welcome job.  A failed enqueue
// is logged and does not fail the signup.
func (s *UserService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyExist
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	id, err := s.users.Create(ctx, email, hash)
	if errors.Is(err, repository.ErrEmailExists) {
		return nil, ErrAlreadyExist
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.jobs != nil {
		if err := s.jobs.PublishWelcome(ctx, id); err != nil {
			s.log.Warn("welcome job not enqueued", zap.String("user_id", id), zap.Error(err))
		}
	}
	return &model.User{ID: id, Email: email}, nil
}

// Connect checks credentials and opens a new session.  Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Connect(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Authenticate resolves a token to a live user.  Every failure, including
// infrastructure errors, is reported as ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	userID, ok := s.sessions.Resolve(ctx, token)
	if !ok {
		return nil, ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn("user lookup failed during auth", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, ErrUnauthorized
	}
	return u, nil
}

// Disconnect revokes the session behind token.
func (s *UserService) Disconnect(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
