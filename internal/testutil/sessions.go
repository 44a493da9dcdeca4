package testutil

import (
	"context"
	"strconv"
	"sync"
)

// Sessions is an in-memory session store handing out sequential tokens.
type Sessions struct {
	mu     sync.Mutex
	n      int
	tokens map[string]string
	// Down makes Resolve fail closed and Create fail, as an unreachable
	// cache would.
	Down bool
}

func NewSessions() *Sessions { return &Sessions{tokens: map[string]string{}} }

func (s *Sessions) Create(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return "", errDown
	}
	s.n++
	tok := "tok-" + strconv.Itoa(s.n)
	s.tokens[tok] = userID
	return tok, nil
}

func (s *Sessions) Resolve(_ context.Context, token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return "", false
	}
	id, ok := s.tokens[token]
	return id, ok
}

func (s *Sessions) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return errDown
	}
	delete(s.tokens, token)
	return nil
}

type downError struct{}

func (downError) Error() string { return "session store unavailable" }

var errDown error = downError{}

// Alive reports whether the store is up.
func (s *Sessions) Alive(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.Down
}
