package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/files-manager/internal/testutil"
)

func newUserService(t *testing.T) (*UserService, *testutil.Users, *testutil.Sessions, *testutil.Publisher) {
	t.Helper()
	users := testutil.NewUsers()
	sessions := testutil.NewSessions()
	pub := &testutil.Publisher{}
	return NewUserService(users, sessions, pub, bcrypt.MinCost, nil), users, sessions, pub
}

func TestSignup(t *testing.T) {
	svc, users, _, pub := newUserService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, " Bob@Dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, []string{u.ID}, pub.Welcomes)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "toto1234!", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("toto1234!")))

	_, err = svc.Signup(ctx, "bob@dylan.com", "other")
	assert.ErrorIs(t, err, ErrAlreadyExist)
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _, pub := newUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "x")
	assert.ErrorIs(t, err, ErrMissingEmail)
	_, err = svc.Signup(ctx, "a@b.c", "")
	assert.ErrorIs(t, err, ErrMissingPassword)
	_, err = svc.Signup(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingEmail, "email is checked first")
	assert.Empty(t, pub.Welcomes)
}

func TestSignup_PublishFailureIgnored(t *testing.T) {
	svc, _, _, pub := newUserService(t)
	pub.Err = errors.New("broker down")

	u, err := svc.Signup(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
}

func TestSignup_StoreError(t *testing.T) {
	svc, users, _, _ := newUserService(t)
	users.Err = errors.New("db down")

	_, err := svc.Signup(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyExist)
}

func TestConnectAuthenticateDisconnect(t *testing.T) {
	svc, _, _, _ := newUserService(t)
	ctx := context.Background()
	u, err := svc.Signup(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)

	_, err = svc.Connect(ctx, "bob@dylan.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Connect(ctx, "ghost@dylan.com", "toto1234!")
	assert.ErrorIs(t, err, ErrUnauthorized)

	t1, err := svc.Connect(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)
	t2, err := svc.Connect(ctx, "BOB@dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	me, err := svc.Authenticate(ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	require.NoError(t, svc.Disconnect(ctx, t1))
	_, err = svc.Authenticate(ctx, t1)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// the other session is unaffected
	_, err = svc.Authenticate(ctx, t2)
	assert.NoError(t, err)
}

func TestAuthenticate_FailsClosed(t *testing.T) {
	svc, users, sessions, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	tok, err := svc.Connect(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	sessions.Down = true
	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
	sessions.Down = false

	users.Err = errors.New("db down")
	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	svc, _, sessions, _ := newUserService(t)
	ctx := context.Background()
	tok, err := sessions.Create(ctx, "999")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
