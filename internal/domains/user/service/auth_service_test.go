package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/user"
	"bookcatalog-backend/pkg/jwt"
)

// fakeRepo is an in-memory user.Repository for service tests.
type fakeRepo struct {
	byUsername map[string]*user.User
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byUsername: map[string]*user.User{}}
}

func (f *fakeRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := f.byUsername[u.Username]; ok {
		return user.ErrUsernameTaken
	}
	f.nextID++
	u.ID = f.nextID
	cloned := *u
	f.byUsername[u.Username] = &cloned
	return nil
}

func (f *fakeRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (f *fakeRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func newTestService() (user.Service, *fakeRepo) {
	repo := newFakeRepo()
	manager := jwt.NewManager("test-secret", 30*time.Minute)
	return NewAuthService(repo, manager), repo
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newTestService()

	token, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req := user.RegisterRequest{Username: "alice", Password: "secret123"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "ab", Password: "secret123"})
	assert.Error(t, err, "short username")

	_, err = svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "short"})
	assert.Error(t, err, "short password")
}

func TestLoginRoundTripsSubject(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "secret123", u.HashedPassword, "password must be stored hashed")
}

func TestLoginFailureIsUniform(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	// Unknown user and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(ctx, "nobody", "whatever")
	_, wrongPassErr := svc.Login(ctx, "alice", "wrong-password")

	assert.ErrorIs(t, unknownErr, user.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, user.ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPassErr)
}

func TestCurrentUserRejectsBadTokens(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	// Token signed with another secret.
	other := jwt.NewManager("other-secret", 30*time.Minute)
	forged, err := other.Generate("alice")
	require.NoError(t, err)

	_, err = svc.CurrentUser(ctx, forged)
	assert.ErrorIs(t, err, user.ErrUnauthenticated)
}

func TestCurrentUserRequiresLiveActiveUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	token, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	// Deactivated account
	repo.byUsername["alice"].IsActive = false
	_, err = svc.CurrentUser(ctx, token.AccessToken)
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	// Deleted account: valid token, subject no longer exists.
	delete(repo.byUsername, "alice")
	_, err = svc.CurrentUser(ctx, token.AccessToken)
	assert.ErrorIs(t, err, user.ErrUnauthenticated)
}
