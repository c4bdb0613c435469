package user

import "context"

// Service is the authentication business logic contract.
type Service interface {
	// Register creates a new account and mints a token for it.
	// Returns ErrUsernameTaken when the username already exists.
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)

	// Login authenticates and mints a token. Unknown usernames and
	// wrong passwords both yield ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*TokenResponse, error)

	// CurrentUser resolves a bearer token back to a live, active user.
	// Invalid/expired tokens, deleted users and inactive accounts all
	// yield ErrUnauthenticated.
	CurrentUser(ctx context.Context, token string) (*User, error)
}
