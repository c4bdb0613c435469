package service

import (
	"context"
	"fmt"

	"bookcatalog-backend/internal/domains/user"
	"bookcatalog-backend/pkg/jwt"
	"bookcatalog-backend/pkg/password"
)

// authService implements user.Service.
type authService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewAuthService creates the service instance. Dependencies are
// injected through the constructor.
func NewAuthService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// Register creates a new account and returns a bearer token for it.
func (s *authService) Register(ctx context.Context, req user.RegisterRequest) (*user.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, user.ErrUsernameTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Username:       req.Username,
		HashedPassword: hash,
		IsActive:       true,
	}

	// The DB unique constraint backs up the existence check, so a
	// concurrent register of the same username still maps to
	// ErrUsernameTaken instead of a 500.
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return s.mintToken(newUser.Username)
}

// Login authenticates and mints a token. The failure mode never reveals
// whether the username or the password was wrong.
func (s *authService) Login(ctx context.Context, username, pass string) (*user.TokenResponse, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == user.ErrUserNotFound {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !password.Verify(pass, u.HashedPassword) {
		return nil, user.ErrInvalidCredentials
	}

	return s.mintToken(u.Username)
}

// CurrentUser resolves a token to a live user. The subject is re-looked
// up on every call rather than trusted from the payload.
func (s *authService) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	subject, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, user.ErrUnauthenticated
	}

	u, err := s.repo.FindByUsername(ctx, subject)
	if err != nil {
		if err == user.ErrUserNotFound {
			return nil, user.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.IsActive {
		return nil, user.ErrUnauthenticated
	}

	return u, nil
}

func (s *authService) mintToken(username string) (*user.TokenResponse, error) {
	token, err := s.jwtManager.Generate(username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &user.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
