package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jwt-todo/internal/domain"
	"jwt-todo/internal/repository"
)

// PasswordHasher digests and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenService issues and verifies bearer tokens carrying a user's public id.
type TokenService interface {
	Issue(subject string, now time.Time) (string, time.Time, error)
	Verify(token string, now time.Time) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService turns credentials into tokens and tokens back into users.
type AuthService interface {
	Login(ctx context.Context, name, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenService
	now    func() time.Time
}

// NewAuthService builds an AuthService. A nil clock defaults to time.Now.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenService, clock func() time.Time) AuthService {
	if clock == nil {
		clock = time.Now
	}
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    clock,
	}
}

// Login fails with ErrAuthenticationInvalid whether the name is unknown or the
// password is wrong.
func (s *authService) Login(ctx context.Context, name, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: missing credentials", ErrAuthenticationInvalid)
	}

	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrAuthenticationInvalid)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: password mismatch", ErrAuthenticationInvalid)
	}

	token, expiresAt, err := s.tokens.Issue(user.PublicID, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves token to a live user.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrAuthenticationMissing
	}

	publicID, err := s.tokens.Verify(token, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationInvalid, err)
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrAuthenticationInvalid, ErrUnknownSubject)
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}
