package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jwt-todo/internal/auth"
	"jwt-todo/internal/domain"
	"jwt-todo/internal/repository"
)

// UserService describes user lifecycle operations. Everything except Register
// and EnsureAdmin requires an admin actor.
type UserService interface {
	Register(ctx context.Context, name, password string) (*domain.User, error)
	List(ctx context.Context, actor *domain.User) ([]domain.User, error)
	Get(ctx context.Context, actor *domain.User, publicID string) (*domain.User, error)
	Promote(ctx context.Context, actor *domain.User, publicID string) error
	Delete(ctx context.Context, actor *domain.User, publicID string) error
	EnsureAdmin(ctx context.Context, name, password string) (*domain.User, bool, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

// Register creates a non-admin user. Duplicate names are accepted.
func (s *userService) Register(ctx context.Context, name, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, auth.MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		PublicID:     uuid.NewString(),
		Name:         name,
		PasswordHash: hash,
		Admin:        false,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, actor *domain.User, publicID string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return sanitizeUser(user), nil
}

// Promote grants the admin role. Promoting an admin is a no-op.
func (s *userService) Promote(ctx context.Context, actor *domain.User, publicID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return notFound(s.users.Promote(ctx, publicID), "user")
}

// Delete removes the account. The user's todos are left in the store.
func (s *userService) Delete(ctx context.Context, actor *domain.User, publicID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return notFound(s.users.Delete(ctx, publicID), "user")
}

// EnsureAdmin registers and promotes name unless a user with that name already
// exists. It reports whether a user was created.
func (s *userService) EnsureAdmin(ctx context.Context, name, password string) (*domain.User, bool, error) {
	existing, err := s.users.GetByName(ctx, strings.TrimSpace(name))
	if err == nil {
		return sanitizeUser(existing), false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	user, err := s.Register(ctx, name, password)
	if err != nil {
		return nil, false, err
	}
	if err := s.users.Promote(ctx, user.PublicID); err != nil {
		return nil, false, fmt.Errorf("promote bootstrap admin: %w", err)
	}
	user.Admin = true
	return user, true, nil
}

func requireAdmin(actor *domain.User) error {
	if actor == nil {
		return ErrAuthenticationMissing
	}
	if !actor.Admin {
		return fmt.Errorf("%w: admin role required", ErrAuthorizationDenied)
	}
	return nil
}

// notFound translates repository absence into ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// sanitizeUser drops the password digest before a user leaves the service.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		PublicID:  user.PublicID,
		Name:      user.Name,
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
