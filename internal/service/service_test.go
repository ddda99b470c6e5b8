package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"jwt-todo/internal/auth"
	"jwt-todo/internal/domain"
	"jwt-todo/internal/repository"
	"jwt-todo/internal/repository/sqlite"
)

type fixture struct {
	users  repository.UserRepository
	todos  repository.TodoRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
	now    time.Time

	Auth  AuthService
	Users UserService
	Todos TodoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		users:  sqlite.NewUserRepository(db),
		todos:  sqlite.NewTodoRepository(db),
		hasher: auth.NewPasswordHasher(bcrypt.MinCost),
		now:    time.Unix(1_700_000_000, 0).UTC(),
	}
	if err := f.users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := f.todos.Init(ctx); err != nil {
		t.Fatalf("init todos: %v", err)
	}
	f.tokens, err = auth.NewTokenService("service-test-secret")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	f.Auth = NewAuthService(f.users, f.hasher, f.tokens, func() time.Time { return f.now })
	f.Users = NewUserService(f.users, f.hasher)
	f.Todos = NewTodoService(f.todos)
	return f
}

// register creates a user and returns the stored record, digest included.
func (f *fixture) register(t *testing.T, name, password string, admin bool) *domain.User {
	t.Helper()
	ctx := context.Background()
	u, err := f.Users.Register(ctx, name, password)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	if admin {
		if err := f.users.Promote(ctx, u.PublicID); err != nil {
			t.Fatalf("promote %s: %v", name, err)
		}
	}
	stored, err := f.users.GetByPublicID(ctx, u.PublicID)
	if err != nil {
		t.Fatalf("reload %s: %v", name, err)
	}
	return stored
}
