package repository

import (
	"context"

	"jwt-todo/internal/domain"
)

// TodoRepository persists to-do items. Every read and write is scoped by the
// owning user's id; a todo owned by someone else behaves as if it did not exist.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) (int64, error)
	Get(ctx context.Context, id, userID int64) (*domain.Todo, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error)
	MarkCompleted(ctx context.Context, id, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
}
