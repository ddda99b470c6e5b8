package service

import (
	"context"
	"fmt"
	"strings"

	"jwt-todo/internal/domain"
	"jwt-todo/internal/repository"
)

// TodoService exposes to-do operations scoped to the calling owner. A todo
// belonging to another user is indistinguishable from a missing one, for
// admins as well.
type TodoService interface {
	List(ctx context.Context, owner *domain.User) ([]domain.Todo, error)
	Get(ctx context.Context, owner *domain.User, id int64) (*domain.Todo, error)
	Create(ctx context.Context, owner *domain.User, text string) (*domain.Todo, error)
	Complete(ctx context.Context, owner *domain.User, id int64) error
	Delete(ctx context.Context, owner *domain.User, id int64) error
}

type todoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func (s *todoService) List(ctx context.Context, owner *domain.User) ([]domain.Todo, error) {
	if owner == nil {
		return nil, ErrAuthenticationMissing
	}
	return s.todos.ListByUser(ctx, owner.ID)
}

func (s *todoService) Get(ctx context.Context, owner *domain.User, id int64) (*domain.Todo, error) {
	if owner == nil {
		return nil, ErrAuthenticationMissing
	}
	todo, err := s.todos.Get(ctx, id, owner.ID)
	if err != nil {
		return nil, notFound(err, "todo")
	}
	return todo, nil
}

func (s *todoService) Create(ctx context.Context, owner *domain.User, text string) (*domain.Todo, error) {
	if owner == nil {
		return nil, ErrAuthenticationMissing
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	todo := &domain.Todo{
		Text:      text,
		Completed: false,
		UserID:    owner.ID,
	}
	if _, err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Complete(ctx context.Context, owner *domain.User, id int64) error {
	if owner == nil {
		return ErrAuthenticationMissing
	}
	return notFound(s.todos.MarkCompleted(ctx, id, owner.ID), "todo")
}

func (s *todoService) Delete(ctx context.Context, owner *domain.User, id int64) error {
	if owner == nil {
		return ErrAuthenticationMissing
	}
	return notFound(s.todos.Delete(ctx, id, owner.ID), "todo")
}
