package port

import (
	"context"

	"todoservice/internal/core/domain"
)

type TodoRepository interface {
	Create(ctx context.Context, title string) (domain.Todo, error)
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id int64) (domain.Todo, error)
	Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type TodoService interface {
	Create(ctx context.Context, title string) (domain.Todo, error)
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id int64) (domain.Todo, error)
	Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
}
