package repo

import (
	"context"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// TodoRepository определяет интерфейс для работы с задачами
type TodoRepository interface {
	Insert(ctx context.Context, t model.Todo) (model.Todo, error)
	Get(ctx context.Context, id string) (model.Todo, error)
	List(ctx context.Context) ([]model.Todo, error)
	// Update runs mutate on the current value and stores the result as one step.
	Update(ctx context.Context, id string, mutate func(model.Todo) model.Todo) (model.Todo, error)
	Reset(ctx context.Context) error
}
