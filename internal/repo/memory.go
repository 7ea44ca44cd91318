package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

// MemoryRepo хранит задачи в памяти процесса, в порядке вставки
type MemoryRepo struct {
	mu    sync.RWMutex
	todos []model.Todo
	index map[string]int
}

// NewMemoryRepo returns a store holding seed in order. Seed IDs must be
// unique, a repeated one yields ErrorConflict.
func NewMemoryRepo(seed ...model.Todo) (*MemoryRepo, error) {
	r := &MemoryRepo{index: make(map[string]int)}
	for _, t := range seed {
		if _, ok := r.index[t.ID]; ok {
			return nil, fmt.Errorf("seed todo %q: %w", t.ID, ErrorConflict)
		}
		r.insertLocked(t)
	}
	return r, nil
}

func (r *MemoryRepo) Insert(ctx context.Context, t model.Todo) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return t, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[t.ID]; ok {
		return t, ErrorConflict
	}
	r.insertLocked(t)
	return t, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return model.Todo{}, ErrorNotFound
	}
	return r.todos[i], nil
}

// List возвращает копию коллекции, вызывающий код может ее менять
func (r *MemoryRepo) List(ctx context.Context) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Todo, len(r.todos))
	copy(out, r.todos)
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, mutate func(model.Todo) model.Todo) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return model.Todo{}, ErrorNotFound
	}
	updated := mutate(r.todos[i])
	updated.ID = id // ID менять нельзя
	r.todos[i] = updated
	return updated, nil
}

func (r *MemoryRepo) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos = nil
	r.index = make(map[string]int)
	return nil
}

func (r *MemoryRepo) insertLocked(t model.Todo) {
	r.index[t.ID] = len(r.todos)
	r.todos = append(r.todos, t)
}
