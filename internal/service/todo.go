package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/query"
	"github.com/BuzzLyutic/todo-api/internal/repo"
)

const (
	msgTitleRequired   = "Title and description are required"
	msgInvalidStatus   = "Invalid status"
	msgInvalidPriority = "Invalid priority"
	msgInvalidSort     = "Invalid sort field"
)

type TodoService struct {
	repo   repo.TodoRepository
	engine *query.Engine
	newID  func() string
}

func NewTodoService(repo repo.TodoRepository, engine *query.Engine) *TodoService {
	return &TodoService{
		repo:   repo,
		engine: engine,
		newID:  uuid.NewString,
	}
}

func (s *TodoService) Create(ctx context.Context, in model.TodoInput) (model.Todo, error) {
	t, err := s.fromInput(in)
	if err != nil {
		return t, err
	}
	t.ID = s.newID()
	return s.repo.Insert(ctx, t)
}

func (s *TodoService) Get(ctx context.Context, id string) (model.Todo, error) {
	return s.repo.Get(ctx, id)
}

func (s *TodoService) List(ctx context.Context, q model.Query) (query.Result, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return query.Result{}, err
	}

	res, err := s.engine.Run(todos, q)
	if errors.Is(err, query.ErrUnknownSortField) {
		return res, invalidInput(msgInvalidSort)
	}
	return res, err
}

// Replace overwrites every field but the ID. Omitted status and priority
// fall back to their defaults.
func (s *TodoService) Replace(ctx context.Context, id string, in model.TodoInput) (model.Todo, error) {
	t, err := s.fromInput(in)
	if err != nil {
		return t, err
	}
	return s.repo.Update(ctx, id, func(model.Todo) model.Todo { return t })
}

// Patch updates only the fields present in p.
func (s *TodoService) Patch(ctx context.Context, id string, p model.TodoPatch) (model.Todo, error) {
	if p.Status != nil && !p.Status.Valid() {
		return model.Todo{}, validationError(msgInvalidStatus)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return model.Todo{}, validationError(msgInvalidPriority)
	}
	return s.repo.Update(ctx, id, p.Apply)
}

func (s *TodoService) Stats(ctx context.Context) (model.Stats, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return query.Summarize(todos), nil
}

func (s *TodoService) fromInput(in model.TodoInput) (model.Todo, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return model.Todo{}, validationError(msgTitleRequired)
	}

	t := model.Todo{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}

	if !t.Status.Valid() {
		return model.Todo{}, validationError(msgInvalidStatus)
	}
	if !t.Priority.Valid() {
		return model.Todo{}, validationError(msgInvalidPriority)
	}
	return t, nil
}
