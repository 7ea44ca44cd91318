package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

var ErrUnknownSortField = errors.New("unknown sort field")

// Result holds exactly one of Page or Grouped.
type Result struct {
	Page    *model.Page
	Grouped *model.Grouped
}

type Engine struct {
	fields   map[string]Field
	fallback func() Comparator
}

type Option func(*Engine)

// WithCollation sorts with the collation rules of tag instead of byte order.
func WithCollation(tag language.Tag) Option {
	return func(e *Engine) { e.fallback = newCollator(tag) }
}

// WithField registers or replaces a sortable field.
func WithField(name string, f Field) Option {
	return func(e *Engine) { e.fields[name] = f }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		fields:   defaultFields(),
		fallback: func() Comparator { return Lexicographic },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalize fills unset or out-of-range values with defaults.
func Normalize(q model.Query) model.Query {
	if q.Page < 1 {
		q.Page = model.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = model.DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = model.DefaultSortBy
	}
	if q.SortOrder != model.SortDesc {
		q.SortOrder = model.SortAsc
	}
	return q
}

// Run applies filter, then either group-by or sort+paginate.
func (e *Engine) Run(todos []model.Todo, q model.Query) (Result, error) {
	q = Normalize(q)

	filtered := Filter(todos, q)

	if groupKey := groupField(q.GroupBy); groupKey != nil {
		grouped := Group(filtered, groupKey)
		return Result{Grouped: &model.Grouped{
			Grouped: grouped,
			Meta: model.GroupMeta{
				GroupBy: q.GroupBy,
				Total:   len(filtered),
				Groups:  grouped.Len(),
			},
		}}, nil
	}

	if err := e.Sort(filtered, q.SortBy, q.SortOrder); err != nil {
		return Result{}, err
	}
	page := Paginate(filtered, q.Page, q.Limit)
	return Result{Page: &page}, nil
}

// Filter returns the todos matching search, status and priority, in input order.
func Filter(todos []model.Todo, q model.Query) []model.Todo {
	search := strings.ToLower(q.Search)

	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.ID), search) &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

func groupField(name string) func(model.Todo) string {
	switch name {
	case "status":
		return func(t model.Todo) string { return string(t.Status) }
	case "priority":
		return func(t model.Todo) string { return string(t.Priority) }
	}
	return nil
}

// Group partitions todos by key, keeping input order inside each bucket.
func Group(todos []model.Todo, key func(model.Todo) string) model.Groups {
	var g model.Groups
	for _, t := range todos {
		g.Add(key(t), t)
	}
	return g
}

// Sort orders todos in place by field. Equal keys keep their relative order.
func (e *Engine) Sort(todos []model.Todo, field string, order model.SortOrder) error {
	f, ok := e.fields[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}
	cmp := f.Compare
	if cmp == nil {
		cmp = e.fallback()
	}

	slices.SortStableFunc(todos, func(a, b model.Todo) int {
		if order == model.SortDesc {
			return cmp(f.Value(b), f.Value(a))
		}
		return cmp(f.Value(a), f.Value(b))
	})
	return nil
}

// Paginate slices the 1-based page out of todos. Out-of-range pages yield
// empty data, never an error. page and limit must be at least 1.
func Paginate(todos []model.Todo, page, limit int) model.Page {
	total := len(todos)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// (page-1)*limit fits in int only while page-1 < totalPages
	start := total
	if page-1 < totalPages {
		start = (page - 1) * limit
	}
	end := start + min(limit, total-start)

	data := make([]model.Todo, end-start)
	copy(data, todos[start:end])

	return model.Page{
		Data: data,
		Meta: model.PageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1 && total > 0,
		},
	}
}
