package query

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// Comparator orders two field values: negative if a sorts first, zero if equal.
type Comparator func(a, b string) int

// Field describes a sortable todo field.
type Field struct {
	Value   func(model.Todo) string
	Compare Comparator // nil means the engine default
}

func defaultFields() map[string]Field {
	return map[string]Field{
		"id":          {Value: func(t model.Todo) string { return t.ID }},
		"title":       {Value: func(t model.Todo) string { return t.Title }},
		"description": {Value: func(t model.Todo) string { return t.Description }},
		"status":      {Value: func(t model.Todo) string { return string(t.Status) }},
		"priority":    {Value: func(t model.Todo) string { return string(t.Priority) }},
	}
}

// Lexicographic compares strings byte-wise.
func Lexicographic(a, b string) int { return strings.Compare(a, b) }

// newCollator returns a locale-aware comparator. A collate.Collator keeps
// internal buffers, so each query run gets its own.
func newCollator(tag language.Tag) func() Comparator {
	return func() Comparator {
		c := collate.New(tag)
		return c.CompareString
	}
}
