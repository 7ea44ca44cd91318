package query

import (
	"fmt"
	"unicode/utf8"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// Summarize computes descriptive statistics over todos. Lengths are counted
// in characters, not bytes.
func Summarize(todos []model.Todo) model.Stats {
	stats := model.Stats{
		Total:      len(todos),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	var titleLen, descLen int
	for _, t := range todos {
		stats.ByStatus[string(t.Status)]++
		stats.ByPriority[string(t.Priority)]++
		titleLen += utf8.RuneCountInString(t.Title)
		descLen += utf8.RuneCountInString(t.Description)
	}

	stats.Averages = model.Averages{
		TitleLength:       ratio(titleLen, stats.Total, 1),
		DescriptionLength: ratio(descLen, stats.Total, 1),
	}
	stats.CompletionRate = ratio(stats.ByStatus[string(model.StatusCompleted)], stats.Total, 100) + "%"
	return stats
}

// ratio formats part/total*scale with two decimals, "0.00" when total is 0.
func ratio(part, total int, scale float64) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(part)/float64(total)*scale)
}
