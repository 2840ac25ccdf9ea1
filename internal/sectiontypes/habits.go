package sectiontypes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HabitItem is one tracked habit inside a habits section.
type HabitItem struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// HabitsHandler stores content as a JSON array of HabitItem and renders a
// done/total summary above the list.
type HabitsHandler struct{}

func (HabitsHandler) IsEmpty(content string) bool {
	items, ok := parseHabits(content)
	if !ok {
		return TextHandler{}.IsEmpty(content)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) != "" {
			return false
		}
	}
	return true
}

func (HabitsHandler) ToMarkdown(title, content string) string {
	items, ok := parseHabits(content)
	if !ok {
		return TextHandler{}.ToMarkdown(title, content)
	}

	kept := items[:0]
	done := 0
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		kept = append(kept, it)
		if it.Done {
			done++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%d/%d done\n", title, done, len(kept))
	for _, it := range kept {
		mark := " "
		if it.Done {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, it.Name)
	}
	return b.String()
}

func parseHabits(content string) ([]HabitItem, bool) {
	var items []HabitItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, false
	}
	return items, true
}
