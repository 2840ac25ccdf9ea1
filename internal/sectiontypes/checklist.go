package sectiontypes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChecklistItem is one line of a checklist section.
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// ChecklistHandler stores content as a JSON array of ChecklistItem.
// Content that does not parse is treated as plain text, so nothing a user
// typed is ever lost on export.
type ChecklistHandler struct{}

func (ChecklistHandler) IsEmpty(content string) bool {
	items, ok := parseChecklist(content)
	if !ok {
		return TextHandler{}.IsEmpty(content)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Text) != "" {
			return false
		}
	}
	return true
}

func (ChecklistHandler) ToMarkdown(title, content string) string {
	items, ok := parseChecklist(content)
	if !ok {
		return TextHandler{}.ToMarkdown(title, content)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		mark := " "
		if it.Checked {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, it.Text)
	}
	return b.String()
}

func parseChecklist(content string) ([]ChecklistItem, bool) {
	var items []ChecklistItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, false
	}
	return items, true
}
