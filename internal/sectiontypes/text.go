package sectiontypes

import (
	"fmt"
	"strings"
)

// TextHandler is the plain text representation: content is stored as-is.
type TextHandler struct{}

func (TextHandler) IsEmpty(content string) bool {
	return strings.TrimSpace(content) == ""
}

func (TextHandler) ToMarkdown(title, content string) string {
	return fmt.Sprintf("## %s\n\n%s\n", title, strings.TrimRight(content, "\n"))
}
