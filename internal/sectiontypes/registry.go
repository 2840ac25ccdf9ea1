// Package sectiontypes is the content plugin registry. Each section type
// declares a content representation ("text", "checklist", "habits") and the
// registry answers the two questions the rest of the engine asks about it:
// is this content empty, and how does it render to markdown.
package sectiontypes

// ContentHandler implements one content representation.
type ContentHandler interface {
	// IsEmpty reports whether the raw content holds nothing user-visible.
	IsEmpty(content string) bool

	// ToMarkdown renders the content under the given section title.
	ToMarkdown(title, content string) string
}

// Registry maps content type names to handlers. Unknown names fall back to
// plain text so a snapshot from a newer version still renders.
type Registry struct {
	handlers map[string]ContentHandler
	fallback ContentHandler
}

// Builtin content type names.
const (
	TypeText      = "text"
	TypeChecklist = "checklist"
	TypeHabits    = "habits"
)

// NewRegistry returns a registry with the builtin handlers registered.
func NewRegistry() *Registry {
	text := TextHandler{}
	r := &Registry{
		handlers: map[string]ContentHandler{},
		fallback: text,
	}
	r.Register(TypeText, text)
	r.Register(TypeChecklist, ChecklistHandler{})
	r.Register(TypeHabits, HabitsHandler{})
	return r
}

// Register adds or replaces the handler for a content type name.
func (r *Registry) Register(name string, h ContentHandler) {
	r.handlers[name] = h
}

func (r *Registry) handler(contentType string) ContentHandler {
	if h, ok := r.handlers[contentType]; ok {
		return h
	}
	return r.fallback
}

// IsContentEmpty reports whether content of the given type holds nothing
// user-visible. Empty sections are skipped on export.
func (r *Registry) IsContentEmpty(contentType, content string) bool {
	return r.handler(contentType).IsEmpty(content)
}

// FormatMarkdown renders content of the given type to a markdown block.
func (r *Registry) FormatMarkdown(contentType, title, content string) string {
	return r.handler(contentType).ToMarkdown(title, content)
}
