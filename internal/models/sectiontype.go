package models

// SectionType is the structural template of a recurring section: what it is
// called, how often a fresh instance is created and how it renders.
type SectionType struct {
	// Id is a globally unique identifier for the section type.
	Id string `json:"id"`

	// Title is the user-visible name.
	Title string `json:"title"`

	// Frequency controls the bucketing of new sections of this type.
	Frequency TimeframeType `json:"frequency"`

	// DisplayOrder sorts section types inside their column.
	DisplayOrder int `json:"displayOrder"`

	// Placeholder is shown while the section has no content yet.
	Placeholder string `json:"placeholder"`

	// DefaultContent seeds newly created sections.
	DefaultContent string `json:"defaultContent"`

	// ContentType selects the content plugin (text, checklist, list).
	ContentType string `json:"contentType"`

	// ColumnId references the layout column the type belongs to.
	ColumnId string `json:"columnId"`
}

// Column is a layout column grouping section types side by side.
type Column struct {
	// Id is a globally unique identifier for the column.
	Id string `json:"id"`

	// Title is the user-visible name.
	Title string `json:"title"`

	// Width is the relative column width in layout units.
	Width int `json:"width"`

	// DisplayOrder sorts columns left to right.
	DisplayOrder int `json:"displayOrder"`
}
