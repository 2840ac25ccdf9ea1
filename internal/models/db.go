package models

import "time"

// Entry is one dated journal page. A single row exists per calendar date;
// rows are created lazily the first time a date is opened.
type Entry struct {
	// Id is a globally unique identifier for the entry.
	Id string `json:"id"`

	// Date is the entry's calendar date in common.DateLayout form.
	Date string `json:"date"`

	// CreatedAt is the creation time in UTC.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the last modification time in UTC.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Section holds the content of one section type for one timeframe bucket.
// At most one section exists per (section type, timeframe type, start) key.
type Section struct {
	// Id is a globally unique identifier for the section.
	Id string `json:"id"`

	// SectionTypeId references the owning SectionType.
	SectionTypeId string `json:"sectionTypeId"`

	// Content is the user's text for this bucket, in the section type's
	// content representation.
	Content string `json:"content"`

	// TimeframeType is the frequency the section was bucketed under when it
	// was created. It is kept on the row so frequency changes of the owning
	// type do not silently rebucket history.
	TimeframeType TimeframeType `json:"timeframeType"`

	// TimeframeStart and TimeframeEnd bound the dates this section covers,
	// both inclusive, in common.DateLayout form.
	TimeframeStart string `json:"timeframeStart"`
	TimeframeEnd   string `json:"timeframeEnd"`

	// CreatedAt is the creation time in UTC.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the last modification time in UTC.
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntrySectionLink ties a section to an entry. A section spanning several
// days is linked from each entry whose date falls inside its bounds.
type EntrySectionLink struct {
	// SectionId references the linked section.
	SectionId string `json:"sectionId"`

	// EntryId references the linked entry.
	EntryId string `json:"entryId"`

	// CreatedAt is the link creation time in UTC.
	CreatedAt time.Time `json:"createdAt"`
}
