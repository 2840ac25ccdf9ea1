// Package models defines the persisted data model of the journal: entries,
// sections, section types, layout columns and the links between them.
package models

import "fmt"

// TimeframeType describes how often a section rolls over to a fresh instance.
type TimeframeType string

const (
	TimeframeDaily      TimeframeType = "daily"
	TimeframeWeekly     TimeframeType = "weekly"
	TimeframeMonthly    TimeframeType = "monthly"
	TimeframePersistent TimeframeType = "persistent"
)

// ParseTimeframeType validates a raw string coming from config, storage or
// user input and returns the typed value.
func ParseTimeframeType(s string) (TimeframeType, error) {
	switch TimeframeType(s) {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframePersistent:
		return TimeframeType(s), nil
	default:
		return "", fmt.Errorf("unknown timeframe type: %q", s)
	}
}
