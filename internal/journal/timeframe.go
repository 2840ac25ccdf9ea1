// Package journal implements the section versioning model: computing
// timeframe buckets, lazily materializing entries and sections, linking them
// and re-bucketing on frequency changes.
package journal

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// TimeframeBounds returns the inclusive [start, end] dates of the bucket
// containing date under the given timeframe type.
//
//	daily      start = end = date
//	weekly     start = Monday of the ISO week, end = start + 6 days
//	monthly    start = first day of the month, end = last day
//	persistent start = date (first access), end = the far-future sentinel
func TimeframeBounds(tfType models.TimeframeType, date string) (start, end string, err error) {
	d, err := time.Parse(common.DateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}

	switch tfType {
	case models.TimeframeDaily:
		return date, date, nil

	case models.TimeframeWeekly:
		// time.Weekday counts from Sunday, ISO weeks start on Monday
		offset := (int(d.Weekday()) + 6) % 7
		monday := d.AddDate(0, 0, -offset)
		return monday.Format(common.DateLayout), monday.AddDate(0, 0, 6).Format(common.DateLayout), nil

	case models.TimeframeMonthly:
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return first.Format(common.DateLayout), last.Format(common.DateLayout), nil

	case models.TimeframePersistent:
		return date, common.PersistentEndDate, nil

	default:
		return "", "", fmt.Errorf("unknown timeframe type: %q", tfType)
	}
}
