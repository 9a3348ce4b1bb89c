package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Bucket is a named time-range expansion mode applied to a single anchor date.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"

	// DateLayout is the wire format for date anchors in query strings.
	DateLayout = "2006-01-02"
)

// BucketRange expands an anchor date into a half-open [from, to) range.
//   - day:   [date, date+1d)
//   - week:  [monday, monday+7d), Monday-anchored regardless of locale
//   - month: [firstOfMonth, firstOfNextMonth)
//
// An unrecognized bucket falls back to day. The zero anchor returns ok=false.
func BucketRange(anchor time.Time, bucket Bucket) (from, to time.Time, ok bool) {
	if anchor.IsZero() {
		return time.Time{}, time.Time{}, false
	}

	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())

	switch bucket {
	case BucketWeek:
		// time.Weekday is Sunday-based; shift so Monday maps to offset 0.
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7), true
	case BucketMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return first, first.AddDate(0, 1, 0), true
	default:
		return day, day.AddDate(0, 0, 1), true
	}
}

// ParseBucketRange parses a date anchor string and expands it with BucketRange.
// A malformed date degrades gracefully: the range filter is simply not
// applied, rather than failing the whole query.
func ParseBucketRange(dateStr string, bucket Bucket) (from, to time.Time, ok bool) {
	if dateStr == "" {
		return time.Time{}, time.Time{}, false
	}
	anchor, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		log.Debug().Str("date", dateStr).Msg("Ignoring malformed date filter")
		return time.Time{}, time.Time{}, false
	}
	return BucketRange(anchor, bucket)
}

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
