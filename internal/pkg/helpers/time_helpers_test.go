package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBucketRange_Day(t *testing.T) {
	anchor := time.Date(2024, time.January, 17, 14, 30, 0, 0, time.UTC)
	from, to, ok := BucketRange(anchor, BucketDay)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.January, 17), from)
	assert.Equal(t, date(2024, time.January, 18), to)
}

func TestBucketRange_Week_MondayAnchored(t *testing.T) {
	tests := []struct {
		name   string
		anchor time.Time
	}{
		{"wednesday", date(2024, time.January, 17)},
		{"monday itself", date(2024, time.January, 15)},
		{"sunday belongs to preceding monday", date(2024, time.January, 21)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := BucketRange(tt.anchor, BucketWeek)
			require.True(t, ok)
			assert.Equal(t, date(2024, time.January, 15), from)
			assert.Equal(t, date(2024, time.January, 22), to)
			assert.Equal(t, time.Monday, from.Weekday())
		})
	}
}

func TestBucketRange_Month(t *testing.T) {
	from, to, ok := BucketRange(date(2024, time.February, 29), BucketMonth)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.February, 1), from)
	assert.Equal(t, date(2024, time.March, 1), to)
}

func TestBucketRange_UnknownBucketFallsBackToDay(t *testing.T) {
	from, to, ok := BucketRange(date(2024, time.January, 17), Bucket("fortnight"))
	require.True(t, ok)
	assert.Equal(t, date(2024, time.January, 17), from)
	assert.Equal(t, date(2024, time.January, 18), to)
}

func TestParseBucketRange(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		from, to, ok := ParseBucketRange("2024-01-17", BucketWeek)
		require.True(t, ok)
		assert.Equal(t, date(2024, time.January, 15), from)
		assert.Equal(t, date(2024, time.January, 22), to)
	})

	t.Run("malformed date is ignored", func(t *testing.T) {
		_, _, ok := ParseBucketRange("17/01/2024", BucketDay)
		assert.False(t, ok)
	})

	t.Run("empty date is ignored", func(t *testing.T) {
		_, _, ok := ParseBucketRange("", BucketDay)
		assert.False(t, ok)
	})
}
