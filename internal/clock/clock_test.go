package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(t time.Time) *Clock {
	return NewAt(func() time.Time { return t })
}

func TestTodayStableWithinCivilDay(t *testing.T) {
	// 2024-01-01 18:00 UTC is 2024-01-02 00:00 in +6.
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 17, 59, 59, 0, time.UTC)

	assert.Equal(t, "2024-01-02", fixed(start).Today())
	assert.Equal(t, "2024-01-02", fixed(end).Today())
}

func TestTodayChangesAtMidnight(t *testing.T) {
	before := fixed(time.Date(2024, 1, 1, 17, 59, 59, 0, time.UTC)).Today()
	after := fixed(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)).Today()

	assert.Equal(t, "2024-01-01", before)
	assert.Equal(t, "2024-01-02", after)
	assert.Less(t, before, after)
}

func TestTodayIgnoresCallerZone(t *testing.T) {
	instant := time.Date(2024, 3, 10, 20, 30, 0, 0, time.UTC)
	la := time.FixedZone("PST", -8*60*60)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, fixed(instant).Today(), fixed(instant.In(la)).Today())
	assert.Equal(t, fixed(instant).Today(), fixed(instant.In(tokyo)).Today())
	assert.Equal(t, "2024-03-11", fixed(instant).Today())
}

func TestTimeUntilMidnight(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		hours   int
		minutes int
	}{
		{"start of day", time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), 24, 0},
		{"evening", time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC), 5, 30},
		{"last minute", time.Date(2024, 1, 2, 17, 59, 30, 0, time.UTC), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := fixed(tt.now).TimeUntilMidnight()
			assert.Equal(t, tt.hours, h)
			assert.Equal(t, tt.minutes, m)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2024-02-27", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = DaysBetween("2024-03-01", "2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, -2, n)

	_, err = DaysBetween("yesterday", "2024-03-01")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, "2024-03-01", AddDays("2024-02-29", 1))
	assert.Equal(t, "2023-12-31", AddDays("2024-01-01", -1))
	assert.Equal(t, "garbage", AddDays("garbage", 3))
}
