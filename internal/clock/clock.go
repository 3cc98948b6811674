package clock

import (
	"fmt"
	"time"
)

// DayFormat is the canonical civil day layout (YYYY-MM-DD).
const DayFormat = "2006-01-02"

// Offset is the fixed distance of the civil calendar from UTC. Bangladesh
// observes no daylight saving.
const Offset = 6 * time.Hour

// Zone is the civil calendar every day string is computed in.
var Zone = time.FixedZone("BDT", int(Offset/time.Second))

// Clock resolves "now" in the fixed +6 civil calendar.
type Clock struct {
	now func() time.Time
}

// New returns a Clock backed by the system time.
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewAt returns a Clock that reads the current instant from fn.
func NewAt(fn func() time.Time) *Clock {
	return &Clock{now: fn}
}

// Now returns the current instant expressed in Zone.
func (c *Clock) Now() time.Time {
	return c.now().In(Zone)
}

// Today returns the current civil day string.
func (c *Clock) Today() string {
	return DayOf(c.now())
}

// TimeUntilMidnight returns the whole hours and minutes left before the next
// 00:00 in Zone.
func (c *Clock) TimeUntilMidnight() (hours, minutes int) {
	now := c.Now()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, Zone)
	left := midnight.Sub(now)
	return int(left / time.Hour), int(left % time.Hour / time.Minute)
}

// DayOf returns the civil day string containing t.
func DayOf(t time.Time) string {
	return t.In(Zone).Format(DayFormat)
}

// ParseDay parses a civil day string into midnight of that day in Zone.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, day, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// DaysBetween returns the number of whole civil days from one day string to
// another. It is negative when to precedes from.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a) / (24 * time.Hour)), nil
}

// AddDays shifts a civil day string by n days. Malformed input is returned
// unchanged.
func AddDays(day string, n int) string {
	t, err := ParseDay(day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(DayFormat)
}
