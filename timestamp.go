package modelslice

import "time"

// TimestampLayout renders ISO-8601 with millisecond precision and an explicit
// numeric offset. UTC renders as +00:00, never Z.
const TimestampLayout = "2006-01-02T15:04:05.000-07:00"

// Clock returns the current wall-clock time.
type Clock func() time.Time

// FormatTimestamp renders t using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a value produced by FormatTimestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(TimestampLayout, value)
}

// CurrentTimestamp formats the current local time.
func CurrentTimestamp() string {
	return FormatTimestamp(time.Now())
}

func (c Clock) timestamp() string {
	if c == nil {
		return CurrentTimestamp()
	}
	return FormatTimestamp(c())
}
