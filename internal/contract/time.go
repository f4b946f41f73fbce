package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/steward/schema"
)

// timestampLayouts are tried in order when parsing raw record timestamps.
// Layouts without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an RFC3339 or zoneless ISO 8601 timestamp and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// NewWindow returns the closed window [now - days, now] in UTC.
func NewWindow(now time.Time, days int) (schema.Window, error) {
	if err := ValidateDays(days); err != nil {
		return schema.Window{}, err
	}
	end := now.UTC()
	return schema.Window{Start: end.AddDate(0, 0, -days), End: end, Days: days}, nil
}
