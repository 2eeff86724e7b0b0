package types

import (
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the date formats browsers submit: RFC 3339, datetime-local
// inputs and plain dates. Values without a zone are read as UTC.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses raw with the accepted layouts. Blank input yields the
// zero value.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(strings.Trim(raw, `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Ptr returns nil for the zero value.
func (t *Timestamp) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
