package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Layouts accepted when decoding persisted timestamps, most precise first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is an optional point in time stored as an ISO-8601 string.
// The zero value means "unset" and is encoded as null.
type Timestamp struct {
	time.Time
}

// At wraps t as a set Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// IsSet reports whether the timestamp holds a value
func (t Timestamp) IsSet() bool {
	return !t.Time.IsZero()
}

// MarshalJSON encodes the timestamp in UTC, or null when unset.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails: malformed or non-string values decode as unset.
// Naive timestamps without an offset are read as UTC.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}

	if parsed, ok := ParseTimestamp(s); ok {
		t.Time = parsed
	}
	return nil
}

// ParseTimestamp parses s with every accepted layout.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
