package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalLayout is the wire format shared with the backend services: local wall
// clock, second precision, no zone suffix.
const LocalLayout = "2006-01-02T15:04:05"

// Layouts accepted when reading values produced by the services. Jackson drops
// ":ss" when seconds are zero and may append fractional seconds.
var localParseLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.999999999",
}

type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

func FormatLocal(t time.Time) string {
	return t.Format(LocalLayout)
}

// ParseLocal reads a zone-less datetime as wall clock time in time.Local.
func ParseLocal(value string) (time.Time, error) {
	for _, layout := range localParseLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid local datetime %q, expected YYYY-MM-DDTHH:mm:ss", value)
}

func (l LocalDateTime) String() string {
	if l.IsZero() {
		return ""
	}
	return FormatLocal(l.Time)
}

func (l LocalDateTime) MarshalJSON() ([]byte, error) {
	if l.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(FormatLocal(l.Time))
}

func (l *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		l.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("local datetime must be a string: %w", err)
	}
	if raw == "" {
		l.Time = time.Time{}
		return nil
	}
	t, err := ParseLocal(raw)
	if err != nil {
		return err
	}
	l.Time = t
	return nil
}
