// Package dto содержит объекты передачи данных HTTP API расписаний.
package dto

import (
	"bytes"
	"fmt"
	"time"
)

// TimestampLayout - формат времени на проводе, например "01.06.2025 09:00".
const TimestampLayout = "02.01.2006 15:04"

// Timestamp - момент времени в формате TimestampLayout. Часовой пояс - UTC.
type Timestamp time.Time

// NewTimestamp оборачивает t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Time возвращает значение как time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp must be a string in format %q", TimestampLayout)
	}

	parsed, err := time.ParseInLocation(TimestampLayout, string(data[1:len(data)-1]), time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp must match %q: %w", TimestampLayout, err)
	}

	*t = Timestamp(parsed)
	return nil
}
