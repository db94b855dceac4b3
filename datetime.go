package userstream

import (
	"encoding/json"
	"time"
)

// DateTimeLayout is the timestamp layout used throughout the streaming API,
// e.g. "Mon Jul 16 12:59:01 +0000 2007".
const DateTimeLayout = time.RubyDate

// ParseDateTime parses a streaming API timestamp.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, &DateTimeError{Value: s, Err: err}
	}
	return t, nil
}

// Timestamp is a time.Time that unmarshals from the streaming API
// timestamp format.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	tm, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	t.Time = tm
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(DateTimeLayout))
}
