package rfctime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Format string for date-time in RFC3339, disallowing Z as time-offset.
//
// Use it to stringify time.Time forcing timezone offset not to use "Z".
const RFC3339DateTimeFormat string = "2006-01-02T15:04:05.999-07:00"

// Formats accepted when parsing, most specific first.
var parseFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// date-time in https://www.ietf.org/rfc/rfc3339.txt .
//
// This type is useful to interchange timestamps via network/file.
type RFC3339 time.Time

func New(t time.Time) RFC3339 {
	return RFC3339(t)
}

func (t RFC3339) Time() time.Time {
	return time.Time(t)
}

func (t RFC3339) Equal(other RFC3339) bool {
	return t.Time().Equal(other.Time())
}

func (t RFC3339) String() string {
	return time.Time(t).Format(RFC3339DateTimeFormat)
}

// Parse string as RFC3339 date-time.
//
// Abbreviated forms (date only, minute resolution) are parsed as UTC.
func ParseRFC3339DateTime(s string) (RFC3339, error) {
	for _, f := range parseFormats {
		if t, err := time.Parse(f, s); err == nil {
			return RFC3339(t), nil
		}
	}
	return RFC3339{}, fmt.Errorf("timestamp is not RFC3339: %s", s)
}

func (t RFC3339) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *RFC3339) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var expr string
	if err := json.Unmarshal(b, &expr); err != nil {
		return err
	}
	parsed, err := ParseRFC3339DateTime(expr)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
