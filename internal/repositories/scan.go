package repositories

import (
	"fmt"
	"strings"
	"time"
)

// sqlite hands back TEXT for timestamps it cannot type, e.g. in RETURNING clauses
var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// scanTime scans native and textual timestamps into dst.
type scanTime struct {
	dst *time.Time
}

func (s scanTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.dst = v
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		*s.dst = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into time.Time", src)
	}
}

func (s scanTime) parse(value string) error {
	value = strings.TrimSuffix(value, "Z")
	for _, layout := range timestampFormats {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			*s.dst = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", value)
}
