package dbpkg

import (
	"database/sql"
	"fmt"
	"time"
)

// Layouts SQLite timestamps are stored in: time.Time.String as written by the modernc driver,
// its sqlite write format and CURRENT_TIMESTAMP.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

type timeScanner struct {
	dst *time.Time
}

// Time returns a scanner that accepts timestamps as time.Time or as SQLite text.
func Time(dst *time.Time) sql.Scanner {
	return timeScanner{dst: dst}
}

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		*s.dst = time.Time{}
		return nil
	}

	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (s timeScanner) parse(v string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("cannot parse timestamp %q", v)
}
