// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package date provides a calendar date without time-of-day or zone.

Release dates and tracking start/end dates are civil dates: "2024-05-01" must
not drift when the server or client changes time zone. [Date] serializes as
"YYYY-MM-DD" in JSON and maps to PostgreSQL DATE through pgx's pgtype
scanner/valuer interfaces.
*/
package date

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Layout is the canonical textual form.
const Layout = "2006-01-02"

// Date is a civil date. The zero value is 0001-01-01.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New constructs a normalized [Date] (New(2024, 2, 30) is 2024-03-01).
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// Parse reads a "YYYY-MM-DD" string.
func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("date: invalid date %q: %w", value, err)
	}
	return Of(t), nil
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String implements [fmt.Stringer].
func (d Date) String() string {
	return d.Time().Format(Layout)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// MarshalJSON implements [json.Marshaler].
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date: expected a string: %w", err)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ScanDate implements [pgtype.DateScanner].
func (d *Date) ScanDate(value pgtype.Date) error {
	if !value.Valid {
		return fmt.Errorf("date: cannot scan NULL into date.Date")
	}
	if value.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("date: cannot scan infinite date")
	}
	*d = Of(value.Time)
	return nil
}

// DateValue implements [pgtype.DateValuer].
func (d Date) DateValue() (pgtype.Date, error) {
	return pgtype.Date{Time: d.Time(), Valid: true}, nil
}

// Equal reports whether a and b are both nil or hold the same date.
func Equal(a, b *Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FromPG converts a nullable database date, returning nil for NULL or
// infinite values.
func FromPG(value pgtype.Date) *Date {
	if !value.Valid || value.InfinityModifier != pgtype.Finite {
		return nil
	}
	d := Of(value.Time)
	return &d
}
