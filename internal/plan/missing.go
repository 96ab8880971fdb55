// Package plan defines the flight model produced by the flight-plan parser.
package plan

import (
	"encoding/json"
	"fmt"
	"time"
)

// Float is a float64 that may be missing. The source marks missing values
// with the -9999 sentinel, the literal N/A, or by omitting the field; all
// three decode to an invalid Float.
type Float struct {
	Value float64
	Valid bool
}

// F wraps a known-good float value.
func F(v float64) Float { return Float{Value: v, Valid: true} }

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float{}
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// Int is an integer that may be missing.
type Int struct {
	Value int
	Valid bool
}

// I wraps a known-good integer value.
func I(v int) Int { return Int{Value: v, Valid: true} }

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

func (i *Int) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = Int{}
		return nil
	}
	if err := json.Unmarshal(data, &i.Value); err != nil {
		return err
	}
	i.Valid = true
	return nil
}

// Range is a [start, end] pair, e.g. an elevation range over a leg.
type Range struct {
	Start float64
	End   float64
	Valid bool
}

// R wraps a known-good range.
func R(start, end float64) Range { return Range{Start: start, End: end, Valid: true} }

// String renders the range in the source's bracketed form.
func (r Range) String() string {
	if !r.Valid {
		return ""
	}
	return fmt.Sprintf("[%g, %g]", r.Start, r.End)
}

// rangeJSON is the wire form of a valid Range.
type rangeJSON struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r Range) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(rangeJSON{Start: r.Start, End: r.End})
}

func (r *Range) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Range{}
		return nil
	}
	var w rangeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = R(w.Start, w.End)
	return nil
}

// Clock is a time of day stored as an offset from 00:00:00.
type Clock struct {
	Offset time.Duration
	Valid  bool
}

// C wraps a known-good time of day.
func C(offset time.Duration) Clock { return Clock{Offset: offset, Valid: true} }

// String renders the time of day as HH:MM:SS.
func (c Clock) String() string {
	if !c.Valid {
		return ""
	}
	return FormatHMS(c.Offset)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Clock{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	d, err := ParseHMS(s)
	if err != nil {
		return err
	}
	*c = C(d)
	return nil
}

// FormatHMS renders a duration as HH:MM:SS.
func FormatHMS(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseHMS parses an HH:MM:SS string into a duration.
func ParseHMS(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse HH:MM:SS %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
