// Package preamble parses the header section(s) of a flight plan into the
// mission-level fields of the flight model.
//
// Two layouts exist: older plans lead with an "Airport:" line, newer plans
// lead with a "Flight Plan ID:" line. Which one is in hand is decided by
// inspecting the first token against the dialect table; the field
// extraction itself is keyword-driven and identical for both.
package preamble

import (
	"fmt"
	"path/filepath"
	"strings"

	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/sections"
)

// Parse consumes the preamble sections (everything before the first leg)
// and populates a Flight with mission-level fields. It fails with
// ErrPreambleMissing only when the takeoff timestamp or the leg count
// cannot be located; every other absent field is recorded as missing and
// reported as a warning on the flight.
func Parse(secs []*sections.Section, filename string, cfg plan.Config) (*plan.Flight, error) {
	f := &plan.Flight{Filename: filename}

	if len(secs) == 0 {
		return nil, fmt.Errorf("no preamble section: %w", plan.ErrPreambleMissing)
	}

	var sb strings.Builder
	for _, s := range secs {
		sb.WriteString(s.Text())
		sb.WriteByte('\n')
	}
	text := sb.String()

	if name := detectDialect(secs[0].First(), cfg); name == "" {
		f.Warn(plan.UnknownDialect, "preamble",
			"preamble lead matches no known layout: "+firstToken(secs[0].First()))
	}

	if v, lk := fields.String(text, "Filename"); lk.Ok() {
		f.Filename = v
	}
	if t, lk := fields.Timestamp(text, "Saved"); lk.Ok() {
		f.SavedAt = t
	} else if lk.Status == fields.Invalid {
		f.Warn(plan.FieldInvalid, "saved_at", "unparseable timestamp "+lk.Raw)
	}

	if v, lk := fields.String(text, "Airport"); lk.Ok() {
		f.Origin = v
	} else {
		f.Warn(plan.FieldInvalid, "origin", "origin airport missing")
	}
	if v, lk := fields.String(text, "Dest"); lk.Ok() {
		f.Destination = v
	} else {
		f.Warn(plan.FieldInvalid, "destination", "destination airport missing")
	}
	if v, lk := fields.String(text, "Runway"); lk.Ok() {
		f.Runway = v
	}

	legs, legsLk := fields.Int(text, "Legs", cfg.MissingSentinel)
	if !legsLk.Ok() {
		return nil, fmt.Errorf("leg count not found in preamble: %w", plan.ErrPreambleMissing)
	}
	f.DeclaredLegs = legs

	if v, lk := fields.Float(text, "Mach", cfg.MissingSentinel); lk.Ok() {
		f.Mach = plan.F(v)
	} else if lk.Status == fields.Invalid {
		f.Warn(plan.FieldInvalid, "mach", "unparseable value "+lk.Raw)
	}

	takeoff, toLk := fields.Timestamp(text, "Takeoff")
	if !toLk.Ok() {
		return nil, fmt.Errorf("takeoff timestamp not found in preamble: %w", plan.ErrPreambleMissing)
	}
	f.Takeoff = takeoff

	if t, lk := fields.Timestamp(text, "Landing"); lk.Ok() {
		f.Landing = t
	} else {
		f.Warn(plan.FieldInvalid, "landing", "landing timestamp missing")
	}

	if d, lk := fields.Duration(text, "Flt Dur"); lk.Ok() {
		f.FlightDuration = d
	} else {
		f.Warn(plan.FieldInvalid, "flight_duration", "flight duration missing")
	}
	if d, lk := fields.Duration(text, "Obs Dur"); lk.Ok() {
		f.ObservingDuration = d
	}

	if d, lk := fields.Clock(text, "Sunrise"); lk.Ok() {
		f.Sunrise = plan.C(d)
	}
	if d, lk := fields.Clock(text, "Sunset"); lk.Ok() {
		f.Sunset = plan.C(d)
	}

	resolveInstrument(f, cfg)

	return f, nil
}

// detectDialect matches the preamble's first line against the dialect
// table and returns the dialect name, or "" when none matches.
func detectDialect(first string, cfg plan.Config) string {
	for _, d := range cfg.Dialects {
		if d.PreambleLead != "" && strings.HasPrefix(first, d.PreambleLead) {
			return d.Name
		}
	}
	return ""
}

// resolveInstrument maps the two-letter code embedded in the plan filename
// to a canonical instrument name. Filenames look like
// "201909_HA_FABIO.mis"; the code is the first underscore-separated token
// found in the code table.
func resolveInstrument(f *plan.Flight, cfg plan.Config) {
	base := filepath.Base(f.Filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, tok := range strings.Split(base, "_") {
		if name, ok := cfg.Instrument(strings.ToUpper(tok)); ok {
			f.InstrumentCode = strings.ToUpper(tok)
			f.Instrument = name
			return
		}
	}
	f.Instrument = "unknown"
	f.Warn(plan.FieldInvalid, "instrument",
		"no known instrument code in filename "+base)
}

func firstToken(line string) string {
	fs := strings.Fields(line)
	if len(fs) == 0 {
		return ""
	}
	return fs[0]
}
