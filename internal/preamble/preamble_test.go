package preamble

import (
	"errors"
	"testing"
	"time"

	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/sections"
)

func split(t *testing.T, text string) []*sections.Section {
	t.Helper()
	secs, err := sections.Split(text)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	return secs
}

func TestParseNewLayout(t *testing.T) {
	text := `Flight Plan ID: 201909_HA_FABIO
Filename: 201909_HA_FABIO.mis Saved: 2019-Sep-12 20:31:09 UTC
Airport: PMD Dest: DAF Runway: 25 Legs: 5 Mach: 0.84
Takeoff: 2019-Sep-14 04:55:00 UTC Landing: 2019-Sep-14 13:56:00 UTC
Flt Dur: 09:01:00 Obs Dur: 05:30:00
Sunrise: 13:25:00 Sunset: 02:40:00`

	f, err := Parse(split(t, text), "201909_HA_FABIO.mis", plan.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if f.Origin != "PMD" {
		t.Errorf("Origin = %q, want PMD", f.Origin)
	}
	if f.Destination != "DAF" {
		t.Errorf("Destination = %q, want DAF", f.Destination)
	}
	if f.Runway != "25" {
		t.Errorf("Runway = %q, want 25", f.Runway)
	}
	if f.DeclaredLegs != 5 {
		t.Errorf("DeclaredLegs = %d, want 5", f.DeclaredLegs)
	}
	if !f.Mach.Valid || f.Mach.Value != 0.84 {
		t.Errorf("Mach = %+v, want 0.84", f.Mach)
	}

	wantTakeoff := time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC)
	if !f.Takeoff.Equal(wantTakeoff) {
		t.Errorf("Takeoff = %v, want %v", f.Takeoff, wantTakeoff)
	}
	wantLanding := time.Date(2019, time.September, 14, 13, 56, 0, 0, time.UTC)
	if !f.Landing.Equal(wantLanding) {
		t.Errorf("Landing = %v, want %v", f.Landing, wantLanding)
	}

	if f.FlightDuration != 9*time.Hour+time.Minute {
		t.Errorf("FlightDuration = %v", f.FlightDuration)
	}
	if f.ObservingDuration != 5*time.Hour+30*time.Minute {
		t.Errorf("ObservingDuration = %v", f.ObservingDuration)
	}
	if f.Sunrise.String() != "13:25:00" {
		t.Errorf("Sunrise = %q", f.Sunrise.String())
	}

	if f.Instrument != "HAWC+" || f.InstrumentCode != "HA" {
		t.Errorf("Instrument = %q (%q), want HAWC+ (HA)", f.Instrument, f.InstrumentCode)
	}

	for _, w := range f.Warnings {
		if w.Kind == plan.UnknownDialect {
			t.Errorf("unexpected dialect warning: %s", w)
		}
	}
}

func TestParseOldLayout(t *testing.T) {
	text := `Airport: PMD Dest: DAF Runway: 25 Legs: 2 Mach: 0.84
Takeoff: 2016-Feb-04 04:55:00 UTC Landing: 2016-Feb-04 13:56:00 UTC
Flt Dur: 09:01:00`

	f, err := Parse(split(t, text), "201602_FO_DIANA.mis", plan.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.DeclaredLegs != 2 {
		t.Errorf("DeclaredLegs = %d, want 2", f.DeclaredLegs)
	}
	if f.Instrument != "FORCAST" {
		t.Errorf("Instrument = %q, want FORCAST", f.Instrument)
	}
	for _, w := range f.Warnings {
		if w.Kind == plan.UnknownDialect {
			t.Errorf("old layout should be recognised: %s", w)
		}
	}
}

func TestParseUnknownLead(t *testing.T) {
	text := `Mission: FABIO Legs: 1
Takeoff: 2019-Sep-14 04:55:00 UTC`

	f, err := Parse(split(t, text), "x.mis", plan.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var found bool
	for _, w := range f.Warnings {
		if w.Kind == plan.UnknownDialect {
			found = true
		}
	}
	if !found {
		t.Error("expected an unknown-dialect warning")
	}
}

func TestParsePreambleMissing(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no takeoff", "Airport: PMD Legs: 2"},
		{"no leg count", "Airport: PMD\nTakeoff: 2019-Sep-14 04:55:00 UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(split(t, tt.text), "x.mis", plan.DefaultConfig())
			if !errors.Is(err, plan.ErrPreambleMissing) {
				t.Errorf("err = %v, want ErrPreambleMissing", err)
			}
		})
	}

	if _, err := Parse(nil, "x.mis", plan.DefaultConfig()); !errors.Is(err, plan.ErrPreambleMissing) {
		t.Errorf("nil sections err = %v, want ErrPreambleMissing", err)
	}
}

func TestInstrumentUnknownCode(t *testing.T) {
	text := `Airport: PMD Legs: 1
Takeoff: 2019-Sep-14 04:55:00 UTC`

	f, err := Parse(split(t, text), "201909_ZZ_FABIO.mis", plan.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Instrument != "unknown" {
		t.Errorf("Instrument = %q, want unknown", f.Instrument)
	}
}
