package landing

import (
	"testing"
	"time"

	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/sections"
)

func section(t *testing.T, text string) *sections.Section {
	t.Helper()
	secs, err := sections.Split(text)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	return secs[0]
}

func TestParser_Parse(t *testing.T) {
	parser := &Parser{}
	sec := section(t, `Leg 5 (Approach) Start: 08:01:00 Dur: 01:00:00 Alt: 5000 ft
Airport: PMD Runway: 25`)

	if !parser.Match(sec) {
		t.Fatal("Match should accept an approach description")
	}

	leg := parser.Parse(sec, plan.DefaultConfig())
	if leg == nil {
		t.Fatal("expected leg, got nil")
	}
	if leg.Kind != plan.KindLanding {
		t.Errorf("Kind = %v, want landing", leg.Kind)
	}
	if leg.Ordinal != 5 {
		t.Errorf("Ordinal = %d, want 5", leg.Ordinal)
	}
	if leg.Start != 8*time.Hour+time.Minute {
		t.Errorf("Start = %v", leg.Start)
	}
	if leg.Duration != time.Hour {
		t.Errorf("Duration = %v, want 1h", leg.Duration)
	}
	if !leg.Plane.Altitude.Valid || leg.Plane.Altitude.Value != 5000 {
		t.Errorf("Altitude = %+v, want 5000", leg.Plane.Altitude)
	}
}

func TestParser_MatchCaseInsensitive(t *testing.T) {
	parser := &Parser{}
	if !parser.Match(section(t, `Leg 9 (Final approach to KPMD) Start: 10:00:00`)) {
		t.Error("Match should be case-insensitive on the description")
	}
	if parser.Match(section(t, `Leg 9 (Mira) Start: 10:00:00`)) {
		t.Error("Match should reject a science description")
	}
}
