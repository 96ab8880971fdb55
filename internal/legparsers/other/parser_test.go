package other

import (
	"testing"

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

func TestParser_UnknownHeader(t *testing.T) {
	parser := &Parser{}
	sec := section(t, `Segment 4 -- repositioning Start: 02:00:00 Dur: 00:30:00`)

	leg := parser.Parse(sec, plan.DefaultConfig())
	if leg == nil {
		t.Fatal("expected leg, got nil")
	}
	if leg.Kind != plan.KindOther {
		t.Errorf("Kind = %v, want other", leg.Kind)
	}

	var warned bool
	for _, w := range leg.Warnings {
		if w.Kind == plan.UnknownDialect {
			warned = true
		}
	}
	if !warned {
		t.Error("expected an unknown-dialect warning")
	}

	// Best-effort extraction still runs on the unknown layout.
	if leg.Start.String() != "2h0m0s" {
		t.Errorf("Start = %v", leg.Start)
	}
}

func TestParser_KnownHeaderNoWarning(t *testing.T) {
	parser := &Parser{}
	sec := section(t, `Leg 3 (Setup) Start: 01:30:00 Dur: 00:10:00`)

	leg := parser.Parse(sec, plan.DefaultConfig())
	if leg == nil {
		t.Fatal("expected leg, got nil")
	}
	if leg.Ordinal != 3 || leg.Comment != "Setup" {
		t.Errorf("Ordinal = %d Comment = %q", leg.Ordinal, leg.Comment)
	}
	if len(leg.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", leg.Warnings)
	}
}
