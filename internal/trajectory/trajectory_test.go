package trajectory

import (
	"math"
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

const header = "UTC      MHdg  THdg  Lat      Lon       Wind    Temp  LST    Elev  ROF   ROFrt  LOSWV  SunElev SunHA"

func TestParse(t *testing.T) {
	sec := section(t, header+"\n"+
		"07:05:49 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 23:05 40.9 64.9 -0.20 18.2 -30.5 2.5\n"+
		"07:10:49 212.0 225.6 N43 40.0 W100 6.0 251/26 -52.3 23:10 40.7 64.5 -0.20 18.1 -30.1 2.6")

	takeoff := time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC)
	cur := NewCursor(takeoff)
	legStart := 2 * time.Hour

	steps, warns := Parse(sec, cur, takeoff, legStart, plan.DefaultConfig())
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}

	s := steps[0]
	wantUTC := time.Date(2019, time.September, 14, 7, 5, 49, 0, time.UTC)
	if !s.UTC.Equal(wantUTC) {
		t.Errorf("UTC = %v, want %v", s.UTC, wantUTC)
	}
	if s.SinceTakeoff != wantUTC.Sub(takeoff) {
		t.Errorf("SinceTakeoff = %v", s.SinceTakeoff)
	}
	if s.SinceStart != wantUTC.Sub(takeoff)-legStart {
		t.Errorf("SinceStart = %v", s.SinceStart)
	}
	if !s.MagHeading.Valid || s.MagHeading.Value != 211.9 {
		t.Errorf("MagHeading = %+v", s.MagHeading)
	}
	if !s.TrueHeading.Valid || s.TrueHeading.Value != 225.4 {
		t.Errorf("TrueHeading = %+v", s.TrueHeading)
	}
	if !s.Latitude.Valid || math.Abs(s.Latitude.Value-43.635) > 0.001 {
		t.Errorf("Latitude = %+v, want 43.635", s.Latitude)
	}
	if !s.Longitude.Valid || math.Abs(s.Longitude.Value+100.08) > 0.001 {
		t.Errorf("Longitude = %+v, want -100.08", s.Longitude)
	}
	if !s.WindDirection.Valid || s.WindDirection.Value != 250 {
		t.Errorf("WindDirection = %+v", s.WindDirection)
	}
	if !s.WindSpeed.Valid || s.WindSpeed.Value != 25 {
		t.Errorf("WindSpeed = %+v", s.WindSpeed)
	}
	if !s.OAT.Valid || s.OAT.Value != -52.1 {
		t.Errorf("OAT = %+v", s.OAT)
	}
	if s.LocalTime != "23:05" {
		t.Errorf("LocalTime = %q", s.LocalTime)
	}
	if !s.Elevation.Valid || s.Elevation.Value != 40.9 {
		t.Errorf("Elevation = %+v", s.Elevation)
	}
	if !s.ROF.Valid || s.ROF.Value != 64.9 {
		t.Errorf("ROF = %+v", s.ROF)
	}
	if !s.ROFRate.Valid || s.ROFRate.Value != -0.20 {
		t.Errorf("ROFRate = %+v", s.ROFRate)
	}
	if !s.LOSWV.Valid || s.LOSWV.Value != 18.2 {
		t.Errorf("LOSWV = %+v", s.LOSWV)
	}
	if !s.SunElevation.Valid || s.SunElevation.Value != -30.5 {
		t.Errorf("SunElevation = %+v", s.SunElevation)
	}
	if !s.SunHA.Valid || s.SunHA.Value != 2.5 {
		t.Errorf("SunHA = %+v", s.SunHA)
	}
}

func TestParseMidnightRollover(t *testing.T) {
	sec := section(t, header+"\n"+
		"23:59:00 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 16:59 40.9 64.9 -0.20 18.2 -30.5 2.5\n"+
		"00:01:00 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 17:01 40.9 64.9 -0.20 18.2 -30.5 2.5\n"+
		"00:03:00 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 17:03 40.9 64.9 -0.20 18.2 -30.5 2.5")

	takeoff := time.Date(2020, time.January, 1, 22, 0, 0, 0, time.UTC)
	cur := NewCursor(takeoff)

	steps, warns := Parse(sec, cur, takeoff, 0, plan.DefaultConfig())
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}

	want := []time.Time{
		time.Date(2020, time.January, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2020, time.January, 2, 0, 1, 0, 0, time.UTC),
		time.Date(2020, time.January, 2, 0, 3, 0, 0, time.UTC),
	}
	for i, w := range want {
		if !steps[i].UTC.Equal(w) {
			t.Errorf("step %d UTC = %v, want %v", i, steps[i].UTC, w)
		}
	}
	for i := 1; i < len(steps); i++ {
		if !steps[i].UTC.After(steps[i-1].UTC) {
			t.Errorf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestCursorSpansLegs(t *testing.T) {
	takeoff := time.Date(2020, time.January, 1, 22, 0, 0, 0, time.UTC)
	cur := NewCursor(takeoff)

	first := section(t, header+"\n"+
		"23:50:00 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 16:50 40.9 64.9 -0.20 18.2 -30.5 2.5")
	second := section(t, header+"\n"+
		"00:10:00 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 17:10 40.9 64.9 -0.20 18.2 -30.5 2.5")

	cfg := plan.DefaultConfig()
	a, _ := Parse(first, cur, takeoff, 0, cfg)
	b, _ := Parse(second, cur, takeoff, 0, cfg)

	// The roll-over happens between legs; the second leg's sample must
	// land on the next day.
	want := time.Date(2020, time.January, 2, 0, 10, 0, 0, time.UTC)
	if !b[0].UTC.Equal(want) {
		t.Errorf("second leg UTC = %v, want %v", b[0].UTC, want)
	}
	if !b[0].UTC.After(a[0].UTC) {
		t.Error("cross-leg timestamps must increase")
	}
}

func TestParseMissingValues(t *testing.T) {
	sec := section(t, header+"\n"+
		"07:05:49 N/A 225.4 N43 38.1 W100 4.8 N/A -9999 23:05 40.9 N/A -0.20 N/A -30.5 N/A")

	takeoff := time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC)
	steps, _ := Parse(sec, NewCursor(takeoff), takeoff, 0, plan.DefaultConfig())
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}

	s := steps[0]
	if s.MagHeading.Valid {
		t.Errorf("N/A MagHeading should be missing, got %+v", s.MagHeading)
	}
	if s.OAT.Valid {
		t.Errorf("sentinel OAT should be missing, got %+v", s.OAT)
	}
	if s.WindDirection.Valid || s.WindSpeed.Valid {
		t.Errorf("N/A wind should be missing, got %+v %+v", s.WindDirection, s.WindSpeed)
	}
	if s.ROF.Valid {
		t.Errorf("N/A ROF should be missing, got %+v", s.ROF)
	}
	if s.SunHA.Valid {
		t.Errorf("N/A SunHA should be missing, got %+v", s.SunHA)
	}
	// A missing value is never zero with Valid set.
	if s.MagHeading.Value != 0 {
		t.Errorf("missing value should be the zero Float, got %+v", s.MagHeading)
	}
}

func TestParseOldLayoutNoSunHA(t *testing.T) {
	oldHeader := "UTC      MHdg  THdg  Lat      Lon       Wind    Temp  LST    Elev  ROF   ROFrt  LOSWV  SunElev"
	sec := section(t, oldHeader+"\n"+
		"07:05:49 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 23:05 40.9 64.9 -0.20 18.2 -30.5")

	takeoff := time.Date(2016, time.February, 4, 4, 55, 0, 0, time.UTC)
	steps, warns := Parse(sec, NewCursor(takeoff), takeoff, 0, plan.DefaultConfig())
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	if steps[0].SunHA.Valid {
		t.Errorf("old layout has no SunHA, got %+v", steps[0].SunHA)
	}
}

func TestParseShortRowWarns(t *testing.T) {
	sec := section(t, header+"\n"+
		"07:05:49 211.9 225.4\n"+
		"07:10:49 212.0 225.6 N43 40.0 W100 6.0 251/26 -52.3 23:10 40.7 64.5 -0.20 18.1 -30.1 2.6")

	takeoff := time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC)
	steps, warns := Parse(sec, NewCursor(takeoff), takeoff, 0, plan.DefaultConfig())
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	if len(warns) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warns))
	}
	if warns[0].Kind != plan.FieldInvalid {
		t.Errorf("warning kind = %v", warns[0].Kind)
	}
	if warns[0].Line != 2 {
		t.Errorf("warning line = %d, want 2", warns[0].Line)
	}
}

func TestParseStopsAtAnnotations(t *testing.T) {
	sec := section(t, header+"\n"+
		"07:05:49 211.9 225.4 N43 38.1 W100 4.8 250/25 -52.1 23:05 40.9 64.9 -0.20 18.2 -30.5 2.5\n"+
		"Potential line-of-sight rewind at 07:40:00\n"+
		"07:10:49 212.0 225.6 N43 40.0 W100 6.0 251/26 -52.3 23:10 40.7 64.5 -0.20 18.1 -30.1 2.6")

	takeoff := time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC)
	steps, warns := Parse(sec, NewCursor(takeoff), takeoff, 0, plan.DefaultConfig())
	if len(steps) != 1 {
		t.Errorf("got %d steps, want 1 (annotation block must stop the table)", len(steps))
	}
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}
}
