// Package science parses science legs: the observation legs of a flight
// plan, carrying the astronomical target and the attitude constraint block.
//
// Two historical layouts are accepted. The older puts the moon and
// true-heading constraints on the same line as the elevation and ROF
// ranges; the newer dialect inserts an FPI channel indicator and moves them
// to a fifth line. Detection is by the dialect table's science marker
// token, not by position, so both layouts fall out of the same keyword
// extraction.
package science

import (
	"strings"

	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/registry"
	"flightplan_parser/internal/sections"
)

// obsPlanKey begins the second line of every science leg.
const obsPlanKey = "ObspID"

// Parser parses science leg sections.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "science" }
func (p *Parser) Kind() plan.LegKind { return plan.KindScience }
func (p *Parser) Priority() int      { return 40 }

// Match: the second line of a science leg begins with the observing-plan
// key.
func (p *Parser) Match(sec *sections.Section) bool {
	if !registry.IsLegSection(sec) || len(sec.Lines) < 2 {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(sec.Lines[1]), obsPlanKey)
}

func (p *Parser) Parse(sec *sections.Section, cfg plan.Config) *plan.Leg {
	ordinal, desc, ok := registry.LegHeader(sec.First())
	if !ok {
		return nil
	}

	leg := &plan.Leg{
		Ordinal: ordinal,
		Kind:    plan.KindScience,
		Comment: desc,
		Astro:   &plan.Astro{},
		Plane:   &plan.Plane{},
	}

	p.parseFirstLine(leg, sec.First(), cfg)
	p.parseObsPlan(leg, sec.Text())
	p.parsePointing(leg, sec.Text(), cfg)
	p.parseConstraints(leg, sec, cfg)

	return leg
}

// parseFirstLine extracts start, duration and the requested altitude
// range. The description can overflow the fixed columns; extraction is by
// keyword, so overflow does not shift fields.
func (p *Parser) parseFirstLine(leg *plan.Leg, line string, cfg plan.Config) {
	if d, lk := fields.Clock(line, "Start"); lk.Ok() {
		leg.Start = d
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "start", "unparseable value "+lk.Raw)
	}
	if d, lk := fields.Duration(line, "Dur"); lk.Ok() {
		leg.Duration = d
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "duration", "unparseable value "+lk.Raw)
	}

	altStart, startLk := fields.Int(line, "Alt Start", cfg.MissingSentinel)
	altEnd, endLk := fields.Int(line, "Alt End", cfg.MissingSentinel)
	if !startLk.Ok() && !endLk.Ok() {
		// Single-altitude form: "Alt: 39000 ft" or "Alt: unknown".
		if tok, lk := fields.String(line, "Alt"); lk.Ok() && tok != "unknown" {
			if v, lk := fields.Int(line, "Alt", cfg.MissingSentinel); lk.Ok() {
				altStart, startLk = v, lk
				altEnd, endLk = v, lk
			} else if lk.Status == fields.Invalid {
				leg.Warn(plan.FieldInvalid, "altitude", "unparseable value "+lk.Raw)
			}
		}
	}
	switch {
	case startLk.Ok() && endLk.Ok():
		leg.Plane.Altitude = plan.I(altStart)
		leg.Plane.AltitudeEnd = plan.I(altEnd)
	case startLk.Ok():
		leg.Plane.Altitude = plan.I(altStart)
		leg.Plane.AltitudeEnd = plan.I(altStart)
		leg.Warn(plan.SoftAdjustment, "altitude_end", "filled altitude-end from altitude-start")
	case endLk.Ok():
		leg.Plane.Altitude = plan.I(altEnd)
		leg.Plane.AltitudeEnd = plan.I(altEnd)
		leg.Warn(plan.SoftAdjustment, "altitude", "filled altitude-start from altitude-end")
	}
}

// parseObsPlan extracts the observing-plan block: plan id, block id,
// priority and observing duration.
func (p *Parser) parseObsPlan(leg *plan.Leg, text string) {
	if v, lk := fields.String(text, obsPlanKey); lk.Ok() {
		leg.ObsPlanID = v
	} else {
		leg.Warn(plan.FieldInvalid, "obs_plan_id", "observing-plan identifier not found")
	}
	if v, lk := fields.String(text, "Blk"); lk.Ok() {
		leg.ObsBlockID = v
	}
	if v, lk := fields.String(text, "Priority"); lk.Ok() {
		leg.Priority = v
	}
	if d, lk := fields.Duration(text, "Obs Dur"); lk.Ok() {
		leg.ObservingDuration = d
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "observing_duration", "unparseable value "+lk.Raw)
	}
}

// parsePointing extracts the target, coordinates and equinox, plus the
// NAIF identifier line that flags a non-siderial target.
func (p *Parser) parsePointing(leg *plan.Leg, text string, cfg plan.Config) {
	if v, lk := fields.StringUntil(text, "Target", "RA:", "Dec:", "Equinox:"); lk.Ok() {
		leg.Astro.Target = v
	}
	if v, lk := fields.String(text, "RA"); lk.Ok() {
		leg.Astro.RA = v
	}
	if v, lk := fields.String(text, "Dec"); lk.Ok() {
		leg.Astro.Dec = v
	}
	if v, lk := fields.String(text, "Equinox"); lk.Ok() {
		leg.Astro.Equinox = v
	}

	if v, lk := fields.Int(text, "NAIF ID", cfg.MissingSentinel); lk.Ok() {
		leg.Astro.NonSiderial = true
		leg.Astro.NAIFID = plan.I(v)
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "naif_id", "unparseable value "+lk.Raw)
	}
}

// parseConstraints extracts the attitude constraint block: elevation, ROF
// and ROF rate ranges, the moon constraints, the true-heading ranges, and
// the FPI channel when the newer dialect supplies it.
func (p *Parser) parseConstraints(leg *plan.Leg, sec *sections.Section, cfg plan.Config) {
	for _, line := range sec.Lines {
		if strings.Contains(line, "Elev:") {
			leg.Plane.Elevation = p.normRange(leg, "elevation", line, "Elev", cfg)
		}
		if idx := strings.Index(line, "ROF:"); idx >= 0 {
			sub := line[idx:]
			leg.Plane.ROF = p.normRange(leg, "rof", sub, "ROF", cfg)
			if a, b, unit, lk := fields.RangeUnit(sub, "rate"); lk.Ok() {
				leg.Plane.ROFRate = plan.R(a, b)
				leg.Plane.ROFRateUnit = unit
			} else if lk.Status == fields.Invalid {
				leg.Warn(plan.FieldInvalid, "rof_rate", "unparseable range "+lk.Raw)
			}
		}
		if idx := strings.Index(line, "THdg:"); idx >= 0 {
			sub := line[idx:]
			leg.Plane.TrueHeading = p.normRange(leg, "true_heading", sub, "THdg", cfg)
			if a, b, unit, lk := fields.RangeUnit(sub, "rate"); lk.Ok() {
				leg.Plane.TrueHeadingRate = plan.R(a, b)
				leg.Plane.THdgRateUnit = unit
			} else if lk.Status == fields.Invalid {
				leg.Warn(plan.FieldInvalid, "thdg_rate", "unparseable range "+lk.Raw)
			}
		}
	}

	text := sec.Text()
	if v, lk := fields.Int(text, "Moon Angle", cfg.MissingSentinel); lk.Ok() {
		leg.Astro.MoonAngle = plan.I(v)
	}
	if v, lk := fields.String(text, "Moon Illum"); lk.Ok() {
		leg.Astro.MoonIllum = v
	}

	// The newer dialect marks its layout with the FPI channel token.
	for _, d := range cfg.Dialects {
		if d.ScienceMarker == "" || !strings.Contains(text, d.ScienceMarker) {
			continue
		}
		if v, lk := fields.Int(text, d.ScienceMarker, cfg.MissingSentinel); lk.Ok() {
			leg.Plane.FPI = plan.I(v)
		}
		break
	}
}

// normRange parses a bracketed range and applies the sentinel rules: a
// sentinel end is filled from the other end with a recorded note; a range
// that is all sentinel stays missing.
func (p *Parser) normRange(leg *plan.Leg, field, text, key string, cfg plan.Config) plan.Range {
	a, b, lk := fields.Range(text, key)
	if !lk.Ok() {
		if lk.Status == fields.Invalid {
			leg.Warn(plan.FieldInvalid, field, "unparseable range "+lk.Raw)
		}
		return plan.Range{}
	}
	sentinel := cfg.MissingSentinel
	switch {
	case a == sentinel && b == sentinel:
		return plan.Range{}
	case b == sentinel:
		leg.Warn(plan.SoftAdjustment, field, "filled range-end from range-start")
		b = a
	case a == sentinel:
		leg.Warn(plan.SoftAdjustment, field, "filled range-start from range-end")
		a = b
	}
	return plan.R(a, b)
}
