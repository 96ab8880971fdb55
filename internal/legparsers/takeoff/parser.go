// Package takeoff parses the takeoff leg of a flight plan.
package takeoff

import (
	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/registry"
	"flightplan_parser/internal/sections"
)

// Parser parses takeoff leg sections. The takeoff leg is always leg 1 and
// carries no astronomical target; its second line gives the departure
// runway and the end-of-leg position in hemisphere-prefixed
// degrees-and-minutes form.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "takeoff" }
func (p *Parser) Kind() plan.LegKind { return plan.KindTakeoff }
func (p *Parser) Priority() int      { return 10 }

// Match: ordinal 1 is the takeoff leg.
func (p *Parser) Match(sec *sections.Section) bool {
	ordinal, _, ok := registry.LegHeader(sec.First())
	return ok && ordinal == 1
}

func (p *Parser) Parse(sec *sections.Section, cfg plan.Config) *plan.Leg {
	ordinal, desc, ok := registry.LegHeader(sec.First())
	if !ok {
		return nil
	}

	leg := &plan.Leg{
		Ordinal: ordinal,
		Kind:    plan.KindTakeoff,
		Comment: desc,
		Plane:   &plan.Plane{},
	}

	first := sec.First()

	// Start offset is zero for takeoff, but parse what the plan says.
	if d, lk := fields.Clock(first, "Start"); lk.Ok() {
		leg.Start = d
	}
	if d, lk := fields.Duration(first, "Dur"); lk.Ok() {
		leg.Duration = d
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "duration", "unparseable value "+lk.Raw)
	}

	if alt, lk := fields.String(first, "Alt"); lk.Ok() {
		if alt == "unknown" {
			// Requested altitude may legitimately be unknown.
		} else if v, lk := fields.Int(first, "Alt", cfg.MissingSentinel); lk.Ok() {
			leg.Plane.Altitude = plan.I(v)
			leg.Plane.AltitudeEnd = plan.I(v)
		} else if lk.Status == fields.Invalid {
			leg.Warn(plan.FieldInvalid, "altitude", "unparseable value "+lk.Raw)
		}
	}

	// Second line: runway plus ending latitude and longitude.
	if len(sec.Lines) > 1 {
		second := sec.Lines[1]
		if rwy, lk := fields.String(second, "Runway"); lk.Ok() {
			leg.Plane.TakeoffRunway = rwy
		}
		if lat, lk := fields.Coordinate(second, "Lat"); lk.Ok() {
			leg.Plane.TakeoffLat = plan.F(lat)
		} else if lk.Status == fields.Invalid {
			leg.Warn(plan.FieldInvalid, "takeoff_lat", "unparseable coordinate "+lk.Raw)
		}
		if lon, lk := fields.Coordinate(second, "Lon"); lk.Ok() {
			leg.Plane.TakeoffLon = plan.F(lon)
		} else if lk.Status == fields.Invalid {
			leg.Warn(plan.FieldInvalid, "takeoff_lon", "unparseable coordinate "+lk.Raw)
		}
	}

	return leg
}
