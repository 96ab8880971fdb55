// Package landing parses the final-approach leg of a flight plan.
package landing

import (
	"strings"

	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/registry"
	"flightplan_parser/internal/sections"
)

// Parser parses landing leg sections. Only the first line carries data;
// the remaining lines repeat preamble facts and are ignored.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "landing" }
func (p *Parser) Kind() plan.LegKind { return plan.KindLanding }
func (p *Parser) Priority() int      { return 20 }

// Match: the landing leg's description mentions the approach.
func (p *Parser) Match(sec *sections.Section) bool {
	_, desc, ok := registry.LegHeader(sec.First())
	return ok && strings.Contains(strings.ToLower(desc), "approach")
}

func (p *Parser) Parse(sec *sections.Section, cfg plan.Config) *plan.Leg {
	ordinal, desc, ok := registry.LegHeader(sec.First())
	if !ok {
		return nil
	}

	leg := &plan.Leg{
		Ordinal: ordinal,
		Kind:    plan.KindLanding,
		Comment: desc,
		Plane:   &plan.Plane{},
	}

	first := sec.First()
	if d, lk := fields.Clock(first, "Start"); lk.Ok() {
		leg.Start = d
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "start", "unparseable value "+lk.Raw)
	}
	if d, lk := fields.Duration(first, "Dur"); lk.Ok() {
		leg.Duration = d
	} else if lk.Status == fields.Invalid {
		leg.Warn(plan.FieldInvalid, "duration", "unparseable value "+lk.Raw)
	}
	if v, lk := fields.Int(first, "Alt", cfg.MissingSentinel); lk.Ok() {
		leg.Plane.Altitude = plan.I(v)
		leg.Plane.AltitudeEnd = plan.I(v)
	}

	return leg
}
