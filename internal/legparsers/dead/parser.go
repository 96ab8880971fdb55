// Package dead parses dead legs: repositioning legs with no observation.
package dead

import (
	"strings"

	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/registry"
	"flightplan_parser/internal/sections"
)

// Parser parses dead leg sections. First line only; no astronomical
// payload.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string       { return "dead" }
func (p *Parser) Kind() plan.LegKind { return plan.KindDead }
func (p *Parser) Priority() int      { return 30 }

func (p *Parser) Match(sec *sections.Section) bool {
	_, desc, ok := registry.LegHeader(sec.First())
	return ok && strings.Contains(strings.ToLower(desc), "dead")
}

func (p *Parser) Parse(sec *sections.Section, cfg plan.Config) *plan.Leg {
	ordinal, desc, ok := registry.LegHeader(sec.First())
	if !ok {
		return nil
	}

	leg := &plan.Leg{
		Ordinal: ordinal,
		Kind:    plan.KindDead,
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
