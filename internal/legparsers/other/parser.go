// Package other is the catch-all leg parser. It handles legs that match no
// classifier row, including legs whose header structure matches neither
// known layout; those are kept as "other" with an unknown-dialect warning
// rather than failing the flight.
package other

import (
	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/registry"
	"flightplan_parser/internal/sections"
)

// Parser is the catch-all leg parser.
type Parser struct{}

func init() {
	registry.RegisterCatchAll(&Parser{})
}

func (p *Parser) Name() string       { return "other" }
func (p *Parser) Kind() plan.LegKind { return plan.KindOther }
func (p *Parser) Priority() int      { return 100 }

// Match always succeeds; the registry only consults catch-alls after every
// table row declined.
func (p *Parser) Match(sec *sections.Section) bool { return true }

func (p *Parser) Parse(sec *sections.Section, cfg plan.Config) *plan.Leg {
	leg := &plan.Leg{
		Kind:  plan.KindOther,
		Plane: &plan.Plane{},
	}

	first := sec.First()
	ordinal, desc, ok := registry.LegHeader(first)
	if ok {
		leg.Ordinal = ordinal
		leg.Comment = desc
	} else {
		leg.Warn(plan.UnknownDialect, "header",
			"leg header matches no known layout: "+first)
	}

	if d, lk := fields.Clock(first, "Start"); lk.Ok() {
		leg.Start = d
	}
	if d, lk := fields.Duration(first, "Dur"); lk.Ok() {
		leg.Duration = d
	}
	if v, lk := fields.Int(first, "Alt", cfg.MissingSentinel); lk.Ok() {
		leg.Plane.Altitude = plan.I(v)
		leg.Plane.AltitudeEnd = plan.I(v)
	}

	return leg
}
