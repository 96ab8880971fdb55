// Package assemble runs the full parsing pipeline: section splitting,
// preamble parsing, per-leg dispatch, trajectory decoding, and the
// post-parse validation pass that turns invariant violations into
// structured warnings on the flight.
package assemble

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/preamble"
	"flightplan_parser/internal/registry"
	"flightplan_parser/internal/sections"
	"flightplan_parser/internal/trajectory"

	_ "flightplan_parser/internal/legparsers" // register all leg parsers via init()
)

// durationTolerance is how far the sum of leg durations may drift from the
// declared flight duration before a violation is recorded.
const durationTolerance = time.Minute

// ParseFile reads a plan file and parses it. The file is read to
// completion and closed before any parsing work begins; no handle is held
// across the parse.
func ParseFile(path string, cfg plan.Config) (*plan.Flight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return Parse(data, filepath.Base(path), cfg)
}

// Parse converts plan bytes into a Flight. Parsing is a pure function of
// the bytes: identical input yields an identical flight, and the content
// hash is a pure function of the input.
//
// Fatal errors (ErrMalformedPlan, ErrPreambleMissing) abort parsing; all
// softer findings are attached to the returned flight as warnings.
func Parse(data []byte, filename string, cfg plan.Config) (*plan.Flight, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input: %w", plan.ErrMalformedPlan)
	}

	secs, err := sections.Split(string(data))
	if err != nil {
		return nil, err
	}

	// The preamble is everything before the first leg section.
	legStart := len(secs)
	for i, s := range secs {
		if registry.IsLegSection(s) {
			legStart = i
			break
		}
	}

	f, err := preamble.Parse(secs[:legStart], filename, cfg)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	f.Hash = hex.EncodeToString(sum[:])

	reg := registry.Default()
	reg.Sort()

	cur := trajectory.NewCursor(f.Takeoff)
	for _, sec := range secs[legStart:] {
		switch {
		case registry.IsLegSection(sec):
			if leg := reg.Dispatch(sec, cfg); leg != nil {
				f.Legs = append(f.Legs, leg)
			}
		case registry.IsTrajectorySection(sec):
			if len(f.Legs) == 0 {
				f.Warn(plan.UnknownDialect, "trajectory",
					"trajectory table before any leg section")
				continue
			}
			leg := f.Legs[len(f.Legs)-1]
			steps, warns := trajectory.Parse(sec, cur, f.Takeoff, leg.Start, cfg)
			leg.Steps = steps
			leg.Warnings = append(leg.Warnings, warns...)
		}
	}

	// Ordinals are 1-based in source order; restore any a parser could
	// not read from its header.
	for i, leg := range f.Legs {
		if leg.Ordinal == 0 {
			leg.Ordinal = i + 1
		}
	}

	validate(f)

	return f, nil
}

// validate enforces the flight-level invariants, attaching violations as
// warnings. It never fails: soft violations do not abort a parse that got
// this far.
func validate(f *plan.Flight) {
	if len(f.Legs) != f.DeclaredLegs {
		f.Warn(plan.InvariantViolation, "legs",
			fmt.Sprintf("parsed %d legs, preamble declares %d", len(f.Legs), f.DeclaredLegs))
	}

	if !f.Landing.IsZero() && f.Landing.Before(f.Takeoff) {
		f.Warn(plan.InvariantViolation, "landing", "landing is before takeoff")
	}

	seen := make(map[int]bool)
	var total time.Duration
	for i, leg := range f.Legs {
		total += leg.Duration

		if seen[leg.Ordinal] || leg.Ordinal < 1 || leg.Ordinal > len(f.Legs) {
			f.Warn(plan.InvariantViolation, "ordinal",
				fmt.Sprintf("leg ordinal %d is out of sequence", leg.Ordinal))
		}
		seen[leg.Ordinal] = true

		switch leg.Kind {
		case plan.KindTakeoff:
			if leg.Ordinal != 1 {
				f.Warn(plan.InvariantViolation, "takeoff",
					fmt.Sprintf("takeoff leg has ordinal %d", leg.Ordinal))
			}
			if leg.Astro != nil && leg.Astro.Target != "" {
				f.Warn(plan.InvariantViolation, "takeoff",
					"takeoff leg carries an astronomical target")
			}
		case plan.KindLanding:
			if i != len(f.Legs)-1 {
				f.Warn(plan.InvariantViolation, "landing",
					fmt.Sprintf("landing leg %d is not last", leg.Ordinal))
			}
		case plan.KindScience:
			validateScience(f, leg)
		}

		validateSteps(f, leg)
	}

	if f.FlightDuration > 0 {
		diff := total - f.FlightDuration
		if diff < 0 {
			diff = -diff
		}
		if diff > durationTolerance {
			f.Warn(plan.InvariantViolation, "flight_duration",
				fmt.Sprintf("leg durations sum to %s, preamble declares %s",
					plan.FormatHMS(total), plan.FormatHMS(f.FlightDuration)))
		}
	}
}

func validateScience(f *plan.Flight, leg *plan.Leg) {
	if leg.Astro == nil {
		f.Warn(plan.InvariantViolation, "science",
			fmt.Sprintf("science leg %d has no astronomical payload", leg.Ordinal))
		return
	}
	if leg.Astro.Target == "" {
		f.Warn(plan.InvariantViolation, "science",
			fmt.Sprintf("science leg %d has no target", leg.Ordinal))
	}
	if leg.Astro.Equinox == "" {
		f.Warn(plan.InvariantViolation, "science",
			fmt.Sprintf("science leg %d has no equinox", leg.Ordinal))
	}
	if !leg.Astro.NonSiderial && (leg.Astro.RA == "" || leg.Astro.Dec == "") {
		f.Warn(plan.InvariantViolation, "science",
			fmt.Sprintf("science leg %d has neither coordinates nor an orbital-element block", leg.Ordinal))
	}
}

// validateSteps checks trajectory monotonicity: within a leg, absolute
// timestamps never decrease.
func validateSteps(f *plan.Flight, leg *plan.Leg) {
	for i := 1; i < len(leg.Steps); i++ {
		if leg.Steps[i].UTC.Before(leg.Steps[i-1].UTC) {
			f.Warn(plan.InvariantViolation, "steps",
				fmt.Sprintf("leg %d sample %d moves backwards in time", leg.Ordinal, i))
		}
	}
}
