// Package render turns parsed flights into cheat-sheet text. Three output
// dialects are supported; they share one table model and differ only in
// row separators. Renderers never fail: any missing field becomes an
// empty cell.
package render

import (
	"fmt"
	"strings"
	"time"

	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/series"
)

// Dialect selects the cheat-sheet output format.
type Dialect int

const (
	Wiki Dialect = iota
	ReST
	CSV
)

func (d Dialect) String() string {
	switch d {
	case ReST:
		return "rest"
	case CSV:
		return "csv"
	}
	return "wiki"
}

// ParseDialect maps a user-supplied dialect name to a Dialect. Unknown
// names are rejected here, at the driver boundary, so the renderers
// themselves never see one.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wiki", "":
		return Wiki, nil
	case "rest", "rst":
		return ReST, nil
	case "csv":
		return CSV, nil
	}
	return Wiki, fmt.Errorf("unknown cheat-sheet dialect %q", s)
}

// KV is one configured key/value pair attached to a science leg's detail
// block. The renderer emits pairs verbatim; it never parses them.
type KV struct {
	Key   string
	Value string
}

// Detail is the optional per-leg extra material for the reST dialect:
// the leg's configuration pairs and, when supplied, the already-parsed
// summary of its observing plan.
type Detail struct {
	Config  []KV
	Summary []KV
}

// Options carries renderer inputs that do not live on the Flight itself.
type Options struct {
	// Title overrides the default title (the flight filename).
	Title string

	// Details maps leg ordinal to its detail block. Only the reST
	// dialect consumes it.
	Details map[int]Detail
}

// legColumns is the cheat-sheet table header, identical across dialects.
var legColumns = []string{
	"Leg", "Start", "Kind", "Obs Blk", "Target", "RA", "Dec",
	"Obs Dur", "Elev", "ROF", "ROF rate", "THdg rate",
}

// Flight renders one flight as a cheat sheet in the given dialect.
func Flight(d Dialect, f *plan.Flight, opt Options) string {
	switch d {
	case ReST:
		return restFlight(f, opt)
	case CSV:
		return csvFlight(f, opt)
	}
	return wikiFlight(f, opt)
}

// Series renders a whole review: a title block naming the series and
// reviewer, the derived programme grouping, then each flight's cheat
// sheet in takeoff order.
func Series(d Dialect, rev *series.Review, opt Options) string {
	var b strings.Builder

	title := opt.Title
	if title == "" {
		title = rev.Name
	}
	writeTitle(&b, d, title)
	if rev.Reviewer != "" {
		fmt.Fprintf(&b, "Reviewer: %s\n", rev.Reviewer)
	}
	b.WriteString("\n")

	writeGrouping(&b, rev.Grouping())

	for _, f := range rev.Flights() {
		b.WriteString("\n")
		b.WriteString(Flight(d, f, Options{Details: opt.Details}))
	}
	return b.String()
}

func writeGrouping(b *strings.Builder, g series.Grouping) {
	for _, prog := range g.Programmes() {
		fmt.Fprintf(b, "%s\n", prog)
		for _, target := range g.Targets(prog) {
			fmt.Fprintf(b, "  %s\n", target)
			for _, obs := range g[prog][target] {
				fmt.Fprintf(b, "    %s  %s\n", obs.Date, obs.Duration)
			}
		}
	}
}

// writeTitle emits the underlined title block. The wiki and CSV dialects
// underline with dashes, reST with the `=` its readers expect.
func writeTitle(b *strings.Builder, d Dialect, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	ul := byte('-')
	if d == ReST {
		ul = '='
	}
	b.WriteString(strings.Repeat(string(ul), len(title)))
	b.WriteString("\n")
}

// metadata emits the per-flight metadata block: filename, vintage, and
// the one-line flight summary.
func metadata(b *strings.Builder, f *plan.Flight) {
	fmt.Fprintf(b, "Filename: %s\n", f.Filename)
	if !f.SavedAt.IsZero() {
		fmt.Fprintf(b, "Saved: %s\n", f.SavedAt.UTC().Format("2006-Jan-02 15:04:05 MST"))
	}
	fmt.Fprintf(b, "%s to %s, %d legs, takeoff %s, landing %s, flight duration %s, observing %s\n",
		orDash(f.Origin), orDash(f.Destination), len(f.Legs),
		stamp(f.Takeoff), stamp(f.Landing),
		plan.FormatHMS(f.FlightDuration), plan.FormatHMS(f.ObservingDuration))
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// tableLegs returns the legs the cheat-sheet table includes, in source
// order. Dead and other legs are omitted.
func tableLegs(f *plan.Flight) []*plan.Leg {
	var out []*plan.Leg
	for _, l := range f.Legs {
		switch l.Kind {
		case plan.KindTakeoff, plan.KindScience, plan.KindLanding:
			out = append(out, l)
		}
	}
	return out
}

// legRow builds one table row. Non-science legs leave the astronomical
// columns empty.
func legRow(l *plan.Leg) []string {
	row := make([]string, len(legColumns))
	row[0] = fmt.Sprintf("%d", l.Ordinal)
	row[1] = fmt.Sprintf("%.1f", l.StartHours())
	row[2] = l.Kind.String()

	if l.Kind == plan.KindScience {
		row[3] = l.ObsBlockID
		if l.Astro != nil {
			row[4] = l.Astro.Target
			row[5] = l.Astro.RA
			row[6] = l.Astro.Dec
		}
		row[7] = plan.FormatHMS(l.ObservingDuration)
		if l.Plane != nil {
			row[8] = l.Plane.Elevation.String()
			row[9] = l.Plane.ROF.String()
			row[10] = rangeWithUnit(l.Plane.ROFRate, l.Plane.ROFRateUnit)
			row[11] = rangeWithUnit(l.Plane.TrueHeadingRate, l.Plane.THdgRateUnit)
		}
	}
	return row
}

func rangeWithUnit(r plan.Range, unit string) string {
	if !r.Valid {
		return ""
	}
	if unit == "" {
		return r.String()
	}
	return r.String() + " " + unit
}
