package render

import (
	"fmt"
	"strings"

	"flightplan_parser/internal/plan"
)

// restFlight renders the reStructuredText dialect: `=`-underlined
// titles, a grid-style table, and per-leg detail blocks for science legs
// that have one attached.
func restFlight(f *plan.Flight, opt Options) string {
	var b strings.Builder

	title := opt.Title
	if title == "" {
		title = f.Filename
	}
	writeTitle(&b, ReST, title)
	metadata(&b, f)
	b.WriteString("\n")

	legs := tableLegs(f)
	rows := make([][]string, 0, len(legs)+1)
	rows = append(rows, legColumns)
	for _, l := range legs {
		rows = append(rows, legRow(l))
	}
	writeGrid(&b, rows)

	for _, l := range f.ScienceLegs() {
		det, ok := opt.Details[l.Ordinal]
		if !ok {
			continue
		}
		b.WriteString("\n")
		writeDetail(&b, l, det)
	}
	return b.String()
}

// writeGrid emits an reST grid table: `+---+` separator rows between
// `| cell |` rows, with the header separated by `=` instead of `-`.
func writeGrid(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	sep := func(fill byte) {
		for _, w := range widths {
			b.WriteByte('+')
			b.WriteString(strings.Repeat(string(fill), w+2))
		}
		b.WriteString("+\n")
	}

	sep('-')
	for i, row := range rows {
		for j, cell := range row {
			fmt.Fprintf(b, "| %-*s ", widths[j], cell)
		}
		b.WriteString("|\n")
		if i == 0 {
			sep('=')
		} else {
			sep('-')
		}
	}
}

// writeDetail emits one science leg's configuration pairs verbatim, then
// the pre-parsed observing-plan summary if one was supplied.
func writeDetail(b *strings.Builder, l *plan.Leg, det Detail) {
	heading := fmt.Sprintf("Leg %d", l.Ordinal)
	if l.Astro != nil && l.Astro.Target != "" {
		heading += " " + l.Astro.Target
	}
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("-", len(heading)) + "\n")

	for _, kv := range det.Config {
		fmt.Fprintf(b, ":%s: %s\n", kv.Key, kv.Value)
	}
	if len(det.Summary) > 0 {
		b.WriteString("\n")
		for _, kv := range det.Summary {
			fmt.Fprintf(b, ":%s: %s\n", kv.Key, kv.Value)
		}
	}
}
