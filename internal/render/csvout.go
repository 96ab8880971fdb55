package render

import (
	"encoding/csv"
	"strings"

	"flightplan_parser/internal/plan"
)

// column indices in the shared leg-row model, exported for table
// consumers that parse Rows output back.
const (
	ColOrdinal = iota
	ColStart
	ColKind
	ColObsBlk
	ColTarget
	ColRA
	ColDec
	ColObsDur
	ColElev
	ColROF
	ColROFRate
	ColTHdgRate
)

// csvFlight renders the comma-separated dialect: RFC-4180 quoting,
// header row first. The title and metadata blocks are emitted as plain
// lines above the table so the sheet stays self-describing.
func csvFlight(f *plan.Flight, opt Options) string {
	var b strings.Builder

	title := opt.Title
	if title == "" {
		title = f.Filename
	}
	writeTitle(&b, CSV, title)
	metadata(&b, f)
	b.WriteString("\n")
	b.WriteString(Rows(f))
	return b.String()
}

// Rows renders only the leg table as CSV, header row first. It is split
// out from csvFlight so table consumers can skip the prose blocks.
func Rows(f *plan.Flight) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(legColumns)
	for _, l := range tableLegs(f) {
		w.Write(legRow(l))
	}
	w.Flush()
	return b.String()
}
