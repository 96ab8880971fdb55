package render

import (
	"strings"

	"flightplan_parser/internal/plan"
)

// wikiFlight renders the lightweight-markup dialect: rows begin and end
// with a pipe, cells are pipe-separated, header cells are wrapped in
// asterisks.
func wikiFlight(f *plan.Flight, opt Options) string {
	var b strings.Builder

	title := opt.Title
	if title == "" {
		title = f.Filename
	}
	writeTitle(&b, Wiki, title)
	metadata(&b, f)
	b.WriteString("\n")

	b.WriteString("|")
	for _, col := range legColumns {
		b.WriteString("*" + col + "*|")
	}
	b.WriteString("\n")

	for _, l := range tableLegs(f) {
		b.WriteString("|")
		for _, cell := range legRow(l) {
			b.WriteString(cell + "|")
		}
		b.WriteString("\n")
	}
	return b.String()
}
