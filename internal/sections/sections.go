// Package sections splits a flight plan into blank-line-delimited sections.
// It does no interpretation of content; downstream parsers decide what each
// section is.
package sections

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"flightplan_parser/internal/plan"
)

// Section is a contiguous run of non-empty lines.
type Section struct {
	// Lines are the section's lines with trailing whitespace trimmed.
	Lines []string

	// Start is the 1-based line number of the first line in the source,
	// kept for diagnostic messages.
	Start int
}

// First returns the first line of the section, or "" when empty.
func (s *Section) First() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return s.Lines[0]
}

// Text joins the section's lines back into a single block.
func (s *Section) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Line returns the 1-based source line number of the i-th line.
func (s *Section) Line(i int) int {
	return s.Start + i
}

// Split breaks the plan text on runs of blank lines. It fails only when
// the input is empty or not decodable as UTF-8.
func Split(text string) ([]*Section, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("input is not valid UTF-8: %w", plan.ErrMalformedPlan)
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var out []*Section
	var cur *Section
	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" {
			cur = nil
			continue
		}
		if cur == nil {
			cur = &Section{Start: i + 1}
			out = append(out, cur)
		}
		cur.Lines = append(cur.Lines, line)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("input contains no content: %w", plan.ErrMalformedPlan)
	}
	return out, nil
}
