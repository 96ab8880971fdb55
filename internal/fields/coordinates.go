// Coordinate decoding for hemisphere-prefixed degree-minute values.

package fields

import (
	"strconv"
	"strings"
)

// HemisphereDegMin decodes a coordinate written as two tokens, e.g.
// "N37 30.5" or "W122 21.8", into signed decimal degrees. South and west
// are negative. The prefix token carries the hemisphere letter followed by
// whole degrees; the second token is decimal minutes.
func HemisphereDegMin(prefix, minutes string) (float64, bool) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		return 0, false
	}
	dir := prefix[:1]
	switch dir {
	case "N", "S", "E", "W":
	default:
		return 0, false
	}

	deg, err := strconv.ParseFloat(prefix[1:], 64)
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(minutes), 64)
	if err != nil {
		return 0, false
	}

	val := deg + min/60.0
	if dir == "S" || dir == "W" {
		val = -val
	}
	return val, true
}

// Coordinate extracts a hemisphere-prefixed degree-minute coordinate
// following key, e.g. `Lat: N37 30.5`.
func Coordinate(text, key string) (float64, Lookup) {
	rest, ok := locate(text, key)
	if !ok {
		return 0, absent
	}
	toks := strings.Fields(rest)
	if len(toks) < 2 {
		return 0, invalid(strings.TrimSpace(rest))
	}
	v, ok := HemisphereDegMin(toks[0], toks[1])
	if !ok {
		return 0, invalid(toks[0] + " " + toks[1])
	}
	return v, found()
}

// IsHemisphereToken reports whether a token looks like the first half of a
// hemisphere-prefixed coordinate ("N37", "W122").
func IsHemisphereToken(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	switch tok[0] {
	case 'N', 'S', 'E', 'W':
	default:
		return false
	}
	_, err := strconv.ParseFloat(tok[1:], 64)
	return err == nil
}
