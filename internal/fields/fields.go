// Package fields provides keyword-based scalar extraction from flight plan
// text. Every extractor is a pure function: it locates the first
// case-insensitive occurrence of a keyword, skips past a colon or the next
// whitespace delimiter, and converts the adjacent token to the target type.
//
// A missing keyword reports Absent; a present-but-unparseable value reports
// Invalid and carries the offending substring.
package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status reports the outcome of a lookup.
type Status int

const (
	Found Status = iota
	Absent
	Invalid
)

// Lookup describes how a keyword lookup went.
type Lookup struct {
	Status Status
	Raw    string // offending substring when Invalid
}

// Ok reports whether the lookup produced a usable value.
func (l Lookup) Ok() bool { return l.Status == Found }

var absent = Lookup{Status: Absent}

func found() Lookup { return Lookup{Status: Found} }

func invalid(raw string) Lookup { return Lookup{Status: Invalid, Raw: raw} }

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// locate finds the first occurrence of key (case-insensitively, on word
// boundaries) in text and returns the remainder after the key and any
// following colon and whitespace. The boundary check keeps a short key
// like "RA" from matching inside a target name like "Mira".
func locate(text, key string) (string, bool) {
	lower := strings.ToLower(text)
	lkey := strings.ToLower(key)
	for start := 0; start <= len(lower)-len(lkey); {
		idx := strings.Index(lower[start:], lkey)
		if idx < 0 {
			return "", false
		}
		idx += start
		end := idx + len(lkey)
		if (idx > 0 && isAlnum(lower[idx-1])) ||
			(end < len(lower) && lower[end] != ':' && lower[end] != ' ' && lower[end] != '\t' && lower[end] != '\n') {
			start = end
			continue
		}
		rest := text[end:]
		rest = strings.TrimLeft(rest, " \t")
		rest = strings.TrimPrefix(rest, ":")
		rest = strings.TrimLeft(rest, " \t")
		return rest, true
	}
	return "", false
}

// token returns the first whitespace-delimited token of s.
func token(s string) string {
	fs := strings.Fields(s)
	if len(fs) == 0 {
		return ""
	}
	return fs[0]
}

// String extracts a whitespace-trimmed token following key.
func String(text, key string) (string, Lookup) {
	rest, ok := locate(text, key)
	if !ok {
		return "", absent
	}
	tok := token(rest)
	if tok == "" {
		return "", invalid("")
	}
	return tok, found()
}

// StringUntil extracts the substring following key up to the first
// occurrence of any stop keyword, or the end of the line. Used for values
// that may contain spaces, e.g. target names.
func StringUntil(text, key string, stops ...string) (string, Lookup) {
	rest, ok := locate(text, key)
	if !ok {
		return "", absent
	}
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	cut := len(rest)
	lower := strings.ToLower(rest)
	for _, stop := range stops {
		if i := strings.Index(lower, strings.ToLower(stop)); i >= 0 && i < cut {
			cut = i
		}
	}
	val := strings.TrimSpace(rest[:cut])
	if val == "" {
		return "", invalid("")
	}
	return val, found()
}

// Int extracts an integer. The sentinel value is normalised to Absent.
func Int(text, key string, sentinel float64) (int, Lookup) {
	tok, lk := String(text, key)
	if !lk.Ok() {
		return 0, lk
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, invalid(tok)
	}
	if float64(v) == sentinel {
		return 0, absent
	}
	return v, found()
}

// Float extracts a float. The sentinel value is normalised to Absent.
func Float(text, key string, sentinel float64) (float64, Lookup) {
	tok, lk := String(text, key)
	if !lk.Ok() {
		return 0, lk
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, invalid(tok)
	}
	if v == sentinel {
		return 0, absent
	}
	return v, found()
}

var hmsRe = regexp.MustCompile(`^(\d{1,3}):(\d{2}):(\d{2})`)

// parseHMS converts an HH:MM:SS prefix to a duration.
func parseHMS(tok string) (time.Duration, bool) {
	m := hmsRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	if mi > 59 || s > 59 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(s)*time.Second, true
}

// Clock extracts an HH:MM:SS time of day as an offset from 00:00:00.
// A trailing zone letter (e.g. "04:55:17Z") is tolerated.
func Clock(text, key string) (time.Duration, Lookup) {
	tok, lk := String(text, key)
	if !lk.Ok() {
		return 0, lk
	}
	d, ok := parseHMS(tok)
	if !ok {
		return 0, invalid(tok)
	}
	return d, found()
}

// Duration extracts an HH:MM:SS duration. Same wire form as Clock.
func Duration(text, key string) (time.Duration, Lookup) {
	return Clock(text, key)
}

// timestampRe matches "YYYY-MMM-DD HH:MM:SS TZ" with a three-letter month
// name. The zone token is interpreted as UTC regardless of its value.
var timestampRe = regexp.MustCompile(`(\d{4})-([A-Za-z]{3})-(\d{1,2})\s+(\d{1,2}):(\d{2}):(\d{2})(?:\s+([A-Za-z]{1,5}))?`)

// Timestamp extracts an absolute timestamp following key.
func Timestamp(text, key string) (time.Time, Lookup) {
	rest, ok := locate(text, key)
	if !ok {
		return time.Time{}, absent
	}
	m := timestampRe.FindStringSubmatch(rest)
	if m == nil {
		return time.Time{}, invalid(token(rest))
	}
	mon := strings.ToUpper(m[2][:1]) + strings.ToLower(m[2][1:])
	t, err := time.ParseInLocation("2006-Jan-2 15:04:05",
		m[1]+"-"+mon+"-"+m[3]+" "+m[4]+":"+m[5]+":"+m[6], time.UTC)
	if err != nil {
		return time.Time{}, invalid(m[0])
	}
	return t, found()
}

// rangeRe matches a bracketed numeric pair "[a, b]".
var rangeRe = regexp.MustCompile(`^\[\s*([-+]?[0-9]*\.?[0-9]+)\s*,\s*([-+]?[0-9]*\.?[0-9]+)\s*\]`)

// Range extracts a bracketed "[a, b]" pair following key.
func Range(text, key string) (a, b float64, lk Lookup) {
	rest, ok := locate(text, key)
	if !ok {
		return 0, 0, absent
	}
	m := rangeRe.FindStringSubmatch(rest)
	if m == nil {
		return 0, 0, invalid(token(rest))
	}
	a, errA := strconv.ParseFloat(m[1], 64)
	b, errB := strconv.ParseFloat(m[2], 64)
	if errA != nil || errB != nil {
		return 0, 0, invalid(m[0])
	}
	return a, b, found()
}

// RangeUnit extracts a bracketed pair plus the unit token immediately
// following the closing bracket, e.g. "[-0.20, -0.19] deg/min".
func RangeUnit(text, key string) (a, b float64, unit string, lk Lookup) {
	rest, ok := locate(text, key)
	if !ok {
		return 0, 0, "", absent
	}
	m := rangeRe.FindStringSubmatch(rest)
	if m == nil {
		return 0, 0, "", invalid(token(rest))
	}
	a, errA := strconv.ParseFloat(m[1], 64)
	b, errB := strconv.ParseFloat(m[2], 64)
	if errA != nil || errB != nil {
		return 0, 0, "", invalid(m[0])
	}
	unit = token(rest[len(m[0]):])
	if !isUnit(unit) {
		unit = ""
	}
	return a, b, unit, found()
}

// isUnit reports whether a token is a unit rather than the next keyword on
// the line. Units are lowercase ("deg/min", "ft"); keywords are capitalised
// or carry their colon ("Moon", "THdg:").
func isUnit(tok string) bool {
	if tok == "" || strings.HasSuffix(tok, ":") {
		return false
	}
	c := tok[0]
	return c >= 'a' && c <= 'z'
}
