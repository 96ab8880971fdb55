package plan

import "errors"

// Fatal parse errors. Everything softer than these is attached to the
// Flight as a Warning and the best-effort value is still returned.
var (
	// ErrMalformedPlan means the input is empty or not valid UTF-8.
	ErrMalformedPlan = errors.New("malformed plan")

	// ErrPreambleMissing means the takeoff timestamp or leg count could
	// not be located in the preamble.
	ErrPreambleMissing = errors.New("preamble missing required fields")
)

// WarningKind classifies soft parse findings.
type WarningKind int

const (
	// UnknownDialect: a leg header matched neither known layout; the leg
	// was kept as "other".
	UnknownDialect WarningKind = iota

	// FieldInvalid: a field was present but could not be coerced to its
	// type; the field was left missing.
	FieldInvalid

	// InvariantViolation: a post-parse invariant failed (leg count
	// mismatch, landing before takeoff, ...).
	InvariantViolation

	// SoftAdjustment: a documented auto-correction was applied, e.g.
	// filling a missing range-end from the range-start.
	SoftAdjustment
)

var warningKindNames = [...]string{
	"unknown_dialect",
	"field_invalid",
	"invariant_violation",
	"soft_adjustment",
}

func (k WarningKind) String() string {
	if int(k) < len(warningKindNames) {
		return warningKindNames[k]
	}
	return "unknown"
}

func (k WarningKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *WarningKind) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	for i, name := range warningKindNames {
		if name == s {
			*k = WarningKind(i)
			return nil
		}
	}
	*k = FieldInvalid
	return nil
}

// Warning is a structured soft finding attached to a Flight or Leg.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Field  string      `json:"field,omitempty"`
	Detail string      `json:"detail"`
	Line   int         `json:"line,omitempty"` // 1-based source line when known
}

func (w Warning) String() string {
	if w.Field != "" {
		return w.Kind.String() + " " + w.Field + ": " + w.Detail
	}
	return w.Kind.String() + ": " + w.Detail
}
