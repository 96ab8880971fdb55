package plan

import (
	"time"
)

// LegKind identifies the phase of flight a leg represents.
type LegKind int

const (
	KindTakeoff LegKind = iota
	KindLanding
	KindDead
	KindScience
	KindOther
)

var legKindNames = [...]string{"takeoff", "landing", "dead", "science", "other"}

func (k LegKind) String() string {
	if int(k) < len(legKindNames) {
		return legKindNames[k]
	}
	return "other"
}

// KindFromString maps a kind name back to its LegKind; unknown names map
// to KindOther.
func KindFromString(s string) LegKind {
	for i, name := range legKindNames {
		if name == s {
			return LegKind(i)
		}
	}
	return KindOther
}

func (k LegKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *LegKind) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	*k = KindFromString(s)
	return nil
}

// Flight is the parsed form of one mission itinerary file. It is immutable
// from the perspective of downstream consumers; renderers and aggregators
// hold read-only references.
type Flight struct {
	Filename string `json:"filename"`

	// Hash is the hex SHA-256 digest of the source bytes. It is the key
	// used to identify the flight across series.
	Hash string `json:"hash"`

	SavedAt     time.Time `json:"saved_at,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Runway      string    `json:"runway,omitempty"` // destination runway

	// DeclaredLegs is the leg count stated in the preamble. A mismatch
	// with len(Legs) is recorded as an invariant-violation warning.
	DeclaredLegs int `json:"declared_legs"`

	Mach    Float     `json:"mach"`
	Takeoff time.Time `json:"takeoff"`
	Landing time.Time `json:"landing"`

	FlightDuration    time.Duration `json:"flight_duration"`
	ObservingDuration time.Duration `json:"observing_duration"`

	Sunrise Clock `json:"sunrise"`
	Sunset  Clock `json:"sunset"`

	// Instrument is the canonical instrument name resolved from the
	// two-letter code embedded in the plan filename.
	Instrument     string `json:"instrument"`
	InstrumentCode string `json:"instrument_code,omitempty"`

	Legs []*Leg `json:"legs"`

	Warnings []Warning `json:"warnings,omitempty"`

	Review *Review `json:"review,omitempty"`
}

// Warn attaches a warning to the flight.
func (f *Flight) Warn(kind WarningKind, field, detail string) {
	f.Warnings = append(f.Warnings, Warning{Kind: kind, Field: field, Detail: detail})
}

// ScienceLegs returns the science legs in source order.
func (f *Flight) ScienceLegs() []*Leg {
	var out []*Leg
	for _, l := range f.Legs {
		if l.Kind == KindScience {
			out = append(out, l)
		}
	}
	return out
}

// AllWarnings returns flight-level warnings followed by every leg's warnings.
func (f *Flight) AllWarnings() []Warning {
	out := append([]Warning(nil), f.Warnings...)
	for _, l := range f.Legs {
		out = append(out, l.Warnings...)
	}
	return out
}

// Date returns the takeoff date as YYYY-MM-DD.
func (f *Flight) Date() string {
	return f.Takeoff.UTC().Format("2006-01-02")
}

// Leg is one contiguous phase of the flight. A Leg is owned exclusively by
// its Flight.
type Leg struct {
	Ordinal int     `json:"ordinal"` // 1-based, matches source numbering
	Kind    LegKind `json:"kind"`

	Start             time.Duration `json:"start"`    // offset from takeoff
	Duration          time.Duration `json:"duration"` // length of the leg
	ObservingDuration time.Duration `json:"observing_duration"`

	Comment string `json:"comment,omitempty"` // free-text description from the leg header

	ObsPlanID  string `json:"obs_plan_id,omitempty"`
	ObsBlockID string `json:"obs_block_id,omitempty"`
	Priority   string `json:"priority,omitempty"`

	Astro *Astro `json:"astro,omitempty"`
	Plane *Plane `json:"plane,omitempty"`
	Steps Steps  `json:"steps,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// Warn attaches a warning to the leg.
func (l *Leg) Warn(kind WarningKind, field, detail string) {
	l.Warnings = append(l.Warnings, Warning{Kind: kind, Field: field, Detail: detail})
}

// StartHours returns the leg start offset in hours since takeoff.
func (l *Leg) StartHours() float64 {
	return l.Start.Hours()
}

// Astro holds the astronomical payload of a science leg.
type Astro struct {
	Target  string `json:"target"`
	RA      string `json:"ra,omitempty"`  // sexagesimal hours-minutes-seconds
	Dec     string `json:"dec,omitempty"` // sexagesimal degrees-arcmin-arcsec
	Equinox string `json:"equinox,omitempty"`

	// NonSiderial targets carry a NAIF solar-system body identifier in
	// place of fixed coordinates.
	NonSiderial bool `json:"non_siderial,omitempty"`
	NAIFID      Int  `json:"naif_id"`

	MoonAngle Int    `json:"moon_angle"`           // degrees
	MoonIllum string `json:"moon_illum,omitempty"` // percent string as stored, e.g. "31%"
}

// Plane holds the aircraft-attitude constraints of a leg.
type Plane struct {
	// Altitude is the requested altitude in feet. Invalid when the source
	// says "unknown".
	Altitude    Int `json:"altitude"`
	AltitudeEnd Int `json:"altitude_end"`

	Elevation Range `json:"elevation,omitempty"` // degrees

	ROF         Range  `json:"rof,omitempty"` // degrees
	ROFRate     Range  `json:"rof_rate,omitempty"`
	ROFRateUnit string `json:"rof_rate_unit,omitempty"`

	TrueHeading     Range  `json:"true_heading,omitempty"` // degrees
	TrueHeadingRate Range  `json:"true_heading_rate,omitempty"`
	THdgRateUnit    string `json:"thdg_rate_unit,omitempty"`

	FPI Int `json:"fpi"` // focal-plane imager channel, newer dialect only

	// Takeoff legs only: departure runway and end-of-leg position.
	TakeoffRunway string `json:"takeoff_runway,omitempty"`
	TakeoffLat    Float  `json:"takeoff_lat"`
	TakeoffLon    Float  `json:"takeoff_lon"`
}

// Steps is the time-sampled trajectory of a leg.
type Steps []Step

// Step is one aircraft state sample. Timestamps are absolute UTC,
// reconstructed from the flight's takeoff date with midnight roll-over
// detection.
type Step struct {
	UTC time.Time `json:"utc"`

	SinceTakeoff time.Duration `json:"since_takeoff"` // relative to flight takeoff
	SinceStart   time.Duration `json:"since_start"`   // relative to leg start

	MagHeading  Float `json:"mag_heading"`  // degrees, raw (not unwrapped)
	TrueHeading Float `json:"true_heading"` // degrees, raw (not unwrapped)

	Latitude  Float `json:"latitude"`  // signed decimal degrees
	Longitude Float `json:"longitude"` // signed decimal degrees

	WindDirection Float `json:"wind_direction"` // degrees
	WindSpeed     Float `json:"wind_speed"`     // knots

	OAT       Float  `json:"oat"` // outside air temperature, Celsius
	LocalTime string `json:"local_time,omitempty"`

	Elevation Float `json:"elevation"` // degrees
	ROF       Float `json:"rof"`       // degrees
	ROFRate   Float `json:"rof_rate"`  // degrees/minute
	LOSWV     Float `json:"loswv"`     // line-of-sight water vapour

	SunElevation Float `json:"sun_elevation"` // degrees
	SunHA        Float `json:"sun_ha"`        // hour angle, newer dialect only
}

// Review carries optional reviewer annotations for a flight.
type Review struct {
	Notes    []string `json:"notes,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Tips     []string `json:"tips,omitempty"`
	Rating   string   `json:"rating,omitempty"`
}
