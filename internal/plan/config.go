package plan

// Config carries the immutable tables the parser consults. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// InstrumentCodes maps the two-letter code embedded in plan filenames
	// to the canonical instrument name.
	InstrumentCodes map[string]string

	// MissingSentinel is the numeric value the planning tool writes for
	// fields it has no data for.
	MissingSentinel float64

	// Dialects lists the known plan layouts, newest first.
	Dialects []DialectSpec
}

// DialectSpec describes one historical plan layout. New dialects are added
// by extending this table, not by branching in parser code.
type DialectSpec struct {
	Name string

	// PreambleLead is the keyword the preamble's first line starts with.
	PreambleLead string

	// ScienceMarker, when present in a science leg's pointing line,
	// selects this dialect's five-line layout.
	ScienceMarker string

	// TrajectoryMarker, when present in a trajectory header, selects
	// this dialect's column layout.
	TrajectoryMarker string
}

// DefaultConfig returns the production parser configuration.
func DefaultConfig() Config {
	return Config{
		InstrumentCodes: map[string]string{
			"EX": "EXES",
			"FC": "FLITECAM",
			"FF": "FPI+",
			"FI": "FIFI-LS",
			"FO": "FORCAST",
			"FP": "FLIPO",
			"GR": "GREAT",
			"HA": "HAWC+",
			"HI": "HIPO",
			"HM": "HIRMES",
			"NA": "NotApplicable",
			"NO": "MassDummy",
		},
		MissingSentinel: -9999,
		Dialects: []DialectSpec{
			{
				Name:             "v2",
				PreambleLead:     "Flight Plan ID:",
				ScienceMarker:    "FPI",
				TrajectoryMarker: "SunHA",
			},
			{
				Name:         "v1",
				PreambleLead: "Airport:",
			},
		},
	}
}

// Instrument resolves a two-letter instrument code. The second return
// value reports whether the code was known.
func (c Config) Instrument(code string) (string, bool) {
	name, ok := c.InstrumentCodes[code]
	return name, ok
}
