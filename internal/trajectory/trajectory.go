// Package trajectory parses the fixed-column time-step table embedded in
// each leg into a typed sample sequence.
package trajectory

import (
	"strconv"
	"strings"
	"time"

	"flightplan_parser/internal/fields"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/sections"
)

// annotationStop terminates the sample rows; everything from this token on
// is the planner's free-text annotation block.
const annotationStop = "Potential"

// Cursor tracks the current flight day across legs so that a single
// midnight roll-over anywhere in the plan yields strictly increasing
// absolute timestamps. A sample whose time of day is less than its
// predecessor's advances the day by one.
type Cursor struct {
	date time.Time     // midnight UTC of the current flight day
	last time.Duration // previous sample's time of day
}

// NewCursor starts a cursor at the flight's takeoff timestamp.
func NewCursor(takeoff time.Time) *Cursor {
	t := takeoff.UTC()
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &Cursor{date: date, last: t.Sub(date)}
}

// resolve turns a time of day into an absolute UTC timestamp, advancing
// the day on roll-over.
func (c *Cursor) resolve(tod time.Duration) time.Time {
	if tod < c.last {
		c.date = c.date.Add(24 * time.Hour)
	}
	c.last = tod
	return c.date.Add(tod)
}

// Parse decodes a trajectory section into step samples. The header line's
// first token is UTC; the presence of the newer dialect's marker column
// (SunHA) selects the wider layout. Rows run until the section ends or the
// annotation block begins. Non-numeric columns (N/A) and the missing
// sentinel decode to missing, never to zero.
func Parse(sec *sections.Section, cur *Cursor, takeoff time.Time, legStart time.Duration, cfg plan.Config) (plan.Steps, []plan.Warning) {
	var steps plan.Steps
	var warns []plan.Warning

	header := sec.First()
	hasSunHA := false
	for _, d := range cfg.Dialects {
		if d.TrajectoryMarker != "" && strings.Contains(header, d.TrajectoryMarker) {
			hasSunHA = true
			break
		}
	}

	// Old layout: UTC MHdg THdg Lat(2) Lon(2) Wind Temp LST Elev ROF
	// ROFrt LOSWV SunElev = 15 tokens; the newer layout appends SunHA.
	want := 15
	if hasSunHA {
		want = 16
	}

	for i, line := range sec.Lines[1:] {
		toks := strings.Fields(line)
		if len(toks) == 0 {
			continue
		}
		if strings.HasPrefix(toks[0], annotationStop) {
			break
		}

		if len(toks) < want {
			warns = append(warns, plan.Warning{
				Kind:   plan.FieldInvalid,
				Field:  "trajectory",
				Detail: "short sample row: " + line,
				Line:   sec.Line(i + 1),
			})
			continue
		}

		tod, err := todOf(toks[0])
		if err != nil {
			warns = append(warns, plan.Warning{
				Kind:   plan.FieldInvalid,
				Field:  "trajectory",
				Detail: "unparseable sample time " + toks[0],
				Line:   sec.Line(i + 1),
			})
			continue
		}

		// Token layout: utc mhdg thdg latH latM lonH lonM wind temp
		// lst elev rof rofrt loswv sunelev [sunha].
		s := plan.Step{
			UTC:          cur.resolve(tod),
			MagHeading:   num(toks[1], cfg),
			TrueHeading:  num(toks[2], cfg),
			OAT:          num(toks[8], cfg),
			LocalTime:    toks[9],
			Elevation:    num(toks[10], cfg),
			ROF:          num(toks[11], cfg),
			ROFRate:      num(toks[12], cfg),
			LOSWV:        num(toks[13], cfg),
			SunElevation: num(toks[14], cfg),
		}
		s.SinceTakeoff = s.UTC.Sub(takeoff)
		s.SinceStart = s.SinceTakeoff - legStart

		if lat, ok := fields.HemisphereDegMin(toks[3], toks[4]); ok {
			s.Latitude = plan.F(lat)
		}
		if lon, ok := fields.HemisphereDegMin(toks[5], toks[6]); ok {
			s.Longitude = plan.F(lon)
		}

		s.WindDirection, s.WindSpeed = wind(toks[7], cfg)

		if hasSunHA {
			s.SunHA = num(toks[15], cfg)
		}

		steps = append(steps, s)
	}

	return steps, warns
}

// todOf parses an HH:MM:SS token into a time-of-day offset.
func todOf(tok string) (time.Duration, error) {
	return plan.ParseHMS(tok)
}

// num decodes a numeric column; N/A, any non-numeric token, and the
// missing sentinel all decode to a missing value.
func num(tok string, cfg plan.Config) plan.Float {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v == cfg.MissingSentinel {
		return plan.Float{}
	}
	return plan.F(v)
}

// wind decodes a "direction/speed" column.
func wind(tok string, cfg plan.Config) (dir, speed plan.Float) {
	parts := strings.SplitN(tok, "/", 2)
	if len(parts) != 2 {
		return plan.Float{}, plan.Float{}
	}
	return num(parts[0], cfg), num(parts[1], cfg)
}
