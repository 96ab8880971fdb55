package series

import (
	"reflect"
	"testing"
	"time"

	"flightplan_parser/internal/plan"
)

func flightWithScience(hash, target, prog string, takeoff time.Time, obsDur time.Duration) *plan.Flight {
	return &plan.Flight{
		Hash:    hash,
		Takeoff: takeoff,
		Legs: []*plan.Leg{
			{
				Ordinal:           1,
				Kind:              plan.KindScience,
				ObsPlanID:         prog,
				ObservingDuration: obsDur,
				Astro:             &plan.Astro{Target: target},
			},
		},
	}
}

func TestGrouping(t *testing.T) {
	rev := New("Cycle 7 south", "rk")

	f1 := flightWithScience("aaa", "NGC 1068", "07_0030",
		time.Date(2022, time.May, 10, 4, 0, 0, 0, time.UTC), 20*time.Minute)
	f2 := flightWithScience("bbb", "NGC 1068", "07_0030",
		time.Date(2022, time.May, 12, 4, 0, 0, 0, time.UTC), 30*time.Minute)

	rev.Add(f1)
	rev.Add(f2)

	g := rev.Grouping()
	obs := g["07_0030"]["NGC 1068"]
	want := []Observation{
		{Date: "2022-05-10", Duration: "00:20:00"},
		{Date: "2022-05-12", Duration: "00:30:00"},
	}
	if !reflect.DeepEqual(obs, want) {
		t.Errorf("grouping = %v, want %v", obs, want)
	}
}

func TestAddIdempotent(t *testing.T) {
	rev := New("S22", "rk")
	f := flightWithScience("aaa", "Mira", "07_0030",
		time.Date(2022, time.May, 10, 4, 0, 0, 0, time.UTC), 20*time.Minute)

	if !rev.Add(f) {
		t.Error("first Add should insert")
	}
	if rev.Add(f) {
		t.Error("second Add of the same hash should be a no-op")
	}
	if rev.Len() != 1 {
		t.Errorf("Len = %d, want 1", rev.Len())
	}

	before := rev.Grouping()
	rev.Add(f)
	after := rev.Grouping()
	if !reflect.DeepEqual(before, after) {
		t.Error("re-adding a flight changed the grouping")
	}
}

func TestFlightsOrderedByTakeoff(t *testing.T) {
	rev := New("S22", "rk")
	late := flightWithScience("ccc", "Mars", "07_0200",
		time.Date(2022, time.June, 1, 4, 0, 0, 0, time.UTC), time.Minute)
	early := flightWithScience("aaa", "Mira", "07_0030",
		time.Date(2022, time.May, 10, 4, 0, 0, 0, time.UTC), time.Minute)

	rev.Add(late)
	rev.Add(early)

	flights := rev.Flights()
	if flights[0] != early || flights[1] != late {
		t.Error("flights not ordered by takeoff")
	}
}

func TestGroupingMergesCaseSensitively(t *testing.T) {
	rev := New("S22", "rk")
	rev.Add(flightWithScience("aaa", "NGC 1068", "07_0030",
		time.Date(2022, time.May, 10, 4, 0, 0, 0, time.UTC), time.Minute))
	rev.Add(flightWithScience("bbb", "ngc 1068", "07_0030",
		time.Date(2022, time.May, 12, 4, 0, 0, 0, time.UTC), time.Minute))

	g := rev.Grouping()
	if len(g["07_0030"]) != 2 {
		t.Errorf("case-differing targets must stay separate, got %v", g.Targets("07_0030"))
	}
}

func TestGroupingSkipsNonScience(t *testing.T) {
	rev := New("S22", "rk")
	f := &plan.Flight{
		Hash:    "ddd",
		Takeoff: time.Date(2022, time.May, 10, 4, 0, 0, 0, time.UTC),
		Legs: []*plan.Leg{
			{Ordinal: 1, Kind: plan.KindTakeoff},
			{Ordinal: 2, Kind: plan.KindDead},
		},
	}
	rev.Add(f)
	if len(rev.Grouping()) != 0 {
		t.Error("non-science legs must not contribute to the grouping")
	}
}
