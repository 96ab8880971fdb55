package storage

import (
	"path/filepath"
	"testing"
	"time"

	"flightplan_parser/internal/plan"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testFlight(hash string) *plan.Flight {
	return &plan.Flight{
		Filename:    "201909_HA_FABIO.mis",
		Hash:        hash,
		Origin:      "PMD",
		Destination: "DAF",
		Instrument:  "HAWC+",
		Takeoff:     time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC),
		Landing:     time.Date(2019, time.September, 14, 13, 56, 0, 0, time.UTC),
		Legs: []*plan.Leg{
			{Ordinal: 1, Kind: plan.KindTakeoff},
		},
	}
}

func TestInsertFlightDedupes(t *testing.T) {
	db := testDB(t)
	f := testFlight("aaa111")

	id, inserted, err := db.InsertFlight(f)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted || id == 0 {
		t.Errorf("first insert: id=%d inserted=%v", id, inserted)
	}

	_, inserted, err = db.InsertFlight(f)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Error("same content hash must not insert twice")
	}
}

func TestFlightByHash(t *testing.T) {
	db := testDB(t)
	if _, _, err := db.InsertFlight(testFlight("aaa111")); err != nil {
		t.Fatal(err)
	}

	sf, err := db.FlightByHash("aaa111")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if sf == nil {
		t.Fatal("flight not found")
	}
	if sf.Origin != "PMD" || sf.Destination != "DAF" {
		t.Errorf("row = %+v", sf)
	}
	if sf.LegCount != 1 {
		t.Errorf("LegCount = %d, want 1", sf.LegCount)
	}
	if !sf.Takeoff.Equal(time.Date(2019, time.September, 14, 4, 55, 0, 0, time.UTC)) {
		t.Errorf("Takeoff = %v", sf.Takeoff)
	}

	missing, err := db.FlightByHash("zzz")
	if err != nil {
		t.Fatalf("query missing: %v", err)
	}
	if missing != nil {
		t.Errorf("unknown hash should return nil, got %+v", missing)
	}
}

func TestFlightsOrderedByTakeoff(t *testing.T) {
	db := testDB(t)

	late := testFlight("bbb")
	late.Takeoff = time.Date(2019, time.October, 1, 4, 0, 0, 0, time.UTC)
	early := testFlight("aaa")

	if _, _, err := db.InsertFlight(late); err != nil {
		t.Fatal(err)
	}
	if _, _, err := db.InsertFlight(early); err != nil {
		t.Fatal(err)
	}

	flights, err := db.Flights()
	if err != nil {
		t.Fatalf("Flights: %v", err)
	}
	if len(flights) != 2 {
		t.Fatalf("got %d flights, want 2", len(flights))
	}
	if flights[0].Hash != "aaa" || flights[1].Hash != "bbb" {
		t.Errorf("order = %s, %s", flights[0].Hash, flights[1].Hash)
	}
}

func TestAcquisitionLog(t *testing.T) {
	db := testDB(t)
	a := Acquisition{
		Filename:  "F0612_HA_POL_07003001.fits",
		MissionID: "2019-09-14_HA_F612",
		Object:    "NGC 1068",
		ExpTime:   120.5,
	}

	inserted, err := db.InsertAcquisition(a)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Error("first insert should report inserted")
	}

	inserted, err = db.InsertAcquisition(a)
	if err != nil {
		t.Fatalf("rescan insert: %v", err)
	}
	if inserted {
		t.Error("same filename must not insert twice")
	}

	rows, err := db.Acquisitions("2019-09-14_HA_F612")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Object != "NGC 1068" || rows[0].ExpTime != 120.5 {
		t.Errorf("row = %+v", rows[0])
	}

	if rows, _ := db.Acquisitions("other-mission"); len(rows) != 0 {
		t.Errorf("unexpected rows for other mission: %v", rows)
	}
}
