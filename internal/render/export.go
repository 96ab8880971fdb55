package render

import (
	"encoding/json"
	"fmt"

	"flightplan_parser/internal/plan"
)

// Export serialises a flight as structured key/value records, one record
// per flight with nested records per leg and per sample. The encoding
// round-trips: Import(Export(f)) reproduces f.
func Export(f *plan.Flight) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export flight %s: %w", f.Filename, err)
	}
	return append(data, '\n'), nil
}

// Import regenerates a Flight from its exported form.
func Import(data []byte) (*plan.Flight, error) {
	var f plan.Flight
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("import flight: %w", err)
	}
	return &f, nil
}
