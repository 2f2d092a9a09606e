package gtfs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// TripShapes maps GTFS shape IDs to headsign text, loaded from the trips.txt
// static GTFS file. NYCT encodes the shape ID as the third underscore-separated
// segment of every scheduled trip ID, so the table is keyed by that segment
// rather than by whole trip IDs.
type TripShapes struct {
	headsigns map[string]string // shape_id -> trip_headsign
}

// NewTripShapes loads a trips.txt table from r.
func NewTripShapes(r io.Reader) (*TripShapes, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("trips.txt: %w", err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("trips.txt: empty file")
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	tID := idx("trip_id")
	hs := idx("trip_headsign")
	sh := idx("shape_id")
	if tID < 0 || hs < 0 {
		return nil, fmt.Errorf("trips.txt: missing trip_id or trip_headsign column")
	}

	shapes := &TripShapes{headsigns: make(map[string]string, len(rec)-1)}
	for n, row := range rec[1:] {
		parts := strings.Split(row[tID], "_")
		if len(parts) < 3 {
			return nil, fmt.Errorf("trips.txt row %d: trip_id %q has no shape segment", n+2, row[tID])
		}
		shapeID := parts[2]
		// The explicit shape_id column, when filled, must agree with the
		// segment embedded in the trip ID.
		if sh >= 0 && row[sh] != "" && row[sh] != shapeID {
			return nil, fmt.Errorf("trips.txt row %d: shape_id %q does not match trip_id segment %q", n+2, row[sh], shapeID)
		}
		headsign := row[hs]
		if prev, ok := shapes.headsigns[shapeID]; ok {
			if prev != headsign {
				return nil, fmt.Errorf("trips.txt row %d: shape %q maps to both %q and %q", n+2, shapeID, prev, headsign)
			}
			continue
		}
		shapes.headsigns[shapeID] = headsign
	}
	return shapes, nil
}

// NewTripShapesFromFile loads a trips.txt table from a file path.
func NewTripShapesFromFile(path string) (*TripShapes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewTripShapes(f)
}

// Headsign returns the headsign text for a shape ID, usually the name of the
// terminal station (e.g. "Wakefield-241 St").
func (s *TripShapes) Headsign(shapeID string) (string, bool) {
	text, ok := s.headsigns[shapeID]
	return text, ok
}

// Len returns the number of distinct shapes in the table.
func (s *TripShapes) Len() int { return len(s.headsigns) }
