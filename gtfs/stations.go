package gtfs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Station holds the attributes of one platform or station complex from
// stops.txt. NYCT publishes one parent complex per station plus one child
// stop per platform, suffixed N or S for the direction it serves.
type Station struct {
	Name          string
	ParentStation string // empty for parent complexes
}

// Stations maps GTFS stop IDs to station attributes, loaded from the
// stops.txt static GTFS file.
type Stations struct {
	stops map[string]Station
}

// NewStations loads a stops.txt table from r.
func NewStations(r io.Reader) (*Stations, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stops.txt: %w", err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("stops.txt: empty file")
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
	sID := idx("stop_id")
	sName := idx("stop_name")
	sParent := idx("parent_station")
	if sID < 0 || sName < 0 {
		return nil, fmt.Errorf("stops.txt: missing stop_id or stop_name column")
	}

	stations := &Stations{stops: make(map[string]Station, len(rec)-1)}
	for _, row := range rec[1:] {
		st := Station{Name: row[sName]}
		if sParent >= 0 {
			st.ParentStation = row[sParent]
		}
		stations.stops[row[sID]] = st
	}
	return stations, nil
}

// NewStationsFromFile loads a stops.txt table from a file path.
func NewStationsFromFile(path string) (*Stations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewStations(f)
}

// StationName returns the human-readable name for a stop ID, e.g. stop 127
// is "Times Sq-42 St".
func (s *Stations) StationName(stopID string) (string, bool) {
	st, ok := s.stops[stopID]
	return st.Name, ok
}

// Station returns the full attribute record for a stop ID.
func (s *Stations) Station(stopID string) (Station, bool) {
	st, ok := s.stops[stopID]
	return st, ok
}

// Len returns the number of stops in the table.
func (s *Stations) Len() int { return len(s.stops) }
