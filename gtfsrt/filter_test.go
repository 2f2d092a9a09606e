package gtfsrt

import (
	"errors"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestFilterTrips(t *testing.T) {
	feed := decodeTestFeed(t)

	tests := []struct {
		name    string
		filter  TripFilter
		wantIDs []string
	}{
		{
			name:    "no criteria keeps feed order",
			filter:  TripFilter{},
			wantIDs: []string{"090300_1..N", "095650_1..S03R", "096650_1..S04R", "120700_2..N01R"},
		},
		{
			name:    "line",
			filter:  TripFilter{LineID: "1"},
			wantIDs: []string{"090300_1..N", "095650_1..S03R", "096650_1..S04R"},
		},
		{
			name:    "line list",
			filter:  TripFilter{LineID: []string{"1", "2"}},
			wantIDs: []string{"090300_1..N", "095650_1..S03R", "096650_1..S04R", "120700_2..N01R"},
		},
		{
			name:    "line and direction",
			filter:  TripFilter{LineID: "1", TravelDirection: "N"},
			wantIDs: []string{"090300_1..N"},
		},
		{
			name:    "headed for stop",
			filter:  TripFilter{LineID: "1", HeadedForStopID: "123S"},
			wantIDs: []string{"095650_1..S03R", "096650_1..S04R"},
		},
		{
			name:    "headed for any of several stops",
			filter:  TripFilter{HeadedForStopID: []string{"123S", "107N"}},
			wantIDs: []string{"090300_1..N", "095650_1..S03R", "096650_1..S04R"},
		},
		{
			name:    "not underway",
			filter:  TripFilter{LineID: "1", Underway: boolPtr(false)},
			wantIDs: []string{"095650_1..S03R", "096650_1..S04R"},
		},
		{
			name:    "assigned but not underway",
			filter:  TripFilter{LineID: "1", Underway: boolPtr(false), TrainAssigned: boolPtr(true)},
			wantIDs: []string{"095650_1..S03R"},
		},
		{
			name:    "neither assigned nor underway",
			filter:  TripFilter{LineID: "1", Underway: boolPtr(false), TrainAssigned: boolPtr(false)},
			wantIDs: []string{"096650_1..S04R"},
		},
		{
			name:    "shape",
			filter:  TripFilter{ShapeID: "1..S03R"},
			wantIDs: []string{"095650_1..S03R"},
		},
		{
			name:    "shape list",
			filter:  TripFilter{ShapeID: []string{"1..S03R", "1..S04R"}},
			wantIDs: []string{"095650_1..S03R", "096650_1..S04R"},
		},
		{
			name:    "updated within five minutes",
			filter:  TripFilter{UpdatedAfter: feedGenerated.Add(-5 * time.Minute)},
			wantIDs: []string{"090300_1..N"},
		},
		{
			name:    "updated within twenty minutes",
			filter:  TripFilter{UpdatedAfter: feedGenerated.Add(-20 * time.Minute)},
			wantIDs: []string{"090300_1..N", "120700_2..N01R"},
		},
		{
			name:    "updated exactly at the bound",
			filter:  TripFilter{UpdatedAfter: at(15, 56, 17)},
			wantIDs: []string{"090300_1..N"},
		},
		{
			name:    "delayed",
			filter:  TripFilter{HasDelayAlert: boolPtr(true)},
			wantIDs: []string{"120700_2..N01R"},
		},
		{
			name:    "not delayed",
			filter:  TripFilter{HasDelayAlert: boolPtr(false)},
			wantIDs: []string{"090300_1..N", "095650_1..S03R", "096650_1..S04R"},
		},
		{
			name:    "conjunction with no matches",
			filter:  TripFilter{LineID: "2", TravelDirection: "S"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips, err := feed.FilterTrips(tt.filter)
			if err != nil {
				t.Fatalf("FilterTrips: %v", err)
			}
			if len(trips) != len(tt.wantIDs) {
				t.Fatalf("expected %d trips, got %d", len(tt.wantIDs), len(trips))
			}
			for i, id := range tt.wantIDs {
				if got := trips[i].TripID(); got != id {
					t.Errorf("trip %d: expected %s, got %s", i, id, got)
				}
			}
		})
	}
}

func TestFilterTripsInvalidCriterion(t *testing.T) {
	feed := decodeTestFeed(t)

	tests := []struct {
		name   string
		filter TripFilter
	}{
		{name: "numeric line", filter: TripFilter{LineID: 1}},
		{name: "numeric shape", filter: TripFilter{ShapeID: 137123}},
		{name: "numeric stop", filter: TripFilter{HeadedForStopID: 137123}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := feed.FilterTrips(tt.filter); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestFilterTripsFreshSlice(t *testing.T) {
	feed := decodeTestFeed(t)

	first, err := feed.FilterTrips(TripFilter{})
	if err != nil {
		t.Fatalf("FilterTrips: %v", err)
	}
	first[0] = nil

	second, err := feed.FilterTrips(TripFilter{})
	if err != nil {
		t.Fatalf("FilterTrips: %v", err)
	}
	if second[0] == nil {
		t.Error("expected each call to allocate its own result slice")
	}
}
