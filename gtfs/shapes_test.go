package gtfs

import (
	"strings"
	"testing"
)

const tripsFixture = `route_id,service_id,trip_id,trip_headsign,direction_id,block_id,shape_id
1,Weekday,AFA21GEN-1038-Weekday-00_000600_1..S03R,South Ferry,1,,1..S03R
1,Weekday,AFA21GEN-1038-Weekday-00_003150_1..S03R,South Ferry,1,,1..S03R
1,Weekday,AFA21GEN-1038-Weekday-00_004200_1..N03R,Van Cortlandt Park-242 St,0,,1..N03R
A,Weekday,BFA21GEN-A048-Weekday-00_012345_A..N55R,Inwood-207 St,0,,
`

func TestNewTripShapes(t *testing.T) {
	shapes, err := NewTripShapes(strings.NewReader(tripsFixture))
	if err != nil {
		t.Fatalf("NewTripShapes() error: %v", err)
	}

	if shapes.Len() != 3 {
		t.Errorf("expected 3 shapes, got %d", shapes.Len())
	}

	tests := []struct {
		name     string
		shapeID  string
		want     string
		wantMiss bool
	}{
		{
			name:    "southbound 1 shape",
			shapeID: "1..S03R",
			want:    "South Ferry",
		},
		{
			name:    "northbound 1 shape",
			shapeID: "1..N03R",
			want:    "Van Cortlandt Park-242 St",
		},
		{
			name:    "shape without explicit shape_id column value",
			shapeID: "A..N55R",
			want:    "Inwood-207 St",
		},
		{
			name:     "unknown shape",
			shapeID:  "Q..N16R",
			wantMiss: true,
		},
		{
			name:     "empty shape",
			shapeID:  "",
			wantMiss: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := shapes.Headsign(tt.shapeID)
			if tt.wantMiss {
				if ok {
					t.Errorf("expected miss for %q, got %q", tt.shapeID, got)
				}
				return
			}
			if !ok {
				t.Fatalf("expected headsign for %q, got miss", tt.shapeID)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewTripShapes_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "empty file",
			data: "",
		},
		{
			name: "missing headsign column",
			data: "route_id,service_id,trip_id\n1,Weekday,A_000600_1..S03R\n",
		},
		{
			name: "trip id without shape segment",
			data: "route_id,service_id,trip_id,trip_headsign\n1,Weekday,bogus,South Ferry\n",
		},
		{
			name: "explicit shape_id disagrees with trip id",
			data: "route_id,service_id,trip_id,trip_headsign,direction_id,block_id,shape_id\n" +
				"1,Weekday,A_000600_1..S03R,South Ferry,1,,1..N03R\n",
		},
		{
			name: "same shape with two headsigns",
			data: "route_id,service_id,trip_id,trip_headsign\n" +
				"1,Weekday,A_000600_1..S03R,South Ferry\n" +
				"1,Weekday,A_000700_1..S03R,Rector St\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTripShapes(strings.NewReader(tt.data)); err == nil {
				t.Error("expected load error, got nil")
			}
		})
	}
}
