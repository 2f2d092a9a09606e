package gtfsrt

import (
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/citytransit-labs/nyct-gtfsrt/nyct"
)

// Fixtures are assembled in memory. Values mirror an A division snapshot
// recorded on the afternoon of 2021-11-26.

var feedGenerated = time.Date(2021, time.November, 26, 15, 56, 25, 0, time.Local)

func at(hour, min, sec int) time.Time {
	return time.Date(2021, time.November, 26, hour, min, sec, 0, time.Local)
}

type stubShapes map[string]string

func (s stubShapes) Headsign(shapeID string) (string, bool) {
	text, ok := s[shapeID]
	return text, ok
}

type stubStations map[string]string

func (s stubStations) StationName(stopID string) (string, bool) {
	name, ok := s[stopID]
	return name, ok
}

var testShapes = stubShapes{
	"1..N":    "Van Cortlandt Park-242 St",
	"1..S03R": "South Ferry",
	"1..S04R": "South Ferry",
	"2..N01R": "Wakefield-241 St",
}

var testStations = stubStations{
	"101N": "Van Cortlandt Park-242 St",
	"101S": "Van Cortlandt Park-242 St",
	"103N": "238 St",
	"103S": "238 St",
	"104N": "231 St",
	"106N": "Marble Hill-225 St",
	"107N": "215 St",
	"123S": "72 St",
	"142S": "South Ferry",
	"201N": "Wakefield-241 St",
	"A02N": "Inwood-207 St",
}

func setField(m protoreflect.Message, name string, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(protoreflect.Name(name)), v)
}

func setExtension(m proto.Message, xt protoreflect.ExtensionType, build func(protoreflect.Message)) {
	val := xt.New()
	build(val.Message())
	m.ProtoReflect().Set(xt.TypeDescriptor(), val)
}

func newHeader(generated time.Time, replacementEnds map[string]time.Time) *gtfsrtpb.FeedHeader {
	header := &gtfsrtpb.FeedHeader{
		GtfsRealtimeVersion: proto.String("1.0"),
		Timestamp:           proto.Uint64(uint64(generated.Unix())),
	}
	setExtension(header, nyct.FeedHeaderExt(), func(m protoreflect.Message) {
		setField(m, "nyct_subway_version", protoreflect.ValueOfString("1.0"))
		list := m.Mutable(m.Descriptor().Fields().ByName("trip_replacement_period")).List()
		for route, end := range replacementEnds {
			elem := list.NewElement()
			period := elem.Message()
			setField(period, "route_id", protoreflect.ValueOfString(route))
			window := period.Mutable(period.Descriptor().Fields().ByName("replacement_period")).Message()
			setField(window, "end", protoreflect.ValueOfUint64(uint64(end.Unix())))
			list.Append(elem)
		}
	})
	return header
}

func newTripDescriptor(tripID, trainID, routeID string, assigned bool) *gtfsrtpb.TripDescriptor {
	trip := &gtfsrtpb.TripDescriptor{
		TripId:    proto.String(tripID),
		RouteId:   proto.String(routeID),
		StartDate: proto.String("20211126"),
	}
	setExtension(trip, nyct.TripDescriptorExt(), func(m protoreflect.Message) {
		setField(m, "train_id", protoreflect.ValueOfString(trainID))
		if assigned {
			setField(m, "is_assigned", protoreflect.ValueOfBool(true))
		}
	})
	return trip
}

// stopCall describes one stop time update. Zero times are left unset, as are
// empty tracks.
type stopCall struct {
	stopID     string
	arrival    time.Time
	departure  time.Time
	schedTrack string
	actTrack   string
}

func (c stopCall) build() *gtfsrtpb.TripUpdate_StopTimeUpdate {
	stu := &gtfsrtpb.TripUpdate_StopTimeUpdate{StopId: proto.String(c.stopID)}
	if !c.arrival.IsZero() {
		stu.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(c.arrival.Unix())}
	}
	if !c.departure.IsZero() {
		stu.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(c.departure.Unix())}
	}
	if c.schedTrack != "" || c.actTrack != "" {
		setExtension(stu, nyct.StopTimeUpdateExt(), func(m protoreflect.Message) {
			if c.schedTrack != "" {
				setField(m, "scheduled_track", protoreflect.ValueOfString(c.schedTrack))
			}
			if c.actTrack != "" {
				setField(m, "actual_track", protoreflect.ValueOfString(c.actTrack))
			}
		})
	}
	return stu
}

func tripUpdateEntity(id string, trip *gtfsrtpb.TripDescriptor, calls []stopCall) *gtfsrtpb.FeedEntity {
	update := &gtfsrtpb.TripUpdate{Trip: trip}
	for _, c := range calls {
		update.StopTimeUpdate = append(update.StopTimeUpdate, c.build())
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(id), TripUpdate: update}
}

func vehicleEntity(id string, trip *gtfsrtpb.TripDescriptor, stopID string, seq uint32, status *gtfsrtpb.VehiclePosition_VehicleStopStatus, ts time.Time) *gtfsrtpb.FeedEntity {
	return &gtfsrtpb.FeedEntity{
		Id: proto.String(id),
		Vehicle: &gtfsrtpb.VehiclePosition{
			Trip:                trip,
			CurrentStopSequence: proto.Uint32(seq),
			CurrentStatus:       status,
			Timestamp:           proto.Uint64(uint64(ts.Unix())),
			StopId:              proto.String(stopID),
		},
	}
}

func alertEntity(id, text string, trips ...*gtfsrtpb.TripDescriptor) *gtfsrtpb.FeedEntity {
	alert := &gtfsrtpb.Alert{
		HeaderText: &gtfsrtpb.TranslatedString{
			Translation: []*gtfsrtpb.TranslatedString_Translation{
				{Text: proto.String(text), Language: proto.String("en")},
			},
		},
	}
	for _, trip := range trips {
		alert.InformedEntity = append(alert.InformedEntity, &gtfsrtpb.EntitySelector{Trip: trip})
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(id), Alert: alert}
}

func marshalFeed(t *testing.T, msg *gtfsrtpb.FeedMessage) []byte {
	t.Helper()
	b, err := proto.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}

// testFeedMessage builds the canonical fixture: three 1 trips in different
// lifecycle states plus one delayed 2 trip.
//
//	entity  trip             train             state
//	1       090300_1..N      01 1503  SFT/242  underway at 107N
//	3       095650_1..S03R   01 1556+ 242/SFT  assigned, not moving
//	4       096650_1..S04R   01 1606+ 238/SFT  unassigned
//	5       120700_2..N01R   02 2007  FLA/241  underway, delay alert
func testFeedMessage() *gtfsrtpb.FeedMessage {
	trip1 := newTripDescriptor("090300_1..N", "01 1503  SFT/242", "1", true)
	trip2 := newTripDescriptor("095650_1..S03R", "01 1556+ 242/SFT", "1", true)
	trip3 := newTripDescriptor("096650_1..S04R", "01 1606+ 238/SFT", "1", false)
	trip4 := newTripDescriptor("120700_2..N01R", "02 2007  FLA/241", "2", true)

	return &gtfsrtpb.FeedMessage{
		Header: newHeader(feedGenerated, map[string]time.Time{
			"1": feedGenerated.Add(30 * time.Minute),
			"2": feedGenerated.Add(30 * time.Minute),
		}),
		Entity: []*gtfsrtpb.FeedEntity{
			tripUpdateEntity("1", trip1, []stopCall{
				{stopID: "107N", arrival: at(15, 57, 47), departure: at(15, 57, 47), schedTrack: "4", actTrack: "4"},
				{stopID: "106N", arrival: at(15, 59, 17), departure: at(15, 59, 17), schedTrack: "4"},
				{stopID: "104N", arrival: at(16, 0, 47), departure: at(16, 0, 47), schedTrack: "4"},
				{stopID: "103N", arrival: at(16, 2, 17), departure: at(16, 2, 17), schedTrack: "4"},
				{stopID: "101N", arrival: at(16, 3, 47), schedTrack: "4"},
			}),
			vehicleEntity("2", newTripDescriptor("090300_1..N", "01 1503  SFT/242", "1", true),
				"107N", 30, gtfsrtpb.VehiclePosition_IN_TRANSIT_TO.Enum(), at(15, 56, 17)),
			tripUpdateEntity("3", trip2, []stopCall{
				{stopID: "101S", departure: at(15, 56, 30), schedTrack: "1", actTrack: "1"},
				{stopID: "123S", arrival: at(16, 20, 0), departure: at(16, 20, 30), schedTrack: "1"},
				{stopID: "142S", arrival: at(16, 40, 0), schedTrack: "1"},
			}),
			tripUpdateEntity("4", trip3, []stopCall{
				{stopID: "103S", departure: at(16, 8, 30), schedTrack: "1"},
				{stopID: "123S", arrival: at(16, 30, 0), departure: at(16, 30, 30), schedTrack: "1"},
				{stopID: "142S", arrival: at(16, 50, 0), schedTrack: "1"},
			}),
			tripUpdateEntity("5", trip4, []stopCall{
				{stopID: "201N", arrival: at(16, 10, 0)},
			}),
			vehicleEntity("6", newTripDescriptor("120700_2..N01R", "02 2007  FLA/241", "2", true),
				"201N", 10, nil, at(15, 40, 41)),
			alertEntity("7", "Delays in northbound 2 service",
				newTripDescriptor("120700_2..N01R", "02 2007  FLA/241", "2", true)),
		},
	}
}

func decodeTestFeed(t *testing.T) *Feed {
	t.Helper()
	feed, err := NewFeed(marshalFeed(t, testFeedMessage()), testShapes, testStations)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	return feed
}
