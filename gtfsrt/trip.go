package gtfsrt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/citytransit-labs/nyct-gtfsrt/nyct"
	"github.com/citytransit-labs/nyct-gtfsrt/protoview"
)

// TripStatus is the derived lifecycle state of a trip. A trip starts
// unassigned, becomes assigned when NYCT operations attach a physical train
// to it, and underway once that train departs the origin. There is no
// terminal state: a finished trip simply drops out of the next feed.
type TripStatus int

const (
	StatusUnassigned TripStatus = iota
	StatusAssigned
	StatusUnderway
)

func (s TripStatus) String() string {
	switch s {
	case StatusAssigned:
		return "assigned"
	case StatusUnderway:
		return "underway"
	default:
		return "unassigned"
	}
}

// Trip is one subway trip correlated from a feed: its trip update, the
// matching vehicle position when the feed carried one, and any delay alerts
// naming it. Accessors returning (value, bool) report false when the feed
// does not carry the datum, which is routine, not an error.
type Trip struct {
	update   *protoview.MessageView
	vehicle  *protoview.MessageView
	alerts   []*protoview.MessageView
	feedTime time.Time
	shapes   HeadsignSource
	stations StationSource
}

func (t *Trip) descriptor() *protoview.MessageView {
	d, err := t.update.GetMessage("trip")
	if err != nil {
		return nil
	}
	return d
}

func (t *Trip) nyctDescriptor() *protoview.MessageView {
	d := t.descriptor()
	if d == nil {
		return nil
	}
	ext, err := d.Extensions()
	if err != nil {
		return nil
	}
	m, err := ext.Message(nyct.ExtensionNumber)
	if err != nil {
		return nil
	}
	return m
}

// TripID returns the GTFS trip ID, e.g. "090300_1..N03R". The numeric prefix
// encodes the scheduled origin departure in hundredths of a minute past
// midnight and the second segment is the shape ID. The MTA warns this field
// alone is not unique across a service day.
func (t *Trip) TripID() string { return viewString(t.descriptor(), "trip_id") }

// NYCTTrainID returns the internal ATS identifier of the train serving this
// trip, e.g. "01 1508+ SFT/242".
func (t *Trip) NYCTTrainID() string { return viewString(t.nyctDescriptor(), "train_id") }

// RouteID returns the GTFS route ID, usually the public line name. The
// shuttles differ: the 42nd St shuttle is "GS" and the Franklin Av shuttle
// is "FS".
func (t *Trip) RouteID() string { return viewString(t.descriptor(), "route_id") }

// StartDate returns midnight of the service date the trip belongs to. Trips
// take time to run, so this can be the day before the feed's generation
// date. False means the feed's start_date did not parse.
func (t *Trip) StartDate() (time.Time, bool) {
	d, err := time.ParseInLocation("20060102", viewString(t.descriptor(), "start_date"), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ShapeID returns the GTFS shape ID parsed out of the trip ID, identifying
// the line, direction and stopping pattern, e.g. "1..S03R".
func (t *Trip) ShapeID() string {
	parts := strings.Split(t.TripID(), "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Direction returns "N" for northbound trains (including Grand Central bound
// shuttles) or "S" for southbound trains (including Times Square bound
// shuttles), parsed from the shape ID. Degenerate shapes such as the bare
// "0" that shows up during reroutes carry no direction marker and report
// false.
func (t *Trip) Direction() (string, bool) {
	sep := "."
	if strings.Contains(t.TripID(), "..") {
		sep = ".."
	}
	_, rest, found := strings.Cut(t.ShapeID(), sep)
	if !found || rest == "" {
		return "", false
	}
	return rest[:1], true
}

// DepartureTime returns the scheduled origin departure decoded from the trip
// ID's numeric prefix, which counts hundredths of a minute past midnight of
// the start date.
func (t *Trip) DepartureTime() (time.Time, bool) {
	start, ok := t.StartDate()
	if !ok {
		return time.Time{}, false
	}
	prefix, _, _ := strings.Cut(t.TripID(), "_")
	hundredths, err := strconv.Atoi(prefix)
	if err != nil {
		return time.Time{}, false
	}
	return start.Add(time.Duration(hundredths) * time.Minute / 100), true
}

// TrainAssigned reports whether NYCT operations have attached a physical
// train to this trip. Assignment usually happens at the origin terminal
// shortly before departure and persists for the rest of the trip.
func (t *Trip) TrainAssigned() bool {
	return viewUint(t.nyctDescriptor(), "is_assigned") != 0
}

// Underway reports whether the trip's train has departed the origin. A
// vehicle position alone is not proof: B division trains publish a position
// stamped with the scheduled departure time before they actually move, so
// the position timestamp must also not sit further than a small clock skew
// past the feed's generation time.
func (t *Trip) Underway() bool {
	if t.vehicle == nil {
		return false
	}
	return !t.positionTime().After(t.feedTime.Add(clockSkewAllowance))
}

func (t *Trip) positionTime() time.Time {
	return parseTimestamp(int64(viewUint(t.vehicle, "timestamp")), t.feedTime)
}

// Status folds TrainAssigned and Underway into the trip lifecycle state.
func (t *Trip) Status() TripStatus {
	switch {
	case t.Underway():
		return StatusUnderway
	case t.TrainAssigned():
		return StatusAssigned
	default:
		return StatusUnassigned
	}
}

// LastPositionUpdate returns the time the train's position last changed,
// available once the trip is underway. Comparing it against the feed's
// generation time is how stalled trains are detected.
func (t *Trip) LastPositionUpdate() (time.Time, bool) {
	if !t.Underway() {
		return time.Time{}, false
	}
	return t.positionTime(), true
}

// Location returns the stop ID the train is at or headed to, available once
// the trip is underway. The producer moves it forward the moment the train
// departs a stop.
func (t *Trip) Location() (string, bool) {
	if !t.Underway() {
		return "", false
	}
	return viewString(t.vehicle, "stop_id"), true
}

// LocationStatus returns the train's relationship to Location as the GTFS
// enum value name: "INCOMING_AT", "STOPPED_AT" or "IN_TRANSIT_TO". The
// producer leaves the field unset to mean the default IN_TRANSIT_TO.
// Available once the trip is underway.
func (t *Trip) LocationStatus() (string, bool) {
	if !t.Underway() {
		return "", false
	}
	status := gtfsrtpb.VehiclePosition_VehicleStopStatus(viewEnum(t.vehicle, "current_status"))
	return status.String(), true
}

// CurrentStopSequenceIndex returns the 1-based position of Location along
// the trip's planned stop sequence, available once the trip is underway.
func (t *Trip) CurrentStopSequenceIndex() (int, bool) {
	if !t.Underway() {
		return 0, false
	}
	return int(viewUint(t.vehicle, "current_stop_sequence")), true
}

// Headsign returns the trip's display destination, usually the terminal
// station name. The static shape table is authoritative; when the shape is
// missing there, which happens during reroutes, the name of the last
// remaining stop stands in.
func (t *Trip) Headsign() (string, bool) {
	if t.shapes != nil {
		if text, ok := t.shapes.Headsign(t.ShapeID()); ok {
			return text, true
		}
	}
	if stops := t.StopTimeUpdates(); len(stops) > 0 {
		if name, ok := stops[len(stops)-1].StopName(); ok {
			return name, true
		}
	}
	return "", false
}

// HasDelayAlert reports whether any alert in the feed named this trip. NYCT
// publishes only delay notices in these feeds, so an alert means the train
// shows as delayed on the countdown clocks.
func (t *Trip) HasDelayAlert() bool { return len(t.alerts) > 0 }

// StopTimeUpdates returns the remaining stops of the trip in travel order.
// The producer drops a stop from the sequence once the train departs it, so
// the first element is always the stop the train is currently at or
// approaching. The slice is rebuilt on each call; the views underneath are
// shared.
func (t *Trip) StopTimeUpdates() []*StopTimeUpdate {
	list, err := t.update.GetRepeated("stop_time_update")
	if err != nil {
		return nil
	}
	updates := make([]*StopTimeUpdate, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		view, err := list.MessageAt(i)
		if err != nil {
			break
		}
		updates = append(updates, &StopTimeUpdate{view: view, stations: t.stations})
	}
	return updates
}

// HeadedToStop reports whether the trip still has stopID ahead of it,
// including the stop it is currently at. Stop IDs carry the direction
// suffix, so a train headed to "106N" is not headed to "106S" or "106".
func (t *Trip) HeadedToStop(stopID string) bool {
	for _, stop := range t.StopTimeUpdates() {
		if stop.StopID() == stopID {
			return true
		}
	}
	return false
}

// String renders the trip the way a rider would read it off a countdown
// clock, e.g. "Northbound 1 to Van Cortlandt Park-242 St, departed origin
// 15:03:00, Currently IN_TRANSIT_TO 215 St, last update at 15:56:17".
func (t *Trip) String() string {
	var b strings.Builder
	if t.HasDelayAlert() {
		b.WriteString("DELAYED ")
	}
	if dir, _ := t.Direction(); dir == "S" {
		b.WriteString("Southbound ")
	} else {
		b.WriteString("Northbound ")
	}
	b.WriteString(t.RouteID())
	if text, ok := t.Headsign(); ok {
		b.WriteString(" to ")
		b.WriteString(text)
	} else {
		fmt.Fprintf(&b, " (%s)", t.ShapeID())
	}
	underway := t.Underway()
	if departure, ok := t.DepartureTime(); ok {
		if underway {
			fmt.Fprintf(&b, ", departed origin %s", departure.Format("15:04:05"))
		} else {
			fmt.Fprintf(&b, ", departs origin %s", departure.Format("15:04:05"))
		}
	}
	if underway {
		location, _ := t.Location()
		name := location
		if t.stations != nil {
			if resolved, ok := t.stations.StationName(location); ok {
				name = resolved
			}
		}
		status, _ := t.LocationStatus()
		updated, _ := t.LastPositionUpdate()
		fmt.Fprintf(&b, ", Currently %s %s, last update at %s", status, name, updated.Format("15:04:05"))
	} else if t.TrainAssigned() {
		b.WriteString(" - train assigned")
	}
	return b.String()
}
