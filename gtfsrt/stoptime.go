package gtfsrt

import (
	"strings"
	"time"

	"github.com/citytransit-labs/nyct-gtfsrt/nyct"
	"github.com/citytransit-labs/nyct-gtfsrt/protoview"
)

// StopTimeUpdate is a trip's projection for one remaining stop: predicted
// arrival and departure plus the NYCT track extension. The producer removes
// a stop from the trip once the train departs it.
type StopTimeUpdate struct {
	view     *protoview.MessageView
	stations StationSource
}

// StopID returns the GTFS stop ID, direction suffix included: a northbound
// trip calls at "613N", never at "613".
func (s *StopTimeUpdate) StopID() string { return viewString(s.view, "stop_id") }

// Arrival returns the predicted arrival time at this stop. Origin terminals
// have no arrival and report false.
func (s *StopTimeUpdate) Arrival() (time.Time, bool) { return s.eventTime("arrival") }

// Departure returns the predicted departure time from this stop. Final
// stops have no departure and report false.
func (s *StopTimeUpdate) Departure() (time.Time, bool) { return s.eventTime("departure") }

func (s *StopTimeUpdate) eventTime(field string) (time.Time, bool) {
	if s.view == nil || !s.view.Has(field) {
		return time.Time{}, false
	}
	event, err := s.view.GetMessage(field)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(viewInt(event, "time"), 0), true
}

func (s *StopTimeUpdate) nyctUpdate() *protoview.MessageView {
	if s.view == nil {
		return nil
	}
	ext, err := s.view.Extensions()
	if err != nil {
		return nil
	}
	update, err := ext.Message(nyct.ExtensionNumber)
	if err != nil {
		return nil
	}
	return update
}

// ScheduledTrack returns the track the timetable routes the train over at
// this stop. Not every stop carries track data; those report false.
func (s *StopTimeUpdate) ScheduledTrack() (string, bool) { return s.track("scheduled_track") }

// ActualTrack returns the track the train will really arrive on. The
// producer only knows it once the train leaves the previous station, so in
// practice only a trip's first remaining stop carries it.
func (s *StopTimeUpdate) ActualTrack() (string, bool) { return s.track("actual_track") }

func (s *StopTimeUpdate) track(field string) (string, bool) {
	update := s.nyctUpdate()
	if update == nil || !update.Has(field) {
		return "", false
	}
	return viewString(update, field), true
}

// UnexpectedTrackArrival reports whether the train is arriving on a track
// other than its scheduled one, the signature of a service change or a
// skipped stop. It is deliberately conservative: true needs both tracks
// present and different, so false can also mean the actual track is simply
// not known yet.
func (s *StopTimeUpdate) UnexpectedTrackArrival() bool {
	scheduled, ok := s.ScheduledTrack()
	if !ok {
		return false
	}
	actual, ok := s.ActualTrack()
	if !ok {
		return false
	}
	return actual != scheduled
}

// StopName resolves StopID against the stations table. Bogus stop IDs do
// appear in live feeds; those miss and report false.
func (s *StopTimeUpdate) StopName() (string, bool) {
	if s.stations == nil {
		return "", false
	}
	return s.stations.StationName(s.StopID())
}

// String renders the update on one line, e.g.
// "215 St: arr 15:57:47, dep 15:58:17, scheduled track 4, actual track 4".
func (s *StopTimeUpdate) String() string {
	name := s.StopID()
	if resolved, ok := s.StopName(); ok {
		name = resolved
	}
	var parts []string
	if at, ok := s.Arrival(); ok {
		parts = append(parts, "arr "+at.Format("15:04:05"))
	}
	if at, ok := s.Departure(); ok {
		parts = append(parts, "dep "+at.Format("15:04:05"))
	}
	if track, ok := s.ScheduledTrack(); ok {
		parts = append(parts, "scheduled track "+track)
	}
	if track, ok := s.ActualTrack(); ok {
		parts = append(parts, "actual track "+track)
	}
	if len(parts) == 0 {
		return name
	}
	return name + ": " + strings.Join(parts, ", ")
}
