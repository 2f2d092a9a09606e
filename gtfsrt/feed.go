package gtfsrt

import (
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/citytransit-labs/nyct-gtfsrt/nyct"
	"github.com/citytransit-labs/nyct-gtfsrt/protoview"
)

// HeadsignSource resolves a GTFS shape ID to headsign text. A false return
// is an expected miss, not an error.
type HeadsignSource interface {
	Headsign(shapeID string) (string, bool)
}

// StationSource resolves a GTFS stop ID to a human-readable station name.
type StationSource interface {
	StationName(stopID string) (string, bool)
}

// ReplacementPeriod is the window during which the feed's realtime data
// replaces the static schedule for one route. The feed only publishes the
// end of the window; the start defaults to the feed's own generation time.
type ReplacementPeriod struct {
	Start time.Time
	End   time.Time
}

// Feed is one decoded snapshot of an NYCT subway GTFS-realtime feed: header
// metadata plus the trips correlated from the feed's entities. A Feed is
// immutable once NewFeed returns and stays valid until the caller swaps it
// for the next refresh. It is built for single-goroutine use; reads memoize
// internally.
type Feed struct {
	root     *protoview.MessageView
	shapes   HeadsignSource
	stations StationSource

	generated   time.Time
	rtVersion   string
	nyctVersion string
	periods     map[string]ReplacementPeriod

	trips []*Trip
}

// NewFeed decodes one GTFS-realtime FeedMessage carrying NYCT subway
// extensions and correlates its entities into trips. Bytes that do not
// decode fail with ErrMalformedFeed. Either lookup table may be nil, in
// which case every name resolution through it misses.
func NewFeed(b []byte, shapes HeadsignSource, stations StationSource) (*Feed, error) {
	var msg gtfsrtpb.FeedMessage
	if err := nyct.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}
	root, err := nyct.Schema().View(&msg)
	if err != nil {
		return nil, err
	}
	f := &Feed{root: root, shapes: shapes, stations: stations}
	if err := f.readHeader(); err != nil {
		return nil, err
	}
	if err := f.correlate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Feed) readHeader() error {
	header, err := f.root.GetMessage("header")
	if err != nil {
		return err
	}
	version, err := header.GetString("gtfs_realtime_version")
	if err != nil {
		return err
	}
	ts, err := header.GetUint("timestamp")
	if err != nil {
		return err
	}
	f.rtVersion = version
	f.generated = time.Unix(int64(ts), 0)

	ext, err := header.Extensions()
	if err != nil {
		return err
	}
	nyctHeader, err := ext.Message(nyct.ExtensionNumber)
	if err != nil {
		return err
	}
	f.nyctVersion, err = nyctHeader.GetString("nyct_subway_version")
	if err != nil {
		return err
	}
	periods, err := nyctHeader.GetRepeated("trip_replacement_period")
	if err != nil {
		return err
	}
	f.periods = make(map[string]ReplacementPeriod, periods.Len())
	for i := 0; i < periods.Len(); i++ {
		trp, err := periods.MessageAt(i)
		if err != nil {
			return err
		}
		routeID, err := trp.GetString("route_id")
		if err != nil {
			return err
		}
		period := ReplacementPeriod{Start: f.generated}
		if trp.Has("replacement_period") {
			window, err := trp.GetMessage("replacement_period")
			if err != nil {
				return err
			}
			if window.Has("start") {
				v, err := window.GetUint("start")
				if err != nil {
					return err
				}
				period.Start = time.Unix(int64(v), 0)
			}
			if window.Has("end") {
				v, err := window.GetUint("end")
				if err != nil {
					return err
				}
				period.End = time.Unix(int64(v), 0)
			}
		}
		f.periods[routeID] = period
	}
	return nil
}

// correlate scans the feed's entities once and groups the three update kinds
// by trip key. Trip updates are the authoritative axis: a vehicle position
// or alert attaches to a trip when its key matches one, and is dropped
// silently otherwise. Output order is the order trip updates first appeared;
// a repeated key keeps its first position but takes the later update.
func (f *Feed) correlate() error {
	entities, err := f.root.GetRepeated("entity")
	if err != nil {
		return err
	}

	type slot struct {
		key    string
		update *protoview.MessageView
	}
	var order []slot
	position := make(map[string]int)
	vehicles := make(map[string]*protoview.MessageView)
	alerts := make(map[string][]*protoview.MessageView)

	for i := 0; i < entities.Len(); i++ {
		entity, err := entities.MessageAt(i)
		if err != nil {
			return err
		}
		switch {
		case entity.Has("trip_update"):
			update, err := entity.GetMessage("trip_update")
			if err != nil {
				return err
			}
			trip, err := update.GetMessage("trip")
			if err != nil {
				return err
			}
			key, err := tripKey(trip)
			if err != nil {
				return err
			}
			if at, ok := position[key]; ok {
				order[at].update = update
			} else {
				position[key] = len(order)
				order = append(order, slot{key: key, update: update})
			}
		case entity.Has("vehicle"):
			vehicle, err := entity.GetMessage("vehicle")
			if err != nil {
				return err
			}
			trip, err := vehicle.GetMessage("trip")
			if err != nil {
				return err
			}
			key, err := tripKey(trip)
			if err != nil {
				return err
			}
			vehicles[key] = vehicle
		case entity.Has("alert"):
			alert, err := entity.GetMessage("alert")
			if err != nil {
				return err
			}
			informed, err := alert.GetRepeated("informed_entity")
			if err != nil {
				return err
			}
			for j := 0; j < informed.Len(); j++ {
				selector, err := informed.MessageAt(j)
				if err != nil {
					return err
				}
				trip, err := selector.GetMessage("trip")
				if err != nil {
					return err
				}
				key, err := tripKey(trip)
				if err != nil {
					return err
				}
				alerts[key] = append(alerts[key], alert)
			}
		}
	}

	f.trips = make([]*Trip, 0, len(order))
	for _, s := range order {
		f.trips = append(f.trips, &Trip{
			update:   s.update,
			vehicle:  vehicles[s.key],
			alerts:   alerts[s.key],
			feedTime: f.generated,
			shapes:   f.shapes,
			stations: f.stations,
		})
	}
	return nil
}

// tripKey builds the composite identity for one trip descriptor: the trip ID
// plus the last seven characters of the NYCT train ID, space separated. The
// MTA warns that trip_id alone repeats during the one-hour daylight-saving
// replay each fall; the train ID suffix disambiguates those. The key is
// best-effort, not guaranteed unique.
func tripKey(trip *protoview.MessageView) (string, error) {
	id, err := trip.GetString("trip_id")
	if err != nil {
		return "", err
	}
	ext, err := trip.Extensions()
	if err != nil {
		return "", err
	}
	desc, err := ext.Message(nyct.ExtensionNumber)
	if err != nil {
		return "", err
	}
	trainID, err := desc.GetString("train_id")
	if err != nil {
		return "", err
	}
	if len(trainID) > 7 {
		trainID = trainID[len(trainID)-7:]
	}
	return id + " " + trainID, nil
}

// LastGenerated returns the time the MTA generated this feed snapshot.
func (f *Feed) LastGenerated() time.Time { return f.generated }

// GTFSRealtimeVersion returns the GTFS-realtime spec version the feed
// declares, currently "1.0".
func (f *Feed) GTFSRealtimeVersion() string { return f.rtVersion }

// NYCTSubwayVersion returns the version of the MTA's extension dialect,
// currently "1.0".
func (f *Feed) NYCTSubwayVersion() string { return f.nyctVersion }

// TripReplacementPeriods returns, per route ID, the window during which this
// feed's realtime data replaces the static schedule. Callers must not modify
// the returned map.
func (f *Feed) TripReplacementPeriods() map[string]ReplacementPeriod { return f.periods }

// Trips returns every trip correlated from the feed in the order their trip
// updates appeared. Callers must not modify the returned slice.
func (f *Feed) Trips() []*Trip { return f.trips }

// View returns the root message view, for callers that need feed fields this
// package does not surface.
func (f *Feed) View() *protoview.MessageView { return f.root }

func (f *Feed) String() string {
	return fmt.Sprintf("NYCT subway feed generated at %s containing %d trips",
		f.generated.Format("2006-01-02 15:04:05"), len(f.trips))
}
