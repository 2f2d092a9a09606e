package gtfsrt

import (
	"fmt"
	"time"
)

// TripFilter is a conjunction of independently optional criteria over a
// feed's trips. Zero-valued fields impose no constraint. LineID, ShapeID and
// HeadedForStopID accept either a single string or a []string; a slice
// matches when any member does.
type TripFilter struct {
	// LineID matches Trip.RouteID, e.g. "1", "A", "GS".
	LineID any
	// TravelDirection matches Trip.Direction, "N" or "S".
	TravelDirection string
	// TrainAssigned, when set, requires Trip.TrainAssigned to equal it.
	TrainAssigned *bool
	// Underway, when set, requires Trip.Underway to equal it.
	Underway *bool
	// ShapeID matches Trip.ShapeID, e.g. "1..S03R".
	ShapeID any
	// HeadedForStopID keeps trips still headed for the stop, or for at
	// least one of the stops when given a slice.
	HeadedForStopID any
	// UpdatedAfter keeps trips whose last position update is at or after
	// this time. Trips not underway never match; they publish no position
	// updates at all.
	UpdatedAfter time.Time
	// HasDelayAlert, when set, requires Trip.HasDelayAlert to equal it.
	HasDelayAlert *bool
}

// FilterTrips returns the trips satisfying every criterion of filter, in
// feed order. The result is freshly allocated; the trips it points at are
// the feed's own. A criterion with an unusable dynamic type fails with
// ErrInvalidArgument.
func (f *Feed) FilterTrips(filter TripFilter) ([]*Trip, error) {
	out := make([]*Trip, 0, len(f.trips))
	for _, trip := range f.trips {
		ok, err := filter.matches(trip)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, trip)
		}
	}
	return out, nil
}

func (filter TripFilter) matches(t *Trip) (bool, error) {
	if ok, err := matchString("LineID", filter.LineID, t.RouteID()); err != nil || !ok {
		return false, err
	}
	if filter.TravelDirection != "" {
		direction, _ := t.Direction()
		if direction != filter.TravelDirection {
			return false, nil
		}
	}
	if filter.TrainAssigned != nil && t.TrainAssigned() != *filter.TrainAssigned {
		return false, nil
	}
	if filter.Underway != nil && t.Underway() != *filter.Underway {
		return false, nil
	}
	if ok, err := matchString("ShapeID", filter.ShapeID, t.ShapeID()); err != nil || !ok {
		return false, err
	}
	if filter.HeadedForStopID != nil {
		ok, err := matchHeadedFor(filter.HeadedForStopID, t)
		if err != nil || !ok {
			return false, err
		}
	}
	if !filter.UpdatedAfter.IsZero() {
		updated, ok := t.LastPositionUpdate()
		if !ok || updated.Before(filter.UpdatedAfter) {
			return false, nil
		}
	}
	if filter.HasDelayAlert != nil && t.HasDelayAlert() != *filter.HasDelayAlert {
		return false, nil
	}
	return true, nil
}

// matchString evaluates one string-or-slice criterion. nil imposes no
// constraint.
func matchString(name string, criterion any, value string) (bool, error) {
	switch c := criterion.(type) {
	case nil:
		return true, nil
	case string:
		return value == c, nil
	case []string:
		for _, want := range c {
			if value == want {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s must be a string or []string, not %T", ErrInvalidArgument, name, criterion)
	}
}

func matchHeadedFor(criterion any, t *Trip) (bool, error) {
	switch c := criterion.(type) {
	case string:
		return t.HeadedToStop(c), nil
	case []string:
		for _, stopID := range c {
			if t.HeadedToStop(stopID) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: HeadedForStopID must be a string or []string, not %T", ErrInvalidArgument, criterion)
	}
}
