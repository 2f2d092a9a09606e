package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/citytransit-labs/nyct-gtfsrt/gtfsrt"
)

// criteria is the parsed filter flag set. It turns into a TripFilter per
// feed snapshot because UpdatedAfter is relative to the feed's generation
// time.
type criteria struct {
	route         any
	direction     string
	shape         any
	stop          any
	assigned      *bool
	underway      *bool
	delayed       *bool
	updatedWithin time.Duration
}

func parseCriteria(route, direction, shape, stop, assigned, underway, delayed string, updatedWithin time.Duration) (criteria, error) {
	if direction != "" && direction != "N" && direction != "S" {
		return criteria{}, fmt.Errorf("-direction must be N or S, not %q", direction)
	}
	c := criteria{
		route:         parseList(route),
		direction:     direction,
		shape:         parseList(shape),
		stop:          parseList(stop),
		updatedWithin: updatedWithin,
	}
	var err error
	if c.assigned, err = parseTriState("assigned", assigned); err != nil {
		return criteria{}, err
	}
	if c.underway, err = parseTriState("underway", underway); err != nil {
		return criteria{}, err
	}
	if c.delayed, err = parseTriState("delayed", delayed); err != nil {
		return criteria{}, err
	}
	return c, nil
}

// parseList maps "" to no constraint, a single token to itself, and a
// comma-separated list to a slice.
func parseList(s string) any {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) == 1 {
		return strings.TrimSpace(parts[0])
	}
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

func parseTriState(name, s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("-%s must be true or false, not %q", name, s)
	}
	return &v, nil
}

func (c criteria) active() bool {
	return c.route != nil || c.direction != "" || c.shape != nil || c.stop != nil ||
		c.assigned != nil || c.underway != nil || c.delayed != nil || c.updatedWithin > 0
}

func (c criteria) filter(feedTime time.Time) gtfsrt.TripFilter {
	f := gtfsrt.TripFilter{
		LineID:          c.route,
		TravelDirection: c.direction,
		ShapeID:         c.shape,
		HeadedForStopID: c.stop,
		TrainAssigned:   c.assigned,
		Underway:        c.underway,
		HasDelayAlert:   c.delayed,
	}
	if c.updatedWithin > 0 {
		f.UpdatedAfter = feedTime.Add(-c.updatedWithin)
	}
	return f
}
