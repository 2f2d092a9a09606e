package gtfsrt

import "time"

const (
	// clockSkewAllowance is how far a position update may be future-dated
	// and still count as current. The producer's components do not share
	// one clock.
	clockSkewAllowance = time.Minute

	// timestampSanityWindow bounds how far past feed generation a position
	// timestamp can plausibly land. Anything beyond it is assumed to carry
	// the producer's one-hour offset.
	timestampSanityWindow = 30 * time.Minute
)

// parseTimestamp converts a POSIX timestamp from the feed to a time.Time,
// undoing the producer's intermittent one-hour offset: some position updates
// arrive stamped an hour into the future, and no train reports its last
// movement half an hour from now. The correction cannot tell a legitimately
// future-dated value apart, so callers apply it only to position timestamps.
func parseTimestamp(raw int64, feedTime time.Time) time.Time {
	t := time.Unix(raw, 0)
	if !feedTime.IsZero() && t.After(feedTime.Add(timestampSanityWindow)) {
		return t.Add(-time.Hour)
	}
	return t
}
