package gtfsrt

import "errors"

var (
	// ErrMalformedFeed means the bytes do not parse as a GTFS-realtime
	// FeedMessage. The decode is unusable; retry with freshly fetched
	// bytes.
	ErrMalformedFeed = errors.New("gtfsrt: malformed feed")

	// ErrInvalidArgument means a filter criterion had an unusable dynamic
	// type.
	ErrInvalidArgument = errors.New("gtfsrt: invalid argument")
)
