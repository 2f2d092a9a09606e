// Package gtfs loads the static GTFS lookup tables that the realtime layer
// resolves names against: trip shapes (shape_id -> headsign text, from
// trips.txt) and stations (stop_id -> station attributes, from stops.txt).
//
// Loaders are header-driven and accept any io.Reader, so the tables can come
// from the MTA's published GTFS bundle or from trimmed fixture data. Lookups
// report misses with a false second return value; a miss is an expected
// condition, not an error.
package gtfs
