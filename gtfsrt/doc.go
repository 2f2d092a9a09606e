// Package gtfsrt decodes the NYCT subway's GTFS-realtime feeds and exposes
// the live trips they describe.
//
// One call to NewFeed turns raw feed bytes into an immutable snapshot: header
// metadata plus one Trip per trip update, each correlated with its vehicle
// position and delay alerts through a composite trip key. Trips derive their
// lifecycle state (unassigned, assigned, underway) from the NYCT extension
// flags and the vehicle position timestamp, and project per-stop arrival,
// departure and track data. FilterTrips answers compound queries over a
// snapshot.
//
// Fetching is separate: Client does the HTTP GET with the MTA API key
// header, and callers can just as well hand NewFeed bytes from anywhere,
// such as a recorded feed file.
package gtfsrt
