// Package nyct describes the MTA's GTFS-realtime subway extensions.
//
// The MTA publishes the extension schema (nyct-subway.proto) but no Go
// bindings for it. This package rebuilds the schema at runtime on top of
// the standard gtfs-realtime descriptors, so the extension fields decode
// and read dynamically without generated code. All three extensions
// (feed header, trip descriptor, stop time update) use field number 1001.
package nyct
