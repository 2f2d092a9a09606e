// Package protoview provides dynamic, catalog-driven read access to decoded
// protobuf messages, including vendor extension fields.
//
// A Schema is built once from a set of file descriptors and shared by every
// view derived from it. MessageView resolves field names to typed values on
// demand; RepeatedView gives indexed access to repeated fields; ExtensionView
// resolves extension fields by number. Resolved values are memoized per view,
// so repeated reads of the same field are cheap and return identical values.
//
// Views never mutate the underlying message. A single view (and its memo) is
// meant for one goroutine; the Schema itself is immutable and safe to share.
package protoview
