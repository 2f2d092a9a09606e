package protoview

import "errors"

// Sentinel errors for view lookups. Lookup failures wrap these with the
// field and message type involved, so errors.Is works on the category.
var (
	// ErrUnknownField means the field name, extension number, or message
	// type has no catalog entry.
	ErrUnknownField = errors.New("protoview: unknown field")

	// ErrUnsupportedKind means the catalog has no extraction routine for the
	// field's declared kind, or a typed accessor was applied to a field of a
	// different kind.
	ErrUnsupportedKind = errors.New("protoview: unsupported field kind")

	// ErrIndexOutOfRange means a RepeatedView was indexed outside [0, Len).
	ErrIndexOutOfRange = errors.New("protoview: index out of range")

	// ErrInvalidOperation means extension access was requested on a view
	// whose message type cannot carry extensions.
	ErrInvalidOperation = errors.New("protoview: invalid operation")
)
