package protoview

import "google.golang.org/protobuf/reflect/protoreflect"

// Kind classifies a field for extraction. Each of the six supported kinds
// maps to one typed extraction routine; anything else is KindUnsupported and
// fails at access time rather than at catalog build time.
type Kind int

const (
	KindUnsupported Kind = iota
	KindUint             // unsigned and fixed-width unsigned integers, bool
	KindSint             // signed integers in all encodings
	KindFloat            // float and double
	KindString
	KindEnum
	KindMessage // nested messages and groups
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindSint:
		return "sint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	default:
		return "unsupported"
	}
}

// Entry describes one catalogued field: its extraction kind and whether the
// field is repeated.
type Entry struct {
	Kind     Kind
	Repeated bool
}

type fieldEntry struct {
	kind     Kind
	repeated bool
	desc     protoreflect.FieldDescriptor
}

func (e fieldEntry) entry() Entry {
	return Entry{Kind: e.kind, Repeated: e.repeated}
}

// Catalog is the static field description of one message type: named fields
// plus the known extensions of the type keyed by extension number. Catalogs
// are built once per Schema and shared read-only by all views.
type Catalog struct {
	message    protoreflect.FullName
	fields     map[protoreflect.Name]fieldEntry
	extensions map[protoreflect.FieldNumber]fieldEntry
	extendable bool
}

// MessageName returns the full name of the described message type.
func (c *Catalog) MessageName() protoreflect.FullName { return c.message }

// Field returns the entry for a named field.
func (c *Catalog) Field(name string) (Entry, bool) {
	e, ok := c.fields[protoreflect.Name(name)]
	if !ok {
		return Entry{}, false
	}
	return e.entry(), true
}

// Extension returns the entry for an extension field number.
func (c *Catalog) Extension(number int32) (Entry, bool) {
	e, ok := c.extensions[protoreflect.FieldNumber(number)]
	if !ok {
		return Entry{}, false
	}
	return e.entry(), true
}

// Extendable reports whether the message type declares extension ranges.
func (c *Catalog) Extendable() bool { return c.extendable }

func classifyKind(k protoreflect.Kind) Kind {
	switch k {
	case protoreflect.Uint32Kind, protoreflect.Uint64Kind,
		protoreflect.Fixed32Kind, protoreflect.Fixed64Kind,
		protoreflect.BoolKind:
		return KindUint
	case protoreflect.Int32Kind, protoreflect.Int64Kind,
		protoreflect.Sint32Kind, protoreflect.Sint64Kind,
		protoreflect.Sfixed32Kind, protoreflect.Sfixed64Kind:
		return KindSint
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return KindFloat
	case protoreflect.StringKind:
		return KindString
	case protoreflect.EnumKind:
		return KindEnum
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return KindMessage
	default:
		return KindUnsupported
	}
}

func newFieldEntry(fd protoreflect.FieldDescriptor) fieldEntry {
	e := fieldEntry{
		kind:     classifyKind(fd.Kind()),
		repeated: fd.IsList(),
		desc:     fd,
	}
	if fd.IsMap() {
		e.kind = KindUnsupported
	}
	return e
}
