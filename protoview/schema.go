package protoview

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Schema holds the field catalogs for every message type declared in a set
// of file descriptors, plus a type registry carrying the files' extension
// fields. The registry plugs into proto.UnmarshalOptions so extensions
// materialize during decode; the catalogs drive all view lookups.
type Schema struct {
	catalogs map[protoreflect.FullName]*Catalog
	types    *protoregistry.Types
}

// NewSchema builds the catalogs for all message types in files and wires
// every extension field onto the catalog of the message it extends.
func NewSchema(files ...protoreflect.FileDescriptor) (*Schema, error) {
	s := &Schema{
		catalogs: make(map[protoreflect.FullName]*Catalog),
		types:    new(protoregistry.Types),
	}
	for _, file := range files {
		if err := s.addMessages(file.Messages()); err != nil {
			return nil, err
		}
	}
	// Extensions attach in a second pass so order of files does not matter.
	for _, file := range files {
		if err := s.addExtensions(file.Extensions()); err != nil {
			return nil, err
		}
		if err := s.addNestedExtensions(file.Messages()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) addMessages(mds protoreflect.MessageDescriptors) error {
	for i := 0; i < mds.Len(); i++ {
		md := mds.Get(i)
		if md.IsMapEntry() {
			continue
		}
		if _, dup := s.catalogs[md.FullName()]; dup {
			return fmt.Errorf("protoview: duplicate message type %s", md.FullName())
		}
		cat := &Catalog{
			message:    md.FullName(),
			fields:     make(map[protoreflect.Name]fieldEntry, md.Fields().Len()),
			extensions: make(map[protoreflect.FieldNumber]fieldEntry),
			extendable: md.ExtensionRanges().Len() > 0,
		}
		fds := md.Fields()
		for j := 0; j < fds.Len(); j++ {
			fd := fds.Get(j)
			cat.fields[fd.Name()] = newFieldEntry(fd)
		}
		s.catalogs[md.FullName()] = cat
		if err := s.addMessages(md.Messages()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) addNestedExtensions(mds protoreflect.MessageDescriptors) error {
	for i := 0; i < mds.Len(); i++ {
		md := mds.Get(i)
		if err := s.addExtensions(md.Extensions()); err != nil {
			return err
		}
		if err := s.addNestedExtensions(md.Messages()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) addExtensions(xds protoreflect.ExtensionDescriptors) error {
	for i := 0; i < xds.Len(); i++ {
		xd := xds.Get(i)
		xt := dynamicpb.NewExtensionType(xd)
		if err := s.types.RegisterExtension(xt); err != nil {
			return fmt.Errorf("protoview: register extension %s: %w", xd.FullName(), err)
		}
		extendee := xd.ContainingMessage().FullName()
		cat, ok := s.catalogs[extendee]
		if !ok {
			return fmt.Errorf("protoview: extension %s extends %s, which is not in the schema", xd.FullName(), extendee)
		}
		// The type descriptor, not the plain descriptor: message access to
		// extension fields requires the descriptor produced by the type.
		cat.extensions[xd.Number()] = newFieldEntry(xt.TypeDescriptor())
	}
	return nil
}

// Catalog returns the catalog for a message type.
func (s *Schema) Catalog(name protoreflect.FullName) (*Catalog, bool) {
	c, ok := s.catalogs[name]
	return c, ok
}

// Types returns the registry holding the schema's extension types. It is
// suitable as the Resolver of a proto.UnmarshalOptions.
func (s *Schema) Types() *protoregistry.Types { return s.types }

// ExtensionType returns the registered extension of the given message type
// at the given field number.
func (s *Schema) ExtensionType(message protoreflect.FullName, number int32) (protoreflect.ExtensionType, error) {
	return s.types.FindExtensionByNumber(message, protoreflect.FieldNumber(number))
}

// View wraps a decoded message in a MessageView backed by this schema.
func (s *Schema) View(m proto.Message) (*MessageView, error) {
	return s.view(m.ProtoReflect())
}

func (s *Schema) view(m protoreflect.Message) (*MessageView, error) {
	cat, ok := s.catalogs[m.Descriptor().FullName()]
	if !ok {
		return nil, fmt.Errorf("%w: message type %s is not in the schema", ErrUnknownField, m.Descriptor().FullName())
	}
	return &MessageView{schema: s, catalog: cat, msg: m}, nil
}
