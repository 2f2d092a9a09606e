package nyct

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/citytransit-labs/nyct-gtfsrt/protoview"
)

// ExtensionNumber is the field number the MTA assigned to all three subway
// extensions: nyct_feed_header on FeedHeader, nyct_trip_descriptor on
// TripDescriptor, and nyct_stop_time_update on TripUpdate.StopTimeUpdate.
const ExtensionNumber = 1001

// Direction values of the NyctTripDescriptor.Direction enum. Only NORTH and
// SOUTH appear in practice; the schema reserves all four.
const (
	DirectionNorth protoreflect.EnumNumber = 1
	DirectionEast  protoreflect.EnumNumber = 2
	DirectionSouth protoreflect.EnumNumber = 3
	DirectionWest  protoreflect.EnumNumber = 4
)

var (
	schema *protoview.Schema

	feedHeaderExt     protoreflect.ExtensionType
	tripDescriptorExt protoreflect.ExtensionType
	stopTimeUpdateExt protoreflect.ExtensionType
)

func init() {
	file, err := buildFile()
	if err != nil {
		panic(fmt.Sprintf("nyct: building extension descriptors: %v", err))
	}
	schema, err = protoview.NewSchema(gtfsrtpb.File_gtfs_realtime_proto, file)
	if err != nil {
		panic(fmt.Sprintf("nyct: building schema: %v", err))
	}
	feedHeaderExt = mustExtension("transit_realtime.FeedHeader")
	tripDescriptorExt = mustExtension("transit_realtime.TripDescriptor")
	stopTimeUpdateExt = mustExtension("transit_realtime.TripUpdate.StopTimeUpdate")
}

func mustExtension(extendee protoreflect.FullName) protoreflect.ExtensionType {
	xt, err := schema.ExtensionType(extendee, ExtensionNumber)
	if err != nil {
		panic(fmt.Sprintf("nyct: extension %d on %s: %v", ExtensionNumber, extendee, err))
	}
	return xt
}

// Schema returns the shared view schema covering the standard gtfs-realtime
// messages plus the NYCT extensions.
func Schema() *protoview.Schema { return schema }

// Unmarshal decodes wire bytes into m, materializing the NYCT extension
// fields alongside the standard ones.
func Unmarshal(b []byte, m proto.Message) error {
	return proto.UnmarshalOptions{Resolver: schema.Types()}.Unmarshal(b, m)
}

// FeedHeaderExt returns the typed handle for the nyct_feed_header extension.
// Exposed for callers that build messages directly, such as feed recorders.
func FeedHeaderExt() protoreflect.ExtensionType { return feedHeaderExt }

// TripDescriptorExt returns the typed handle for nyct_trip_descriptor.
func TripDescriptorExt() protoreflect.ExtensionType { return tripDescriptorExt }

// StopTimeUpdateExt returns the typed handle for nyct_stop_time_update.
func StopTimeUpdateExt() protoreflect.ExtensionType { return stopTimeUpdateExt }

// buildFile assembles nyct-subway.proto as a runtime descriptor, resolving
// its one dependency against the compiled-in gtfs-realtime file.
func buildFile() (protoreflect.FileDescriptor, error) {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("nyct-subway.proto"),
		Package:    proto.String("transit_realtime"),
		Syntax:     proto.String("proto2"),
		Dependency: []string{gtfsrtpb.File_gtfs_realtime_proto.Path()},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("TripReplacementPeriod"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("route_id", 1),
					messageField("replacement_period", 2, ".transit_realtime.TimeRange"),
				},
			},
			{
				Name: proto.String("NyctFeedHeader"),
				Field: []*descriptorpb.FieldDescriptorProto{
					requiredStringField("nyct_subway_version", 1),
					repeatedMessageField("trip_replacement_period", 2, ".transit_realtime.TripReplacementPeriod"),
				},
			},
			{
				Name: proto.String("NyctTripDescriptor"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("train_id", 1),
					boolField("is_assigned", 2),
					enumField("direction", 3, ".transit_realtime.NyctTripDescriptor.Direction"),
				},
				EnumType: []*descriptorpb.EnumDescriptorProto{
					{
						Name: proto.String("Direction"),
						Value: []*descriptorpb.EnumValueDescriptorProto{
							enumValue("NORTH", 1),
							enumValue("EAST", 2),
							enumValue("SOUTH", 3),
							enumValue("WEST", 4),
						},
					},
				},
			},
			{
				Name: proto.String("NyctStopTimeUpdate"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("scheduled_track", 1),
					stringField("actual_track", 2),
				},
			},
		},
		Extension: []*descriptorpb.FieldDescriptorProto{
			extensionField("nyct_feed_header", ".transit_realtime.FeedHeader", ".transit_realtime.NyctFeedHeader"),
			extensionField("nyct_trip_descriptor", ".transit_realtime.TripDescriptor", ".transit_realtime.NyctTripDescriptor"),
			extensionField("nyct_stop_time_update", ".transit_realtime.TripUpdate.StopTimeUpdate", ".transit_realtime.NyctStopTimeUpdate"),
		},
	}

	deps := new(protoregistry.Files)
	if err := deps.RegisterFile(gtfsrtpb.File_gtfs_realtime_proto); err != nil {
		return nil, err
	}
	return protodesc.NewFile(fdp, deps)
}

// Descriptor shorthands. NYCT fields are proto2 optional unless noted.

func stringField(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
	}
}

func requiredStringField(name string, number int32) *descriptorpb.FieldDescriptorProto {
	f := stringField(name, number)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED.Enum()
	return f
}

func boolField(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_BOOL.Enum(),
	}
}

func enumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum(),
		TypeName: proto.String(typeName),
	}
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(typeName),
	}
}

func repeatedMessageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := messageField(name, number, typeName)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func enumValue(name string, number int32) *descriptorpb.EnumValueDescriptorProto {
	return &descriptorpb.EnumValueDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
	}
}

func extensionField(name, extendee, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(ExtensionNumber),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(typeName),
		Extendee: proto.String(extendee),
	}
}
