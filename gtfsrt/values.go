package gtfsrt

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/citytransit-labs/nyct-gtfsrt/protoview"
)

// Tolerant reads for the accessor layer. Every field name passed here is a
// compile-time constant from the GTFS-realtime or NYCT schema; a resolution
// failure reads as the zero value, the same as an absent optional field.

func viewString(v *protoview.MessageView, name string) string {
	if v == nil {
		return ""
	}
	s, err := v.GetString(name)
	if err != nil {
		return ""
	}
	return s
}

func viewUint(v *protoview.MessageView, name string) uint64 {
	if v == nil {
		return 0
	}
	n, err := v.GetUint(name)
	if err != nil {
		return 0
	}
	return n
}

func viewInt(v *protoview.MessageView, name string) int64 {
	if v == nil {
		return 0
	}
	n, err := v.GetInt(name)
	if err != nil {
		return 0
	}
	return n
}

func viewEnum(v *protoview.MessageView, name string) protoreflect.EnumNumber {
	if v == nil {
		return 0
	}
	n, err := v.GetEnum(name)
	if err != nil {
		return 0
	}
	return n
}
