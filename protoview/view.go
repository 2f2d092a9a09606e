package protoview

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// MessageView wraps one decoded message node and resolves its fields on
// demand through the schema catalog. Scalars come back as uint64, int64,
// float64, string or protoreflect.EnumNumber; singular message fields as a
// child *MessageView; repeated fields as a *RepeatedView. Reading an absent
// optional field yields its default value, never an error.
type MessageView struct {
	schema  *Schema
	catalog *Catalog
	msg     protoreflect.Message
	memo    map[string]any
	extMemo map[protoreflect.FieldNumber]any
}

// MessageName returns the full name of the wrapped message type.
func (v *MessageView) MessageName() protoreflect.FullName { return v.catalog.message }

// Has reports whether the named field is explicitly present on the message.
// Unknown names report false. For repeated fields, presence means non-empty.
func (v *MessageView) Has(name string) bool {
	e, ok := v.catalog.fields[protoreflect.Name(name)]
	if !ok {
		return false
	}
	return v.msg.Has(e.desc)
}

// Get resolves a named field to its value.
func (v *MessageView) Get(name string) (any, error) {
	if val, ok := v.memo[name]; ok {
		return val, nil
	}
	e, ok := v.catalog.fields[protoreflect.Name(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, v.catalog.message, name)
	}
	val, err := v.resolve(e)
	if err != nil {
		return nil, err
	}
	if v.memo == nil {
		v.memo = make(map[string]any)
	}
	v.memo[name] = val
	return val, nil
}

// resolve dispatches one catalog entry: repeated fields become views over
// the list, message fields become child views, scalars extract directly.
func (v *MessageView) resolve(e fieldEntry) (any, error) {
	if e.repeated {
		return newRepeatedView(v.schema, e, v.msg.Get(e.desc).List()), nil
	}
	if e.kind == KindMessage {
		return v.schema.view(v.msg.Get(e.desc).Message())
	}
	return extractScalar(e, v.msg.Get(e.desc))
}

// extractScalar is the closed set of scalar extraction routines, selected
// by the catalogued kind. Bool folds into the uint routine as 0 or 1.
func extractScalar(e fieldEntry, val protoreflect.Value) (any, error) {
	switch e.kind {
	case KindUint:
		if e.desc.Kind() == protoreflect.BoolKind {
			if val.Bool() {
				return uint64(1), nil
			}
			return uint64(0), nil
		}
		return val.Uint(), nil
	case KindSint:
		return val.Int(), nil
	case KindFloat:
		return val.Float(), nil
	case KindString:
		return val.String(), nil
	case KindEnum:
		return val.Enum(), nil
	default:
		return nil, fmt.Errorf("%w: %s is declared %s", ErrUnsupportedKind, e.desc.FullName(), e.desc.Kind())
	}
}

// GetString resolves a string-kind field.
func (v *MessageView) GetString(name string) (string, error) {
	val, err := v.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", typeMismatch(v.catalog.message, name, "string", val)
	}
	return s, nil
}

// GetUint resolves an unsigned-integer or bool field.
func (v *MessageView) GetUint(name string) (uint64, error) {
	val, err := v.Get(name)
	if err != nil {
		return 0, err
	}
	u, ok := val.(uint64)
	if !ok {
		return 0, typeMismatch(v.catalog.message, name, "uint", val)
	}
	return u, nil
}

// GetInt resolves a signed-integer field.
func (v *MessageView) GetInt(name string) (int64, error) {
	val, err := v.Get(name)
	if err != nil {
		return 0, err
	}
	i, ok := val.(int64)
	if !ok {
		return 0, typeMismatch(v.catalog.message, name, "int", val)
	}
	return i, nil
}

// GetFloat resolves a float or double field.
func (v *MessageView) GetFloat(name string) (float64, error) {
	val, err := v.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := val.(float64)
	if !ok {
		return 0, typeMismatch(v.catalog.message, name, "float", val)
	}
	return f, nil
}

// GetEnum resolves an enum field to its number.
func (v *MessageView) GetEnum(name string) (protoreflect.EnumNumber, error) {
	val, err := v.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := val.(protoreflect.EnumNumber)
	if !ok {
		return 0, typeMismatch(v.catalog.message, name, "enum", val)
	}
	return n, nil
}

// GetMessage resolves a singular message field to a child view.
func (v *MessageView) GetMessage(name string) (*MessageView, error) {
	val, err := v.Get(name)
	if err != nil {
		return nil, err
	}
	mv, ok := val.(*MessageView)
	if !ok {
		return nil, typeMismatch(v.catalog.message, name, "message", val)
	}
	return mv, nil
}

// GetRepeated resolves a repeated field to a RepeatedView.
func (v *MessageView) GetRepeated(name string) (*RepeatedView, error) {
	val, err := v.Get(name)
	if err != nil {
		return nil, err
	}
	rv, ok := val.(*RepeatedView)
	if !ok {
		return nil, typeMismatch(v.catalog.message, name, "repeated", val)
	}
	return rv, nil
}

func typeMismatch(msg protoreflect.FullName, field, want string, got any) error {
	return fmt.Errorf("%w: %s.%s resolves to %T, not %s", ErrUnsupportedKind, msg, field, got, want)
}

// Extensions returns the extension lookup for this message. It fails with
// ErrInvalidOperation when the message type declares no extension ranges;
// such a view has no number-indexed fields at all.
func (v *MessageView) Extensions() (*ExtensionView, error) {
	if !v.catalog.extendable {
		return nil, fmt.Errorf("%w: %s does not accept extensions", ErrInvalidOperation, v.catalog.message)
	}
	return &ExtensionView{view: v}, nil
}

// ExtensionView resolves extension fields by number on the message it was
// derived from. Only views over extendable message types produce one; the
// memo is shared with the parent view.
type ExtensionView struct {
	view *MessageView
}

// Has reports whether the extension field is present on the message.
// Unknown numbers report false.
func (x *ExtensionView) Has(number int32) bool {
	e, ok := x.view.catalog.extensions[protoreflect.FieldNumber(number)]
	if !ok {
		return false
	}
	return x.view.msg.Has(e.desc)
}

// Get resolves an extension field by number, with the same value mapping as
// MessageView.Get. An absent message-typed extension resolves to an empty
// read-only view: all its fields read as absent.
func (x *ExtensionView) Get(number int32) (any, error) {
	num := protoreflect.FieldNumber(number)
	if val, ok := x.view.extMemo[num]; ok {
		return val, nil
	}
	e, ok := x.view.catalog.extensions[num]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no extension %d", ErrUnknownField, x.view.catalog.message, number)
	}
	val, err := x.view.resolve(e)
	if err != nil {
		return nil, err
	}
	if x.view.extMemo == nil {
		x.view.extMemo = make(map[protoreflect.FieldNumber]any)
	}
	x.view.extMemo[num] = val
	return val, nil
}

// Message resolves a message-typed extension to a child view.
func (x *ExtensionView) Message(number int32) (*MessageView, error) {
	val, err := x.Get(number)
	if err != nil {
		return nil, err
	}
	mv, ok := val.(*MessageView)
	if !ok {
		return nil, fmt.Errorf("%w: extension %d of %s resolves to %T, not message", ErrUnsupportedKind, number, x.view.catalog.message, val)
	}
	return mv, nil
}

// Repeated resolves a repeated extension to a RepeatedView.
func (x *ExtensionView) Repeated(number int32) (*RepeatedView, error) {
	val, err := x.Get(number)
	if err != nil {
		return nil, err
	}
	rv, ok := val.(*RepeatedView)
	if !ok {
		return nil, fmt.Errorf("%w: extension %d of %s resolves to %T, not repeated", ErrUnsupportedKind, number, x.view.catalog.message, val)
	}
	return rv, nil
}
