package protoview

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// RepeatedView wraps one repeated field with indexed access. The length is
// fixed at construction (the decoded feed never changes underneath it) and
// elements are resolved lazily, memoized per index. Iteration is by index,
// so walking the view twice simply starts over at zero.
type RepeatedView struct {
	schema *Schema
	entry  fieldEntry
	list   protoreflect.List
	length int
	memo   []any
}

func newRepeatedView(s *Schema, e fieldEntry, list protoreflect.List) *RepeatedView {
	return &RepeatedView{
		schema: s,
		entry:  e,
		list:   list,
		length: list.Len(),
		memo:   make([]any, list.Len()),
	}
}

// Len returns the element count.
func (r *RepeatedView) Len() int { return r.length }

// At resolves the element at index i, with the same value mapping as
// MessageView.Get.
func (r *RepeatedView) At(i int) (any, error) {
	if i < 0 || i >= r.length {
		return nil, fmt.Errorf("%w: index %d of %s with length %d", ErrIndexOutOfRange, i, r.entry.desc.FullName(), r.length)
	}
	if r.memo[i] != nil {
		return r.memo[i], nil
	}
	var val any
	var err error
	if r.entry.kind == KindMessage {
		val, err = r.schema.view(r.list.Get(i).Message())
	} else {
		val, err = extractScalar(r.entry, r.list.Get(i))
	}
	if err != nil {
		return nil, err
	}
	r.memo[i] = val
	return val, nil
}

// MessageAt resolves a message-kind element to a child view.
func (r *RepeatedView) MessageAt(i int) (*MessageView, error) {
	val, err := r.At(i)
	if err != nil {
		return nil, err
	}
	mv, ok := val.(*MessageView)
	if !ok {
		return nil, fmt.Errorf("%w: element %d of %s resolves to %T, not message", ErrUnsupportedKind, i, r.entry.desc.FullName(), val)
	}
	return mv, nil
}

// StringAt resolves a string-kind element.
func (r *RepeatedView) StringAt(i int) (string, error) {
	val, err := r.At(i)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%w: element %d of %s resolves to %T, not string", ErrUnsupportedKind, i, r.entry.desc.FullName(), val)
	}
	return s, nil
}
