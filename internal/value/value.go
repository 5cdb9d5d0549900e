// Package value holds the structured result representation produced by query
// execution: a tagged Value tree over a pluggable scalar representation, with
// insertion-order-preserving objects and deterministic text rendering.
//
// Values are only ever built by the engine and by resolvers; they are never
// parsed from source text and never contain unresolved variable or enum nodes.
package value

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// Kind discriminates the variant held by a Value.
type Kind int8

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindObject
)

// Value is one node of a result tree. The zero Value is Null.
type Value[S ScalarValue] struct {
	kind   Kind
	scalar S
	list   []Value[S]
	object *Object[S]
}

// Null constructs a null value.
func Null[S ScalarValue]() Value[S] { return Value[S]{} }

// Scalar constructs a scalar leaf.
func Scalar[S ScalarValue](s S) Value[S] { return Value[S]{kind: KindScalar, scalar: s} }

// List constructs a list value from items.
func List[S ScalarValue](items []Value[S]) Value[S] {
	if items == nil {
		items = []Value[S]{}
	}
	return Value[S]{kind: KindList, list: items}
}

// FromObject constructs an object value around o.
func FromObject[S ScalarValue](o *Object[S]) Value[S] {
	return Value[S]{kind: KindObject, object: o}
}

// Kind returns the variant tag.
func (v Value[S]) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v Value[S]) IsNull() bool { return v.kind == KindNull }

// AsScalar returns the scalar view.
func (v Value[S]) AsScalar() (S, bool) {
	if v.kind == KindScalar {
		return v.scalar, true
	}
	var zero S
	return zero, false
}

// AsList returns the list view. The slice is shared, not copied.
func (v Value[S]) AsList() ([]Value[S], bool) {
	if v.kind == KindList {
		return v.list, true
	}
	return nil, false
}

// AsObject returns the object view.
func (v Value[S]) AsObject() (*Object[S], bool) {
	if v.kind == KindObject {
		return v.object, true
	}
	return nil, false
}

// Equal reports deep, order-sensitive equality.
func (v Value[S]) Equal(other Value[S]) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		return reflect.DeepEqual(v.scalar, other.scalar)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.object.Equal(other.object)
	}
	return false
}

// Convert maps the scalar representation of an entire tree through f,
// preserving structure and key order. The conversion is total: f must accept
// every variant of S, so Convert never fails. Converting into the identical
// representation with an identity f is a structural no-op.
func Convert[S, T ScalarValue](v Value[S], f func(S) T) Value[T] {
	switch v.kind {
	case KindScalar:
		return Scalar(f(v.scalar))
	case KindList:
		out := make([]Value[T], len(v.list))
		for i, item := range v.list {
			out[i] = Convert(item, f)
		}
		return List(out)
	case KindObject:
		converted := NewObjectWithCapacity[T](v.object.Len())
		for _, field := range v.object.Fields() {
			converted.Add(field.Key, Convert(field.Value, f))
		}
		return FromObject(converted)
	default:
		return Null[T]()
	}
}

// String renders the value deterministically: null lowercase, strings quoted,
// lists and objects with stable separators and insertion-order keys. Intended
// for debug and golden output, not for wire serialization.
func (v Value[S]) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value[S]) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindScalar:
		if s, ok := v.scalar.AsString(); ok {
			sb.WriteByte('"')
			sb.WriteString(s)
			sb.WriteByte('"')
		} else {
			sb.WriteString(v.scalar.Render())
		}
	case KindList:
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.render(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, field := range v.object.Fields() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('"')
			sb.WriteString(field.Key)
			sb.WriteString("\": ")
			field.Value.render(sb)
		}
		sb.WriteByte('}')
	}
}

// MarshalJSON serializes the tree. Scalar leaves marshal through their views:
// strings and booleans via encoding/json, numeric kinds verbatim from Render,
// which keeps large-magnitude integers exact.
func (v Value[S]) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindScalar:
		if s, ok := v.scalar.AsString(); ok {
			return json.Marshal(s)
		}
		if b, ok := v.scalar.AsBool(); ok {
			return json.Marshal(b)
		}
		return []byte(v.scalar.Render()), nil
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		return v.object.MarshalJSON()
	}
	return []byte("null"), nil
}
