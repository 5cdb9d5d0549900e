package value

import (
	"bytes"
	"encoding/json"
)

// Field is one response entry of an Object.
type Field[S ScalarValue] struct {
	Key   string
	Value Value[S]
}

// Object is an insertion-order-preserving mapping from response key to Value.
// Adding an already-present key overwrites the earlier value in place
// (last-write-wins) instead of duplicating the entry.
type Object[S ScalarValue] struct {
	fields []Field[S]
	index  map[string]int
}

// NewObject creates an empty Object.
func NewObject[S ScalarValue]() *Object[S] {
	return NewObjectWithCapacity[S](0)
}

// NewObjectWithCapacity creates an empty Object sized for n entries.
func NewObjectWithCapacity[S ScalarValue](n int) *Object[S] {
	return &Object[S]{
		fields: make([]Field[S], 0, n),
		index:  make(map[string]int, n),
	}
}

// Add writes v under key. The key keeps its original position when it already
// exists; only the value is replaced.
func (o *Object[S]) Add(key string, v Value[S]) {
	if i, ok := o.index[key]; ok {
		o.fields[i].Value = v
		return
	}
	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field[S]{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object[S]) Get(key string) (Value[S], bool) {
	if i, ok := o.index[key]; ok {
		return o.fields[i].Value, true
	}
	return Value[S]{}, false
}

// Has reports whether key is present.
func (o *Object[S]) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Len returns the number of entries.
func (o *Object[S]) Len() int { return len(o.fields) }

// Fields returns the entries in insertion order. The slice is shared; callers
// must not mutate it.
func (o *Object[S]) Fields() []Field[S] { return o.fields }

// Equal reports order-sensitive deep equality.
func (o *Object[S]) Equal(other *Object[S]) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.fields) != len(other.fields) {
		return false
	}
	for i, f := range o.fields {
		if f.Key != other.fields[i].Key || !f.Value.Equal(other.fields[i].Value) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (o *Object[S]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
