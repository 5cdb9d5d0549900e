package value

import "strconv"

// ScalarValue is the pluggable leaf representation carried by Value trees.
//
// A representation must expose lossless views into the common host kinds it
// supports. Each view returns false when the underlying kind is not logically
// convertible (e.g. a 64-bit integer outside int32 range reports no int view).
// Render returns a stable textual form: the raw text for strings, the
// canonical literal for every other kind. Render output for numeric kinds must
// be valid JSON number syntax, since it is emitted verbatim when a Value tree
// is marshaled.
type ScalarValue interface {
	AsInt() (int32, bool)
	AsFloat() (float64, bool)
	AsString() (string, bool)
	AsBool() (bool, bool)
	Render() string
}

type defaultKind int8

const (
	defaultInt defaultKind = iota
	defaultFloat
	defaultString
	defaultBool
)

// Default is the baseline scalar representation: 32-bit integers, 64-bit
// floats, strings and booleans. Engines needing more kinds (64-bit integers,
// byte blobs, ...) supply their own ScalarValue implementation and a total
// conversion function for Convert.
type Default struct {
	kind defaultKind
	i    int32
	f    float64
	s    string
	b    bool
}

// Int constructs a Default holding a 32-bit integer.
func Int(v int32) Default { return Default{kind: defaultInt, i: v} }

// Float constructs a Default holding a 64-bit float.
func Float(v float64) Default { return Default{kind: defaultFloat, f: v} }

// String constructs a Default holding a string.
func String(v string) Default { return Default{kind: defaultString, s: v} }

// Boolean constructs a Default holding a boolean.
func Boolean(v bool) Default { return Default{kind: defaultBool, b: v} }

func (d Default) AsInt() (int32, bool) {
	if d.kind == defaultInt {
		return d.i, true
	}
	return 0, false
}

func (d Default) AsFloat() (float64, bool) {
	switch d.kind {
	case defaultFloat:
		return d.f, true
	case defaultInt:
		return float64(d.i), true
	}
	return 0, false
}

func (d Default) AsString() (string, bool) {
	if d.kind == defaultString {
		return d.s, true
	}
	return "", false
}

func (d Default) AsBool() (bool, bool) {
	if d.kind == defaultBool {
		return d.b, true
	}
	return false, false
}

func (d Default) Render() string {
	switch d.kind {
	case defaultInt:
		return strconv.FormatInt(int64(d.i), 10)
	case defaultFloat:
		return formatFloat(d.f)
	case defaultString:
		return d.s
	case defaultBool:
		return strconv.FormatBool(d.b)
	}
	return ""
}

// formatFloat renders f in the shortest form that round-trips and stays valid
// JSON number syntax (always keeps a fractional or exponent part).
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}
