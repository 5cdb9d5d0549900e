package executor

import (
	"fmt"
	"math"
	"strconv"

	language "github.com/quillgraph/quillgraph/internal/language"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// ScalarDef is the complete definition of one scalar kind's participation in
// the engine: three pure functions. ParseLiteral turns a query-text literal
// into a scalar, CoerceInput coerces a host-supplied variable or default
// value, and Serialize turns a resolver-produced host value into the
// representation. Errors from any of the three surface as coercion errors on
// the enclosing field or argument.
type ScalarDef[S value.ScalarValue] struct {
	ParseLiteral func(raw string, kind language.ValueKind) (S, error)
	CoerceInput  func(v any) (S, error)
	Serialize    func(v any) (S, error)
}

// ScalarMap configures the scalar kinds one engine instance supports, keyed by
// schema type name.
type ScalarMap[S value.ScalarValue] map[string]ScalarDef[S]

// DefaultScalars returns the builtin kinds over the Default representation:
// Int, Float, String, Boolean and ID.
func DefaultScalars() ScalarMap[value.Default] {
	return ScalarMap[value.Default]{
		"Int": {
			ParseLiteral: parseIntLiteral,
			CoerceInput:  coerceIntInput,
			Serialize:    coerceIntInput,
		},
		"Float": {
			ParseLiteral: parseFloatLiteral,
			CoerceInput:  coerceFloatInput,
			Serialize:    coerceFloatInput,
		},
		"String": {
			ParseLiteral: parseStringLiteral,
			CoerceInput:  coerceStringInput,
			Serialize:    coerceStringInput,
		},
		"Boolean": {
			ParseLiteral: parseBooleanLiteral,
			CoerceInput:  coerceBooleanInput,
			Serialize:    coerceBooleanInput,
		},
		"ID": {
			ParseLiteral: parseIDLiteral,
			CoerceInput:  coerceIDInput,
			Serialize:    coerceIDInput,
		},
	}
}

func parseIntLiteral(raw string, kind language.ValueKind) (value.Default, error) {
	if kind != language.IntValue {
		return value.Default{}, fmt.Errorf("Int cannot represent non-integer literal %q", raw)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return value.Default{}, fmt.Errorf("Int cannot represent %q: %v", raw, err)
	}
	return value.Int(int32(n)), nil
}

func coerceIntInput(v any) (value.Default, error) {
	switch n := v.(type) {
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return value.Default{}, fmt.Errorf("Int cannot represent %d: out of 32-bit range", n)
		}
		return value.Int(int32(n)), nil
	case int32:
		return value.Int(n), nil
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return value.Default{}, fmt.Errorf("Int cannot represent %d: out of 32-bit range", n)
		}
		return value.Int(int32(n)), nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return value.Default{}, fmt.Errorf("Int cannot represent %v", n)
		}
		return value.Int(int32(n)), nil
	}
	return value.Default{}, fmt.Errorf("Int cannot represent %v (%T)", v, v)
}

func parseFloatLiteral(raw string, kind language.ValueKind) (value.Default, error) {
	if kind != language.FloatValue && kind != language.IntValue {
		return value.Default{}, fmt.Errorf("Float cannot represent non-numeric literal %q", raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return value.Default{}, fmt.Errorf("Float cannot represent %q: %v", raw, err)
	}
	return value.Float(f), nil
}

func coerceFloatInput(v any) (value.Default, error) {
	switch n := v.(type) {
	case float64:
		return value.Float(n), nil
	case float32:
		return value.Float(float64(n)), nil
	case int:
		return value.Float(float64(n)), nil
	case int32:
		return value.Float(float64(n)), nil
	case int64:
		return value.Float(float64(n)), nil
	}
	return value.Default{}, fmt.Errorf("Float cannot represent %v (%T)", v, v)
}

func parseStringLiteral(raw string, kind language.ValueKind) (value.Default, error) {
	if kind != language.StringValue && kind != language.BlockValue {
		return value.Default{}, fmt.Errorf("String cannot represent non-string literal %q", raw)
	}
	return value.String(raw), nil
}

func coerceStringInput(v any) (value.Default, error) {
	if s, ok := v.(string); ok {
		return value.String(s), nil
	}
	return value.Default{}, fmt.Errorf("String cannot represent %v (%T)", v, v)
}

func parseBooleanLiteral(raw string, kind language.ValueKind) (value.Default, error) {
	if kind != language.BooleanValue {
		return value.Default{}, fmt.Errorf("Boolean cannot represent literal %q", raw)
	}
	return value.Boolean(raw == "true"), nil
}

func coerceBooleanInput(v any) (value.Default, error) {
	if b, ok := v.(bool); ok {
		return value.Boolean(b), nil
	}
	return value.Default{}, fmt.Errorf("Boolean cannot represent %v (%T)", v, v)
}

// ID accepts both string and integer forms and always carries a string.
func parseIDLiteral(raw string, kind language.ValueKind) (value.Default, error) {
	switch kind {
	case language.StringValue, language.IntValue:
		return value.String(raw), nil
	}
	return value.Default{}, fmt.Errorf("ID cannot represent literal %q", raw)
}

func coerceIDInput(v any) (value.Default, error) {
	switch n := v.(type) {
	case string:
		return value.String(n), nil
	case int:
		return value.String(strconv.Itoa(n)), nil
	case int32:
		return value.String(strconv.FormatInt(int64(n), 10)), nil
	case int64:
		return value.String(strconv.FormatInt(n, 10)), nil
	}
	return value.Default{}, fmt.Errorf("ID cannot represent %v (%T)", v, v)
}
