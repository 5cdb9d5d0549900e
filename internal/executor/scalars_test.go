package executor

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/quillgraph/quillgraph/internal/language"
	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

func TestDefaultScalarsInt(t *testing.T) {
	def := DefaultScalars()["Int"]

	s, err := def.ParseLiteral("42", language.IntValue)
	require.NoError(t, err)
	n, ok := s.AsInt()
	require.True(t, ok)
	require.Equal(t, int32(42), n)

	_, err = def.ParseLiteral("2147483648", language.IntValue)
	require.Error(t, err)

	_, err = def.ParseLiteral("4.5", language.FloatValue)
	require.Error(t, err)

	_, err = def.CoerceInput(int64(1) << 40)
	require.Error(t, err)

	_, err = def.CoerceInput(1.5)
	require.Error(t, err)

	s, err = def.CoerceInput(float64(7))
	require.NoError(t, err)
	n, _ = s.AsInt()
	require.Equal(t, int32(7), n)
}

func TestDefaultScalarsFloatAcceptsIntLiteral(t *testing.T) {
	def := DefaultScalars()["Float"]
	s, err := def.ParseLiteral("3", language.IntValue)
	require.NoError(t, err)
	f, ok := s.AsFloat()
	require.True(t, ok)
	require.Equal(t, 3.0, f)
}

func TestDefaultScalarsID(t *testing.T) {
	def := DefaultScalars()["ID"]

	s, err := def.ParseLiteral("abc", language.StringValue)
	require.NoError(t, err)
	str, _ := s.AsString()
	require.Equal(t, "abc", str)

	s, err = def.CoerceInput(42)
	require.NoError(t, err)
	str, _ = s.AsString()
	require.Equal(t, "42", str)

	_, err = def.CoerceInput(true)
	require.Error(t, err)
}

func TestLeafSerializesThroughScalarDef(t *testing.T) {
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("n", "", schema.NamedType("Int")))
		},
		sync: map[string]testField{
			"n": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.Leaf("Int", 7)
			},
		},
	}
	res := runQuery(t, queryRootSchema(root), root, `{ n }`, nil)
	requireData(t, res, `{"n":7}`)
}

// bigScalar is a custom representation whose integer leg is 64-bit wide,
// so values beyond the builtin Int range serialize exactly.
type bigScalar struct {
	kind byte // 's', 'l', 'b'
	s    string
	l    int64
	b    bool
}

func (v bigScalar) AsInt() (int32, bool) {
	if v.kind == 'l' && v.l >= -1<<31 && v.l < 1<<31 {
		return int32(v.l), true
	}
	return 0, false
}

func (v bigScalar) AsFloat() (float64, bool) {
	if v.kind == 'l' {
		return float64(v.l), true
	}
	return 0, false
}

func (v bigScalar) AsString() (string, bool) {
	if v.kind == 's' {
		return v.s, true
	}
	return "", false
}

func (v bigScalar) AsBool() (bool, bool) {
	if v.kind == 'b' {
		return v.b, true
	}
	return false, false
}

func (v bigScalar) Render() string {
	switch v.kind {
	case 's':
		return v.s
	case 'b':
		return strconv.FormatBool(v.b)
	default:
		return strconv.FormatInt(v.l, 10)
	}
}

func bigScalars() ScalarMap[bigScalar] {
	coerceLong := func(v any) (bigScalar, error) {
		switch n := v.(type) {
		case int:
			return bigScalar{kind: 'l', l: int64(n)}, nil
		case int64:
			return bigScalar{kind: 'l', l: n}, nil
		case float64:
			return bigScalar{kind: 'l', l: int64(n)}, nil
		}
		return bigScalar{}, fmt.Errorf("Long cannot represent %v (%T)", v, v)
	}
	coerceString := func(v any) (bigScalar, error) {
		if s, ok := v.(string); ok {
			return bigScalar{kind: 's', s: s}, nil
		}
		return bigScalar{}, fmt.Errorf("String cannot represent %v (%T)", v, v)
	}
	return ScalarMap[bigScalar]{
		"Long": {
			ParseLiteral: func(raw string, kind language.ValueKind) (bigScalar, error) {
				if kind != language.IntValue {
					return bigScalar{}, fmt.Errorf("Long cannot represent literal %q", raw)
				}
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return bigScalar{}, err
				}
				return bigScalar{kind: 'l', l: n}, nil
			},
			CoerceInput: coerceLong,
			Serialize:   coerceLong,
		},
		"String": {
			ParseLiteral: func(raw string, kind language.ValueKind) (bigScalar, error) {
				return bigScalar{kind: 's', s: raw}, nil
			},
			CoerceInput: coerceString,
			Serialize:   coerceString,
		},
	}
}

type longRoot struct{}

func (longRoot) TypeName(TypeInfo) string { return "Query" }

func (longRoot) BuildMeta(TypeInfo, *schema.Schema) *schema.Type {
	return schema.NewType("Query", schema.TypeKindObject, "").
		AddField(schema.NewField("longField", "", schema.NonNullType(schema.NamedType("Long")))).
		AddField(schema.NewField("echo", "", schema.NonNullType(schema.NamedType("Long"))).
			AddArgument(schema.NewInputValue("x", "", schema.NonNullType(schema.NamedType("Long")))))
}

func (longRoot) ResolveField(ex *Executor[bigScalar], _ TypeInfo, field string, args Arguments[bigScalar]) (value.Value[bigScalar], error) {
	switch field {
	case "longField":
		return ex.Leaf("Long", int64(2147483648))
	case "echo":
		s, _ := args.Scalar("x")
		return value.Scalar(s), nil
	}
	return value.Null[bigScalar](), fmt.Errorf("Query has no field %q", field)
}

func TestCustomWideIntegerRepresentation(t *testing.T) {
	s := schema.NewSchema("")
	s.AddType(schema.NewType("Long", schema.TypeKindScalar, "A 64-bit signed integer."))
	RegisterType(s, longRoot{}, nil)
	s.SetQueryType("Query")

	e := NewEngine(s, bigScalars())
	doc := mustParseQuery(t, `{ longField echo(x: 9007199254740993) }`)
	res := e.ExecuteRequest(context.Background(), doc, "", nil, longRoot{}, nil)
	require.Empty(t, res.Errors)

	raw, err := res.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"data":{"longField":2147483648,"echo":9007199254740993}}`, string(raw))
}
