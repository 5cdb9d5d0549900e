package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

func TestNullableFieldFailureKeepsSiblings(t *testing.T) {
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("a", "", schema.NonNullType(schema.NamedType("String")))).
				AddField(schema.NewField("b", "", schema.NamedType("String"))).
				AddField(schema.NewField("c", "", schema.NamedType("Int")))
		},
		sync: map[string]testField{
			"a": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("A"), nil
			},
			"b": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return value.Null[value.Default](), errors.New("b blew up")
			},
			"c": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vint(3), nil
			},
		},
	}

	res := runQuery(t, queryRootSchema(root), root, `{ a b c }`, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "b blew up", res.Errors[0].Message)
	require.Equal(t, []any{"b"}, res.Errors[0].Path)
	requireJSON(t, res, `{"data":{"a":"A","b":null,"c":3},"errors":[{"message":"b blew up","locations":[{"line":1,"column":5}],"path":["b"]}]}`)
}

func TestNonNullChainCollapsesToNearestNullable(t *testing.T) {
	inner := &fake{
		name: "Inner",
		build: func() *schema.Type {
			return schema.NewType("Inner", schema.TypeKindObject, "").
				AddField(schema.NewField("leaf", "", schema.NonNullType(schema.NamedType("String"))))
		},
		sync: map[string]testField{
			"leaf": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return value.Null[value.Default](), nil
			},
		},
	}
	outer := &fake{
		name: "Outer",
		build: func() *schema.Type {
			return schema.NewType("Outer", schema.TypeKindObject, "").
				AddField(schema.NewField("inner", "", schema.NonNullType(schema.NamedType("Inner")))).
				AddField(schema.NewField("tag", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"inner": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.ResolveObject("Inner", inner), nil
			},
			"tag": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("discarded with the rest of Outer"), nil
			},
		},
	}
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("outer", "", schema.NamedType("Outer"))).
				AddField(schema.NewField("ok", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"outer": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.ResolveObject("Outer", outer), nil
			},
			"ok": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("still here"), nil
			},
		},
	}

	res := runQuery(t, queryRootSchema(root, outer, inner), root, `{ outer { inner { leaf } tag } ok }`, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "cannot return null for non-nullable field Inner.leaf", res.Errors[0].Message)
	require.Equal(t, []any{"outer", "inner", "leaf"}, res.Errors[0].Path)
	requireJSON(t, res, `{"data":{"outer":null,"ok":"still here"},"errors":[{"message":"cannot return null for non-nullable field Inner.leaf","locations":[{"line":1,"column":19}],"path":["outer","inner","leaf"]}]}`)
}

func TestAsyncCompletionOrderDoesNotLeakIntoResponse(t *testing.T) {
	delays := map[string]time.Duration{"r1": 40, "r2": 30, "r3": 20, "r4": 10}
	asyncField := func(name string) testAsyncField {
		return func(ctx context.Context, _ *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
			select {
			case <-time.After(delays[name] * time.Millisecond):
			case <-ctx.Done():
				return value.Null[value.Default](), ctx.Err()
			}
			return vstr(name), nil
		}
	}
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			t := schema.NewType("Query", schema.TypeKindObject, "")
			for _, n := range []string{"r1", "r2", "r3", "r4"} {
				t.AddField(schema.NewField(n, "", schema.NamedType("String")).SetAsync(true))
			}
			return t.AddField(schema.NewField("mid", "", schema.NamedType("String")))
		},
		async: map[string]testAsyncField{
			"r1": asyncField("r1"), "r2": asyncField("r2"), "r3": asyncField("r3"), "r4": asyncField("r4"),
		},
		sync: map[string]testField{
			"mid": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("mid"), nil
			},
		},
	}

	res := runQuery(t, queryRootSchema(root), root, `{ r1 r2 mid r3 r4 }`, nil)
	require.Empty(t, res.Errors)
	raw, err := res.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"data":{"r1":"r1","r2":"r2","mid":"mid","r3":"r3","r4":"r4"}}`, string(raw))
}

func TestDuplicateFragmentSpreadYieldsOneKey(t *testing.T) {
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("a", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"a": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("A"), nil
			},
		},
	}

	res := runQuery(t, queryRootSchema(root), root, `{ ...F ...F } fragment F on Query { a }`, nil)
	require.Empty(t, res.Errors)
	raw, err := res.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"data":{"a":"A"}}`, string(raw))
}

func TestInlineFragmentSpliceCollisionIsLastWriteWins(t *testing.T) {
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("a", "", schema.NamedType("String"))).
				AddField(schema.NewField("b", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"a": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("plain"), nil
			},
			"b": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("spliced"), nil
			},
		},
	}
	s := queryRootSchema(root)

	res := runQuery(t, s, root, `{ a ... on Query { a: b } }`, nil)
	requireData(t, res, `{"a":"spliced"}`)

	res = runQuery(t, s, root, `{ ... on Query { a: b } a }`, nil)
	requireData(t, res, `{"a":"plain"}`)
}

func TestAbstractTypeConditionedFragments(t *testing.T) {
	dog := &fake{
		name: "Dog",
		build: func() *schema.Type {
			return schema.NewType("Dog", schema.TypeKindObject, "").
				AddInterface("Pet").
				AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
				AddField(schema.NewField("barks", "", schema.NonNullType(schema.NamedType("Boolean"))))
		},
		sync: map[string]testField{
			"name": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("Rex"), nil
			},
			"barks": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return value.Scalar(value.Boolean(true)), nil
			},
		},
	}
	cat := &fake{
		name: "Cat",
		build: func() *schema.Type {
			return schema.NewType("Cat", schema.TypeKindObject, "").
				AddInterface("Pet").
				AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
				AddField(schema.NewField("meows", "", schema.NonNullType(schema.NamedType("Boolean"))))
		},
		sync: map[string]testField{},
	}
	ref := &fake{
		name: "PetRef",
		variants: Variants[value.Default]{
			{TypeName: "Dog", Accessor: always(dog)},
			{TypeName: "Cat", Accessor: never()},
		},
	}
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("pet", "", schema.NamedType("Pet")))
		},
		sync: map[string]testField{
			"pet": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.ResolveObject("Pet", ref), nil
			},
		},
	}

	s := queryRootSchema(root, dog, cat)
	s.AddType(schema.NewType("Pet", schema.TypeKindInterface, "").
		AddPossibleType("Dog").
		AddPossibleType("Cat").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))))

	res := runQuery(t, s, root, `{
		pet {
			__typename
			name
			... on Dog { barks }
			... on Cat { meows }
		}
	}`, nil)
	requireData(t, res, `{"pet":{"__typename":"Dog","name":"Rex","barks":true}}`)
}

func TestUnionVariantDeclarationOrderWins(t *testing.T) {
	a := &fake{
		name: "A",
		build: func() *schema.Type {
			return schema.NewType("A", schema.TypeKindObject, "").
				AddField(schema.NewField("tag", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"tag": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("a"), nil
			},
		},
	}
	b := &fake{
		name: "B",
		build: func() *schema.Type {
			return schema.NewType("B", schema.TypeKindObject, "").
				AddField(schema.NewField("tag", "", schema.NamedType("String")))
		},
		sync: map[string]testField{},
	}
	// Both accessors match; the earlier declaration must decide.
	ref := &fake{
		name: "EitherRef",
		variants: Variants[value.Default]{
			{TypeName: "A", Accessor: always(a)},
			{TypeName: "B", Accessor: always(b)},
		},
	}
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("thing", "", schema.NamedType("Either")))
		},
		sync: map[string]testField{
			"thing": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.ResolveObject("Either", ref), nil
			},
		},
	}

	s := queryRootSchema(root, a, b)
	s.AddType(schema.NewType("Either", schema.TypeKindUnion, "").
		AddPossibleType("A").
		AddPossibleType("B"))

	res := runQuery(t, s, root, `{ thing { __typename ... on A { tag } } }`, nil)
	requireData(t, res, `{"thing":{"__typename":"A","tag":"a"}}`)
}

func TestSkipIncludeDirectives(t *testing.T) {
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("a", "", schema.NamedType("String"))).
				AddField(schema.NewField("b", "", schema.NamedType("String"))).
				AddField(schema.NewField("c", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"a": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("a"), nil
			},
			"b": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("b"), nil
			},
			"c": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("c"), nil
			},
		},
	}
	s := queryRootSchema(root)

	res := runQuery(t, s, root, `{ a @skip(if: true) b @include(if: false) c }`, nil)
	requireData(t, res, `{"c":"c"}`)

	res = runQuery(t, s, root,
		`query Q($skipA: Boolean!, $takeB: Boolean!) { a @skip(if: $skipA) b @include(if: $takeB) c }`,
		map[string]any{"skipA": false, "takeB": true})
	requireData(t, res, `{"a":"a","b":"b","c":"c"}`)
}

func TestListElementPathsAndNonNullElements(t *testing.T) {
	goodThing := func(tag string) *fake {
		return &fake{
			name: "Thing",
			build: func() *schema.Type {
				return schema.NewType("Thing", schema.TypeKindObject, "").
					AddField(schema.NewField("leaf", "", schema.NamedType("String")))
			},
			sync: map[string]testField{
				"leaf": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
					return vstr(tag), nil
				},
			},
		}
	}
	bad := goodThing("unused")
	bad.sync["leaf"] = func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
		return value.Null[value.Default](), fmt.Errorf("element failed")
	}
	items := []any{goodThing("one"), bad, goodThing("three")}

	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("items", "", schema.ListType(schema.NamedType("Thing")))).
				AddField(schema.NewField("strict", "", schema.ListType(schema.NonNullType(schema.NamedType("Thing")))))
		},
		sync: map[string]testField{
			"items": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.ResolveList("Thing", items), nil
			},
			"strict": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.ResolveList("Thing", []any{goodThing("one"), nil}), nil
			},
		},
	}
	s := queryRootSchema(root, goodThing("registration"))

	res := runQuery(t, s, root, `{ items { leaf } }`, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, []any{"items", 1, "leaf"}, res.Errors[0].Path)
	requireJSON(t, res, `{"data":{"items":[{"leaf":"one"},{"leaf":null},{"leaf":"three"}]},"errors":[{"message":"element failed","locations":[{"line":1,"column":11}],"path":["items",1,"leaf"]}]}`)

	res = runQuery(t, s, root, `{ strict { leaf } }`, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, []any{"strict", 1}, res.Errors[0].Path)
	requireJSON(t, res, `{"data":{"strict":null},"errors":[{"message":"cannot return null for non-nullable list element of Thing","locations":[{"line":1,"column":3}],"path":["strict",1]}]}`)
}

func TestRequestLevelVariableFailureStopsExecution(t *testing.T) {
	resolved := false
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("a", "", schema.NamedType("String")).
					AddArgument(schema.NewInputValue("x", "", schema.NonNullType(schema.NamedType("Int")))))
		},
		sync: map[string]testField{
			"a": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				resolved = true
				return vstr("a"), nil
			},
		},
	}

	res := runQuery(t, queryRootSchema(root), root,
		`query Q($x: Int!) { a(x: $x) }`, map[string]any{"x": "not an int"})
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0].Message, "variable $x")
	require.True(t, res.Data.IsNull())
	require.False(t, resolved)
}

func TestOperationSelection(t *testing.T) {
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("a", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"a": func(*Executor[value.Default], Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr("a"), nil
			},
		},
	}
	s := queryRootSchema(root)
	e := NewEngine(s, DefaultScalars())
	doc := mustParseQuery(t, `query One { a } query Two { a a2: a }`)

	res := e.ExecuteRequest(context.Background(), doc, "Two", nil, root, nil)
	requireData(t, res, `{"a":"a","a2":"a"}`)

	res = e.ExecuteRequest(context.Background(), doc, "Missing", nil, root, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "operation not found", res.Errors[0].Message)
}

func TestContextValueFlowsToSubtree(t *testing.T) {
	child := &fake{
		name: "Child",
		build: func() *schema.Type {
			return schema.NewType("Child", schema.TypeKindObject, "").
				AddField(schema.NewField("seen", "", schema.NamedType("String")))
		},
		sync: map[string]testField{
			"seen": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return vstr(ex.ContextValue().(string)), nil
			},
		},
	}
	root := &fake{
		name: "Query",
		build: func() *schema.Type {
			return schema.NewType("Query", schema.TypeKindObject, "").
				AddField(schema.NewField("child", "", schema.NamedType("Child")))
		},
		sync: map[string]testField{
			"child": func(ex *Executor[value.Default], _ Arguments[value.Default]) (value.Value[value.Default], error) {
				return ex.WithContextValue("installed").ResolveObject("Child", child), nil
			},
		},
	}

	res := runQuery(t, queryRootSchema(root, child), root, `{ child { seen } }`, nil)
	requireData(t, res, `{"child":{"seen":"installed"}}`)
}
