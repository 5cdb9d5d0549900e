package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	language "github.com/quillgraph/quillgraph/internal/language"
	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// Test fixtures over the Default representation. A fake is a schema type whose
// field behavior is given as per-field closures, so each test declares exactly
// the resolution behavior it exercises.

type testField = func(ex *Executor[value.Default], args Arguments[value.Default]) (value.Value[value.Default], error)

type testAsyncField = func(ctx context.Context, ex *Executor[value.Default], args Arguments[value.Default]) (value.Value[value.Default], error)

type fake struct {
	name     string
	build    func() *schema.Type
	sync     map[string]testField
	async    map[string]testAsyncField
	variants Variants[value.Default]
}

func (f *fake) TypeName(TypeInfo) string { return f.name }

func (f *fake) BuildMeta(TypeInfo, *schema.Schema) *schema.Type { return f.build() }

func (f *fake) ResolveField(ex *Executor[value.Default], _ TypeInfo, field string, args Arguments[value.Default]) (value.Value[value.Default], error) {
	fn, ok := f.sync[field]
	if !ok {
		return value.Null[value.Default](), fmt.Errorf("fake %s: no sync field %q", f.name, field)
	}
	return fn(ex, args)
}

func (f *fake) ResolveFieldAsync(ctx context.Context, ex *Executor[value.Default], _ TypeInfo, field string, args Arguments[value.Default]) (value.Value[value.Default], error) {
	fn, ok := f.async[field]
	if !ok {
		return value.Null[value.Default](), fmt.Errorf("fake %s: no async field %q", f.name, field)
	}
	return fn(ctx, ex, args)
}

func (f *fake) ConcreteTypeName(ex *Executor[value.Default], info TypeInfo) string {
	return f.variants.ConcreteTypeName(ex, info)
}

func (f *fake) ResolveInto(ex *Executor[value.Default], info TypeInfo, typeName string) (Instance[value.Default], bool) {
	return f.variants.ResolveInto(ex, info, typeName)
}

// always is an accessor that always yields inner.
func always(inner any) Accessor[value.Default] {
	return func(*Executor[value.Default], TypeInfo) (any, bool) { return inner, true }
}

// never is an accessor that never matches.
func never() Accessor[value.Default] {
	return func(*Executor[value.Default], TypeInfo) (any, bool) { return nil, false }
}

func vstr(s string) value.Value[value.Default] { return value.Scalar(value.String(s)) }

func vint(n int32) value.Value[value.Default] { return value.Scalar(value.Int(n)) }

func mustParseQuery(t *testing.T, src string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(src)
	require.NoError(t, err)
	return doc
}

func runQuery(t *testing.T, s *schema.Schema, root any, query string, vars map[string]any) *ExecutionResult[value.Default] {
	t.Helper()
	e := NewEngine(s, DefaultScalars())
	return e.ExecuteRequest(context.Background(), mustParseQuery(t, query), "", vars, root, nil)
}

// requireData asserts the result has no errors and its data matches the
// expected JSON.
func requireData(t *testing.T, res *ExecutionResult[value.Default], wantJSON string) {
	t.Helper()
	require.Empty(t, res.Errors, "unexpected errors: %v", res.Errors)
	requireJSON(t, res, fmt.Sprintf(`{"data":%s}`, wantJSON))
}

// requireJSON asserts the full serialized result, data and errors included.
func requireJSON(t *testing.T, res *ExecutionResult[value.Default], wantJSON string) {
	t.Helper()
	got, err := res.MarshalJSON()
	require.NoError(t, err)
	var gotTree, wantTree any
	require.NoError(t, json.Unmarshal(got, &gotTree))
	require.NoError(t, json.Unmarshal([]byte(wantJSON), &wantTree))
	if diff := cmp.Diff(wantTree, gotTree); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

// queryRootSchema registers root as the Query type plus any extra object
// fakes and returns the schema.
func queryRootSchema(root *fake, extra ...*fake) *schema.Schema {
	s := schema.NewSchema("")
	for _, f := range extra {
		RegisterType(s, f, nil)
	}
	RegisterType(s, root, nil)
	s.SetQueryType(root.name)
	return s
}
