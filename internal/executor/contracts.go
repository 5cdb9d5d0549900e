package executor

import (
	"context"
	"fmt"

	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// TypeInfo is the opaque per-type construction data threaded through the
// capability contracts. Most schema types need none and pass nil.
type TypeInfo any

// Meta exposes a type's static metadata. BuildMeta is invoked once per
// distinct (type, info) pair while the schema is assembled; afterwards the
// descriptor is immutable and shared.
type Meta interface {
	TypeName(info TypeInfo) string
	BuildMeta(info TypeInfo, s *schema.Schema) *schema.Type
}

// Resolver is the synchronous field-resolution capability. Every type that
// plays an object role in the schema must implement it. The executor supplied
// to ResolveField is scoped to the field being resolved: its selection set,
// response path and source position all belong to that field, so nested
// object results are produced with ex.ResolveObject / ex.ResolveList.
//
// Implementations must be safe for concurrent use: a host may run many
// independent queries over the same schema instances at once.
type Resolver[S value.ScalarValue] interface {
	ResolveField(ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error)
}

// AsyncResolver is the suspendable counterpart of Resolver, required for every
// field whose metadata is marked async. The context is the query's; an
// implementation that blocks must honor its cancellation. When the governing
// caller abandons the query, in-flight invocations are dropped without any
// side-effect guarantee — resolvers own cleanup of resources they acquire.
type AsyncResolver[S value.ScalarValue] interface {
	ResolveFieldAsync(ctx context.Context, ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error)
}

// Instance is a downcast-resolved concrete value: the runtime instance
// together with the schema type name it resolved into.
type Instance[S value.ScalarValue] struct {
	TypeName string
	Value    any
	Info     TypeInfo
}

// Polymorphic is the instance-resolution capability of interface and union
// values: dynamic type-name resolution for the __typename meta-field and
// downcast resolution for type-conditioned fragments. Values of abstract
// schema types must implement it; see Variants for the standard ordered
// predicate-list implementation.
type Polymorphic[S value.ScalarValue] interface {
	ConcreteTypeName(ex *Executor[S], info TypeInfo) string
	ResolveInto(ex *Executor[S], info TypeInfo, typeName string) (Instance[S], bool)
}

// The must* assertions enforce the role contracts: a type claiming an
// object, async or abstract role without the role-appropriate method is a
// schema-construction error and fails fatally on first use.

func mustResolver[S value.ScalarValue](instance any, typeName string) Resolver[S] {
	r, ok := instance.(Resolver[S])
	if !ok {
		panic(fmt.Sprintf("executor: %T serving type %q does not implement Resolver", instance, typeName))
	}
	return r
}

func mustAsyncResolver[S value.ScalarValue](instance any, typeName, field string) AsyncResolver[S] {
	r, ok := instance.(AsyncResolver[S])
	if !ok {
		panic(fmt.Sprintf("executor: %T serving async field %s.%s does not implement AsyncResolver", instance, typeName, field))
	}
	return r
}

func mustPolymorphic[S value.ScalarValue](instance any, typeName string) Polymorphic[S] {
	p, ok := instance.(Polymorphic[S])
	if !ok {
		panic(fmt.Sprintf("executor: %T serving abstract type %q does not implement Polymorphic", instance, typeName))
	}
	return p
}

// RegisterType builds m's metadata into s unless a type of that name is
// already registered, and returns the descriptor. Registration of two
// distinct descriptors under one name panics inside Schema.AddType.
func RegisterType(s *schema.Schema, m Meta, info TypeInfo) *schema.Type {
	name := m.TypeName(info)
	if existing, ok := s.Types[name]; ok {
		return existing
	}
	t := m.BuildMeta(info, s)
	s.AddType(t)
	return t
}
