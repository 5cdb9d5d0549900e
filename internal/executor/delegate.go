package executor

import (
	"context"

	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// Ownership-delegating wrappers. Each adapter carries a differently-owned
// handle to an instance and forwards every capability method unchanged to it,
// adding no behavior. There is one generic adapter per ownership kind, not one
// per wrapped type. Forwarding asserts the role on the wrapped instance, so a
// wrapper around a value lacking a required capability fails fatally on first
// use, exactly like the unwrapped value would.

// Owned wraps an exclusively owned instance.
type Owned[S value.ScalarValue] struct{ Inner any }

// Own wraps inner as an exclusively owned handle.
func Own[S value.ScalarValue](inner any) Owned[S] { return Owned[S]{Inner: inner} }

func (o Owned[S]) TypeName(info TypeInfo) string {
	return o.Inner.(Meta).TypeName(info)
}

func (o Owned[S]) BuildMeta(info TypeInfo, s *schema.Schema) *schema.Type {
	return o.Inner.(Meta).BuildMeta(info, s)
}

func (o Owned[S]) ResolveField(ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error) {
	return mustResolver[S](o.Inner, "Owned").ResolveField(ex, info, field, args)
}

func (o Owned[S]) ResolveFieldAsync(ctx context.Context, ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error) {
	return mustAsyncResolver[S](o.Inner, "Owned", field).ResolveFieldAsync(ctx, ex, info, field, args)
}

func (o Owned[S]) ConcreteTypeName(ex *Executor[S], info TypeInfo) string {
	return mustPolymorphic[S](o.Inner, "Owned").ConcreteTypeName(ex, info)
}

func (o Owned[S]) ResolveInto(ex *Executor[S], info TypeInfo, typeName string) (Instance[S], bool) {
	return mustPolymorphic[S](o.Inner, "Owned").ResolveInto(ex, info, typeName)
}

// Shared wraps a reference-counted instance: copies of a Shared handle all
// observe the same underlying value, which stays alive as long as any handle
// does.
type Shared[S value.ScalarValue] struct{ inner *any }

// Share wraps inner as a shared handle.
func Share[S value.ScalarValue](inner any) Shared[S] { return Shared[S]{inner: &inner} }

// Handle returns a new handle to the same underlying instance.
func (s Shared[S]) Handle() Shared[S] { return s }

func (s Shared[S]) TypeName(info TypeInfo) string {
	return (*s.inner).(Meta).TypeName(info)
}

func (s Shared[S]) BuildMeta(info TypeInfo, sch *schema.Schema) *schema.Type {
	return (*s.inner).(Meta).BuildMeta(info, sch)
}

func (s Shared[S]) ResolveField(ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error) {
	return mustResolver[S](*s.inner, "Shared").ResolveField(ex, info, field, args)
}

func (s Shared[S]) ResolveFieldAsync(ctx context.Context, ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error) {
	return mustAsyncResolver[S](*s.inner, "Shared", field).ResolveFieldAsync(ctx, ex, info, field, args)
}

func (s Shared[S]) ConcreteTypeName(ex *Executor[S], info TypeInfo) string {
	return mustPolymorphic[S](*s.inner, "Shared").ConcreteTypeName(ex, info)
}

func (s Shared[S]) ResolveInto(ex *Executor[S], info TypeInfo, typeName string) (Instance[S], bool) {
	return mustPolymorphic[S](*s.inner, "Shared").ResolveInto(ex, info, typeName)
}

// Borrowed wraps a non-owning view of an instance owned elsewhere. The
// borrower must not outlive the owner.
type Borrowed[S value.ScalarValue] struct{ Inner any }

// Borrow wraps inner as a non-owning handle.
func Borrow[S value.ScalarValue](inner any) Borrowed[S] { return Borrowed[S]{Inner: inner} }

func (b Borrowed[S]) TypeName(info TypeInfo) string {
	return b.Inner.(Meta).TypeName(info)
}

func (b Borrowed[S]) BuildMeta(info TypeInfo, s *schema.Schema) *schema.Type {
	return b.Inner.(Meta).BuildMeta(info, s)
}

func (b Borrowed[S]) ResolveField(ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error) {
	return mustResolver[S](b.Inner, "Borrowed").ResolveField(ex, info, field, args)
}

func (b Borrowed[S]) ResolveFieldAsync(ctx context.Context, ex *Executor[S], info TypeInfo, field string, args Arguments[S]) (value.Value[S], error) {
	return mustAsyncResolver[S](b.Inner, "Borrowed", field).ResolveFieldAsync(ctx, ex, info, field, args)
}

func (b Borrowed[S]) ConcreteTypeName(ex *Executor[S], info TypeInfo) string {
	return mustPolymorphic[S](b.Inner, "Borrowed").ConcreteTypeName(ex, info)
}

func (b Borrowed[S]) ResolveInto(ex *Executor[S], info TypeInfo, typeName string) (Instance[S], bool) {
	return mustPolymorphic[S](b.Inner, "Borrowed").ResolveInto(ex, info, typeName)
}
