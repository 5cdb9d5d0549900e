package executor

import (
	"fmt"

	value "github.com/quillgraph/quillgraph/internal/value"
)

// Accessor yields the concrete instance behind an abstract value when its
// candidate type matches, and reports absence otherwise.
type Accessor[S value.ScalarValue] func(ex *Executor[S], info TypeInfo) (any, bool)

// Variant pairs one candidate concrete type with its accessor.
type Variant[S value.ScalarValue] struct {
	TypeName string
	Accessor Accessor[S]
	Info     TypeInfo
}

// Variants is the ordered predicate list backing instance resolution for an
// interface or union value. Declaration order is semantic: dynamic type-name
// resolution returns the first variant whose accessor yields a value, so when
// two predicates both match an instance, the earlier declaration wins.
//
// Abstract value types embed or construct a Variants and delegate their
// Polymorphic methods to it.
type Variants[S value.ScalarValue] []Variant[S]

// ConcreteTypeName resolves the dynamic type name: accessors are evaluated in
// declaration order and the first present value decides. An instance matching
// no variant is a schema-consistency fault and panics.
func (vs Variants[S]) ConcreteTypeName(ex *Executor[S], info TypeInfo) string {
	for _, v := range vs {
		if _, ok := v.Accessor(ex, info); ok {
			return v.TypeName
		}
	}
	panic("executor: instance matched no declared variant during type resolution")
}

// ResolveInto downcasts into the requested concrete type. Requesting a name
// that is not a declared variant panics; a declared variant whose accessor
// yields nothing reports a plain non-match.
func (vs Variants[S]) ResolveInto(ex *Executor[S], info TypeInfo, typeName string) (Instance[S], bool) {
	for _, v := range vs {
		if v.TypeName != typeName {
			continue
		}
		inner, ok := v.Accessor(ex, info)
		if !ok {
			return Instance[S]{}, false
		}
		return Instance[S]{TypeName: v.TypeName, Value: inner, Info: v.Info}, true
	}
	panic(fmt.Sprintf("executor: %q is not a declared variant of this abstract type", typeName))
}
