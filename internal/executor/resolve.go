package executor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	eventbus "github.com/quillgraph/quillgraph/internal/eventbus"
	events "github.com/quillgraph/quillgraph/internal/events"
	language "github.com/quillgraph/quillgraph/internal/language"
	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// contribution is what one selection adds to its enclosing object: either a
// run of response fields, or a collapse marker when a non-null field inside
// it failed. A collapsed contribution nullifies the whole enclosing object.
type contribution[S value.ScalarValue] struct {
	collapse bool
	fields   []value.Field[S]
}

// resolveInstance completes one instance against the static type t using the
// given selection set. When t is abstract the instance's concrete type is
// resolved first and the selection set executes against it.
func (ex *Executor[S]) resolveInstance(t *schema.Type, instance any, info TypeInfo, selections language.SelectionSet) value.Value[S] {
	if instance == nil {
		return value.Null[S]()
	}
	if t.Kind.IsAbstract() {
		p := mustPolymorphic[S](instance, t.Name)
		name := p.ConcreteTypeName(ex, info)
		concrete := ex.engine.schema.Types[name]
		if concrete == nil || concrete.Kind != schema.TypeKindObject {
			panic(fmt.Sprintf("executor: abstract type %q resolved to %q, which is not a declared object type", t.Name, name))
		}
		inst, ok := p.ResolveInto(ex, info, name)
		if !ok {
			panic(fmt.Sprintf("executor: instance of %q reported concrete type %q but failed to downcast into it", t.Name, name))
		}
		t, instance, info = concrete, inst.Value, inst.Info
	}

	contrib := ex.resolveSelections(t, instance, info, selections)
	if contrib.collapse {
		return value.Null[S]()
	}
	obj := value.NewObjectWithCapacity[S](len(contrib.fields))
	for _, f := range contrib.fields {
		obj.Add(f.Key, f.Value)
	}
	return value.FromObject(obj)
}

// resolveSelections runs one selection set against a concrete object type.
// Every selection owns a fixed slot; synchronous fields fill theirs inline
// while async fields and fragments run concurrently under one group. Slots
// are merged in declaration order after the group drains, so the response
// order never depends on completion order.
func (ex *Executor[S]) resolveSelections(objType *schema.Type, instance any, info TypeInfo, selections language.SelectionSet) contribution[S] {
	slots := make([]contribution[S], len(selections))
	g, gctx := errgroup.WithContext(ex.ctx)

	for i, sel := range selections {
		switch s := sel.(type) {
		case *language.Field:
			if ex.isExcluded(s.Directives) {
				continue
			}
			responseName := s.Alias
			if responseName == "" {
				responseName = s.Name
			}
			if s.Name == "__typename" {
				slots[i] = contribution[S]{fields: []value.Field[S]{{Key: responseName, Value: ex.typeNameValue(objType)}}}
				continue
			}
			fieldDef := objType.FieldByName(s.Name)
			if fieldDef == nil {
				panic(fmt.Sprintf("executor: no metadata for field %s.%s", objType.Name, s.Name))
			}
			sub := ex.forField(responseName, s, fieldDef.Type)
			args, err := coerceArguments(sub, fieldDef, s.Arguments)
			if err != nil {
				sub.AddError(err)
				slots[i] = completeField(sub, objType, fieldDef, responseName, value.Null[S](), true)
				continue
			}
			if fieldDef.Async {
				i, sub, args := i, sub, args
				g.Go(func() error {
					slots[i] = sub.runField(gctx, objType, instance, info, fieldDef, responseName, args)
					return nil
				})
			} else {
				slots[i] = sub.runField(ex.ctx, objType, instance, info, fieldDef, responseName, args)
			}

		case *language.FragmentSpread:
			if ex.isExcluded(s.Directives) {
				continue
			}
			frag := ex.fragments[s.Name]
			if frag == nil {
				panic(fmt.Sprintf("executor: fragment %q is not defined in the document", s.Name))
			}
			i := i
			g.Go(func() error {
				slots[i] = ex.resolveFragment(objType, instance, info, frag.TypeCondition, frag.SelectionSet)
				return nil
			})

		case *language.InlineFragment:
			if ex.isExcluded(s.Directives) {
				continue
			}
			i, s := i, s
			g.Go(func() error {
				slots[i] = ex.resolveFragment(objType, instance, info, s.TypeCondition, s.SelectionSet)
				return nil
			})
		}
	}

	g.Wait()

	merged := contribution[S]{}
	for _, slot := range slots {
		if slot.collapse {
			return contribution[S]{collapse: true}
		}
		merged.fields = append(merged.fields, slot.fields...)
	}
	return merged
}

// resolveFragment splices a type-conditioned selection set into the enclosing
// object. The condition matches when it names the object type itself or an
// abstract type the object belongs to; a non-matching condition contributes
// nothing. Matching fragments resolve against the same instance, so their
// keys merge flat with the enclosing fields.
func (ex *Executor[S]) resolveFragment(objType *schema.Type, instance any, info TypeInfo, condition string, selections language.SelectionSet) contribution[S] {
	if condition == "" || ex.fragmentMatches(objType, condition) {
		return ex.resolveSelections(objType, instance, info, selections)
	}
	return contribution[S]{}
}

func (ex *Executor[S]) fragmentMatches(objType *schema.Type, condition string) bool {
	if condition == objType.Name {
		return true
	}
	cond := ex.engine.schema.Types[condition]
	if cond == nil {
		panic(fmt.Sprintf("executor: fragment condition names unknown type %q", condition))
	}
	if !cond.Kind.IsAbstract() {
		return false
	}
	if cond.HasPossibleType(objType.Name) {
		return true
	}
	for _, iface := range objType.Interfaces {
		if iface == condition {
			return true
		}
	}
	return false
}

// runField invokes one field resolver and applies the completion policy: a
// failure or null on a non-null field collapses the enclosing object, a
// failure on a nullable field becomes an explicit null entry.
func (ex *Executor[S]) runField(ctx context.Context, objType *schema.Type, instance any, info TypeInfo, fieldDef *schema.Field, responseName string, args Arguments[S]) contribution[S] {
	eventbus.Publish(ctx, events.FieldResolveStart{
		TypeName: objType.Name,
		Field:    fieldDef.Name,
		Path:     pathString(ex.path),
		Async:    fieldDef.Async,
	})
	started := time.Now()

	var v value.Value[S]
	var err error
	if fieldDef.Async {
		v, err = mustAsyncResolver[S](instance, objType.Name, fieldDef.Name).ResolveFieldAsync(ctx, ex, info, fieldDef.Name, args)
	} else {
		v, err = mustResolver[S](instance, objType.Name).ResolveField(ex, info, fieldDef.Name, args)
	}

	eventbus.Publish(ctx, events.FieldResolveFinish{
		TypeName: objType.Name,
		Field:    fieldDef.Name,
		Path:     pathString(ex.path),
		Failed:   err != nil,
		Duration: time.Since(started),
	})

	if err != nil {
		ex.AddError(err)
		return completeField(ex, objType, fieldDef, responseName, value.Null[S](), true)
	}
	return completeField(ex, objType, fieldDef, responseName, v, false)
}

// completeField applies non-null accounting to a resolved value. failed means
// an error for this field was already recorded, so a non-null violation
// collapses without a second error.
func completeField[S value.ScalarValue](ex *Executor[S], objType *schema.Type, fieldDef *schema.Field, responseName string, v value.Value[S], failed bool) contribution[S] {
	if v.IsNull() && schema.IsNonNull(fieldDef.Type) {
		if !failed {
			ex.sink.append(ex.execError(fmt.Sprintf("cannot return null for non-nullable field %s.%s", objType.Name, fieldDef.Name)))
		}
		return contribution[S]{collapse: true}
	}
	return contribution[S]{fields: []value.Field[S]{{Key: responseName, Value: v}}}
}

// typeNameValue serializes the __typename meta field.
func (ex *Executor[S]) typeNameValue(objType *schema.Type) value.Value[S] {
	s, err := ex.engine.scalarDef("String").CoerceInput(objType.Name)
	if err != nil {
		panic(fmt.Sprintf("executor: String scalar cannot carry type name %q: %v", objType.Name, err))
	}
	return value.Scalar(s)
}

// isExcluded evaluates @skip and @include against the coerced variable set.
func (ex *Executor[S]) isExcluded(directives language.DirectiveList) bool {
	for _, d := range directives {
		switch d.Name {
		case "skip":
			if ex.directiveCondition(d) {
				return true
			}
		case "include":
			if !ex.directiveCondition(d) {
				return true
			}
		}
	}
	return false
}

func (ex *Executor[S]) directiveCondition(d *language.Directive) bool {
	for _, arg := range d.Arguments {
		if arg.Name != "if" {
			continue
		}
		switch arg.Value.Kind {
		case language.BooleanValue:
			return arg.Value.Raw == "true"
		case language.Variable:
			v, ok := ex.variables[arg.Value.Raw]
			if !ok {
				return false
			}
			s, ok := v.AsScalar()
			if !ok {
				return false
			}
			b, _ := s.AsBool()
			return b
		}
	}
	return false
}
