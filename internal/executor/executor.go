package executor

import (
	"context"
	"fmt"
	"time"

	eventbus "github.com/quillgraph/quillgraph/internal/eventbus"
	events "github.com/quillgraph/quillgraph/internal/events"
	execid "github.com/quillgraph/quillgraph/internal/execid"
	language "github.com/quillgraph/quillgraph/internal/language"
	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// Engine executes pre-validated query documents against one schema over one
// scalar representation. An Engine is immutable after construction and safe
// for concurrent ExecuteRequest calls.
type Engine[S value.ScalarValue] struct {
	schema  *schema.Schema
	scalars ScalarMap[S]
}

// NewEngine builds an engine over s with the given scalar kinds.
func NewEngine[S value.ScalarValue](s *schema.Schema, scalars ScalarMap[S]) *Engine[S] {
	return &Engine[S]{schema: s, scalars: scalars}
}

// Schema returns the schema the engine executes against.
func (e *Engine[S]) Schema() *schema.Schema { return e.schema }

func (e *Engine[S]) scalarDef(name string) ScalarDef[S] {
	def, ok := e.scalars[name]
	if !ok {
		panic(fmt.Sprintf("executor: no scalar definition registered for %q", name))
	}
	return def
}

// ExecuteRequest runs one operation of the document against the root instance
// and returns the result tree with any field errors collected along the way.
// Request-level failures (unknown operation, missing root type, variable
// coercion) yield a result with errors and no data.
func (e *Engine[S]) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variables map[string]any,
	root any,
	rootInfo TypeInfo,
) *ExecutionResult[S] {
	operation := getOperation(document, operationName)
	if operation == nil {
		return &ExecutionResult[S]{Errors: []ExecError{{Message: "operation not found"}}}
	}

	var rootType *schema.Type
	switch operation.Operation {
	case language.Query:
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	case language.Subscription:
		rootType = e.schema.GetSubscriptionType()
	default:
		return &ExecutionResult[S]{Errors: []ExecError{{Message: fmt.Sprintf("unsupported operation type: %s", operation.Operation)}}}
	}
	if rootType == nil {
		return &ExecutionResult[S]{Errors: []ExecError{{Message: fmt.Sprintf("root type not found for %s operation", operation.Operation)}}}
	}

	ctx, _ = execid.NewContext(ctx)
	fragments := make(map[string]*language.FragmentDefinition, len(document.Fragments))
	for _, frag := range document.Fragments {
		fragments[frag.Name] = frag
	}

	ex := &Executor[S]{
		engine:    e,
		ctx:       ctx,
		fragments: fragments,
		sink:      &errorSink{},
		fieldType: schema.NonNullType(schema.NamedType(rootType.Name)),
	}

	coerced, err := coerceVariableValues(ex, operation, variables)
	if err != nil {
		return &ExecutionResult[S]{Errors: []ExecError{{Message: err.Error()}}}
	}
	ex.variables = coerced

	eventbus.Publish(ctx, events.ExecutionStart{
		OperationName: operation.Name,
		OperationType: string(operation.Operation),
	})
	started := time.Now()

	data := ex.resolveInstance(rootType, root, rootInfo, operation.SelectionSet)
	errs := ex.sink.drain()

	eventbus.Publish(ctx, events.ExecutionFinish{
		OperationName: operation.Name,
		OperationType: string(operation.Operation),
		ErrorCount:    len(errs),
		Duration:      time.Since(started),
	})

	return &ExecutionResult[S]{Data: data, Errors: errs}
}

// Executor is the per-field scope handed to resolvers. Each one carries the
// field's sub-selection, response path and source position; resolvers use it
// to produce nested results, read variables and the caller's context value,
// and record field errors. Sub-executors share one error sink and one
// context per query.
type Executor[S value.ScalarValue] struct {
	engine    *Engine[S]
	ctx       context.Context
	ctxValue  any
	variables map[string]value.Value[S]
	fragments map[string]*language.FragmentDefinition
	sink      *errorSink

	path       []any
	position   *language.Position
	selections language.SelectionSet
	fieldType  *schema.TypeRef
}

// Context returns the query's context.
func (ex *Executor[S]) Context() context.Context { return ex.ctx }

// ContextValue returns the application value installed by the nearest
// WithContextValue ancestor, or nil.
func (ex *Executor[S]) ContextValue() any { return ex.ctxValue }

// WithContextValue returns an executor whose subtree observes v as the
// context value. The receiver is unchanged.
func (ex *Executor[S]) WithContextValue(v any) *Executor[S] {
	sub := *ex
	sub.ctxValue = v
	return &sub
}

// Variables returns the operation's coerced variable set.
func (ex *Executor[S]) Variables() map[string]value.Value[S] { return ex.variables }

// AddError records err as a field error positioned at the current field.
func (ex *Executor[S]) AddError(err error) {
	ex.sink.append(ex.execError(err.Error()))
}

func (ex *Executor[S]) execError(message string) ExecError {
	e := ExecError{Message: message, Path: append([]any(nil), ex.path...)}
	if ex.position != nil {
		e.Locations = []Location{{Line: ex.position.Line, Column: ex.position.Column}}
	}
	return e
}

// forField scopes a sub-executor to one field selection: its response path,
// source position, sub-selection and declared type.
func (ex *Executor[S]) forField(responseName string, field *language.Field, fieldType *schema.TypeRef) *Executor[S] {
	sub := *ex
	sub.path = append(append([]any(nil), ex.path...), responseName)
	sub.position = field.Position
	sub.selections = field.SelectionSet
	sub.fieldType = fieldType
	return &sub
}

// atIndex scopes a sub-executor to one list element.
func (ex *Executor[S]) atIndex(i int, elemType *schema.TypeRef) *Executor[S] {
	sub := *ex
	sub.path = append(append([]any(nil), ex.path...), i)
	sub.fieldType = elemType
	return &sub
}

// ResolveObject completes an instance against the named schema type using the
// executor's own sub-selection. Abstract type names resolve the instance's
// concrete type first. A failure inside the subtree is already recorded; the
// returned value is Null when the subtree collapsed.
func (ex *Executor[S]) ResolveObject(typeName string, instance any) value.Value[S] {
	return ex.ResolveObjectWithInfo(typeName, instance, nil)
}

// ResolveObjectWithInfo is ResolveObject with explicit per-type construction
// data for the instance.
func (ex *Executor[S]) ResolveObjectWithInfo(typeName string, instance any, info TypeInfo) value.Value[S] {
	t := ex.engine.schema.Types[typeName]
	if t == nil {
		panic(fmt.Sprintf("executor: unknown type %q", typeName))
	}
	return ex.resolveInstance(t, instance, info, ex.selections)
}

// ResolveList completes a list of instances against the named schema type.
// Elements get indexed response paths. When the executor's field type declares
// non-null elements, one failed element nullifies the whole list.
func (ex *Executor[S]) ResolveList(typeName string, items []any) value.Value[S] {
	elemType := ex.listElemType()
	out := make([]value.Value[S], len(items))
	for i, item := range items {
		sub := ex.atIndex(i, elemType)
		var v value.Value[S]
		if item == nil {
			v = value.Null[S]()
		} else {
			v = sub.ResolveObject(typeName, item)
		}
		if v.IsNull() && schema.IsNonNull(elemType) {
			if item == nil {
				sub.sink.append(sub.execError(fmt.Sprintf("cannot return null for non-nullable list element of %s", typeName)))
			}
			return value.Null[S]()
		}
		out[i] = v
	}
	return value.List(out)
}

func (ex *Executor[S]) listElemType() *schema.TypeRef {
	t := ex.fieldType
	if schema.IsNonNull(t) {
		t = schema.Unwrap(t)
	}
	if schema.IsList(t) {
		return schema.Unwrap(t)
	}
	return t
}

// Leaf serializes a resolver-produced host value through the named scalar
// kind's Serialize function.
func (ex *Executor[S]) Leaf(scalarTypeName string, v any) (value.Value[S], error) {
	if v == nil {
		return value.Null[S](), nil
	}
	s, err := ex.engine.scalarDef(scalarTypeName).Serialize(v)
	if err != nil {
		return value.Null[S](), err
	}
	return value.Scalar(s), nil
}

// getOperation retrieves the operation from the document.
func getOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName == "" && len(document.Operations) == 1 {
		for _, op := range document.Operations {
			return op
		}
	}
	for _, op := range document.Operations {
		if op.Name == operationName {
			return op
		}
	}
	return nil
}
