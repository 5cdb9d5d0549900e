package executor

import (
	"fmt"

	language "github.com/quillgraph/quillgraph/internal/language"
	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// Arguments carries the coerced argument values of one field invocation, with
// declared defaults substituted for arguments the query omitted. All variable
// references and enum literals are already resolved; an Arguments never holds
// query-text nodes.
type Arguments[S value.ScalarValue] struct {
	values map[string]value.Value[S]
}

// Get returns the coerced value of the named argument.
func (a Arguments[S]) Get(name string) (value.Value[S], bool) {
	v, ok := a.values[name]
	return v, ok
}

// Scalar returns the named argument's scalar, when present and scalar-shaped.
func (a Arguments[S]) Scalar(name string) (S, bool) {
	if v, ok := a.values[name]; ok {
		return v.AsScalar()
	}
	var zero S
	return zero, false
}

// Int returns the named argument through the representation's int view.
func (a Arguments[S]) Int(name string) (int32, bool) {
	if s, ok := a.Scalar(name); ok {
		return s.AsInt()
	}
	return 0, false
}

// Float returns the named argument through the representation's float view.
func (a Arguments[S]) Float(name string) (float64, bool) {
	if s, ok := a.Scalar(name); ok {
		return s.AsFloat()
	}
	return 0, false
}

// String returns the named argument through the representation's string view.
func (a Arguments[S]) String(name string) (string, bool) {
	if s, ok := a.Scalar(name); ok {
		return s.AsString()
	}
	return "", false
}

// Bool returns the named argument through the representation's bool view.
func (a Arguments[S]) Bool(name string) (bool, bool) {
	if s, ok := a.Scalar(name); ok {
		return s.AsBool()
	}
	return false, false
}

// coerceArguments resolves and coerces a field's arguments against its
// declared argument metadata. A failure is a coercion error on the enclosing
// field; the caller applies the regular field-error completion policy.
func coerceArguments[S value.ScalarValue](ex *Executor[S], fieldDef *schema.Field, args language.ArgumentList) (Arguments[S], error) {
	coerced := make(map[string]value.Value[S], len(fieldDef.Arguments))
	for _, arg := range args {
		argDef := fieldDef.ArgumentByName(arg.Name)
		if argDef == nil {
			// Unknown argument; a validated document should not carry one.
			continue
		}
		v, err := ex.coerceInputValue(arg.Value, argDef.Type)
		if err != nil {
			return Arguments[S]{}, fmt.Errorf("argument %q: %w", arg.Name, err)
		}
		coerced[arg.Name] = v
	}
	for _, argDef := range fieldDef.Arguments {
		if _, ok := coerced[argDef.Name]; ok {
			continue
		}
		if argDef.DefaultValue != nil {
			v, err := ex.coerceHostValue(argDef.DefaultValue, argDef.Type)
			if err != nil {
				return Arguments[S]{}, fmt.Errorf("argument %q default: %w", argDef.Name, err)
			}
			coerced[argDef.Name] = v
		} else if schema.IsNonNull(argDef.Type) {
			return Arguments[S]{}, fmt.Errorf("argument %q of required type %s was not provided", argDef.Name, argDef.Type)
		}
	}
	return Arguments[S]{values: coerced}, nil
}

// coerceInputValue resolves a query-text input value (literal or variable
// reference) into a Value of the target type. Variables are substituted from
// the executor's coerced variable set before any Value is produced.
func (ex *Executor[S]) coerceInputValue(in *language.Value, target *schema.TypeRef) (value.Value[S], error) {
	if schema.IsNonNull(target) {
		v, err := ex.coerceInputValue(in, schema.Unwrap(target))
		if err != nil {
			return value.Null[S](), err
		}
		if v.IsNull() {
			return value.Null[S](), fmt.Errorf("cannot provide null for non-null type %s", target)
		}
		return v, nil
	}
	if in == nil || in.Kind == language.NullValue {
		return value.Null[S](), nil
	}
	if in.Kind == language.Variable {
		if v, ok := ex.variables[in.Raw]; ok {
			return v, nil
		}
		return value.Null[S](), nil
	}
	if schema.IsList(target) {
		inner := schema.Unwrap(target)
		if in.Kind != language.ListValue {
			item, err := ex.coerceInputValue(in, inner)
			if err != nil {
				return value.Null[S](), err
			}
			return value.List([]value.Value[S]{item}), nil
		}
		items := make([]value.Value[S], len(in.Children))
		for i, child := range in.Children {
			item, err := ex.coerceInputValue(child.Value, inner)
			if err != nil {
				return value.Null[S](), err
			}
			items[i] = item
		}
		return value.List(items), nil
	}

	name := target.NamedTypeName()
	typeObj := ex.engine.schema.Types[name]
	if typeObj == nil {
		panic(fmt.Sprintf("executor: unknown input type %q", name))
	}
	switch typeObj.Kind {
	case schema.TypeKindScalar:
		def := ex.engine.scalarDef(name)
		s, err := def.ParseLiteral(in.Raw, in.Kind)
		if err != nil {
			return value.Null[S](), err
		}
		return value.Scalar(s), nil
	case schema.TypeKindEnum:
		if in.Kind != language.EnumValue && in.Kind != language.StringValue {
			return value.Null[S](), fmt.Errorf("enum %s cannot represent literal %q", name, in.Raw)
		}
		if !hasEnumValue(typeObj, in.Raw) {
			return value.Null[S](), fmt.Errorf("value %q does not exist in %s enum", in.Raw, name)
		}
		return ex.enumScalar(in.Raw)
	case schema.TypeKindInputObject:
		if in.Kind != language.ObjectValue {
			return value.Null[S](), fmt.Errorf("input object %s cannot represent literal %q", name, in.Raw)
		}
		provided := make(map[string]*language.Value, len(in.Children))
		for _, child := range in.Children {
			provided[child.Name] = child.Value
		}
		obj := value.NewObjectWithCapacity[S](len(typeObj.InputFields))
		for _, fieldDef := range typeObj.InputFields {
			if given, ok := provided[fieldDef.Name]; ok {
				v, err := ex.coerceInputValue(given, fieldDef.Type)
				if err != nil {
					return value.Null[S](), fmt.Errorf("field %q: %w", fieldDef.Name, err)
				}
				obj.Add(fieldDef.Name, v)
				continue
			}
			if fieldDef.DefaultValue != nil {
				v, err := ex.coerceHostValue(fieldDef.DefaultValue, fieldDef.Type)
				if err != nil {
					return value.Null[S](), fmt.Errorf("field %q default: %w", fieldDef.Name, err)
				}
				obj.Add(fieldDef.Name, v)
				continue
			}
			if schema.IsNonNull(fieldDef.Type) {
				return value.Null[S](), fmt.Errorf("required field %q of %s was not provided", fieldDef.Name, name)
			}
		}
		return value.FromObject(obj), nil
	default:
		panic(fmt.Sprintf("executor: type %q (%s) is not usable as input", name, typeObj.Kind))
	}
}

// coerceHostValue coerces a host-language value (a variable from the
// transport, or a declared default) into a Value of the target type.
func (ex *Executor[S]) coerceHostValue(v any, target *schema.TypeRef) (value.Value[S], error) {
	if schema.IsNonNull(target) {
		if v == nil {
			return value.Null[S](), fmt.Errorf("cannot provide null for non-null type %s", target)
		}
		return ex.coerceHostValue(v, schema.Unwrap(target))
	}
	if v == nil {
		return value.Null[S](), nil
	}
	if schema.IsList(target) {
		inner := schema.Unwrap(target)
		items, ok := v.([]any)
		if !ok {
			item, err := ex.coerceHostValue(v, inner)
			if err != nil {
				return value.Null[S](), err
			}
			return value.List([]value.Value[S]{item}), nil
		}
		out := make([]value.Value[S], len(items))
		for i, item := range items {
			cv, err := ex.coerceHostValue(item, inner)
			if err != nil {
				return value.Null[S](), err
			}
			out[i] = cv
		}
		return value.List(out), nil
	}

	name := target.NamedTypeName()
	typeObj := ex.engine.schema.Types[name]
	if typeObj == nil {
		panic(fmt.Sprintf("executor: unknown input type %q", name))
	}
	switch typeObj.Kind {
	case schema.TypeKindScalar:
		def := ex.engine.scalarDef(name)
		s, err := def.CoerceInput(v)
		if err != nil {
			return value.Null[S](), err
		}
		return value.Scalar(s), nil
	case schema.TypeKindEnum:
		s, ok := v.(string)
		if !ok {
			return value.Null[S](), fmt.Errorf("enum %s cannot represent %v (%T)", name, v, v)
		}
		if !hasEnumValue(typeObj, s) {
			return value.Null[S](), fmt.Errorf("value %q does not exist in %s enum", s, name)
		}
		return ex.enumScalar(s)
	case schema.TypeKindInputObject:
		fields, ok := v.(map[string]any)
		if !ok {
			return value.Null[S](), fmt.Errorf("input object %s cannot represent %v (%T)", name, v, v)
		}
		obj := value.NewObjectWithCapacity[S](len(typeObj.InputFields))
		for _, fieldDef := range typeObj.InputFields {
			if given, ok := fields[fieldDef.Name]; ok {
				cv, err := ex.coerceHostValue(given, fieldDef.Type)
				if err != nil {
					return value.Null[S](), fmt.Errorf("field %q: %w", fieldDef.Name, err)
				}
				obj.Add(fieldDef.Name, cv)
				continue
			}
			if fieldDef.DefaultValue != nil {
				cv, err := ex.coerceHostValue(fieldDef.DefaultValue, fieldDef.Type)
				if err != nil {
					return value.Null[S](), fmt.Errorf("field %q default: %w", fieldDef.Name, err)
				}
				obj.Add(fieldDef.Name, cv)
				continue
			}
			if schema.IsNonNull(fieldDef.Type) {
				return value.Null[S](), fmt.Errorf("required field %q of %s was not provided", fieldDef.Name, name)
			}
		}
		return value.FromObject(obj), nil
	default:
		panic(fmt.Sprintf("executor: type %q (%s) is not usable as input", name, typeObj.Kind))
	}
}

// enumScalar carries an enum symbol as a string-kind scalar of the
// representation.
func (ex *Executor[S]) enumScalar(symbol string) (value.Value[S], error) {
	def := ex.engine.scalarDef("String")
	s, err := def.CoerceInput(symbol)
	if err != nil {
		return value.Null[S](), err
	}
	return value.Scalar(s), nil
}

func hasEnumValue(t *schema.Type, name string) bool {
	for _, ev := range t.EnumValues {
		if ev.Name == name {
			return true
		}
	}
	return false
}

// coerceVariableValues coerces the host-supplied variable map against the
// operation's variable definitions. A failure here is a request-level error:
// execution does not begin.
func coerceVariableValues[S value.ScalarValue](ex *Executor[S], operation *language.OperationDefinition, hostVars map[string]any) (map[string]value.Value[S], error) {
	coerced := make(map[string]value.Value[S], len(operation.VariableDefinitions))
	for _, varDef := range operation.VariableDefinitions {
		name := varDef.Variable
		host, provided := hostVars[name]
		if !provided {
			if varDef.DefaultValue != nil {
				v, err := ex.coerceInputValue(varDef.DefaultValue, typeRefFromAST(varDef.Type))
				if err != nil {
					return nil, fmt.Errorf("variable $%s default: %w", name, err)
				}
				coerced[name] = v
				continue
			}
			if varDef.Type.NonNull {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, varDef.Type.String())
			}
			continue
		}
		v, err := ex.coerceHostValue(host, typeRefFromAST(varDef.Type))
		if err != nil {
			return nil, fmt.Errorf("variable $%s: %w", name, err)
		}
		coerced[name] = v
	}
	return coerced, nil
}

// typeRefFromAST converts a query-text type reference into schema form.
func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return schema.NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return schema.NamedType(t.NamedType)
	}
	if t.Elem != nil {
		return schema.ListType(typeRefFromAST(t.Elem))
	}
	return nil
}
