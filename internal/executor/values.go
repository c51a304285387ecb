package executor

import (
	"fmt"
	"reflect"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// coerceVariableValues coerces the raw inputs against the operation's
// variable definitions. Variables without an input and without a default are
// left out of the result.
func coerceVariableValues(
	s *schema.Schema,
	defs []*language.VariableDefinition,
	inputs map[string]any,
) (map[string]any, gqlerror.List) {
	coerced := make(map[string]any, len(defs))
	var errs gqlerror.List
	for _, def := range defs {
		name := def.Variable.Name
		ref := typeRefFromAST(def.Type)
		typeName := language.TypeString(def.Type)

		if t := s.Resolve(ref); t == nil || !t.IsInputType() {
			errs = append(errs, variableError(def, "Variable \"$%s\" expected value of type \"%s\" which cannot be used as an input type.", name, typeName))
			continue
		}

		value, ok := inputs[name]
		if !ok && def.DefaultValue != nil {
			v, err := valueFromAST(s, def.DefaultValue, ref, nil)
			if err != nil {
				errs = append(errs, variableError(def, "Variable \"$%s\" has invalid default value: %s", name, err))
				continue
			}
			coerced[name] = v
			continue
		}
		if ref.IsNonNullType() && (!ok || value == nil) {
			if !ok {
				errs = append(errs, variableError(def, "Variable \"$%s\" of required type \"%s\" was not provided.", name, typeName))
			} else {
				errs = append(errs, variableError(def, "Variable \"$%s\" of non-null type \"%s\" must not be null.", name, typeName))
			}
			continue
		}
		if !ok {
			continue
		}
		if value == nil {
			coerced[name] = nil
			continue
		}
		v, err := coerceInputValue(s, value, ref)
		if err != nil {
			errs = append(errs, variableError(def, "Variable \"$%s\" got invalid value %s; %s", name, formatValue(value), err))
			continue
		}
		coerced[name] = v
	}
	return coerced, errs
}

func variableError(def *language.VariableDefinition, format string, args ...any) *gqlerror.Error {
	err := errcode.Errorf(errcode.BadUserInput, format, args...)
	err.Locations = []gqlerror.Location{{Line: def.Loc.Line, Column: def.Loc.Column}}
	return err
}

// argumentValues coerces the arguments given in a document against their
// definitions. A declared default is assigned when an argument is absent or
// refers to an unset variable.
func argumentValues(
	s *schema.Schema,
	defs []*schema.InputValue,
	nodes []*language.Argument,
	variables map[string]any,
) (map[string]any, error) {
	coerced := make(map[string]any, len(defs))
	for _, def := range defs {
		var node *language.Argument
		for _, arg := range nodes {
			if arg.Name == def.Name {
				node = arg
				break
			}
		}

		hasValue := node != nil
		isNull := false
		if node != nil {
			switch v := node.Value.(type) {
			case *language.Variable:
				var value any
				value, hasValue = variables[v.Name]
				isNull = hasValue && value == nil
			case *language.NullValue:
				isNull = true
			}
		}

		if !hasValue && def.DefaultValue != nil {
			coerced[def.Name] = def.DefaultValue
			continue
		}
		if def.Type.IsNonNullType() && (!hasValue || isNull) {
			if isNull {
				return nil, errcode.Errorf(errcode.BadUserInput, "Argument \"%s\" of non-null type \"%s\" must not be null.", def.Name, def.Type)
			}
			return nil, errcode.Errorf(errcode.BadUserInput, "Argument \"%s\" of required type \"%s\" was not provided.", def.Name, def.Type)
		}
		if !hasValue {
			continue
		}
		value, err := valueFromAST(s, node.Value, def.Type, variables)
		if err != nil {
			return nil, errcode.Errorf(errcode.BadUserInput, "Argument \"%s\" has invalid value %s: %s", def.Name, language.ValueString(node.Value), err)
		}
		coerced[def.Name] = value
	}
	return coerced, nil
}

// valueFromAST coerces a literal against ref, substituting variables.
func valueFromAST(s *schema.Schema, node language.Value, ref *schema.TypeRef, variables map[string]any) (any, error) {
	if v, ok := node.(*language.Variable); ok {
		value, ok := variables[v.Name]
		if (!ok || value == nil) && ref.IsNonNullType() {
			return nil, fmt.Errorf("variable \"$%s\" of non-null type \"%s\" is not set", v.Name, ref)
		}
		return coerceVariableValue(s, value, ref)
	}

	if ref.IsNonNullType() {
		if _, ok := node.(*language.NullValue); ok {
			return nil, fmt.Errorf("expected non-nullable type \"%s\" not to be null", ref)
		}
		return valueFromAST(s, node, ref.OfType, variables)
	}
	if _, ok := node.(*language.NullValue); ok {
		return nil, nil
	}

	if ref.IsListType() {
		list, ok := node.(*language.ListValue)
		if !ok {
			item, err := valueFromAST(s, node, ref.OfType, variables)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(list.Values))
		for i, item := range list.Values {
			v, err := valueFromAST(s, item, ref.OfType, variables)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	t := s.Resolve(ref)
	if t == nil {
		return nil, fmt.Errorf("unknown type \"%s\"", ref)
	}
	if t.Kind == schema.TypeKindInputObject {
		obj, ok := node.(*language.ObjectValue)
		if !ok {
			return nil, fmt.Errorf("expected type \"%s\" to be an object", t.Name)
		}
		fields := t.InputFields()
		given := make(map[string]language.Value, len(obj.Fields))
		for _, f := range obj.Fields {
			if fields.Get(f.Name) == nil {
				return nil, fmt.Errorf("field \"%s\" is not defined by type \"%s\"", f.Name, t.Name)
			}
			given[f.Name] = f.Value
		}
		out := make(map[string]any, fields.Len())
		for _, f := range fields.List() {
			fieldNode, ok := given[f.Name]
			if v, isVar := fieldNode.(*language.Variable); isVar {
				if _, set := variables[v.Name]; !set {
					ok = false
				}
			}
			if !ok {
				if f.DefaultValue != nil {
					out[f.Name] = f.DefaultValue
				} else if f.Type.IsNonNullType() {
					return nil, fmt.Errorf("field \"%s.%s\" of required type \"%s\" was not provided", t.Name, f.Name, f.Type)
				}
				continue
			}
			v, err := valueFromAST(s, fieldNode, f.Type, variables)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		}
		return out, nil
	}
	if t.IsLeafType() {
		return t.ParseLeafLiteral(node)
	}
	return nil, fmt.Errorf("type \"%s\" is not an input type", t.Name)
}

// coerceInputValue coerces an external value, such as decoded JSON, against
// ref.
func coerceInputValue(s *schema.Schema, value any, ref *schema.TypeRef) (any, error) {
	if ref.IsNonNullType() {
		if value == nil {
			return nil, fmt.Errorf("Expected non-nullable type \"%s\" not to be null.", ref)
		}
		return coerceInputValue(s, value, ref.OfType)
	}
	if value == nil {
		return nil, nil
	}

	if ref.IsListType() {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			item, err := coerceInputValue(s, value, ref.OfType)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			item, err := coerceInputValue(s, rv.Index(i).Interface(), ref.OfType)
			if err != nil {
				return nil, fmt.Errorf("%w at index %d", err, i)
			}
			out[i] = item
		}
		return out, nil
	}

	t := s.Resolve(ref)
	if t == nil {
		return nil, fmt.Errorf("Unknown type \"%s\".", ref)
	}
	if t.Kind == schema.TypeKindInputObject {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("Expected type \"%s\" to be an object.", t.Name)
		}
		fields := t.InputFields()
		for name := range obj {
			if fields.Get(name) == nil {
				return nil, fmt.Errorf("Field \"%s\" is not defined by type \"%s\".", name, t.Name)
			}
		}
		out := make(map[string]any, fields.Len())
		for _, f := range fields.List() {
			v, ok := obj[f.Name]
			if !ok {
				if f.DefaultValue != nil {
					out[f.Name] = f.DefaultValue
				} else if f.Type.IsNonNullType() {
					return nil, fmt.Errorf("Field \"%s\" of required type \"%s\" was not provided.", f.Name, f.Type)
				}
				continue
			}
			cv, err := coerceInputValue(s, v, f.Type)
			if err != nil {
				return nil, err
			}
			out[f.Name] = cv
		}
		return out, nil
	}
	if t.IsLeafType() {
		return t.ParseLeafValue(value)
	}
	return nil, fmt.Errorf("Type \"%s\" is not an input type.", t.Name)
}

// coerceVariableValue checks an already coerced variable value against ref,
// the type of the position it is used in. The variable may have been declared
// with a different type, so the value can still be unacceptable here.
// Built-in scalars are parsed again; custom scalars are trusted as is.
func coerceVariableValue(s *schema.Schema, value any, ref *schema.TypeRef) (any, error) {
	if ref.IsNonNullType() {
		if value == nil {
			return nil, fmt.Errorf("expected non-nullable type \"%s\" not to be null", ref)
		}
		return coerceVariableValue(s, value, ref.OfType)
	}
	if value == nil {
		return nil, nil
	}

	if ref.IsListType() {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			item, err := coerceVariableValue(s, value, ref.OfType)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			item, err := coerceVariableValue(s, rv.Index(i).Interface(), ref.OfType)
			if err != nil {
				return nil, fmt.Errorf("%w at index %d", err, i)
			}
			out[i] = item
		}
		return out, nil
	}

	t := s.Resolve(ref)
	if t == nil {
		return nil, fmt.Errorf("unknown type \"%s\"", ref)
	}
	switch t.Kind {
	case schema.TypeKindInputObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected type \"%s\" to be an object", t.Name)
		}
		fields := t.InputFields()
		for name := range obj {
			if fields.Get(name) == nil {
				return nil, fmt.Errorf("field \"%s\" is not defined by type \"%s\"", name, t.Name)
			}
		}
		out := make(map[string]any, len(obj))
		for _, f := range fields.List() {
			v, ok := obj[f.Name]
			if !ok {
				if f.Type.IsNonNullType() && f.DefaultValue == nil {
					return nil, fmt.Errorf("field \"%s.%s\" of required type \"%s\" was not provided", t.Name, f.Name, f.Type)
				}
				if f.DefaultValue != nil {
					out[f.Name] = f.DefaultValue
				}
				continue
			}
			cv, err := coerceVariableValue(s, v, f.Type)
			if err != nil {
				return nil, err
			}
			out[f.Name] = cv
		}
		return out, nil
	case schema.TypeKindEnum:
		for _, ev := range t.EnumValues {
			if reflect.DeepEqual(ev.Internal(), value) {
				return value, nil
			}
		}
		return nil, fmt.Errorf("enum \"%s\" cannot represent value: %s", t.Name, formatValue(value))
	case schema.TypeKindScalar:
		if !schema.IsBuiltinScalar(t) {
			return value, nil
		}
		return t.ParseLeafValue(value)
	}
	return nil, fmt.Errorf("type \"%s\" is not an input type", t.Name)
}

func typeRefFromAST(t language.Type) *schema.TypeRef {
	switch t := t.(type) {
	case *language.NonNullType:
		return schema.NonNull(typeRefFromAST(t.Type))
	case *language.ListType:
		return schema.ListOf(typeRefFromAST(t.Type))
	case *language.NamedType:
		return schema.Ref(t.Name)
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}
