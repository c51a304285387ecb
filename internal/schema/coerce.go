package schema

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/hanpama/gqlcore/internal/language"
)

// SerializeLeaf converts an internal scalar or enum value to its output form.
func (t *Type) SerializeLeaf(value any) (any, error) {
	switch t.Kind {
	case TypeKindScalar:
		if t.Serialize == nil {
			return value, nil
		}
		return t.Serialize(value)
	case TypeKindEnum:
		for _, ev := range t.EnumValues {
			if reflect.DeepEqual(ev.Internal(), value) {
				return ev.Name, nil
			}
		}
		return nil, fmt.Errorf("Enum %q cannot represent value: %v", t.Name, value)
	}
	return nil, fmt.Errorf("%s is not a leaf type", t.Name)
}

// ParseLeafValue coerces an external input value, such as a decoded JSON
// variable, into the internal representation.
func (t *Type) ParseLeafValue(value any) (any, error) {
	switch t.Kind {
	case TypeKindScalar:
		if t.ParseValue == nil {
			return value, nil
		}
		return t.ParseValue(value)
	case TypeKindEnum:
		name, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("Enum %q cannot represent non-string value: %v.", t.Name, value)
		}
		if ev := t.EnumValue(name); ev != nil {
			return ev.Internal(), nil
		}
		return nil, fmt.Errorf("Value %q does not exist in %q enum.", name, t.Name)
	}
	return nil, fmt.Errorf("%s is not a leaf type", t.Name)
}

// ParseLeafLiteral coerces a literal from a document into the internal
// representation. Variables must already have been substituted.
func (t *Type) ParseLeafLiteral(v language.Value) (any, error) {
	switch t.Kind {
	case TypeKindScalar:
		if t.ParseLiteral != nil {
			return t.ParseLiteral(v)
		}
		return t.ParseLeafValue(LiteralValue(v, nil))
	case TypeKindEnum:
		ev, ok := v.(*language.EnumValue)
		if !ok {
			return nil, fmt.Errorf("Enum %q cannot represent non-enum value: %s.", t.Name, language.ValueString(v))
		}
		if def := t.EnumValue(ev.Value); def != nil {
			return def.Internal(), nil
		}
		return nil, fmt.Errorf("Value %q does not exist in %q enum.", ev.Value, t.Name)
	}
	return nil, fmt.Errorf("%s is not a leaf type", t.Name)
}

// LiteralValue converts a literal to a plain Go value without a type:
// numbers become int or float64, enums become their name, and variables are
// looked up in vars.
func LiteralValue(v language.Value, vars map[string]any) any {
	switch v := v.(type) {
	case *language.Variable:
		return vars[v.Name]
	case *language.IntValue:
		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return int(n)
		}
		f, _ := strconv.ParseFloat(v.Value, 64)
		return f
	case *language.FloatValue:
		f, _ := strconv.ParseFloat(v.Value, 64)
		return f
	case *language.StringValue:
		return v.Value
	case *language.BooleanValue:
		return v.Value
	case *language.EnumValue:
		return v.Value
	case *language.ListValue:
		out := make([]any, len(v.Values))
		for i, item := range v.Values {
			out[i] = LiteralValue(item, vars)
		}
		return out
	case *language.ObjectValue:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name] = LiteralValue(f.Value, vars)
		}
		return out
	}
	return nil
}
