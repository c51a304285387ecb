package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hanpama/gqlcore/internal/language"
)

// Built-in scalars. Every schema registers them.
var (
	String = &Type{
		Name:         "String",
		Kind:         TypeKindScalar,
		Description:  "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
		Serialize:    serializeString,
		ParseValue:   parseString,
		ParseLiteral: parseStringLiteral,
	}
	Int = &Type{
		Name:         "Int",
		Kind:         TypeKindScalar,
		Description:  "The `Int` scalar type represents non-fractional signed whole numeric values.",
		Serialize:    serializeInt,
		ParseValue:   parseInt,
		ParseLiteral: parseIntLiteral,
	}
	Float = &Type{
		Name:         "Float",
		Kind:         TypeKindScalar,
		Description:  "The `Float` scalar type represents signed double-precision fractional values.",
		Serialize:    serializeFloat,
		ParseValue:   parseFloat,
		ParseLiteral: parseFloatLiteral,
	}
	Boolean = &Type{
		Name:         "Boolean",
		Kind:         TypeKindScalar,
		Description:  "The `Boolean` scalar type represents `true` or `false`.",
		Serialize:    serializeBoolean,
		ParseValue:   parseBoolean,
		ParseLiteral: parseBooleanLiteral,
	}
	ID = &Type{
		Name:         "ID",
		Kind:         TypeKindScalar,
		Description:  "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
		Serialize:    serializeID,
		ParseValue:   parseID,
		ParseLiteral: parseIDLiteral,
	}
)

// BuiltinScalars lists the scalars every schema contains.
var BuiltinScalars = []*Type{String, Int, Float, Boolean, ID}

// IsBuiltinScalar reports whether t is one of BuiltinScalars.
func IsBuiltinScalar(t *Type) bool {
	for _, s := range BuiltinScalars {
		if s == t {
			return true
		}
	}
	return false
}

const DefaultDeprecationReason = "No longer supported"

var IncludeDirective = &Directive{
	Name:        "include",
	Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
	Arguments: []*InputValue{
		{
			Name:        "if",
			Description: "Included when true.",
			Type:        NonNull(Named(Boolean)),
		},
	},
	Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
}

var SkipDirective = &Directive{
	Name:        "skip",
	Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
	Arguments: []*InputValue{
		{
			Name:        "if",
			Description: "Skipped when true.",
			Type:        NonNull(Named(Boolean)),
		},
	},
	Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
}

var DeprecatedDirective = &Directive{
	Name:        "deprecated",
	Description: "Marks an element of a GraphQL schema as no longer supported.",
	Arguments: []*InputValue{
		{
			Name:         "reason",
			Description:  "Explains why this element was deprecated, usually also including a suggestion for how to access supported similar data.",
			Type:         Named(String),
			DefaultValue: DefaultDeprecationReason,
		},
	},
	Locations: []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
}

// SpecifiedDirectives lists the directives every schema contains.
var SpecifiedDirectives = []*Directive{IncludeDirective, SkipDirective, DeprecatedDirective}

func isSpecifiedDirective(d *Directive) bool {
	for _, s := range SpecifiedDirectives {
		if s == d {
			return true
		}
	}
	return false
}

// ----- String -----

func serializeString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if f, ok := toFloat(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", value)
}

func parseString(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
}

func parseStringLiteral(v language.Value) (any, error) {
	if s, ok := v.(*language.StringValue); ok {
		return s.Value, nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %s", language.ValueString(v))
}

// ----- Int -----

func serializeInt(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %q", v)
		}
		return intFromFloat(n)
	}
	if n, ok := toInt64(value); ok {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
		}
		return int(n), nil
	}
	if f, ok := toFloat(value); ok {
		return intFromFloat(f)
	}
	return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
}

func intFromFloat(f float64) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", f)
	}
	return int(f), nil
}

func parseInt(value any) (any, error) {
	switch value.(type) {
	case bool, string:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if n, ok := toInt64(value); ok {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
		}
		return int(n), nil
	}
	if f, ok := toFloat(value); ok {
		return intFromFloat(f)
	}
	return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
}

func parseIntLiteral(v language.Value) (any, error) {
	iv, ok := v.(*language.IntValue)
	if !ok {
		return nil, fmt.Errorf("Int cannot represent non-integer value: %s", language.ValueString(v))
	}
	n, err := strconv.ParseInt(iv.Value, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %s", iv.Value)
	}
	return int(n), nil
}

// ----- Float -----

func serializeFloat(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %q", v)
		}
		return f, nil
	}
	if f, ok := toFloat(value); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f, nil
	}
	return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
}

func parseFloat(value any) (any, error) {
	if _, ok := value.(bool); !ok {
		if f, ok := toFloat(value); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
}

func parseFloatLiteral(v language.Value) (any, error) {
	var raw string
	switch v := v.(type) {
	case *language.IntValue:
		raw = v.Value
	case *language.FloatValue:
		raw = v.Value
	default:
		return nil, fmt.Errorf("Float cannot represent non numeric value: %s", language.ValueString(v))
	}
	return strconv.ParseFloat(raw, 64)
}

// ----- Boolean -----

func serializeBoolean(value any) (any, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if f, ok := toFloat(value); ok {
		return f != 0, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
}

func parseBoolean(value any) (any, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
}

func parseBooleanLiteral(v language.Value) (any, error) {
	if b, ok := v.(*language.BooleanValue); ok {
		return b.Value, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %s", language.ValueString(v))
}

// ----- ID -----

func serializeID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if n, ok := toInt64(value); ok {
		return strconv.FormatInt(n, 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}

func parseID(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	if _, ok := value.(bool); !ok {
		if n, ok := toInt64(value); ok {
			return strconv.FormatInt(n, 10), nil
		}
		if f, ok := toFloat(value); ok && f == math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}

func parseIDLiteral(v language.Value) (any, error) {
	switch v := v.(type) {
	case *language.StringValue:
		return v.Value, nil
	case *language.IntValue:
		return v.Value, nil
	}
	return nil, fmt.Errorf("ID cannot represent a non-string and non-integer value: %s", language.ValueString(v))
}

// ----- numeric helpers -----

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	if n, ok := toInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}
