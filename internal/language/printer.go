package language

import (
	"strconv"
	"strings"
)

// ValueString renders a value node back into GraphQL source form.
func ValueString(v Value) string {
	switch v := v.(type) {
	case *Variable:
		return "$" + v.Name
	case *IntValue:
		return v.Value
	case *FloatValue:
		return v.Value
	case *StringValue:
		return strconv.Quote(v.Value)
	case *BooleanValue:
		return strconv.FormatBool(v.Value)
	case *NullValue:
		return "null"
	case *EnumValue:
		return v.Value
	case *ListValue:
		parts := make([]string, len(v.Values))
		for i, item := range v.Values {
			parts[i] = ValueString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ObjectValue:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + ": " + ValueString(f.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
