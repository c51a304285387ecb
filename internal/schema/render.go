package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the Schema.
// Deterministic ordering: type/directive names sorted lexicographically.
// Built-in scalars and specified directives are left out.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	r := &renderer{schema: s}
	r.renderSchemaBlock()

	for _, name := range s.TypeNames() {
		typ := s.Type(name)
		if IsBuiltinScalar(typ) {
			continue
		}
		switch typ.Kind {
		case TypeKindScalar:
			r.renderScalar(typ)
		case TypeKindEnum:
			r.renderEnum(typ)
		case TypeKindInputObject:
			r.renderInputObject(typ)
		case TypeKindObject:
			r.renderObject("type", typ)
		case TypeKindInterface:
			r.renderObject("interface", typ)
		case TypeKindUnion:
			r.renderUnion(typ)
		}
	}

	directives := make([]*Directive, 0, len(s.Directives()))
	for _, directive := range s.Directives() {
		if !isSpecifiedDirective(directive) {
			directives = append(directives, directive)
		}
	}
	sort.Slice(directives, func(i, j int) bool { return directives[i].Name < directives[j].Name })
	for _, directive := range directives {
		r.renderDirective(directive)
	}

	return strings.TrimRight(r.b.String(), "\n") + "\n"
}

type renderer struct {
	schema *Schema
	b      strings.Builder
}

// ----- render helpers -----

func (r *renderer) renderSchemaBlock() {
	query, mutation := r.schema.QueryType(), r.schema.MutationType()
	if query.Name == "Query" && (mutation == nil || mutation.Name == "Mutation") {
		return
	}
	r.b.WriteString("schema {\n  query: ")
	r.b.WriteString(query.Name)
	r.b.WriteString("\n")
	if mutation != nil {
		r.b.WriteString("  mutation: ")
		r.b.WriteString(mutation.Name)
		r.b.WriteString("\n")
	}
	r.b.WriteString("}\n\n")
}

func (r *renderer) renderDescription(desc string, indent string) {
	if desc == "" {
		return
	}
	r.b.WriteString(indent)
	r.b.WriteString("\"\"\"\n")
	// Escape quotes in description
	escaped := strings.ReplaceAll(desc, "\"\"\"", "\\\"\"\"")
	for _, line := range strings.Split(escaped, "\n") {
		r.b.WriteString(indent)
		r.b.WriteString(line)
		r.b.WriteString("\n")
	}
	r.b.WriteString(indent)
	r.b.WriteString("\"\"\"\n")
}

func (r *renderer) renderDeprecation(reason string) {
	if reason == "" {
		return
	}
	r.b.WriteString(" @deprecated")
	if reason != DefaultDeprecationReason {
		r.b.WriteString("(reason: ")
		r.b.WriteString(strconv.Quote(reason))
		r.b.WriteString(")")
	}
}

func (r *renderer) renderScalar(typ *Type) {
	r.renderDescription(typ.Description, "")
	r.b.WriteString("scalar ")
	r.b.WriteString(typ.Name)
	r.b.WriteString("\n\n")
}

func (r *renderer) renderEnum(typ *Type) {
	r.renderDescription(typ.Description, "")
	r.b.WriteString("enum ")
	r.b.WriteString(typ.Name)
	r.b.WriteString(" {\n")
	for _, val := range typ.EnumValues {
		r.renderDescription(val.Description, "  ")
		r.b.WriteString("  ")
		r.b.WriteString(val.Name)
		r.renderDeprecation(val.DeprecationReason)
		r.b.WriteString("\n")
	}
	r.b.WriteString("}\n\n")
}

func (r *renderer) renderInputObject(typ *Type) {
	r.renderDescription(typ.Description, "")
	r.b.WriteString("input ")
	r.b.WriteString(typ.Name)
	r.b.WriteString(" {\n")
	for _, field := range typ.InputFields().List() {
		r.renderDescription(field.Description, "  ")
		r.b.WriteString("  ")
		r.renderInputValue(field)
		r.b.WriteString("\n")
	}
	r.b.WriteString("}\n\n")
}

// renderObject renders object and interface types, which share a layout.
func (r *renderer) renderObject(keyword string, typ *Type) {
	r.renderDescription(typ.Description, "")
	r.b.WriteString(keyword)
	r.b.WriteString(" ")
	r.b.WriteString(typ.Name)
	if len(typ.Interfaces) > 0 {
		r.b.WriteString(" implements ")
		for i, iface := range typ.Interfaces {
			if i > 0 {
				r.b.WriteString(" & ")
			}
			r.b.WriteString(iface.Named().String())
		}
	}
	r.b.WriteString(" {\n")
	for _, field := range typ.Fields().List() {
		r.renderField(field)
	}
	r.b.WriteString("}\n\n")
}

func (r *renderer) renderUnion(typ *Type) {
	r.renderDescription(typ.Description, "")
	r.b.WriteString("union ")
	r.b.WriteString(typ.Name)
	r.b.WriteString(" = ")
	for i, member := range typ.Members {
		if i > 0 {
			r.b.WriteString(" | ")
		}
		r.b.WriteString(member.Named().String())
	}
	r.b.WriteString("\n\n")
}

func (r *renderer) renderField(field *Field) {
	r.renderDescription(field.Description, "  ")
	r.b.WriteString("  ")
	r.b.WriteString(field.Name)
	r.renderArguments(field.Arguments)
	r.b.WriteString(": ")
	r.b.WriteString(field.Type.String())
	r.renderDeprecation(field.DeprecationReason)
	r.b.WriteString("\n")
}

func (r *renderer) renderArguments(args []*InputValue) {
	if len(args) == 0 {
		return
	}
	r.b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.renderInputValue(arg)
	}
	r.b.WriteString(")")
}

func (r *renderer) renderInputValue(v *InputValue) {
	r.b.WriteString(v.Name)
	r.b.WriteString(": ")
	r.b.WriteString(v.Type.String())
	if v.DefaultValue != nil {
		r.b.WriteString(" = ")
		r.b.WriteString(r.renderValue(v.Type, v.DefaultValue))
	}
}

func (r *renderer) renderDirective(directive *Directive) {
	r.renderDescription(directive.Description, "")
	r.b.WriteString("directive @")
	r.b.WriteString(directive.Name)
	r.renderArguments(directive.Arguments)
	if directive.IsRepeatable {
		r.b.WriteString(" repeatable")
	}
	r.b.WriteString(" on ")
	r.b.WriteString(strings.Join(directive.Locations, " | "))
	r.b.WriteString("\n\n")
}

// ValueLiteral renders an internal value as GraphQL source for type ref.
func (s *Schema) ValueLiteral(ref *TypeRef, value any) string {
	r := &renderer{schema: s}
	return r.renderValue(ref, value)
}

// renderValue renders an internal value as a literal of type ref, e.g. for
// default values.
func (r *renderer) renderValue(ref *TypeRef, value any) string {
	if value == nil {
		return "null"
	}
	ref = ref.Nullable()
	if ref.IsListType() {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return r.renderValue(ref.OfType, value)
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = r.renderValue(ref.OfType, rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	t := r.schema.Resolve(ref)
	switch {
	case t == nil:
	case t.Kind == TypeKindEnum:
		if name, err := t.SerializeLeaf(value); err == nil {
			return name.(string)
		}
	case t.Kind == TypeKindInputObject:
		if obj, ok := value.(map[string]any); ok {
			var parts []string
			for _, f := range t.InputFields().List() {
				if v, ok := obj[f.Name]; ok {
					parts = append(parts, f.Name+": "+r.renderValue(f.Type, v))
				}
			}
			return "{" + strings.Join(parts, ", ") + "}"
		}
	case t.Kind == TypeKindScalar:
		if out, err := t.SerializeLeaf(value); err == nil {
			value = out
		}
	}

	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
