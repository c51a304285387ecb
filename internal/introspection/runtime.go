package introspection

import (
	"fmt"
	"sort"

	"github.com/hanpama/gqlcore/internal/schema"
)

// Sources for the meta-types:
//
//	__Schema      *schema.Schema
//	__Type        *schema.TypeRef
//	__Field       *schema.Field
//	__InputValue  *schema.InputValue
//	__EnumValue   *schema.EnumValue
//	__Directive   *schema.Directive

func resolveSchema(p schema.ResolveParams) (any, error) {
	return p.Info.Schema, nil
}

func resolveType(p schema.ResolveParams) (any, error) {
	name, _ := p.Args["name"].(string)
	if t := LookupType(p.Info.Schema, name); t != nil {
		return schema.Named(t), nil
	}
	return nil, nil
}

func resolveTypeName(p schema.ResolveParams) (any, error) {
	return p.Info.ParentType.Name, nil
}

func nothing(schema.ResolveParams) (any, error) { return nil, nil }

// optional maps the empty string to null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolArg(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}

func source[T any](p schema.ResolveParams) (T, error) {
	v, ok := p.Source.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("introspection: unexpected source %T for %s.%s", p.Source, p.Info.ParentType.Name, p.Info.FieldName)
	}
	return v, nil
}

// ----- __Schema -----

func schemaDescription(p schema.ResolveParams) (any, error) {
	s, err := source[*schema.Schema](p)
	if err != nil {
		return nil, err
	}
	return optional(s.Description()), nil
}

func schemaTypes(p schema.ResolveParams) (any, error) {
	s, err := source[*schema.Schema](p)
	if err != nil {
		return nil, err
	}
	names := s.TypeNames()
	refs := make([]*schema.TypeRef, 0, len(names)+len(meta.types))
	for _, t := range Types() {
		if s.Type(t.Name) == nil {
			refs = append(refs, schema.Named(t))
		}
	}
	for _, name := range names {
		refs = append(refs, schema.Named(s.Type(name)))
	}
	sortRefs(refs)
	return refs, nil
}

func schemaQueryType(p schema.ResolveParams) (any, error) {
	s, err := source[*schema.Schema](p)
	if err != nil {
		return nil, err
	}
	return schema.Named(s.QueryType()), nil
}

func schemaMutationType(p schema.ResolveParams) (any, error) {
	s, err := source[*schema.Schema](p)
	if err != nil {
		return nil, err
	}
	if s.MutationType() == nil {
		return nil, nil
	}
	return schema.Named(s.MutationType()), nil
}

func schemaDirectives(p schema.ResolveParams) (any, error) {
	s, err := source[*schema.Schema](p)
	if err != nil {
		return nil, err
	}
	return s.Directives(), nil
}

// ----- __Type -----

// namedType returns the type behind a named reference, or nil for wrappers.
func namedType(p schema.ResolveParams) (*schema.TypeRef, *schema.Type, error) {
	ref, err := source[*schema.TypeRef](p)
	if err != nil {
		return nil, nil, err
	}
	if ref.IsWrappingType() {
		return ref, nil, nil
	}
	if t := p.Info.Schema.Resolve(ref); t != nil {
		return ref, t, nil
	}
	if t := meta.types[ref.Name]; t != nil {
		return ref, t, nil
	}
	return nil, nil, fmt.Errorf("introspection: unknown type %q", ref.Name)
}

func typeKind(p schema.ResolveParams) (any, error) {
	ref, t, err := namedType(p)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return string(ref.Kind), nil
	}
	return string(t.Kind), nil
}

func typeName(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil {
		return nil, err
	}
	return t.Name, nil
}

func typeDescription(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil {
		return nil, err
	}
	return optional(t.Description), nil
}

func typeFields(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil {
		return nil, err
	}
	if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
		return nil, nil
	}
	includeDeprecated := boolArg(p.Args, "includeDeprecated")
	out := []*schema.Field{}
	for _, f := range t.Fields().List() {
		if includeDeprecated || !f.IsDeprecated() {
			out = append(out, f)
		}
	}
	return out, nil
}

func typeInterfaces(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil {
		return nil, err
	}
	if t.Kind != schema.TypeKindObject && t.Kind != schema.TypeKindInterface {
		return nil, nil
	}
	out := make([]*schema.TypeRef, 0, len(t.Interfaces))
	for _, iface := range t.Interfaces {
		if it := p.Info.Schema.Resolve(iface); it != nil {
			out = append(out, schema.Named(it))
		}
	}
	return out, nil
}

func typePossibleTypes(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil || !t.IsAbstractType() {
		return nil, err
	}
	possible := p.Info.Schema.PossibleTypes(t)
	out := make([]*schema.TypeRef, len(possible))
	for i, pt := range possible {
		out[i] = schema.Named(pt)
	}
	return out, nil
}

func typeEnumValues(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil || t.Kind != schema.TypeKindEnum {
		return nil, err
	}
	includeDeprecated := boolArg(p.Args, "includeDeprecated")
	out := []*schema.EnumValue{}
	for _, ev := range t.EnumValues {
		if includeDeprecated || !ev.IsDeprecated() {
			out = append(out, ev)
		}
	}
	return out, nil
}

func typeInputFields(p schema.ResolveParams) (any, error) {
	_, t, err := namedType(p)
	if err != nil || t == nil || t.Kind != schema.TypeKindInputObject {
		return nil, err
	}
	return t.InputFields().List(), nil
}

func typeOfType(p schema.ResolveParams) (any, error) {
	ref, err := source[*schema.TypeRef](p)
	if err != nil || !ref.IsWrappingType() {
		return nil, err
	}
	return ref.OfType, nil
}

// ----- __Field -----

func fieldName(p schema.ResolveParams) (any, error) {
	f, err := source[*schema.Field](p)
	if err != nil {
		return nil, err
	}
	return f.Name, nil
}

func fieldDescription(p schema.ResolveParams) (any, error) {
	f, err := source[*schema.Field](p)
	if err != nil {
		return nil, err
	}
	return optional(f.Description), nil
}

func fieldArgs(p schema.ResolveParams) (any, error) {
	f, err := source[*schema.Field](p)
	if err != nil {
		return nil, err
	}
	if f.Arguments == nil {
		return []*schema.InputValue{}, nil
	}
	return f.Arguments, nil
}

func fieldType(p schema.ResolveParams) (any, error) {
	f, err := source[*schema.Field](p)
	if err != nil {
		return nil, err
	}
	return f.Type, nil
}

func fieldIsDeprecated(p schema.ResolveParams) (any, error) {
	f, err := source[*schema.Field](p)
	if err != nil {
		return nil, err
	}
	return f.IsDeprecated(), nil
}

func fieldDeprecationReason(p schema.ResolveParams) (any, error) {
	f, err := source[*schema.Field](p)
	if err != nil {
		return nil, err
	}
	return optional(f.DeprecationReason), nil
}

// ----- __InputValue -----

func inputValueName(p schema.ResolveParams) (any, error) {
	v, err := source[*schema.InputValue](p)
	if err != nil {
		return nil, err
	}
	return v.Name, nil
}

func inputValueDescription(p schema.ResolveParams) (any, error) {
	v, err := source[*schema.InputValue](p)
	if err != nil {
		return nil, err
	}
	return optional(v.Description), nil
}

func inputValueType(p schema.ResolveParams) (any, error) {
	v, err := source[*schema.InputValue](p)
	if err != nil {
		return nil, err
	}
	return v.Type, nil
}

func inputValueDefaultValue(p schema.ResolveParams) (any, error) {
	v, err := source[*schema.InputValue](p)
	if err != nil || v.DefaultValue == nil {
		return nil, err
	}
	return p.Info.Schema.ValueLiteral(v.Type, v.DefaultValue), nil
}

// ----- __EnumValue -----

func enumValueName(p schema.ResolveParams) (any, error) {
	ev, err := source[*schema.EnumValue](p)
	if err != nil {
		return nil, err
	}
	return ev.Name, nil
}

func enumValueDescription(p schema.ResolveParams) (any, error) {
	ev, err := source[*schema.EnumValue](p)
	if err != nil {
		return nil, err
	}
	return optional(ev.Description), nil
}

func enumValueIsDeprecated(p schema.ResolveParams) (any, error) {
	ev, err := source[*schema.EnumValue](p)
	if err != nil {
		return nil, err
	}
	return ev.IsDeprecated(), nil
}

func enumValueDeprecationReason(p schema.ResolveParams) (any, error) {
	ev, err := source[*schema.EnumValue](p)
	if err != nil {
		return nil, err
	}
	return optional(ev.DeprecationReason), nil
}

// ----- __Directive -----

func directiveName(p schema.ResolveParams) (any, error) {
	d, err := source[*schema.Directive](p)
	if err != nil {
		return nil, err
	}
	return d.Name, nil
}

func directiveDescription(p schema.ResolveParams) (any, error) {
	d, err := source[*schema.Directive](p)
	if err != nil {
		return nil, err
	}
	return optional(d.Description), nil
}

func directiveIsRepeatable(p schema.ResolveParams) (any, error) {
	d, err := source[*schema.Directive](p)
	if err != nil {
		return nil, err
	}
	return d.IsRepeatable, nil
}

func directiveLocations(p schema.ResolveParams) (any, error) {
	d, err := source[*schema.Directive](p)
	if err != nil {
		return nil, err
	}
	return d.Locations, nil
}

func directiveArgs(p schema.ResolveParams) (any, error) {
	d, err := source[*schema.Directive](p)
	if err != nil {
		return nil, err
	}
	if d.Arguments == nil {
		return []*schema.InputValue{}, nil
	}
	return d.Arguments, nil
}

func sortRefs(refs []*schema.TypeRef) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
}
