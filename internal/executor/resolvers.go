package executor

import (
	"sort"

	"github.com/hanpama/gqlcore/internal/schema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// DefaultFieldResolver reads the field from the source: a map entry, a
// FieldGetter lookup, or a proto message field by proto or JSON name.
// Anything else resolves to null.
func DefaultFieldResolver(p schema.ResolveParams) (any, error) {
	name := p.Info.FieldName
	switch source := p.Source.(type) {
	case map[string]any:
		return source[name], nil
	case schema.FieldGetter:
		v, _ := source.GetField(name)
		return v, nil
	case proto.Message:
		msg := source.ProtoReflect()
		fd := schema.ProtoField(msg.Descriptor().Fields(), name)
		if fd == nil {
			return nil, nil
		}
		if fd.HasPresence() && !msg.Has(fd) {
			return nil, nil
		}
		return protoValue(fd, msg.Get(fd)), nil
	}
	return nil, nil
}

// protoValue converts a field value into plain Go values. Enums become their
// value names, nested messages stay proto.Message.
func protoValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch {
	case fd.IsList():
		list := v.List()
		out := make([]any, list.Len())
		for i := range out {
			out[i] = protoSingular(fd, list.Get(i))
		}
		return out
	case fd.IsMap():
		out := map[string]any{}
		v.Map().Range(func(k protoreflect.MapKey, mv protoreflect.Value) bool {
			out[k.String()] = protoSingular(fd.MapValue(), mv)
			return true
		})
		return out
	}
	return protoSingular(fd, v)
}

func protoSingular(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByNumber(v.Enum()); ev != nil {
			return string(ev.Name())
		}
		return int32(v.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return v.Message().Interface()
	}
	return v.Interface()
}

// DefaultTypeResolver names the concrete type of value. A map or FieldGetter
// carrying a __typename string wins; otherwise the possible types are tried in
// ascending order of field count and the first whose IsTypeOf (or
// schema.DefaultIsTypeOf) accepts the value is chosen.
func DefaultTypeResolver(p schema.ResolveTypeParams) string {
	switch v := p.Value.(type) {
	case map[string]any:
		if name, ok := v["__typename"].(string); ok {
			return name
		}
	case schema.FieldGetter:
		if raw, ok := v.GetField("__typename"); ok {
			if name, ok := raw.(string); ok {
				return name
			}
		}
	}

	possible := p.Info.Schema.PossibleTypes(p.AbstractType)
	counts := make(map[*schema.Type]int, len(possible))
	for _, t := range possible {
		counts[t] = t.Fields().Len()
	}
	sort.SliceStable(possible, func(i, j int) bool {
		return counts[possible[i]] < counts[possible[j]]
	})

	for _, t := range possible {
		if t.IsTypeOf != nil {
			if t.IsTypeOf(schema.IsTypeOfParams{Context: p.Context, Value: p.Value, Info: p.Info}) {
				return t.Name
			}
			continue
		}
		if schema.DefaultIsTypeOf(p.Value, t) {
			return t.Name
		}
	}
	return ""
}
