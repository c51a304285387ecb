package schema

import (
	"context"

	"github.com/hanpama/gqlcore/internal/language"
	"github.com/vektah/gqlparser/v2/ast"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// FieldResolveFn produces the raw value of a field for one source object.
type FieldResolveFn func(p ResolveParams) (any, error)

// TypeResolveFn names the concrete object type of a value returned for an
// abstract type. An empty name means the value could not be resolved.
type TypeResolveFn func(p ResolveTypeParams) string

// IsTypeOfFn reports whether value belongs to an object type.
type IsTypeOfFn func(p IsTypeOfParams) bool

type ResolveParams struct {
	Context context.Context
	Source  any
	Args    map[string]any
	Info    ResolveInfo
}

// ResolveInfo describes the field being resolved and its surrounding request.
type ResolveInfo struct {
	FieldName      string
	FieldNodes     []*language.Field
	ReturnType     *TypeRef
	ParentType     *Type
	Path           *ResponsePath
	Schema         *Schema
	Fragments      map[string]*language.FragmentDefinition
	RootValue      any
	Operation      *language.OperationDefinition
	VariableValues map[string]any
	ContextValue   any
}

type ResolveTypeParams struct {
	Context      context.Context
	Value        any
	AbstractType *Type
	Info         ResolveInfo
}

type IsTypeOfParams struct {
	Context context.Context
	Value   any
	Info    ResolveInfo
}

// ResponsePath is a cons-list of response keys from a field back to the root.
type ResponsePath struct {
	Prev     *ResponsePath
	Key      any    // string for fields, int for list items
	TypeName string // parent type for field segments
}

// WithKey extends the path with a field segment.
func (p *ResponsePath) WithKey(key string, typeName string) *ResponsePath {
	return &ResponsePath{Prev: p, Key: key, TypeName: typeName}
}

// WithIndex extends the path with a list item segment.
func (p *ResponsePath) WithIndex(index int) *ResponsePath {
	return &ResponsePath{Prev: p, Key: index}
}

// AsPath returns the segments in root-to-leaf order.
func (p *ResponsePath) AsPath() ast.Path {
	var n int
	for cur := p; cur != nil; cur = cur.Prev {
		n++
	}
	path := make(ast.Path, n)
	for cur := p; cur != nil; cur = cur.Prev {
		n--
		switch key := cur.Key.(type) {
		case int:
			path[n] = ast.PathIndex(key)
		case string:
			path[n] = ast.PathName(key)
		}
	}
	return path
}

// FieldGetter lets arbitrary Go values expose fields to the default resolver
// and to DefaultIsTypeOf without reflection.
type FieldGetter interface {
	GetField(name string) (any, bool)
}

// DefaultIsTypeOf matches value structurally against t's fields: map keys,
// FieldGetter lookups, or proto message descriptor fields must cover every
// field name of t.
func DefaultIsTypeOf(value any, t *Type) bool {
	fields := t.Fields().List()
	switch v := value.(type) {
	case map[string]any:
		for _, f := range fields {
			if _, ok := v[f.Name]; !ok {
				return false
			}
		}
		return true
	case FieldGetter:
		for _, f := range fields {
			if _, ok := v.GetField(f.Name); !ok {
				return false
			}
		}
		return true
	case proto.Message:
		desc := v.ProtoReflect().Descriptor().Fields()
		for _, f := range fields {
			if ProtoField(desc, f.Name) == nil {
				return false
			}
		}
		return true
	}
	return false
}

// ProtoField finds a message field by proto name or JSON name.
func ProtoField(fields protoreflect.FieldDescriptors, name string) protoreflect.FieldDescriptor {
	if fd := fields.ByName(protoreflect.Name(name)); fd != nil {
		return fd
	}
	return fields.ByJSONName(name)
}
