package schema

import (
	"github.com/hanpama/gqlcore/internal/language"
)

// TypeKind represents the kind of a named GraphQL type
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// FieldsThunk defers building a field list so types can refer to each other.
type FieldsThunk func() []*Field

// InputFieldsThunk is the input object counterpart of FieldsThunk.
type InputFieldsThunk func() []*InputValue

// FieldList wraps an already built field list in a thunk.
func FieldList(fields ...*Field) FieldsThunk {
	return func() []*Field { return fields }
}

// InputFieldList wraps an already built input field list in a thunk.
func InputFieldList(fields ...*InputValue) InputFieldsThunk {
	return func() []*InputValue { return fields }
}

// Type is a named GraphQL type. Which members are meaningful depends on Kind.
type Type struct {
	Name        string
	Kind        TypeKind
	Description string

	// OBJECT and INTERFACE
	FieldsThunk FieldsThunk
	Interfaces  []*TypeRef

	// OBJECT
	IsTypeOf IsTypeOfFn

	// INTERFACE and UNION
	ResolveType TypeResolveFn

	// UNION
	Members []*TypeRef

	// ENUM
	EnumValues []*EnumValue

	// INPUT_OBJECT
	InputFieldsThunk InputFieldsThunk

	// SCALAR
	Serialize    func(value any) (any, error)
	ParseValue   func(value any) (any, error)
	ParseLiteral func(value language.Value) (any, error)
}

// Fields evaluates the field thunk and keys the result by name. The map is
// rebuilt on every call.
func (t *Type) Fields() *FieldMap {
	m := &FieldMap{index: map[string]int{}}
	if t == nil || t.FieldsThunk == nil {
		return m
	}
	for _, f := range t.FieldsThunk() {
		m.add(f)
	}
	return m
}

// InputFields evaluates the input field thunk and keys the result by name.
func (t *Type) InputFields() *InputFieldMap {
	m := &InputFieldMap{index: map[string]int{}}
	if t == nil || t.InputFieldsThunk == nil {
		return m
	}
	for _, f := range t.InputFieldsThunk() {
		m.add(f)
	}
	return m
}

// EnumValue returns the enum member called name.
func (t *Type) EnumValue(name string) *EnumValue {
	for _, v := range t.EnumValues {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (t *Type) IsObjectType() bool {
	return t != nil && t.Kind == TypeKindObject
}

func (t *Type) IsAbstractType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeKindInterface, TypeKindUnion:
		return true
	}
	return false
}

func (t *Type) IsLeafType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeKindScalar, TypeKindEnum:
		return true
	}
	return false
}

func (t *Type) IsCompositeType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeKindObject, TypeKindInterface, TypeKindUnion:
		return true
	}
	return false
}

func (t *Type) IsInputType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeKindScalar, TypeKindEnum, TypeKindInputObject:
		return true
	}
	return false
}

func (t *Type) IsOutputType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeKindScalar, TypeKindEnum, TypeKindObject, TypeKindInterface, TypeKindUnion:
		return true
	}
	return false
}

// Field represents a field on an object or interface
type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Arguments         []*InputValue
	Resolve           FieldResolveFn // nil selects the executor's default
	DeprecationReason string
}

func (f *Field) IsDeprecated() bool { return f.DeprecationReason != "" }

// Argument returns the argument definition called name.
func (f *Field) Argument(name string) *InputValue {
	for _, arg := range f.Arguments {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// InputValue is an argument or an input object field.
type InputValue struct {
	Name         string
	Description  string
	Type         *TypeRef
	DefaultValue any // nil means no default
}

// EnumValue is a member of an enum. Value is the internal representation;
// when nil the member's name is used.
type EnumValue struct {
	Name              string
	Value             any
	Description       string
	DeprecationReason string
}

func (v *EnumValue) IsDeprecated() bool { return v.DeprecationReason != "" }

// Internal returns the value resolvers see for this member.
func (v *EnumValue) Internal() any {
	if v.Value != nil {
		return v.Value
	}
	return v.Name
}

type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Arguments    []*InputValue
	IsRepeatable bool
}

// FieldMap is an insertion-ordered set of fields keyed by name.
type FieldMap struct {
	list  []*Field
	index map[string]int
}

func (m *FieldMap) add(f *Field) {
	if i, ok := m.index[f.Name]; ok {
		m.list[i] = f
		return
	}
	m.index[f.Name] = len(m.list)
	m.list = append(m.list, f)
}

func (m *FieldMap) Get(name string) *Field {
	if i, ok := m.index[name]; ok {
		return m.list[i]
	}
	return nil
}

func (m *FieldMap) List() []*Field { return m.list }
func (m *FieldMap) Len() int       { return len(m.list) }

// InputFieldMap is an insertion-ordered set of input values keyed by name.
type InputFieldMap struct {
	list  []*InputValue
	index map[string]int
}

func (m *InputFieldMap) add(f *InputValue) {
	if i, ok := m.index[f.Name]; ok {
		m.list[i] = f
		return
	}
	m.index[f.Name] = len(m.list)
	m.list = append(m.list, f)
}

func (m *InputFieldMap) Get(name string) *InputValue {
	if i, ok := m.index[name]; ok {
		return m.list[i]
	}
	return nil
}

func (m *InputFieldMap) List() []*InputValue { return m.list }
func (m *InputFieldMap) Len() int            { return len(m.list) }
