package schema

// TypeRefKind tags the layers of a TypeRef.
type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

// TypeRef represents a reference to a type (can be wrapped). A named layer
// points at its Type directly or carries only Name, in which case the schema
// resolves it once every type is registered.
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // For List and NonNull
	Type   *Type    // For named types referenced by pointer
	Name   string   // For named types
}

// Named references t directly.
func Named(t *Type) *TypeRef {
	return &TypeRef{Kind: TypeRefKindNamed, Type: t, Name: t.Name}
}

// Ref references a type by name.
func Ref(name string) *TypeRef {
	return &TypeRef{Kind: TypeRefKindNamed, Name: name}
}

func ListOf(t *TypeRef) *TypeRef  { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NonNull(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }

func (t *TypeRef) IsNonNullType() bool {
	return t != nil && t.Kind == TypeRefKindNonNull
}

func (t *TypeRef) IsListType() bool {
	return t != nil && t.Kind == TypeRefKindList
}

func (t *TypeRef) IsWrappingType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeRefKindList, TypeRefKindNonNull:
		return true
	}
	return false
}

// Unwrap removes one layer of Non-Null or List wrapping.
func (t *TypeRef) Unwrap() *TypeRef {
	if t.IsWrappingType() {
		return t.OfType
	}
	return t
}

// Nullable strips a Non-Null layer if present.
func (t *TypeRef) Nullable() *TypeRef {
	if t.IsNonNullType() {
		return t.OfType
	}
	return t
}

// Named unwraps every wrapping layer.
func (t *TypeRef) Named() *TypeRef {
	for t != nil && t.IsWrappingType() {
		t = t.OfType
	}
	return t
}

// String renders the reference in SDL form, e.g. "[Character!]!".
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeRefKindList:
		return "[" + t.OfType.String() + "]"
	case TypeRefKindNonNull:
		return t.OfType.String() + "!"
	}
	if t.Type != nil {
		return t.Type.Name
	}
	return t.Name
}

// GetNamedType returns the innermost type name for the given reference.
func GetNamedType(t *TypeRef) string {
	return t.Named().String()
}
