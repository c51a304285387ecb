package language

// NodeKind tags every AST node.
type NodeKind string

const (
	KindDocument            NodeKind = "Document"
	KindOperationDefinition NodeKind = "OperationDefinition"
	KindFragmentDefinition  NodeKind = "FragmentDefinition"
	KindSelectionSet        NodeKind = "SelectionSet"
	KindField               NodeKind = "Field"
	KindInlineFragment      NodeKind = "InlineFragment"
	KindFragmentSpread      NodeKind = "FragmentSpread"
	KindArgument            NodeKind = "Argument"
	KindDirective           NodeKind = "Directive"
	KindVariableDefinition  NodeKind = "VariableDefinition"
	KindVariable            NodeKind = "Variable"
	KindNamedType           NodeKind = "NamedType"
	KindListType            NodeKind = "ListType"
	KindNonNullType         NodeKind = "NonNullType"
	KindIntValue            NodeKind = "IntValue"
	KindFloatValue          NodeKind = "FloatValue"
	KindStringValue         NodeKind = "StringValue"
	KindBooleanValue        NodeKind = "BooleanValue"
	KindNullValue           NodeKind = "NullValue"
	KindEnumValue           NodeKind = "EnumValue"
	KindListValue           NodeKind = "ListValue"
	KindObjectValue         NodeKind = "ObjectValue"
	KindObjectField         NodeKind = "ObjectField"
)

// Node is implemented by every AST node. Locations are diagnostic only.
type Node interface {
	Kind() NodeKind
	Location() Location
}

// Definition is an executable definition: an operation or a fragment.
type Definition interface {
	Node
	isDefinition()
}

// Selection is a Field, InlineFragment, or FragmentSpread.
type Selection interface {
	Node
	isSelection()
}

// Value is an input value literal or a variable reference.
type Value interface {
	Node
	isValue()
}

// Type is a type reference in a variable definition.
type Type interface {
	Node
	isType()
}

// Operation kinds.
const (
	Query    = "query"
	Mutation = "mutation"
)

type Document struct {
	Loc         Location
	Definitions []Definition
}

type OperationDefinition struct {
	Loc                 Location
	Operation           string
	Name                string
	VariableDefinitions []*VariableDefinition
	Directives          []*Directive
	SelectionSet        *SelectionSet
}

type FragmentDefinition struct {
	Loc           Location
	Name          string
	TypeCondition *NamedType
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

type SelectionSet struct {
	Loc        Location
	Selections []Selection
}

type Field struct {
	Loc          Location
	Alias        string
	Name         string
	Arguments    []*Argument
	Directives   []*Directive
	SelectionSet *SelectionSet
}

// ResponseKey is the alias when present, else the field name.
func (f *Field) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

type InlineFragment struct {
	Loc           Location
	TypeCondition *NamedType // nil when omitted
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

type FragmentSpread struct {
	Loc        Location
	Name       string
	Directives []*Directive
}

type Argument struct {
	Loc   Location
	Name  string
	Value Value
}

type Directive struct {
	Loc       Location
	Name      string
	Arguments []*Argument
}

type VariableDefinition struct {
	Loc          Location
	Variable     *Variable
	Type         Type
	DefaultValue Value
	Directives   []*Directive
}

type Variable struct {
	Loc  Location
	Name string
}

type NamedType struct {
	Loc  Location
	Name string
}

type ListType struct {
	Loc  Location
	Type Type
}

type NonNullType struct {
	Loc  Location
	Type Type
}

type IntValue struct {
	Loc   Location
	Value string
}

type FloatValue struct {
	Loc   Location
	Value string
}

type StringValue struct {
	Loc   Location
	Value string
	Block bool
}

type BooleanValue struct {
	Loc   Location
	Value bool
}

type NullValue struct {
	Loc Location
}

type EnumValue struct {
	Loc   Location
	Value string
}

type ListValue struct {
	Loc    Location
	Values []Value
}

type ObjectValue struct {
	Loc    Location
	Fields []*ObjectField
}

type ObjectField struct {
	Loc   Location
	Name  string
	Value Value
}

func (*Document) Kind() NodeKind            { return KindDocument }
func (*OperationDefinition) Kind() NodeKind { return KindOperationDefinition }
func (*FragmentDefinition) Kind() NodeKind  { return KindFragmentDefinition }
func (*SelectionSet) Kind() NodeKind        { return KindSelectionSet }
func (*Field) Kind() NodeKind               { return KindField }
func (*InlineFragment) Kind() NodeKind      { return KindInlineFragment }
func (*FragmentSpread) Kind() NodeKind      { return KindFragmentSpread }
func (*Argument) Kind() NodeKind            { return KindArgument }
func (*Directive) Kind() NodeKind           { return KindDirective }
func (*VariableDefinition) Kind() NodeKind  { return KindVariableDefinition }
func (*Variable) Kind() NodeKind            { return KindVariable }
func (*NamedType) Kind() NodeKind           { return KindNamedType }
func (*ListType) Kind() NodeKind            { return KindListType }
func (*NonNullType) Kind() NodeKind         { return KindNonNullType }
func (*IntValue) Kind() NodeKind            { return KindIntValue }
func (*FloatValue) Kind() NodeKind          { return KindFloatValue }
func (*StringValue) Kind() NodeKind         { return KindStringValue }
func (*BooleanValue) Kind() NodeKind        { return KindBooleanValue }
func (*NullValue) Kind() NodeKind           { return KindNullValue }
func (*EnumValue) Kind() NodeKind           { return KindEnumValue }
func (*ListValue) Kind() NodeKind           { return KindListValue }
func (*ObjectValue) Kind() NodeKind         { return KindObjectValue }
func (*ObjectField) Kind() NodeKind         { return KindObjectField }

func (n *Document) Location() Location            { return n.Loc }
func (n *OperationDefinition) Location() Location { return n.Loc }
func (n *FragmentDefinition) Location() Location  { return n.Loc }
func (n *SelectionSet) Location() Location        { return n.Loc }
func (n *Field) Location() Location               { return n.Loc }
func (n *InlineFragment) Location() Location      { return n.Loc }
func (n *FragmentSpread) Location() Location      { return n.Loc }
func (n *Argument) Location() Location            { return n.Loc }
func (n *Directive) Location() Location           { return n.Loc }
func (n *VariableDefinition) Location() Location  { return n.Loc }
func (n *Variable) Location() Location            { return n.Loc }
func (n *NamedType) Location() Location           { return n.Loc }
func (n *ListType) Location() Location            { return n.Loc }
func (n *NonNullType) Location() Location         { return n.Loc }
func (n *IntValue) Location() Location            { return n.Loc }
func (n *FloatValue) Location() Location          { return n.Loc }
func (n *StringValue) Location() Location         { return n.Loc }
func (n *BooleanValue) Location() Location        { return n.Loc }
func (n *NullValue) Location() Location           { return n.Loc }
func (n *EnumValue) Location() Location           { return n.Loc }
func (n *ListValue) Location() Location           { return n.Loc }
func (n *ObjectValue) Location() Location         { return n.Loc }
func (n *ObjectField) Location() Location         { return n.Loc }

func (*OperationDefinition) isDefinition() {}
func (*FragmentDefinition) isDefinition()  {}

func (*Field) isSelection()          {}
func (*InlineFragment) isSelection() {}
func (*FragmentSpread) isSelection() {}

func (*Variable) isValue()     {}
func (*IntValue) isValue()     {}
func (*FloatValue) isValue()   {}
func (*StringValue) isValue()  {}
func (*BooleanValue) isValue() {}
func (*NullValue) isValue()    {}
func (*EnumValue) isValue()    {}
func (*ListValue) isValue()    {}
func (*ObjectValue) isValue()  {}

func (*NamedType) isType()   {}
func (*ListType) isType()    {}
func (*NonNullType) isType() {}

// TypeString renders a type reference in SDL form, e.g. "[Episode!]".
func TypeString(t Type) string {
	switch t := t.(type) {
	case *NamedType:
		return t.Name
	case *ListType:
		return "[" + TypeString(t.Type) + "]"
	case *NonNullType:
		return TypeString(t.Type) + "!"
	}
	return ""
}
