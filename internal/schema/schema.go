package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Config declares a schema. Types lists named types that are not reachable
// from the roots through pointer references, typically those referred to
// only by name with Ref.
type Config struct {
	Query       *Type
	Mutation    *Type
	Types       []*Type
	Directives  []*Directive
	Description string
}

// Implementations lists the types that declare an interface.
type Implementations struct {
	Objects    []*Type
	Interfaces []*Type
}

// Schema represents the complete GraphQL schema. It is immutable after New
// returns; only the sub-type memo is written afterwards, under mu.
type Schema struct {
	description     string
	query           *Type
	mutation        *Type
	types           map[string]*Type
	directives      []*Directive
	implementations map[string]*Implementations

	mu       sync.Mutex
	subTypes map[string]map[string]struct{}
}

// New builds a schema in two passes. The first registers every named type
// reachable from the roots and Config.Types; the second resolves references
// made by name and checks that each reference has a suitable kind.
func New(cfg Config) (*Schema, error) {
	if cfg.Query == nil {
		return nil, errors.New("schema: query type is required")
	}
	s := &Schema{
		description:     cfg.Description,
		query:           cfg.Query,
		mutation:        cfg.Mutation,
		types:           map[string]*Type{},
		implementations: map[string]*Implementations{},
		subTypes:        map[string]map[string]struct{}{},
	}

	b := &builder{schema: s}
	for _, t := range BuiltinScalars {
		b.register(t)
	}
	b.register(cfg.Query)
	b.register(cfg.Mutation)
	for _, t := range cfg.Types {
		if t == nil {
			b.fail("schema: nil entry in Types")
			continue
		}
		b.register(t)
	}

	seen := map[string]*Directive{}
	for _, d := range append(append([]*Directive{}, SpecifiedDirectives...), cfg.Directives...) {
		if prev, ok := seen[d.Name]; ok {
			if prev != d {
				b.fail("schema: directive @%s is defined more than once", d.Name)
			}
			continue
		}
		seen[d.Name] = d
		s.directives = append(s.directives, d)
		for _, arg := range d.Arguments {
			b.walkRef(arg.Type)
		}
	}
	if b.err != nil {
		return nil, b.err
	}

	b.check()
	if b.err != nil {
		return nil, b.err
	}
	s.indexImplementations()
	return s, nil
}

// MustNew is New for statically declared schemas.
func MustNew(cfg Config) *Schema {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

type builder struct {
	schema *Schema
	err    error
}

func (b *builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

func (b *builder) register(t *Type) {
	if t == nil {
		return
	}
	if t.Name == "" {
		b.fail("schema: found a %s type without a name", t.Kind)
		return
	}
	if existing, ok := b.schema.types[t.Name]; ok {
		if existing != t {
			b.fail("schema: type %q is defined more than once", t.Name)
		}
		return
	}
	b.schema.types[t.Name] = t

	switch t.Kind {
	case TypeKindUnion:
		for _, m := range t.Members {
			b.walkRef(m)
		}
	case TypeKindObject, TypeKindInterface:
		for _, iface := range t.Interfaces {
			b.walkRef(iface)
		}
		for _, f := range t.Fields().List() {
			b.walkRef(f.Type)
			for _, arg := range f.Arguments {
				b.walkRef(arg.Type)
			}
		}
	case TypeKindInputObject:
		for _, f := range t.InputFields().List() {
			b.walkRef(f.Type)
		}
	}
}

// walkRef follows pointer references; names are left for check.
func (b *builder) walkRef(ref *TypeRef) {
	if named := ref.Named(); named != nil && named.Type != nil {
		b.register(named.Type)
	}
}

func (b *builder) check() {
	s := b.schema
	if !s.query.IsObjectType() {
		b.fail("schema: query root %q must be an object type", s.query.Name)
	}
	if s.mutation != nil && !s.mutation.IsObjectType() {
		b.fail("schema: mutation root %q must be an object type", s.mutation.Name)
	}

	for _, name := range s.TypeNames() {
		t := s.types[name]
		switch t.Kind {
		case TypeKindObject, TypeKindInterface:
			for _, iface := range t.Interfaces {
				if it := b.resolve(t.Name, iface); it != nil && it.Kind != TypeKindInterface {
					b.fail("schema: %s cannot implement non-interface type %s", t.Name, it.Name)
				}
			}
			for _, f := range t.Fields().List() {
				where := t.Name + "." + f.Name
				if ft := b.resolve(where, f.Type); ft != nil && !ft.IsOutputType() {
					b.fail("schema: %s must have an output type, got %s", where, f.Type)
				}
				for _, arg := range f.Arguments {
					b.checkInput(where+"("+arg.Name+":)", arg.Type)
				}
			}
		case TypeKindUnion:
			for _, m := range t.Members {
				if mt := b.resolve(t.Name, m); mt != nil && mt.Kind != TypeKindObject {
					b.fail("schema: union %s can only include object types, got %s", t.Name, mt.Name)
				}
			}
		case TypeKindInputObject:
			for _, f := range t.InputFields().List() {
				b.checkInput(t.Name+"."+f.Name, f.Type)
			}
		}
	}
	for _, d := range s.directives {
		for _, arg := range d.Arguments {
			b.checkInput("@"+d.Name+"("+arg.Name+":)", arg.Type)
		}
	}
}

func (b *builder) checkInput(where string, ref *TypeRef) {
	if t := b.resolve(where, ref); t != nil && !t.IsInputType() {
		b.fail("schema: %s must have an input type, got %s", where, ref)
	}
}

func (b *builder) resolve(where string, ref *TypeRef) *Type {
	named := ref.Named()
	if named == nil {
		b.fail("schema: %s has no type", where)
		return nil
	}
	t := b.schema.Resolve(named)
	if t == nil {
		b.fail("schema: %s refers to unknown type %q", where, named.Name)
	}
	return t
}

func (s *Schema) indexImplementations() {
	for _, name := range s.TypeNames() {
		t := s.types[name]
		if t.Kind != TypeKindObject && t.Kind != TypeKindInterface {
			continue
		}
		for _, ref := range t.Interfaces {
			iface := s.Resolve(ref)
			impls := s.implementations[iface.Name]
			if impls == nil {
				impls = &Implementations{}
				s.implementations[iface.Name] = impls
			}
			if t.Kind == TypeKindObject {
				impls.Objects = append(impls.Objects, t)
			} else {
				impls.Interfaces = append(impls.Interfaces, t)
			}
		}
	}
}

func (s *Schema) Description() string { return s.description }

// QueryType returns the root query type
func (s *Schema) QueryType() *Type { return s.query }

// MutationType returns the root mutation type (may be nil if absent)
func (s *Schema) MutationType() *Type { return s.mutation }

// Type returns the named type called name, or nil.
func (s *Schema) Type(name string) *Type { return s.types[name] }

// TypeMap returns every named type keyed by name. It must not be modified.
func (s *Schema) TypeMap() map[string]*Type { return s.types }

// TypeNames returns every type name in lexicographic order.
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) Directives() []*Directive { return s.directives }

func (s *Schema) Directive(name string) *Directive {
	for _, d := range s.directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Resolve returns the named type at the core of ref.
func (s *Schema) Resolve(ref *TypeRef) *Type {
	named := ref.Named()
	if named == nil {
		return nil
	}
	if named.Type != nil {
		return named.Type
	}
	return s.types[named.Name]
}

// IsInputType reports whether ref can be used for arguments and variables.
func (s *Schema) IsInputType(ref *TypeRef) bool {
	return s.Resolve(ref).IsInputType()
}

// IsOutputType reports whether ref can be used as a field type.
func (s *Schema) IsOutputType(ref *TypeRef) bool {
	return s.Resolve(ref).IsOutputType()
}

// Implementations returns the types declaring the interface called name.
func (s *Schema) Implementations(name string) Implementations {
	if impls := s.implementations[name]; impls != nil {
		return *impls
	}
	return Implementations{}
}

// PossibleTypes lists the object types an abstract type can resolve to.
func (s *Schema) PossibleTypes(abstract *Type) []*Type {
	switch abstract.Kind {
	case TypeKindUnion:
		out := make([]*Type, 0, len(abstract.Members))
		for _, m := range abstract.Members {
			if t := s.Resolve(m); t != nil {
				out = append(out, t)
			}
		}
		return out
	case TypeKindInterface:
		return append([]*Type(nil), s.Implementations(abstract.Name).Objects...)
	}
	return nil
}

// IsSubType reports whether candidate satisfies abstract: a union member, or
// an object or interface implementing the interface. Member sets are computed
// once per abstract type.
func (s *Schema) IsSubType(abstract, candidate *Type) bool {
	if abstract == nil || candidate == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.subTypes[abstract.Name]
	if !ok {
		set = map[string]struct{}{}
		switch abstract.Kind {
		case TypeKindUnion:
			for _, m := range abstract.Members {
				set[m.Named().String()] = struct{}{}
			}
		case TypeKindInterface:
			impls := s.Implementations(abstract.Name)
			for _, t := range impls.Objects {
				set[t.Name] = struct{}{}
			}
			for _, t := range impls.Interfaces {
				set[t.Name] = struct{}{}
			}
		}
		s.subTypes[abstract.Name] = set
	}
	_, ok = set[candidate.Name]
	return ok
}
