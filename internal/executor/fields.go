package executor

import (
	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/introspection"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// collectedFieldMap preserves field order from the original query
type collectedFieldMap struct {
	fields []collectedField
	index  map[string]int
}

type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

func newCollectedFieldMap() *collectedFieldMap {
	return &collectedFieldMap{index: make(map[string]int)}
}

func (cfm *collectedFieldMap) add(field *language.Field) {
	responseName := field.ResponseKey()
	if idx, exists := cfm.index[responseName]; exists {
		cfm.fields[idx].Fields = append(cfm.fields[idx].Fields, field)
		return
	}
	cfm.index[responseName] = len(cfm.fields)
	cfm.fields = append(cfm.fields, collectedField{
		ResponseName: responseName,
		Fields:       []*language.Field{field},
	})
}

func (cfm *collectedFieldMap) orderedFields() []collectedField {
	return cfm.fields
}

// collectFields groups the fields of selectionSet that apply to objectType by
// response key.
func (ec *executionContext) collectFields(objectType *schema.Type, selectionSet *language.SelectionSet) *collectedFieldMap {
	grouped := newCollectedFieldMap()
	ec.collectFieldsImpl(objectType, selectionSet, grouped, map[string]bool{})
	return grouped
}

// collectSubfields merges the selection sets of every node of one field.
func (ec *executionContext) collectSubfields(objectType *schema.Type, fields []*language.Field) *collectedFieldMap {
	grouped := newCollectedFieldMap()
	visited := map[string]bool{}
	for _, field := range fields {
		if field.SelectionSet != nil {
			ec.collectFieldsImpl(objectType, field.SelectionSet, grouped, visited)
		}
	}
	return grouped
}

func (ec *executionContext) collectFieldsImpl(objectType *schema.Type, selectionSet *language.SelectionSet, grouped *collectedFieldMap, visitedFragments map[string]bool) {
	for _, selection := range selectionSet.Selections {
		switch sel := selection.(type) {
		case *language.Field:
			if !ec.shouldIncludeNode(sel.Directives) {
				continue
			}
			grouped.add(sel)

		case *language.InlineFragment:
			if !ec.shouldIncludeNode(sel.Directives) {
				continue
			}
			if !ec.doesFragmentConditionMatch(sel.TypeCondition, objectType) {
				continue
			}
			ec.collectFieldsImpl(objectType, sel.SelectionSet, grouped, visitedFragments)

		case *language.FragmentSpread:
			if visitedFragments[sel.Name] || !ec.shouldIncludeNode(sel.Directives) {
				continue
			}
			visitedFragments[sel.Name] = true

			fragment := ec.fragments[sel.Name]
			if fragment == nil {
				continue
			}
			if !ec.doesFragmentConditionMatch(fragment.TypeCondition, objectType) {
				continue
			}
			ec.collectFieldsImpl(objectType, fragment.SelectionSet, grouped, visitedFragments)
		}
	}
}

// shouldIncludeNode evaluates @skip and then @include. Directive arguments
// are coerced like field arguments, so variables are honoured. A node whose
// condition cannot be coerced is excluded and the failure is reported.
func (ec *executionContext) shouldIncludeNode(directives []*language.Directive) bool {
	if len(directives) == 0 {
		return true
	}
	if skip := directiveNamed(directives, schema.SkipDirective.Name); skip != nil {
		skipped, ok := ec.directiveCondition(schema.SkipDirective, skip)
		if !ok || skipped {
			return false
		}
	}
	if include := directiveNamed(directives, schema.IncludeDirective.Name); include != nil {
		included, ok := ec.directiveCondition(schema.IncludeDirective, include)
		if !ok || !included {
			return false
		}
	}
	return true
}

// directiveCondition coerces the if argument of node. The same node is
// collected once per object completed under it, so its error is recorded
// only the first time.
func (ec *executionContext) directiveCondition(def *schema.Directive, node *language.Directive) (cond, ok bool) {
	args, err := argumentValues(ec.schema, def.Arguments, node.Arguments, ec.variableValues)
	if err == nil {
		cond, ok = args["if"].(bool)
		if ok {
			return cond, true
		}
		err = errcode.Errorf(errcode.BadUserInput, "Argument \"if\" of required type \"Boolean!\" was not provided.")
	}

	gqlErr := errcode.Errorf(errcode.BadUserInput, "Directive \"@%s\": %s", def.Name, err.Error())
	gqlErr.Locations = []gqlerror.Location{location(node.Loc)}

	ec.mu.Lock()
	defer ec.mu.Unlock()
	if !ec.reportedDirectives[node] {
		ec.reportedDirectives[node] = true
		ec.errors = append(ec.errors, gqlErr)
	}
	return false, false
}

func directiveNamed(directives []*language.Directive, name string) *language.Directive {
	for _, d := range directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// doesFragmentConditionMatch accepts an omitted condition, the object type
// itself, or an abstract type the object type belongs to.
func (ec *executionContext) doesFragmentConditionMatch(condition *language.NamedType, objectType *schema.Type) bool {
	if condition == nil {
		return true
	}
	conditionType := introspection.LookupType(ec.schema, condition.Name)
	if conditionType == nil {
		return false
	}
	if conditionType == objectType {
		return true
	}
	if conditionType.IsAbstractType() {
		return ec.schema.IsSubType(conditionType, objectType)
	}
	return false
}

// getFieldDef looks up a field on parentType. The __schema and __type
// meta-fields exist only on the query root; __typename exists everywhere.
func (ec *executionContext) getFieldDef(parentType *schema.Type, name string) *schema.Field {
	switch {
	case name == introspection.SchemaMetaField.Name && parentType == ec.schema.QueryType():
		return introspection.SchemaMetaField
	case name == introspection.TypeMetaField.Name && parentType == ec.schema.QueryType():
		return introspection.TypeMetaField
	case name == introspection.TypeNameMetaField.Name:
		return introspection.TypeNameMetaField
	}
	return ec.fieldMap(parentType).Get(name)
}

// fieldMap memoizes Type.Fields for the duration of one execution.
func (ec *executionContext) fieldMap(t *schema.Type) *schema.FieldMap {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if fm, ok := ec.fieldMaps[t]; ok {
		return fm
	}
	fm := t.Fields()
	ec.fieldMaps[t] = fm
	return fm
}
