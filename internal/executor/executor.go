package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/introspection"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/sync/errgroup"
)

// Params describes one execution request.
type Params struct {
	Schema         *schema.Schema
	Document       *language.Document
	RootValue      any
	ContextValue   any // defaults to an empty map[string]any
	VariableValues map[string]any
	OperationName  string

	// FieldResolver is used for fields without their own Resolve. Defaults
	// to DefaultFieldResolver.
	FieldResolver schema.FieldResolveFn
	// TypeResolver is used for abstract types without their own
	// ResolveType. Defaults to DefaultTypeResolver.
	TypeResolver schema.TypeResolveFn
}

type options struct {
	concurrency int
	logger      *slog.Logger
}

// Option configures Execute.
type Option func(*options)

// WithConcurrency resolves sibling fields of query selection sets with up to
// n goroutines each. Mutation root fields always run one after another.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithLogger sets the logger that receives recovered resolver panics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

var errInternal = errors.New("Internal server error")

// executionContext holds the state of one Execute call
type executionContext struct {
	ctx            context.Context
	schema         *schema.Schema
	fragments      map[string]*language.FragmentDefinition
	rootValue      any
	contextValue   any
	operation      *language.OperationDefinition
	variableValues map[string]any
	fieldResolver  schema.FieldResolveFn
	typeResolver   schema.TypeResolveFn
	concurrency    int
	logger         *slog.Logger

	mu                 sync.Mutex
	errors             gqlerror.List
	fieldMaps          map[*schema.Type]*schema.FieldMap
	reportedDirectives map[*language.Directive]bool
}

// Execute runs the selected operation of p.Document against p.Schema.
// Request-level failures (operation selection, variable coercion, a missing
// root type) produce a Result with errors and no data.
func Execute(ctx context.Context, p Params, opts ...Option) *Result {
	o := options{concurrency: 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	ec, errs := buildExecutionContext(ctx, p, o)
	if len(errs) > 0 {
		return &Result{Errors: errs}
	}
	rootType, rootErr := ec.rootType()
	if rootErr != nil {
		return &Result{Errors: gqlerror.List{rootErr}}
	}

	data, err := ec.executeOperation(rootType)
	if err != nil {
		ec.addError(err)
		data = nil
	}
	return &Result{Data: data, Errors: ec.errors, executed: true}
}

func buildExecutionContext(ctx context.Context, p Params, o options) (*executionContext, gqlerror.List) {
	if p.Schema == nil {
		return nil, gqlerror.List{errcode.Errorf(errcode.InternalServerError, "Must provide schema.")}
	}
	if p.Document == nil {
		return nil, gqlerror.List{errcode.Errorf(errcode.OperationResolutionFailure, "Must provide document.")}
	}

	var operation *language.OperationDefinition
	fragments := map[string]*language.FragmentDefinition{}
	multiple := false
	for _, def := range p.Document.Definitions {
		switch def := def.(type) {
		case *language.OperationDefinition:
			if p.OperationName == "" {
				if operation != nil {
					multiple = true
				}
				operation = def
			} else if def.Name == p.OperationName {
				operation = def
			}
		case *language.FragmentDefinition:
			fragments[def.Name] = def
		}
	}
	switch {
	case multiple:
		return nil, gqlerror.List{errcode.Errorf(errcode.OperationResolutionFailure, "Must provide operation name if query contains multiple operations.")}
	case operation == nil && p.OperationName != "":
		return nil, gqlerror.List{errcode.Errorf(errcode.OperationResolutionFailure, "Unknown operation named %q.", p.OperationName)}
	case operation == nil:
		return nil, gqlerror.List{errcode.Errorf(errcode.OperationResolutionFailure, "Must provide an operation.")}
	}

	variables, errs := coerceVariableValues(p.Schema, operation.VariableDefinitions, p.VariableValues)
	if len(errs) > 0 {
		return nil, errs
	}

	contextValue := p.ContextValue
	if contextValue == nil {
		contextValue = map[string]any{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &executionContext{
		ctx:            ctx,
		schema:         p.Schema,
		fragments:      fragments,
		rootValue:      p.RootValue,
		contextValue:   contextValue,
		operation:      operation,
		variableValues: variables,
		fieldResolver:  p.FieldResolver,
		typeResolver:   p.TypeResolver,
		concurrency:    o.concurrency,
		logger:         logger,
		fieldMaps:      map[*schema.Type]*schema.FieldMap{},

		reportedDirectives: map[*language.Directive]bool{},
	}, nil
}

func (ec *executionContext) rootType() (*schema.Type, *gqlerror.Error) {
	switch ec.operation.Operation {
	case language.Query:
		return ec.schema.QueryType(), nil
	case language.Mutation:
		if t := ec.schema.MutationType(); t != nil {
			return t, nil
		}
		err := errcode.Errorf(errcode.OperationResolutionFailure, "Schema is not configured for mutations.")
		err.Locations = []gqlerror.Location{location(ec.operation.Loc)}
		return nil, err
	}
	return nil, errcode.Errorf(errcode.OperationResolutionFailure, "Can only execute queries and mutations, got %q.", ec.operation.Operation)
}

func (ec *executionContext) executeOperation(rootType *schema.Type) (*ResultMap, error) {
	fields := ec.collectFields(rootType, ec.operation.SelectionSet)
	if ec.operation.Operation == language.Mutation {
		return ec.executeFieldsSerially(rootType, ec.rootValue, nil, fields)
	}
	return ec.executeFields(rootType, ec.rootValue, nil, fields)
}

// executeFieldsSerially resolves each field after the previous one has
// completed, as mutation root fields require. The first error that reaches
// this level stops the remaining fields.
func (ec *executionContext) executeFieldsSerially(parentType *schema.Type, source any, path *schema.ResponsePath, fields *collectedFieldMap) (*ResultMap, error) {
	ordered := fields.orderedFields()
	result := newResultMap(len(ordered))
	for _, cf := range ordered {
		value, err := ec.executeField(parentType, source, cf.Fields, path.WithKey(cf.ResponseName, parentType.Name))
		if err != nil {
			return nil, err
		}
		result.set(cf.ResponseName, value)
	}
	return result, nil
}

// executeFields resolves every sibling field, concurrently when enabled.
// Results are assembled in selection order after all fields have completed,
// and the first error in that order propagates.
func (ec *executionContext) executeFields(parentType *schema.Type, source any, path *schema.ResponsePath, fields *collectedFieldMap) (*ResultMap, error) {
	ordered := fields.orderedFields()
	values := make([]any, len(ordered))
	errs := make([]error, len(ordered))
	execute := func(i int) {
		cf := ordered[i]
		values[i], errs[i] = ec.executeField(parentType, source, cf.Fields, path.WithKey(cf.ResponseName, parentType.Name))
	}

	if ec.concurrency <= 1 || len(ordered) < 2 {
		for i := range ordered {
			execute(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(ec.concurrency)
		for i := range ordered {
			i := i
			g.Go(func() error {
				execute(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := newResultMap(len(ordered))
	for i, cf := range ordered {
		if errs[i] != nil {
			return nil, errs[i]
		}
		result.set(cf.ResponseName, values[i])
	}
	return result, nil
}

// executeField resolves and completes one response key. A returned error
// has not been recorded yet: the caller's nearest nullable position absorbs
// it.
func (ec *executionContext) executeField(parentType *schema.Type, source any, fieldNodes []*language.Field, path *schema.ResponsePath) (any, error) {
	fieldDef := ec.getFieldDef(parentType, fieldNodes[0].Name)
	if fieldDef == nil {
		return nil, nil
	}
	info := ec.buildResolveInfo(fieldDef, fieldNodes, parentType, path)
	result := ec.resolveFieldValue(fieldDef, source, info)
	return ec.completeValueCatchingError(fieldDef.Type, fieldNodes, info, path, result)
}

func (ec *executionContext) buildResolveInfo(fieldDef *schema.Field, fieldNodes []*language.Field, parentType *schema.Type, path *schema.ResponsePath) schema.ResolveInfo {
	return schema.ResolveInfo{
		FieldName:      fieldNodes[0].Name,
		FieldNodes:     fieldNodes,
		ReturnType:     fieldDef.Type,
		ParentType:     parentType,
		Path:           path,
		Schema:         ec.schema,
		Fragments:      ec.fragments,
		RootValue:      ec.rootValue,
		Operation:      ec.operation,
		VariableValues: ec.variableValues,
		ContextValue:   ec.contextValue,
	}
}

// resolveFieldValue coerces arguments and calls the resolver. Errors and
// recovered panics are returned as the value, for completeValue to report.
func (ec *executionContext) resolveFieldValue(fieldDef *schema.Field, source any, info schema.ResolveInfo) (result any) {
	if err := ec.ctx.Err(); err != nil {
		return err
	}
	args, err := argumentValues(ec.schema, fieldDef.Arguments, info.FieldNodes[0].Arguments, ec.variableValues)
	if err != nil {
		return err
	}

	resolve := fieldDef.Resolve
	if resolve == nil {
		resolve = ec.fieldResolver
	}
	if resolve == nil {
		resolve = DefaultFieldResolver
	}

	defer func() {
		if r := recover(); r != nil {
			result = ec.recovered(r, info.Path)
		}
	}()
	value, err := resolve(schema.ResolveParams{
		Context: ec.ctx,
		Source:  source,
		Args:    args,
		Info:    info,
	})
	if err != nil {
		return err
	}
	return value
}

func (ec *executionContext) recovered(r any, path *schema.ResponsePath) error {
	ec.logger.Error("executor: recovered panic",
		slog.Any("panic", r),
		slog.String("path", path.AsPath().String()),
		slog.String("stack", string(debug.Stack())),
	)
	return errcode.Set(&gqlerror.Error{Err: fmt.Errorf("panic: %v", r), Message: errInternal.Error()}, errcode.InternalServerError)
}

// completeValueCatchingError completes a value for a position of type
// returnType. When the position is nullable, an error raised below it is
// recorded here and the position becomes null.
func (ec *executionContext) completeValueCatchingError(
	returnType *schema.TypeRef,
	fieldNodes []*language.Field,
	info schema.ResolveInfo,
	path *schema.ResponsePath,
	result any,
) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, ec.locatedError(ec.recovered(r, path), fieldNodes, path)
		}
		if err != nil && !returnType.IsNonNullType() {
			ec.addError(err)
			value, err = nil, nil
		}
	}()
	return ec.completeValue(returnType, fieldNodes, info, path, result)
}

func (ec *executionContext) completeValue(
	returnType *schema.TypeRef,
	fieldNodes []*language.Field,
	info schema.ResolveInfo,
	path *schema.ResponsePath,
	result any,
) (any, error) {
	if err, ok := result.(error); ok {
		return nil, ec.locatedError(err, fieldNodes, path)
	}

	if returnType.IsNonNullType() {
		completed, err := ec.completeValue(returnType.OfType, fieldNodes, info, path, result)
		if err != nil {
			return nil, err
		}
		if isNullish(completed) {
			return nil, ec.locatedError(
				fmt.Errorf("Cannot return null for non-nullable field %s.%s.", info.ParentType.Name, info.FieldName),
				fieldNodes, path)
		}
		return completed, nil
	}

	if isNullish(result) {
		return nil, nil
	}

	if returnType.IsListType() {
		return ec.completeListValue(returnType, fieldNodes, info, path, result)
	}

	namedType := ec.lookupType(returnType)
	switch {
	case namedType == nil:
		return nil, ec.locatedError(fmt.Errorf("Unknown type %q.", returnType.Named().Name), fieldNodes, path)
	case namedType.IsLeafType():
		serialized, err := namedType.SerializeLeaf(result)
		if err != nil {
			return nil, ec.locatedError(err, fieldNodes, path)
		}
		return serialized, nil
	case namedType.IsAbstractType():
		return ec.completeAbstractValue(namedType, fieldNodes, info, path, result)
	case namedType.IsObjectType():
		return ec.completeObjectValue(namedType, fieldNodes, info, path, result)
	}
	return nil, ec.locatedError(fmt.Errorf("Cannot complete value of unexpected type %q.", returnType), fieldNodes, path)
}

// completeListValue completes each item at its own index. Item errors are
// absorbed as null when the item type is nullable.
func (ec *executionContext) completeListValue(
	listType *schema.TypeRef,
	fieldNodes []*language.Field,
	info schema.ResolveInfo,
	path *schema.ResponsePath,
	result any,
) (any, error) {
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ec.locatedError(
			fmt.Errorf("Expected Iterable, but did not find one for field %s.%s.", info.ParentType.Name, info.FieldName),
			fieldNodes, path)
	}

	itemType := listType.OfType
	completed := make([]any, rv.Len())
	for i := range completed {
		item, err := ec.completeValueCatchingError(itemType, fieldNodes, info, path.WithIndex(i), rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		completed[i] = item
	}
	return completed, nil
}

func (ec *executionContext) completeAbstractValue(
	abstractType *schema.Type,
	fieldNodes []*language.Field,
	info schema.ResolveInfo,
	path *schema.ResponsePath,
	result any,
) (any, error) {
	resolveType := abstractType.ResolveType
	if resolveType == nil {
		resolveType = ec.typeResolver
	}
	if resolveType == nil {
		resolveType = DefaultTypeResolver
	}
	typeName := resolveType(schema.ResolveTypeParams{
		Context:      ec.ctx,
		Value:        result,
		AbstractType: abstractType,
		Info:         info,
	})

	if typeName == "" {
		return nil, ec.locatedError(fmt.Errorf(
			"Abstract type %q must resolve to an Object type at runtime for field %s.%s. Either the %q type should provide a ResolveType function or each possible type should provide an IsTypeOf function.",
			abstractType.Name, info.ParentType.Name, info.FieldName, abstractType.Name), fieldNodes, path)
	}
	runtimeType := introspection.LookupType(ec.schema, typeName)
	if runtimeType == nil {
		return nil, ec.locatedError(fmt.Errorf(
			"Abstract type %q was resolved to a type %q that does not exist inside the schema.",
			abstractType.Name, typeName), fieldNodes, path)
	}
	if !runtimeType.IsObjectType() {
		return nil, ec.locatedError(fmt.Errorf(
			"Abstract type %q was resolved to a non-object type %q.",
			abstractType.Name, typeName), fieldNodes, path)
	}
	if !ec.schema.IsSubType(abstractType, runtimeType) {
		return nil, ec.locatedError(fmt.Errorf(
			"Runtime Object type %q is not a possible type for %q.",
			runtimeType.Name, abstractType.Name), fieldNodes, path)
	}
	return ec.completeObjectValue(runtimeType, fieldNodes, info, path, result)
}

func (ec *executionContext) completeObjectValue(
	objectType *schema.Type,
	fieldNodes []*language.Field,
	info schema.ResolveInfo,
	path *schema.ResponsePath,
	result any,
) (any, error) {
	if objectType.IsTypeOf != nil {
		ok := objectType.IsTypeOf(schema.IsTypeOfParams{Context: ec.ctx, Value: result, Info: info})
		if !ok {
			return nil, ec.locatedError(fmt.Errorf("Expected value of type %q but got: %v.", objectType.Name, result), fieldNodes, path)
		}
	}
	subfields := ec.collectSubfields(objectType, fieldNodes)
	m, err := ec.executeFields(objectType, result, path, subfields)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// lookupType resolves the named type of ref, including meta-types.
func (ec *executionContext) lookupType(ref *schema.TypeRef) *schema.Type {
	if t := ec.schema.Resolve(ref); t != nil {
		return t
	}
	if named := ref.Named(); named != nil {
		return introspection.LookupType(ec.schema, named.Name)
	}
	return nil
}

// locatedError attaches the field's locations and path to err unless it is
// already located.
func (ec *executionContext) locatedError(err error, fieldNodes []*language.Field, path *schema.ResponsePath) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		if gqlErr.Path != nil {
			return gqlErr
		}
		located := *gqlErr
		if len(located.Locations) == 0 {
			located.Locations = locations(fieldNodes)
		}
		located.Path = path.AsPath()
		return &located
	}
	return &gqlerror.Error{
		Err:       err,
		Message:   err.Error(),
		Path:      path.AsPath(),
		Locations: locations(fieldNodes),
	}
}

func (ec *executionContext) addError(err error) {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = &gqlerror.Error{Err: err, Message: err.Error()}
	}
	ec.mu.Lock()
	ec.errors = append(ec.errors, gqlErr)
	ec.mu.Unlock()
}

func locations(fieldNodes []*language.Field) []gqlerror.Location {
	out := make([]gqlerror.Location, len(fieldNodes))
	for i, f := range fieldNodes {
		out[i] = location(f.Loc)
	}
	return out
}

func location(loc language.Location) gqlerror.Location {
	return gqlerror.Location{Line: loc.Line, Column: loc.Column}
}

// isNullish returns true for nil interfaces and typed nils (map, slice, ptr, interface)
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
