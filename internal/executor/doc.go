// Package executor runs a parsed GraphQL document against a schema and
// produces a JSON-shaped result with located, path-addressed errors.
//
// # Preparation
//
// Before any field runs, Execute:
//  1. Collects fragment definitions by name and selects the operation: the
//     one named by Params.OperationName, or the only operation of the
//     document.
//  2. Coerces Params.VariableValues against the operation's variable
//     definitions, applying declared defaults.
//  3. Chooses the root type (query or mutation) for the operation.
//
// A failure in any of these steps ends the request: the Result carries errors
// and no data.
//
// # Execution Model
//
// Execution is depth first. For a selection set, collectFields groups the
// selected fields by response key in first-encountered order. Inline
// fragments and fragment spreads contribute their fields when @skip/@include
// allow it and their type condition is the object type or an abstract type
// containing it. Each fragment is visited at most once per collection and a
// spread of an unknown fragment is ignored.
//
// Each response key is then resolved exactly once:
//
//	A. Field lookup
//	   - __schema and __type are answered on the query root only,
//	     __typename on every object type. An unknown field yields null.
//	B. Resolution
//	   - Arguments are coerced against the field definition. Missing
//	     arguments receive their declared default; a missing or null
//	     non-null argument is a field error.
//	   - The resolver is the field's Resolve, else Params.FieldResolver,
//	     else DefaultFieldResolver. A panic is recovered, logged, and
//	     reported as "Internal server error".
//	C. Completion
//	   - The raw value is completed against the declared return type:
//	     non-null, list, leaf, abstract and object types each have their own
//	     step. Objects recurse into their merged sub-selections.
//
// Mutation root fields run one after another. Sibling fields elsewhere may
// run concurrently (WithConcurrency); the result keeps selection order
// regardless of completion order.
//
// # Errors and Partial Success
//
// Completion returns (value, error). An error means the position could not
// produce a value and must be absorbed by the nearest position whose declared
// type is nullable. That position records the error once and becomes null;
// its siblings are unaffected. If no nullable position exists up to the root,
// data is null.
//
// List items follow the same rule with the item type: an error for a nullable
// item nulls that item only, while an error for a non-null item nulls the
// whole list (or bubbles further).
//
// # Abstract Types
//
// A value returned for an interface or union is mapped to a concrete object
// type by the abstract type's ResolveType, else Params.TypeResolver, else
// DefaultTypeResolver. The name must exist, be an object type and be a member
// of the abstract type.
package executor
