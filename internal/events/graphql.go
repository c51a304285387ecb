package events

import (
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// GraphQLStart is emitted once a request has been parsed and validated, just
// before execution.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after execution. Errors holds every error of the
// response, including field errors of a partial result.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        gqlerror.List
	Duration      time.Duration
}

// GraphQLRejected is emitted when a request fails before execution: a
// syntax error, a validation failure or a missing persisted query.
type GraphQLRejected struct {
	Query  string
	Errors gqlerror.List
}
