// Package errcode holds the fixed vocabulary of error codes reported in
// extensions.code of a GraphQL response.
package errcode

import (
	"errors"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

const (
	BadUserInput               = "BAD_USER_INPUT"
	ValidationFailed           = "GRAPHQL_VALIDATION_FAILED"
	InternalServerError        = "INTERNAL_SERVER_ERROR"
	ParseFailed                = "GRAPHQL_PARSE_FAILED"
	PersistedQueryNotFound     = "PERSISTED_QUERY_NOT_FOUND"
	OperationResolutionFailure = "OPERATION_RESOLUTION_FAILURE"
)

// Set tags err with code, keeping any other extensions already present.
func Set(err *gqlerror.Error, code string) *gqlerror.Error {
	if err == nil {
		return nil
	}
	if err.Extensions == nil {
		err.Extensions = map[string]any{}
	}
	err.Extensions["code"] = code
	return err
}

// SetIfUnset tags err with code unless it already carries one.
func SetIfUnset(err *gqlerror.Error, code string) *gqlerror.Error {
	if err == nil {
		return nil
	}
	if _, ok := err.Extensions["code"]; ok {
		return err
	}
	return Set(err, code)
}

// Get returns the code carried by err, or "" when it has none.
func Get(err error) string {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		return ""
	}
	code, _ := gqlErr.Extensions["code"].(string)
	return code
}

// Errorf builds a located-less error tagged with code.
func Errorf(code string, format string, args ...any) *gqlerror.Error {
	return Set(gqlerror.Errorf(format, args...), code)
}
