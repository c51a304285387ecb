package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func TestSetKeepsOtherExtensions(t *testing.T) {
	err := &gqlerror.Error{Message: "boom", Extensions: map[string]any{"retry": true}}
	Set(err, BadUserInput)
	require.Equal(t, map[string]any{"retry": true, "code": BadUserInput}, err.Extensions)

	require.Nil(t, Set(nil, BadUserInput))
}

func TestSetIfUnset(t *testing.T) {
	err := Errorf(ParseFailed, "Syntax Error: %s", "Unexpected <EOF>.")
	require.Equal(t, "Syntax Error: Unexpected <EOF>.", err.Message)

	SetIfUnset(err, ValidationFailed)
	require.Equal(t, ParseFailed, Get(err))

	plain := gqlerror.Errorf("plain")
	SetIfUnset(plain, ValidationFailed)
	require.Equal(t, ValidationFailed, Get(plain))
}

func TestGet(t *testing.T) {
	require.Equal(t, "", Get(errors.New("not graphql")))
	require.Equal(t, "", Get(gqlerror.Errorf("uncoded")))

	wrapped := fmt.Errorf("request: %w", Errorf(PersistedQueryNotFound, "PersistedQueryNotFound"))
	require.Equal(t, PersistedQueryNotFound, Get(wrapped))
}
