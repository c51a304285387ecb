package reqid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, id, got)

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	_, ok = FromContext(context.Background())
	require.False(t, ok)
}

func TestWithID(t *testing.T) {
	const supplied = "6f1c2a4e-8d0b-4b7e-9a51-3c2d1e0f9a8b"
	got, _ := FromContext(WithID(context.Background(), supplied))
	require.Equal(t, supplied, got)

	got, _ = FromContext(WithID(context.Background(), "not-a-uuid"))
	require.NotEqual(t, "not-a-uuid", got)
	_, err := uuid.Parse(got)
	require.NoError(t, err)
}
