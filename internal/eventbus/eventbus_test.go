package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type started struct{ name string }
type finished struct{ name string }

func TestBus_DispatchesByType(t *testing.T) {
	b := New()
	var got []string
	On(b, func(_ context.Context, e started) { got = append(got, "a:"+e.name) })
	On(b, func(_ context.Context, e started) { got = append(got, "b:"+e.name) })
	On(b, func(_ context.Context, e finished) { got = append(got, "finished:"+e.name) })

	Emit(context.Background(), b, started{name: "q"})
	Emit(context.Background(), b, finished{name: "q"})
	Emit(context.Background(), b, 42)

	require.Equal(t, []string{"a:q", "b:q", "finished:q"}, got)
}

func TestBus_UnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := New()
	var got []string
	unsubA := On(b, func(_ context.Context, e started) { got = append(got, "a") })
	On(b, func(_ context.Context, e started) { got = append(got, "b") })

	unsubA()
	unsubA()
	Emit(context.Background(), b, started{})
	require.Equal(t, []string{"b"}, got)
}

func TestGlobal(t *testing.T) {
	t.Cleanup(func() { Use(nil) })

	Use(nil)
	calls := 0
	Subscribe(func(context.Context, started) { calls++ })()
	Publish(context.Background(), started{})
	require.Zero(t, calls)

	Use(New())
	unsubscribe := Subscribe(func(context.Context, started) { calls++ })
	Publish(context.Background(), started{})
	unsubscribe()
	Publish(context.Background(), started{})
	require.Equal(t, 1, calls)
}
