package otel

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/hanpama/gqlcore/internal/eventbus"
	"github.com/hanpama/gqlcore/internal/events"
	"github.com/hanpama/gqlcore/internal/reqid"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "gqlcore")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestRegister_RequestSpans(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	unsubscribe := Register(tp.Tracer("test"))
	defer unsubscribe()

	ctx, _ := reqid.NewContext(context.Background())
	req := httptest.NewRequest("POST", "/graphql", nil)
	eventbus.Publish(ctx, events.HTTPStart{Request: req})
	eventbus.Publish(ctx, events.GraphQLStart{OperationName: "Hero", OperationType: "query"})
	eventbus.Publish(ctx, events.GraphQLFinish{OperationName: "Hero", Errors: gqlerror.List{gqlerror.Errorf("boom")}})
	eventbus.Publish(ctx, events.HTTPFinish{Request: req, Status: 200})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	gql, http := spans[0], spans[1]
	require.Equal(t, "graphql.operation", gql.Name())
	require.Equal(t, "http.request", http.Name())
	require.Equal(t, http.SpanContext().SpanID(), gql.Parent().SpanID())
	require.Contains(t, gql.Attributes(), attribute.String("graphql.operation.name", "Hero"))
	require.Contains(t, gql.Attributes(), attribute.Int("graphql.error_count", 1))
	require.Len(t, gql.Events(), 1)
}

func TestRegister_IgnoresUnknownRequests(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer Register(tp.Tracer("test"))()

	ctx, _ := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.GraphQLFinish{})
	eventbus.Publish(ctx, events.HTTPFinish{Status: 200})
	require.Empty(t, recorder.Ended())
}
