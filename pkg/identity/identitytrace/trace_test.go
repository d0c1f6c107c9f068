package identitytrace

import (
	"context"
	"testing"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/identity/identitytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, trace.Tracer) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp.Tracer("test")
}

func TestSpanPerOperation(t *testing.T) {
	sr, tracer := newRecorder(t)
	var inner trace.SpanContext
	fake := &identitytest.Service{
		GetByUsernameFunc: func(ctx context.Context, username string) (*identity.UserRecord, error) {
			inner = trace.SpanContextFromContext(ctx)
			return &identity.UserRecord{Username: username}, nil
		},
	}

	user, err := Wrap(fake, tracer).GetByUsername(context.Background(), "ann")
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "identity.get_by_username", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, spans[0].SpanContext().SpanID(), inner.SpanID())
}

func TestSpanRecordsErrorCode(t *testing.T) {
	sr, tracer := newRecorder(t)
	fake := &identitytest.Service{
		LoginFunc: func(context.Context, string, string) (*identity.CredentialPair, error) {
			return nil, identity.ErrRegistry.New(identity.CodeNotAuthorized)
		},
	}

	_, err := Wrap(fake, tracer).Login(context.Background(), "a@b.com", "secret-password")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("identity.error_code", identity.CodeNotAuthorized.Code))
	for _, kv := range spans[0].Attributes() {
		assert.NotEqual(t, "secret-password", kv.Value.AsString())
	}
}
