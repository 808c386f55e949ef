package telemetry

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type requestContextKey struct{}

// RequestMeta identifies one incoming MCP request in logs.
type RequestMeta struct {
	RequestID  string
	Method     string
	Capability string
	TraceID    string
	SpanID     string
}

func (m RequestMeta) IsZero() bool {
	return m.RequestID == "" && m.TraceID == "" && m.SpanID == ""
}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	if meta.IsZero() {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestContextKey{}, meta)
}

func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	if ctx == nil {
		return RequestMeta{}, false
	}
	meta, ok := ctx.Value(requestContextKey{}).(RequestMeta)
	return meta, ok && !meta.IsZero()
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	meta, ok := RequestMetaFromContext(ctx)
	if !ok || meta.RequestID == "" {
		return "", false
	}
	return meta.RequestID, true
}

func NewRequestID() string {
	return uuid.NewString()
}

func TraceSpanFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return "", ""
	}
	return spanCtx.TraceID().String(), spanCtx.SpanID().String()
}

// StartRequest attaches a fresh request id plus any active trace ids to ctx.
// An id already present on ctx is kept.
func StartRequest(ctx context.Context, method, capability string) (context.Context, RequestMeta) {
	requestID := ""
	if existing, ok := RequestMetaFromContext(ctx); ok {
		requestID = existing.RequestID
	}
	if requestID == "" {
		requestID = NewRequestID()
	}
	traceID, spanID := TraceSpanFromContext(ctx)
	meta := RequestMeta{
		RequestID:  requestID,
		Method:     method,
		Capability: capability,
		TraceID:    traceID,
		SpanID:     spanID,
	}
	return WithRequestMeta(ctx, meta), meta
}

func RequestFields(meta RequestMeta) []zap.Field {
	if meta.IsZero() {
		return nil
	}
	fields := make([]zap.Field, 0, 5)
	if meta.RequestID != "" {
		fields = append(fields, RequestIDField(meta.RequestID))
	}
	if meta.Method != "" {
		fields = append(fields, MethodField(meta.Method))
	}
	if meta.Capability != "" {
		fields = append(fields, CapabilityField(meta.Capability))
	}
	if meta.TraceID != "" {
		fields = append(fields, TraceIDField(meta.TraceID))
	}
	if meta.SpanID != "" {
		fields = append(fields, SpanIDField(meta.SpanID))
	}
	return fields
}

// LoggerWithRequest returns base annotated with the request on ctx, if any.
func LoggerWithRequest(ctx context.Context, base *zap.Logger) *zap.Logger {
	logger := base
	if logger == nil {
		logger = zap.NewNop()
	}
	meta, ok := RequestMetaFromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(RequestFields(meta)...)
}
