package telemetry

import (
	"time"

	"go.uber.org/zap"

	"b2bizzio/internal/domain"
)

const (
	FieldEvent      = "event"
	FieldCapability = "capability"
	FieldKind       = "kind"
	FieldMethod     = "method"
	FieldState      = "state"
	FieldDurationMs = "duration_ms"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
)

const (
	EventConnectAttempt  = "connect_attempt"
	EventConnectSuccess  = "connect_success"
	EventConnectFailure  = "connect_failure"
	EventClientClosed    = "client_closed"
	EventShutdownSignal  = "shutdown_signal"
	EventDrainTimeout    = "drain_timeout"
	EventCloseFailure    = "close_failure"
	EventRequestComplete = "request_complete"
	EventRequestFailure  = "request_failure"
	EventConfigReload    = "config_reload"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func CapabilityField(name string) zap.Field {
	return zap.String(FieldCapability, name)
}

func KindField(kind domain.CapabilityKind) zap.Field {
	return zap.String(FieldKind, string(kind))
}

func MethodField(method string) zap.Field {
	return zap.String(FieldMethod, method)
}

func StateField(state domain.LifecycleState) zap.Field {
	return zap.String(FieldState, string(state))
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func TraceIDField(value string) zap.Field {
	return zap.String(FieldTraceID, value)
}

func SpanIDField(value string) zap.Field {
	return zap.String(FieldSpanID, value)
}
