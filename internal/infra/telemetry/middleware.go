package telemetry

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
)

// RequestMiddleware tags every incoming request with a request id, logs its
// outcome, and records capability metrics.
func RequestMiddleware(logger *zap.Logger, metrics domain.Metrics) mcp.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	logger = logger.Named("requests")

	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			kind, name := capabilityOf(req)
			ctx, _ = StartRequest(ctx, method, name)
			reqLogger := LoggerWithRequest(ctx, logger)

			metrics.AddInflightRequests(1)
			start := time.Now()
			result, err := next(ctx, method, req)
			duration := time.Since(start)
			metrics.AddInflightRequests(-1)

			status := domain.CallStatusSuccess
			if err != nil || isToolError(result) {
				status = domain.CallStatusError
			}
			if kind != "" {
				metrics.ObserveCapability(domain.CapabilityMetric{
					Kind:     kind,
					Name:     name,
					Status:   status,
					Duration: duration,
				})
			}

			switch {
			case err != nil:
				reqLogger.Warn("request failed",
					EventField(EventRequestFailure),
					DurationField(duration),
					zap.Error(err),
				)
			case status == domain.CallStatusError:
				reqLogger.Warn("tool returned error result",
					EventField(EventRequestFailure),
					DurationField(duration),
				)
			default:
				reqLogger.Debug("request complete",
					EventField(EventRequestComplete),
					DurationField(duration),
				)
			}
			return result, err
		}
	}
}

func capabilityOf(req mcp.Request) (domain.CapabilityKind, string) {
	switch r := req.(type) {
	case *mcp.CallToolRequest:
		if r.Params != nil {
			return domain.KindTool, r.Params.Name
		}
		return domain.KindTool, ""
	case *mcp.GetPromptRequest:
		if r.Params != nil {
			return domain.KindPrompt, r.Params.Name
		}
		return domain.KindPrompt, ""
	case *mcp.ReadResourceRequest:
		if r.Params != nil {
			return domain.KindResource, r.Params.URI
		}
		return domain.KindResource, ""
	default:
		return "", ""
	}
}

func isToolError(result mcp.Result) bool {
	res, ok := result.(*mcp.CallToolResult)
	return ok && res != nil && res.IsError
}
