package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/mcpcodec"
)

// ToolFunc is the body of a tool. It only ever sees input that passed the
// schema and In.Validate.
type ToolFunc[In domain.Validator] func(ctx context.Context, in In) (domain.ToolResult, error)

type toolInvoker func(ctx context.Context, args json.RawMessage) (domain.ToolResult, error)

// AddTool registers a typed tool. When desc.InputSchema is nil it is derived
// from In; either way it must describe a JSON object.
func AddTool[In domain.Validator](r *Registry, desc domain.ToolDescriptor, fn ToolFunc[In]) error {
	const op = "registry.AddTool"
	if fn == nil {
		return domain.E(domain.CodeInvalidArgument, op, "handler is required", domain.ErrInvalidArgument)
	}
	if desc.InputSchema == nil {
		schema, err := jsonschema.For[In](nil)
		if err != nil {
			return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("derive input schema for %q: %v", desc.Name, err), domain.ErrInvalidInputSchema)
		}
		desc.InputSchema = schema
	}
	if !isObjectSchema(desc.InputSchema) {
		return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("tool %q", desc.Name), domain.ErrInvalidInputSchema)
	}
	resolved, err := desc.InputSchema.Resolve(nil)
	if err != nil {
		return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("resolve input schema for %q: %v", desc.Name, err), domain.ErrInvalidInputSchema)
	}

	invoke := newToolInvoker(desc.Name, resolved, fn)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.reserveLocked(domain.KindTool, desc.Name, op); err != nil {
		return err
	}
	logger := r.logger
	r.tools = append(r.tools, toolEntry{
		desc:   desc,
		invoke: invoke,
		bind: func(server *mcp.Server) {
			server.AddTool(mcpcodec.ToolToMCP(desc), toolHandler(desc.Name, invoke, logger))
		},
	})
	r.logger.Debug("tool registered", zap.String("capability", desc.Name))
	return nil
}

// CallTool invokes a registered tool in-process with raw JSON arguments.
func (r *Registry) CallTool(ctx context.Context, name string, args json.RawMessage) (domain.ToolResult, error) {
	r.mu.Lock()
	var invoke toolInvoker
	for _, entry := range r.tools {
		if entry.desc.Name == name {
			invoke = entry.invoke
			break
		}
	}
	r.mu.Unlock()
	if invoke == nil {
		return domain.ToolResult{}, domain.E(domain.CodeNotFound, "registry.CallTool",
			fmt.Sprintf("tool %q not found", name), domain.ErrCapabilityNotFound)
	}
	return invoke(ctx, args)
}

func newToolInvoker[In domain.Validator](name string, resolved *jsonschema.Resolved, fn ToolFunc[In]) toolInvoker {
	return func(ctx context.Context, args json.RawMessage) (domain.ToolResult, error) {
		if len(args) == 0 || string(args) == "null" {
			args = json.RawMessage("{}")
		}
		var instance any
		if err := json.Unmarshal(args, &instance); err != nil {
			return domain.ToolResult{}, invalidParams(name, err)
		}
		if err := resolved.Validate(instance); err != nil {
			return domain.ToolResult{}, invalidParams(name, err)
		}
		var in In
		if err := json.Unmarshal(args, &in); err != nil {
			return domain.ToolResult{}, invalidParams(name, err)
		}
		if err := in.Validate(); err != nil {
			return domain.ToolResult{}, invalidParams(name, err)
		}
		return fn(ctx, in)
	}
}

// toolHandler adapts an invoker to the SDK. Argument problems become
// protocol errors; handler failures become tool error results.
func toolHandler(name string, invoke toolInvoker, logger *zap.Logger) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		result, err := invoke(ctx, args)
		if err != nil {
			var wireErr *jsonrpc.Error
			if errors.As(err, &wireErr) {
				return nil, wireErr
			}
			logger.Warn("tool handler failed", zap.String("capability", name), zap.Error(err))
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil
		}
		return mcpcodec.ToolResultToMCP(result), nil
	}
}

func invalidParams(name string, err error) error {
	return &jsonrpc.Error{
		Code:    jsonrpc.CodeInvalidParams,
		Message: fmt.Sprintf("invalid arguments for %q: %v", name, err),
	}
}

func isObjectSchema(schema *jsonschema.Schema) bool {
	return schema != nil && schema.Type == "object"
}
