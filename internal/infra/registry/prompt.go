package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/mcpcodec"
)

// PromptFunc renders a prompt from validated arguments.
type PromptFunc[In domain.Validator] func(ctx context.Context, in In) (domain.PromptResult, error)

type promptInvoker func(ctx context.Context, args map[string]string) (domain.PromptResult, error)

// AddPrompt registers a typed prompt. Arguments arrive as a string map and are
// decoded into In by their JSON field names.
func AddPrompt[In domain.Validator](r *Registry, desc domain.PromptDescriptor, fn PromptFunc[In]) error {
	const op = "registry.AddPrompt"
	if fn == nil {
		return domain.E(domain.CodeInvalidArgument, op, "handler is required", domain.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(desc.Arguments))
	for _, arg := range desc.Arguments {
		if arg.Name == "" {
			return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("prompt %q has an unnamed argument", desc.Name), domain.ErrInvalidArgument)
		}
		if _, ok := seen[arg.Name]; ok {
			return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("prompt %q repeats argument %q", desc.Name, arg.Name), domain.ErrInvalidArgument)
		}
		seen[arg.Name] = struct{}{}
	}

	invoke := newPromptInvoker(desc, fn)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.reserveLocked(domain.KindPrompt, desc.Name, op); err != nil {
		return err
	}
	r.prompts = append(r.prompts, promptEntry{
		desc:   desc,
		invoke: invoke,
		bind: func(server *mcp.Server) {
			server.AddPrompt(mcpcodec.PromptToMCP(desc), promptHandler(invoke))
		},
	})
	r.logger.Debug("prompt registered", zap.String("capability", desc.Name))
	return nil
}

// GetPrompt renders a registered prompt in-process.
func (r *Registry) GetPrompt(ctx context.Context, name string, args map[string]string) (domain.PromptResult, error) {
	r.mu.Lock()
	var invoke promptInvoker
	for _, entry := range r.prompts {
		if entry.desc.Name == name {
			invoke = entry.invoke
			break
		}
	}
	r.mu.Unlock()
	if invoke == nil {
		return domain.PromptResult{}, domain.E(domain.CodeNotFound, "registry.GetPrompt",
			fmt.Sprintf("prompt %q not found", name), domain.ErrCapabilityNotFound)
	}
	return invoke(ctx, args)
}

func newPromptInvoker[In domain.Validator](desc domain.PromptDescriptor, fn PromptFunc[In]) promptInvoker {
	return func(ctx context.Context, args map[string]string) (domain.PromptResult, error) {
		for _, arg := range desc.Arguments {
			if !arg.Required {
				continue
			}
			if _, ok := args[arg.Name]; !ok {
				return domain.PromptResult{}, invalidParams(desc.Name, fmt.Errorf("missing required argument %q", arg.Name))
			}
		}
		if args == nil {
			args = map[string]string{}
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return domain.PromptResult{}, invalidParams(desc.Name, err)
		}
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return domain.PromptResult{}, invalidParams(desc.Name, err)
		}
		if err := in.Validate(); err != nil {
			return domain.PromptResult{}, invalidParams(desc.Name, err)
		}
		return fn(ctx, in)
	}
}

func promptHandler(invoke promptInvoker) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		result, err := invoke(ctx, args)
		if err != nil {
			return nil, err
		}
		return mcpcodec.PromptResultToMCP(result), nil
	}
}
