package registry

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/mcpcodec"
)

// ResourceFunc produces the payload of a static resource.
type ResourceFunc func(ctx context.Context) (domain.ResourceContents, error)

type toolEntry struct {
	desc   domain.ToolDescriptor
	invoke toolInvoker
	bind   func(server *mcp.Server)
}

type resourceEntry struct {
	desc    domain.ResourceDescriptor
	handler ResourceFunc
}

type promptEntry struct {
	desc   domain.PromptDescriptor
	invoke promptInvoker
	bind   func(server *mcp.Server)
}

// Registry is the capability table of one server process. Entries are added
// once at startup; Bind seals the table and installs it on an SDK server.
type Registry struct {
	logger *zap.Logger

	mu        sync.Mutex
	sealed    bool
	tools     []toolEntry
	resources []resourceEntry
	prompts   []promptEntry
	names     map[domain.CapabilityKind]map[string]struct{}
}

func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger.Named("registry"),
		names: map[domain.CapabilityKind]map[string]struct{}{
			domain.KindTool:     {},
			domain.KindResource: {},
			domain.KindPrompt:   {},
		},
	}
}

// AddResource registers a static resource. The URI must carry a scheme and is
// unique among resources, as is the name.
func (r *Registry) AddResource(desc domain.ResourceDescriptor, handler ResourceFunc) error {
	if handler == nil {
		return domain.E(domain.CodeInvalidArgument, "registry.AddResource", "handler is required", domain.ErrInvalidArgument)
	}
	if err := validResourceURI(desc.URI); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.reserveLocked(domain.KindResource, desc.Name, "registry.AddResource"); err != nil {
		return err
	}
	for _, existing := range r.resources {
		if existing.desc.URI == desc.URI {
			delete(r.names[domain.KindResource], desc.Name)
			return domain.E(domain.CodeAlreadyExists, "registry.AddResource",
				fmt.Sprintf("resource uri %q already registered", desc.URI), domain.ErrDuplicateCapability)
		}
	}
	r.resources = append(r.resources, resourceEntry{desc: desc, handler: handler})
	r.logger.Debug("resource registered", zap.String("capability", desc.Name), zap.String("uri", desc.URI))
	return nil
}

// Bind installs every registered capability on server and seals the registry.
// A registry binds at most once.
func (r *Registry) Bind(server *mcp.Server) error {
	if server == nil {
		return domain.E(domain.CodeInvalidArgument, "registry.Bind", "server is required", domain.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return domain.E(domain.CodeFailedPrecond, "registry.Bind", "registry already bound", domain.ErrRegistrySealed)
	}
	r.sealed = true

	for _, entry := range r.tools {
		entry.bind(server)
	}
	for _, entry := range r.resources {
		server.AddResource(mcpcodec.ResourceToMCP(entry.desc), resourceHandler(entry.desc, entry.handler))
	}
	for _, entry := range r.prompts {
		entry.bind(server)
	}

	r.logger.Info("capabilities bound",
		zap.Int("tools", len(r.tools)),
		zap.Int("resources", len(r.resources)),
		zap.Int("prompts", len(r.prompts)),
	)
	return nil
}

// Sealed reports whether Bind has run.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

func (r *Registry) Tools() []domain.ToolDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ToolDescriptor, 0, len(r.tools))
	for _, entry := range r.tools {
		out = append(out, entry.desc)
	}
	return out
}

func (r *Registry) Resources() []domain.ResourceDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ResourceDescriptor, 0, len(r.resources))
	for _, entry := range r.resources {
		out = append(out, entry.desc)
	}
	return out
}

func (r *Registry) Prompts() []domain.PromptDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PromptDescriptor, 0, len(r.prompts))
	for _, entry := range r.prompts {
		out = append(out, entry.desc)
	}
	return out
}

// Descriptors returns every registered descriptor in registration order.
func (r *Registry) Descriptors() domain.CapabilitySet {
	return domain.CapabilitySet{
		Tools:     r.Tools(),
		Resources: r.Resources(),
		Prompts:   r.Prompts(),
	}
}

// ReadResource invokes a registered resource producer by URI without a transport.
func (r *Registry) ReadResource(ctx context.Context, uri string) (domain.ResourceContents, error) {
	r.mu.Lock()
	var found *resourceEntry
	for i := range r.resources {
		if r.resources[i].desc.URI == uri {
			found = &r.resources[i]
			break
		}
	}
	r.mu.Unlock()
	if found == nil {
		return domain.ResourceContents{}, domain.E(domain.CodeNotFound, "registry.ReadResource",
			fmt.Sprintf("resource %q not found", uri), domain.ErrCapabilityNotFound)
	}
	return readResource(ctx, found.desc, found.handler)
}

func (r *Registry) reserveLocked(kind domain.CapabilityKind, name, op string) error {
	if r.sealed {
		return domain.E(domain.CodeFailedPrecond, op, "registry already bound", domain.ErrRegistrySealed)
	}
	if name == "" {
		return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("%s name is required", kind), domain.ErrInvalidArgument)
	}
	if _, ok := r.names[kind][name]; ok {
		return domain.E(domain.CodeAlreadyExists, op,
			fmt.Sprintf("%s %q already registered", kind, name), domain.ErrDuplicateCapability)
	}
	r.names[kind][name] = struct{}{}
	return nil
}

func resourceHandler(desc domain.ResourceDescriptor, handler ResourceFunc) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		contents, err := readResource(ctx, desc, handler)
		if err != nil {
			return nil, err
		}
		return mcpcodec.ResourceContentsToMCP(contents), nil
	}
}

func readResource(ctx context.Context, desc domain.ResourceDescriptor, handler ResourceFunc) (domain.ResourceContents, error) {
	contents, err := handler(ctx)
	if err != nil {
		return domain.ResourceContents{}, err
	}
	if contents.URI == "" {
		contents.URI = desc.URI
	}
	if contents.MIMEType == "" {
		contents.MIMEType = desc.MIMEType
	}
	return contents, nil
}

func validResourceURI(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return domain.E(domain.CodeInvalidArgument, "registry.AddResource",
			fmt.Sprintf("parse uri %q: %v", raw, err), domain.ErrInvalidResourceURI)
	}
	if parsed.Scheme == "" {
		return domain.E(domain.CodeInvalidArgument, "registry.AddResource",
			fmt.Sprintf("uri %q has no scheme", raw), domain.ErrInvalidResourceURI)
	}
	return nil
}
