package domain

import "github.com/google/jsonschema-go/jsonschema"

// CapabilityKind names the category a capability is registered under.
// Names are unique within a kind, not across kinds.
type CapabilityKind string

const (
	KindTool     CapabilityKind = "tool"
	KindResource CapabilityKind = "resource"
	KindPrompt   CapabilityKind = "prompt"
)

// Validator is implemented by typed capability inputs. Validate runs after
// the input was decoded and before the handler body.
type Validator interface {
	Validate() error
}

// ToolDescriptor describes a tool callable by clients.
type ToolDescriptor struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema,omitempty" yaml:"-"`
}

// ResourceDescriptor describes a static resource addressed by URI.
type ResourceDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	URI         string `json:"uri" yaml:"uri"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	MIMEType    string `json:"mimeType" yaml:"mimeType"`
}

// PromptArgument describes one named prompt input.
type PromptArgument struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
}

// PromptDescriptor describes a prompt template.
type PromptDescriptor struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Arguments   []PromptArgument `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// CapabilitySet lists every registered descriptor in registration order.
type CapabilitySet struct {
	Tools     []ToolDescriptor     `json:"tools" yaml:"tools"`
	Resources []ResourceDescriptor `json:"resources" yaml:"resources"`
	Prompts   []PromptDescriptor   `json:"prompts" yaml:"prompts"`
}

// ContentKind tags a content item. Only text is produced today.
type ContentKind string

const ContentText ContentKind = "text"

type Content struct {
	Kind ContentKind `json:"type"`
	Text string      `json:"text"`
}

func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

type ToolResult struct {
	Content []Content `json:"content"`
}

type ResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type PromptMessage struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

type PromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
}
