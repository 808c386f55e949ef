package mcpcodec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"b2bizzio/internal/domain"
)

// ToolToMCP converts a domain tool descriptor to the SDK wire type.
func ToolToMCP(tool domain.ToolDescriptor) *mcp.Tool {
	out := &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
	}
	if tool.InputSchema != nil {
		out.InputSchema = tool.InputSchema
	}
	return out
}

// ResourceToMCP converts a domain resource descriptor to the SDK wire type.
func ResourceToMCP(resource domain.ResourceDescriptor) *mcp.Resource {
	return &mcp.Resource{
		Name:        resource.Name,
		URI:         resource.URI,
		Description: resource.Description,
		MIMEType:    resource.MIMEType,
	}
}

// PromptToMCP converts a domain prompt descriptor to the SDK wire type.
func PromptToMCP(prompt domain.PromptDescriptor) *mcp.Prompt {
	return &mcp.Prompt{
		Name:        prompt.Name,
		Description: prompt.Description,
		Arguments:   promptArgumentsToMCP(prompt.Arguments),
	}
}

// ToolResultToMCP converts handler output to a call result.
func ToolResultToMCP(result domain.ToolResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Content))
	for _, item := range result.Content {
		content = append(content, ContentToMCP(item))
	}
	return &mcp.CallToolResult{Content: content}
}

// ResourceContentsToMCP converts a resource payload to a read result.
func ResourceContentsToMCP(contents domain.ResourceContents) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      contents.URI,
			MIMEType: contents.MIMEType,
			Text:     contents.Text,
		}},
	}
}

// PromptResultToMCP converts prompt output to a get-prompt result.
func PromptResultToMCP(result domain.PromptResult) *mcp.GetPromptResult {
	messages := make([]*mcp.PromptMessage, 0, len(result.Messages))
	for _, msg := range result.Messages {
		messages = append(messages, &mcp.PromptMessage{
			Role:    mcp.Role(msg.Role),
			Content: ContentToMCP(msg.Content),
		})
	}
	return &mcp.GetPromptResult{
		Description: result.Description,
		Messages:    messages,
	}
}

// ContentToMCP converts a content item. Unknown kinds degrade to text.
func ContentToMCP(content domain.Content) mcp.Content {
	return &mcp.TextContent{Text: content.Text}
}

// HashCapabilitySet returns a deterministic fingerprint of the wire form of
// every registered descriptor, in registration order.
func HashCapabilitySet(set domain.CapabilitySet) (string, error) {
	hasher := sha256.New()
	for i, tool := range set.Tools {
		raw, err := json.Marshal(ToolToMCP(tool))
		if err != nil {
			return "", fmt.Errorf("marshal tool %d: %w", i, err)
		}
		_, _ = hasher.Write(raw)
		_, _ = hasher.Write([]byte{0})
	}
	for i, resource := range set.Resources {
		raw, err := json.Marshal(ResourceToMCP(resource))
		if err != nil {
			return "", fmt.Errorf("marshal resource %d: %w", i, err)
		}
		_, _ = hasher.Write(raw)
		_, _ = hasher.Write([]byte{0})
	}
	for i, prompt := range set.Prompts {
		raw, err := json.Marshal(PromptToMCP(prompt))
		if err != nil {
			return "", fmt.Errorf("marshal prompt %d: %w", i, err)
		}
		_, _ = hasher.Write(raw)
		_, _ = hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func promptArgumentsToMCP(args []domain.PromptArgument) []*mcp.PromptArgument {
	if len(args) == 0 {
		return nil
	}
	out := make([]*mcp.PromptArgument, 0, len(args))
	for _, arg := range args {
		out = append(out, &mcp.PromptArgument{
			Name:        arg.Name,
			Description: arg.Description,
			Required:    arg.Required,
		})
	}
	return out
}
