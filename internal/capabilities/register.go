package capabilities

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/registry"
)

// Register installs the b2bizzio tools, resource, and prompt on reg.
func Register(reg *registry.Registry) error {
	getInfoSchema, err := getInfoInputSchema()
	if err != nil {
		return err
	}

	if err := registry.AddTool(reg, domain.ToolDescriptor{
		Name:        domain.ToolGetInfo,
		Description: "Get information about B2Bizzio services",
		InputSchema: getInfoSchema,
	}, func(_ context.Context, in GetInfoInput) (domain.ToolResult, error) {
		return GetInfo(in), nil
	}); err != nil {
		return err
	}

	if err := registry.AddTool(reg, domain.ToolDescriptor{
		Name:        domain.ToolEcho,
		Description: "Echo a message back to the user",
	}, func(_ context.Context, in EchoInput) (domain.ToolResult, error) {
		return Echo(in), nil
	}); err != nil {
		return err
	}

	if err := reg.AddResource(domain.ResourceDescriptor{
		Name:        domain.ResourceWelcome,
		URI:         domain.ResourceWelcomeURI,
		Description: "Welcome message for B2Bizzio MCP server",
		MIMEType:    domain.MIMETypeText,
	}, func(context.Context) (domain.ResourceContents, error) {
		return Welcome(), nil
	}); err != nil {
		return err
	}

	return registry.AddPrompt(reg, domain.PromptDescriptor{
		Name:        domain.PromptBusinessAnalysis,
		Description: "Generate a business analysis prompt",
		Arguments: []domain.PromptArgument{
			{Name: "company", Description: "The company name to analyze", Required: true},
		},
	}, func(_ context.Context, in BusinessAnalysisInput) (domain.PromptResult, error) {
		return BusinessAnalysis(in), nil
	})
}

// getInfoInputSchema is the derived schema with topic tightened to non-empty.
func getInfoInputSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[GetInfoInput](nil)
	if err != nil {
		return nil, fmt.Errorf("derive get_info schema: %w", err)
	}
	topic, ok := schema.Properties["topic"]
	if !ok {
		return nil, fmt.Errorf("derive get_info schema: missing topic property")
	}
	minLength := 1
	topic.MinLength = &minLength
	return schema, nil
}
