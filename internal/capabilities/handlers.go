package capabilities

import (
	"errors"
	"fmt"

	"b2bizzio/internal/domain"
)

const (
	getInfoTemplate          = "Information about %s: This is a sample B2Bizzio MCP server. You can extend this to provide real business intelligence and data services."
	echoPrefix               = "Echo: "
	welcomeText              = "Welcome to B2Bizzio MCP Server! This server provides business intelligence tools and data access."
	businessAnalysisTemplate = "Please provide a comprehensive business analysis for %s, including market position, competitive advantages, and growth opportunities."
	businessAnalysisDescFmt  = "Business analysis prompt for %s"
)

var (
	errEmptyTopic   = errors.New("topic must be a non-empty string")
	errEmptyCompany = errors.New("company must be a non-empty string")
)

type GetInfoInput struct {
	Topic string `json:"topic" jsonschema:"The topic to get information about"`
}

func (in GetInfoInput) Validate() error {
	if in.Topic == "" {
		return errEmptyTopic
	}
	return nil
}

// GetInfo embeds the topic verbatim in a fixed informational text.
func GetInfo(in GetInfoInput) domain.ToolResult {
	return domain.ToolResult{
		Content: []domain.Content{domain.TextContent(fmt.Sprintf(getInfoTemplate, in.Topic))},
	}
}

type EchoInput struct {
	Message string `json:"message" jsonschema:"The message to echo back"`
}

// Validate accepts any string, the empty one included.
func (EchoInput) Validate() error { return nil }

func Echo(in EchoInput) domain.ToolResult {
	return domain.ToolResult{
		Content: []domain.Content{domain.TextContent(echoPrefix + in.Message)},
	}
}

// Welcome returns the constant welcome resource payload.
func Welcome() domain.ResourceContents {
	return domain.ResourceContents{
		URI:      domain.ResourceWelcomeURI,
		MIMEType: domain.MIMETypeText,
		Text:     welcomeText,
	}
}

type BusinessAnalysisInput struct {
	Company string `json:"company"`
}

func (in BusinessAnalysisInput) Validate() error {
	if in.Company == "" {
		return errEmptyCompany
	}
	return nil
}

// BusinessAnalysis renders a single user message asking for an analysis of the company.
func BusinessAnalysis(in BusinessAnalysisInput) domain.PromptResult {
	return domain.PromptResult{
		Description: fmt.Sprintf(businessAnalysisDescFmt, in.Company),
		Messages: []domain.PromptMessage{
			{
				Role:    domain.RoleUser,
				Content: domain.TextContent(fmt.Sprintf(businessAnalysisTemplate, in.Company)),
			},
		},
	}
}
