package domain

const (
	DefaultServerName                 = "b2bizzio-mcp-server"
	DefaultServerVersion              = "1.0.0"
	DefaultLogLevel                   = "info"
	DefaultDrainTimeoutSeconds        = 5
	DefaultObservabilityListenAddress = "127.0.0.1:9464"
)

const (
	ToolGetInfo            = "get_info"
	ToolEcho               = "echo"
	ResourceWelcome        = "welcome"
	ResourceWelcomeURI     = "b2bizzio://welcome"
	PromptBusinessAnalysis = "business_analysis"
	MIMETypeText           = "text/plain"
)

const (
	BannerRunning  = "B2Bizzio MCP Server is running..."
	BannerShutdown = "Shutting down B2Bizzio MCP Server..."
)
