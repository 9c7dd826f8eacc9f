package copilot

const (
	// DefaultBedrockModel is used when BedrockModel is not overridden.
	DefaultBedrockModel = "anthropic.claude-v2"

	// MetricsNamespace is the only namespace the approver may publish to.
	MetricsNamespace = "CopilotOps"

	// EventBusName is the physical name of OpsCopilotBus.
	EventBusName = "ops-copilot-bus"

	// FunctionRuntime is shared by both handlers.
	FunctionRuntime = "python3.9"

	// FunctionTimeout is the handler timeout in seconds.
	FunctionTimeout = 300
)
