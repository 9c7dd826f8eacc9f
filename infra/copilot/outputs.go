// Package copilot declares the OpsCopilot stack.
//
// This file contains the exported stack outputs.
package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
)

// EventBusArn lets producers in other stacks publish to the bus.
var EventBusArn = Output{
	Description: "ARN of the OpsCopilot event bus",
	Value:       OpsCopilotBus.Arn,
	ExportName:  "OpsCopilotEventBusArn",
}

// RunbooksBucket is where runbooks are published.
var RunbooksBucket = Output{
	Description: "Name of the runbooks bucket",
	Value:       CopilotRunbooks,
	ExportName:  "OpsCopilotRunbooksBucket",
}

// ArtifactsBucket is where triage artifacts land.
var ArtifactsBucket = Output{
	Description: "Name of the artifacts bucket",
	Value:       CopilotArtifacts,
	ExportName:  "OpsCopilotArtifactsBucket",
}

// IncidentTable is the incident timeline table name.
var IncidentTable = Output{
	Description: "Name of the incident timeline table",
	Value:       IncidentTimeline,
	ExportName:  "OpsCopilotIncidentTable",
}
