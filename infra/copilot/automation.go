// Package copilot declares the OpsCopilot stack.
//
// This file contains the SSM Automation document run by the approver.
package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
	"github.com/lex00/opscopilot-aws-go/resources/ssm"
)

// IncreaseConcurrencyStep sets provisioned concurrency on $LATEST.
var IncreaseConcurrencyStep = Json{
	"name":   "increaseConcurrency",
	"action": "aws:lambda:putProvisionedConcurrencyConfig",
	"inputs": Json{
		"FunctionName":                    "{{FunctionName}}",
		"Qualifier":                       "$LATEST",
		"ProvisionedConcurrentExecutions": "{{Concurrency}}",
	},
}

// SafeActionContent is the Automation document body.
var SafeActionContent = Json{
	"schemaVersion": "0.3",
	"description":   "Sample action to increase provisioned concurrency on a named Lambda",
	"parameters": Json{
		"FunctionName": Json{
			"type":        "String",
			"description": "Name of the Lambda function",
		},
		"Concurrency": Json{
			"type":        "String",
			"description": "New concurrency value",
		},
	},
	"mainSteps": []any{IncreaseConcurrencyStep},
}

// CopilotSafeAction is the only automation the approver may start.
var CopilotSafeAction = ssm.Document{
	DocumentType: ssm.DocumentTypeAutomation,
	Content:      SafeActionContent,
}
