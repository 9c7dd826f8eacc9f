// Package copilot declares the OpsCopilot stack: an event bus feeding a
// triage function, runbook and artifact storage, the incident timeline,
// the approval path into SSM Automation, and Slack notifications.
//
// This file contains the template parameters.
package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
)

// ----------------------------------------------------------------------------
// Slack
// ----------------------------------------------------------------------------

// SlackWorkspaceId is the Slack workspace the chat channel belongs to.
var SlackWorkspaceId = Parameter{
	Type:        "String",
	Description: "Slack workspace ID for AWS Chatbot",
}

// SlackChannelId is the channel that receives copilot notifications.
var SlackChannelId = Parameter{
	Type:        "String",
	Description: "Slack channel ID for AWS Chatbot",
}

// ----------------------------------------------------------------------------
// Feature flags
// ----------------------------------------------------------------------------

// BedrockModel is the model ID the triager asks for summaries.
var BedrockModel = Parameter{
	Type:        "String",
	Description: "Bedrock model ID used by the triager",
	Default:     DefaultBedrockModel,
}

// FeatureBedrock toggles Bedrock summarization in the triager.
var FeatureBedrock = Parameter{
	Type:          "String",
	Description:   "Enable Bedrock summarization",
	Default:       BoolFlag(false),
	AllowedValues: []any{"true", "false"},
}

// FeatureAthena toggles Athena lookups in the triager.
var FeatureAthena = Parameter{
	Type:          "String",
	Description:   "Enable Athena queries",
	Default:       BoolFlag(false),
	AllowedValues: []any{"true", "false"},
}

// DryRun keeps the approver from starting automations when "true".
var DryRun = Parameter{
	Type:          "String",
	Description:   "Record approvals without executing automations",
	Default:       BoolFlag(true),
	AllowedValues: []any{"true", "false"},
}

// ----------------------------------------------------------------------------
// Function assets
// ----------------------------------------------------------------------------

// AssetBucket holds the packaged function code.
var AssetBucket = Parameter{
	Type:        "String",
	Description: "S3 bucket holding packaged function code",
}

// TriagerCodeKey is the object key of the triager package.
var TriagerCodeKey = Parameter{
	Type:        "String",
	Description: "S3 key of the triager code package",
}

// ApproverCodeKey is the object key of the approver package.
var ApproverCodeKey = Parameter{
	Type:        "String",
	Description: "S3 key of the approver code package",
}
