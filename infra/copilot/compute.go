// Package copilot declares the OpsCopilot stack.
//
// This file contains the triager and approver functions.
package copilot

import (
	"github.com/lex00/opscopilot-aws-go/resources/lambda"
)

// ----------------------------------------------------------------------------
// Triager
// ----------------------------------------------------------------------------

// TriagerCode is the packaged triager published by `opscopilot publish functions`.
var TriagerCode = lambda.Function_Code{
	S3Bucket: AssetBucket,
	S3Key:    TriagerCodeKey,
}

// TriagerEnvironment configures runbook lookups, the timeline and feature flags.
var TriagerEnvironment = lambda.Function_Environment{
	Variables: map[string]any{
		"RUNBOOKS_BUCKET": CopilotRunbooks,
		"DDB_TABLE":       IncidentTimeline,
		"BEDROCK_MODEL":   BedrockModel,
		"FEATURE_BEDROCK": FeatureBedrock,
		"FEATURE_ATHENA":  FeatureAthena,
	},
}

// TriagerFn classifies incoming events and records them on the timeline.
var TriagerFn = lambda.Function{
	Runtime:     FunctionRuntime,
	Handler:     "triager.handler",
	Code:        TriagerCode,
	Role:        CopilotLambdaRole.Arn,
	Timeout:     FunctionTimeout,
	Environment: TriagerEnvironment,
}

// ----------------------------------------------------------------------------
// Approver
// ----------------------------------------------------------------------------

// ApproverCode is the packaged approver published by `opscopilot publish functions`.
var ApproverCode = lambda.Function_Code{
	S3Bucket: AssetBucket,
	S3Key:    ApproverCodeKey,
}

// ApproverEnvironment configures the timeline and dry-run mode.
var ApproverEnvironment = lambda.Function_Environment{
	Variables: map[string]any{
		"DDB_TABLE": IncidentTimeline,
		"DRY_RUN":   DryRun,
	},
}

// ApproverFn runs approved safe actions through SSM Automation.
var ApproverFn = lambda.Function{
	Runtime:     FunctionRuntime,
	Handler:     "approver.handler",
	Code:        ApproverCode,
	Role:        CopilotLambdaRole.Arn,
	Timeout:     FunctionTimeout,
	Environment: ApproverEnvironment,
}
