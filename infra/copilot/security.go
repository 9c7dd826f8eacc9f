// Package copilot declares the OpsCopilot stack.
//
// This file contains the IAM roles and policies shared by the handlers.
package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
	"github.com/lex00/opscopilot-aws-go/resources/iam"
)

// ----------------------------------------------------------------------------
// Handler execution role
// ----------------------------------------------------------------------------

// LambdaAssumeRoleStatement lets Lambda assume the handler role.
var LambdaAssumeRoleStatement = PolicyStatement{
	Effect:    "Allow",
	Principal: ServicePrincipal{"lambda.amazonaws.com"},
	Action:    "sts:AssumeRole",
}

// LambdaAssumeRolePolicy is the trust policy of CopilotLambdaRole.
var LambdaAssumeRolePolicy = PolicyDocument{
	Version:   PolicyVersion,
	Statement: []any{LambdaAssumeRoleStatement},
}

// LogsStatement allows the handlers to write their own logs.
var LogsStatement = PolicyStatement{
	Effect: "Allow",
	Action: []any{
		"logs:CreateLogGroup",
		"logs:CreateLogStream",
		"logs:PutLogEvents",
	},
	Resource: "*",
}

// ObjectAccessStatement covers objects in both buckets.
var ObjectAccessStatement = PolicyStatement{
	Effect: "Allow",
	Action: []any{"s3:GetObject", "s3:PutObject"},
	Resource: []any{
		Sub{String: "${CopilotArtifacts.Arn}/*"},
		Sub{String: "${CopilotRunbooks.Arn}/*"},
	},
}

// TimelineStatement allows writing and querying the incident timeline.
var TimelineStatement = PolicyStatement{
	Effect:   "Allow",
	Action:   []any{"dynamodb:PutItem", "dynamodb:Query"},
	Resource: IncidentTimeline.Arn,
}

// PublishStatement allows notifications to Slack through the topic.
// Ref on a topic yields its ARN.
var PublishStatement = PolicyStatement{
	Effect:   "Allow",
	Action:   "sns:Publish",
	Resource: SlackNotifications,
}

// PutEventsStatement allows the handlers to emit follow-up events.
var PutEventsStatement = PolicyStatement{
	Effect:   "Allow",
	Action:   "events:PutEvents",
	Resource: OpsCopilotBus.Arn,
}

// CopilotAccessPolicyDocument groups the inline grants of the handler role.
var CopilotAccessPolicyDocument = PolicyDocument{
	Version: PolicyVersion,
	Statement: []any{
		LogsStatement,
		ObjectAccessStatement,
		TimelineStatement,
		PublishStatement,
		PutEventsStatement,
	},
}

// CopilotAccessPolicy is the inline policy of CopilotLambdaRole.
var CopilotAccessPolicy = iam.Role_Policy{
	PolicyName:     "CopilotAccess",
	PolicyDocument: CopilotAccessPolicyDocument,
}

// CopilotLambdaRole is assumed by both the triager and the approver.
var CopilotLambdaRole = iam.Role{
	AssumeRolePolicyDocument: LambdaAssumeRolePolicy,
	ManagedPolicyArns: []any{
		Sub{String: "arn:${AWS::Partition}:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"},
	},
	Policies: []any{CopilotAccessPolicy},
}

// ----------------------------------------------------------------------------
// Approver grants
// ----------------------------------------------------------------------------

// AutomationStatement lets the approver start and poll automations.
var AutomationStatement = PolicyStatement{
	Effect: "Allow",
	Action: []any{
		"ssm:StartAutomationExecution",
		"ssm:GetAutomationExecution",
	},
	Resource: "*",
}

// MetricsStatement restricts metric publishing to the copilot namespace.
var MetricsStatement = PolicyStatement{
	Effect:   "Allow",
	Action:   "cloudwatch:PutMetricData",
	Resource: "*",
	Condition: Json{
		StringEquals: Json{"cloudwatch:namespace": MetricsNamespace},
	},
}

// ApproverPolicyDocument holds the approver-only grants.
var ApproverPolicyDocument = PolicyDocument{
	Version:   PolicyVersion,
	Statement: []any{AutomationStatement, MetricsStatement},
}

// ApproverPolicy attaches the approver grants to the shared handler role.
var ApproverPolicy = iam.Policy{
	PolicyName:     "CopilotApproverAccess",
	PolicyDocument: ApproverPolicyDocument,
	Roles:          []any{CopilotLambdaRole},
}

// ----------------------------------------------------------------------------
// Chatbot role
// ----------------------------------------------------------------------------

// ChatbotAssumeRoleStatement lets AWS Chatbot assume its channel role.
var ChatbotAssumeRoleStatement = PolicyStatement{
	Effect:    "Allow",
	Principal: ServicePrincipal{"chatbot.amazonaws.com"},
	Action:    "sts:AssumeRole",
}

// ChatbotAssumeRolePolicy is the trust policy of ChatbotRole.
var ChatbotAssumeRolePolicy = PolicyDocument{
	Version:   PolicyVersion,
	Statement: []any{ChatbotAssumeRoleStatement},
}

// ChatbotRole is the channel role of SlackChannel.
var ChatbotRole = iam.Role{
	AssumeRolePolicyDocument: ChatbotAssumeRolePolicy,
}
