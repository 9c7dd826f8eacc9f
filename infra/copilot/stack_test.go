package copilot_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/opscopilot-aws-go/infra/copilot"
	"github.com/lex00/opscopilot-aws-go/internal/lint"
	"github.com/lex00/opscopilot-aws-go/internal/schema"
	"github.com/lex00/opscopilot-aws-go/internal/synth"
	"github.com/lex00/opscopilot-aws-go/internal/template"
)

func synthesize(t *testing.T) *synth.Result {
	t.Helper()
	result, err := synth.Synthesize(synth.Options{
		Packages: []string{"."},
		Values:   copilot.Values(),
	})
	require.NoError(t, err)
	return result
}

// document returns the synthesized template as plain JSON values.
func document(t *testing.T) map[string]any {
	t.Helper()
	data, err := template.ToJSON(synthesize(t).Template)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func properties(t *testing.T, doc map[string]any, name string) map[string]any {
	t.Helper()
	resources := doc["Resources"].(map[string]any)
	require.Contains(t, resources, name)
	props, _ := resources[name].(map[string]any)["Properties"].(map[string]any)
	return props
}

func assertJSON(t *testing.T, expected string, actual any) {
	t.Helper()
	data, err := json.Marshal(actual)
	require.NoError(t, err)
	assert.JSONEq(t, expected, string(data))
}

func TestStack_ResourceTypes(t *testing.T) {
	doc := document(t)

	expected := map[string]string{
		"OpsCopilotBus":           "AWS::Events::EventBus",
		"TriagerRule":             "AWS::Events::Rule",
		"TriagerInvokePermission": "AWS::Lambda::Permission",
		"CopilotRunbooks":         "AWS::S3::Bucket",
		"CopilotArtifacts":        "AWS::S3::Bucket",
		"IncidentTimeline":        "AWS::DynamoDB::Table",
		"SlackNotifications":      "AWS::SNS::Topic",
		"SlackChannel":            "AWS::Chatbot::SlackChannelConfiguration",
		"CopilotLambdaRole":       "AWS::IAM::Role",
		"ApproverPolicy":          "AWS::IAM::Policy",
		"ChatbotRole":             "AWS::IAM::Role",
		"TriagerFn":               "AWS::Lambda::Function",
		"ApproverFn":              "AWS::Lambda::Function",
		"CopilotSafeAction":       "AWS::SSM::Document",
		"CopilotDashboard":        "AWS::CloudWatch::Dashboard",
	}

	resources := doc["Resources"].(map[string]any)
	assert.Len(t, resources, len(expected))
	for name, typ := range expected {
		t.Run(name, func(t *testing.T) {
			require.Contains(t, resources, name)
			assert.Equal(t, typ, resources[name].(map[string]any)["Type"])
		})
	}
}

func TestStack_TimelineKeySchema(t *testing.T) {
	props := properties(t, document(t), "IncidentTimeline")

	assertJSON(t, `[
		{"AttributeName": "id", "KeyType": "HASH"},
		{"AttributeName": "ts", "KeyType": "RANGE"}
	]`, props["KeySchema"])
	assertJSON(t, `[
		{"AttributeName": "id", "AttributeType": "S"},
		{"AttributeName": "ts", "AttributeType": "S"}
	]`, props["AttributeDefinitions"])
	assert.Equal(t, "PAY_PER_REQUEST", props["BillingMode"])
	assertJSON(t, `{"PointInTimeRecoveryEnabled": true}`, props["PointInTimeRecoverySpecification"])
}

func TestStack_Buckets(t *testing.T) {
	doc := document(t)

	for _, name := range []string{"CopilotRunbooks", "CopilotArtifacts"} {
		props := properties(t, doc, name)
		assertJSON(t, `{"ServerSideEncryptionConfiguration": [
			{"ServerSideEncryptionByDefault": {"SSEAlgorithm": "AES256"}}
		]}`, props["BucketEncryption"])
		assertJSON(t, `{
			"BlockPublicAcls": true,
			"BlockPublicPolicy": true,
			"IgnorePublicAcls": true,
			"RestrictPublicBuckets": true
		}`, props["PublicAccessBlockConfiguration"])
	}

	assert.NotContains(t, properties(t, doc, "CopilotRunbooks"), "VersioningConfiguration")
	assertJSON(t, `{"Status": "Enabled"}`, properties(t, doc, "CopilotArtifacts")["VersioningConfiguration"])
}

func TestStack_LambdaRoleGrants(t *testing.T) {
	props := properties(t, document(t), "CopilotLambdaRole")

	assertJSON(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"Service": "lambda.amazonaws.com"},
			"Action": "sts:AssumeRole"
		}]
	}`, props["AssumeRolePolicyDocument"])

	assertJSON(t, `[
		{"Fn::Sub": "arn:${AWS::Partition}:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"}
	]`, props["ManagedPolicyArns"])

	assertJSON(t, `[{
		"PolicyName": "CopilotAccess",
		"PolicyDocument": {
			"Version": "2012-10-17",
			"Statement": [
				{
					"Effect": "Allow",
					"Action": ["logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"],
					"Resource": "*"
				},
				{
					"Effect": "Allow",
					"Action": ["s3:GetObject", "s3:PutObject"],
					"Resource": [
						{"Fn::Sub": "${CopilotArtifacts.Arn}/*"},
						{"Fn::Sub": "${CopilotRunbooks.Arn}/*"}
					]
				},
				{
					"Effect": "Allow",
					"Action": ["dynamodb:PutItem", "dynamodb:Query"],
					"Resource": {"Fn::GetAtt": ["IncidentTimeline", "Arn"]}
				},
				{
					"Effect": "Allow",
					"Action": "sns:Publish",
					"Resource": {"Ref": "SlackNotifications"}
				},
				{
					"Effect": "Allow",
					"Action": "events:PutEvents",
					"Resource": {"Fn::GetAtt": ["OpsCopilotBus", "Arn"]}
				}
			]
		}
	}]`, props["Policies"])
}

func TestStack_ApproverPolicy(t *testing.T) {
	props := properties(t, document(t), "ApproverPolicy")

	assertJSON(t, `[{"Ref": "CopilotLambdaRole"}]`, props["Roles"])
	assertJSON(t, `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Action": ["ssm:StartAutomationExecution", "ssm:GetAutomationExecution"],
				"Resource": "*"
			},
			{
				"Effect": "Allow",
				"Action": "cloudwatch:PutMetricData",
				"Resource": "*",
				"Condition": {"StringEquals": {"cloudwatch:namespace": "CopilotOps"}}
			}
		]
	}`, props["PolicyDocument"])
}

func TestStack_Functions(t *testing.T) {
	doc := document(t)

	triager := properties(t, doc, "TriagerFn")
	assert.Equal(t, "python3.9", triager["Runtime"])
	assert.Equal(t, "triager.handler", triager["Handler"])
	assert.EqualValues(t, 300, triager["Timeout"])
	assertJSON(t, `{"Fn::GetAtt": ["CopilotLambdaRole", "Arn"]}`, triager["Role"])
	assertJSON(t, `{"S3Bucket": {"Ref": "AssetBucket"}, "S3Key": {"Ref": "TriagerCodeKey"}}`, triager["Code"])
	assertJSON(t, `{"Variables": {
		"RUNBOOKS_BUCKET": {"Ref": "CopilotRunbooks"},
		"DDB_TABLE": {"Ref": "IncidentTimeline"},
		"BEDROCK_MODEL": {"Ref": "BedrockModel"},
		"FEATURE_BEDROCK": {"Ref": "FeatureBedrock"},
		"FEATURE_ATHENA": {"Ref": "FeatureAthena"}
	}}`, triager["Environment"])

	approver := properties(t, doc, "ApproverFn")
	assert.Equal(t, "python3.9", approver["Runtime"])
	assert.Equal(t, "approver.handler", approver["Handler"])
	assert.EqualValues(t, 300, approver["Timeout"])
	assertJSON(t, `{"S3Bucket": {"Ref": "AssetBucket"}, "S3Key": {"Ref": "ApproverCodeKey"}}`, approver["Code"])
	assertJSON(t, `{"Variables": {
		"DDB_TABLE": {"Ref": "IncidentTimeline"},
		"DRY_RUN": {"Ref": "DryRun"}
	}}`, approver["Environment"])
}

func TestStack_TriagerRouting(t *testing.T) {
	doc := document(t)

	assert.Equal(t, "ops-copilot-bus", properties(t, doc, "OpsCopilotBus")["Name"])

	rule := properties(t, doc, "TriagerRule")
	assertJSON(t, `{"Ref": "OpsCopilotBus"}`, rule["EventBusName"])
	assertJSON(t, `{"source": [{"exists": true}]}`, rule["EventPattern"])
	assertJSON(t, `[{"Id": "TriagerFn", "Arn": {"Fn::GetAtt": ["TriagerFn", "Arn"]}}]`, rule["Targets"])

	perm := properties(t, doc, "TriagerInvokePermission")
	assertJSON(t, `{
		"Action": "lambda:InvokeFunction",
		"FunctionName": {"Ref": "TriagerFn"},
		"Principal": "events.amazonaws.com",
		"SourceArn": {"Fn::GetAtt": ["TriagerRule", "Arn"]}
	}`, perm)
}

func TestStack_SafeActionDocument(t *testing.T) {
	props := properties(t, document(t), "CopilotSafeAction")

	assert.Equal(t, "Automation", props["DocumentType"])
	content := props["Content"].(map[string]any)
	assert.Equal(t, "0.3", content["schemaVersion"])
	assertJSON(t, `{
		"FunctionName": {"type": "String", "description": "Name of the Lambda function"},
		"Concurrency": {"type": "String", "description": "New concurrency value"}
	}`, content["parameters"])
	assertJSON(t, `[{
		"name": "increaseConcurrency",
		"action": "aws:lambda:putProvisionedConcurrencyConfig",
		"inputs": {
			"FunctionName": "{{FunctionName}}",
			"Qualifier": "$LATEST",
			"ProvisionedConcurrentExecutions": "{{Concurrency}}"
		}
	}]`, content["mainSteps"])
}

func TestStack_SlackChannel(t *testing.T) {
	doc := document(t)

	assertJSON(t, `{
		"ConfigurationName": "ops-copilot-notifications",
		"IamRoleArn": {"Fn::GetAtt": ["ChatbotRole", "Arn"]},
		"SlackWorkspaceId": {"Ref": "SlackWorkspaceId"},
		"SlackChannelId": {"Ref": "SlackChannelId"},
		"SnsTopicArns": [{"Ref": "SlackNotifications"}]
	}`, properties(t, doc, "SlackChannel"))

	assertJSON(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"Service": "chatbot.amazonaws.com"},
			"Action": "sts:AssumeRole"
		}]
	}`, properties(t, doc, "ChatbotRole")["AssumeRolePolicyDocument"])
}

func TestStack_Dashboard(t *testing.T) {
	result := synthesize(t)

	deps := result.Discovery.Resources["CopilotDashboard"].Dependencies
	assert.ElementsMatch(t, []string{"TriagerFn", "ApproverFn"}, deps)

	props := result.Template.Resources["CopilotDashboard"].Properties
	assert.Equal(t, "ops-copilot-dashboard", props["DashboardName"])
	body, ok := props["DashboardBody"].(map[string]any)
	require.True(t, ok)
	sub, ok := body["Fn::Sub"].(string)
	require.True(t, ok)
	assert.Contains(t, sub, "${TriagerFn}")
	assert.Contains(t, sub, "${ApproverFn}")
	assert.Contains(t, sub, "{CopilotOps}")
}

func TestStack_Parameters(t *testing.T) {
	params := synthesize(t).Template.Parameters

	assert.Len(t, params, 9)
	assert.Equal(t, "anthropic.claude-v2", params["BedrockModel"].Default)
	for _, name := range []string{"FeatureBedrock", "FeatureAthena"} {
		assert.Equal(t, "false", params[name].Default, name)
		assert.Equal(t, []any{"true", "false"}, params[name].AllowedValues, name)
	}
	assert.Equal(t, "true", params["DryRun"].Default)
	assert.Nil(t, params["SlackWorkspaceId"].Default)
}

func TestStack_Outputs(t *testing.T) {
	outputs := synthesize(t).Template.Outputs

	exports := map[string]string{
		"EventBusArn":     "OpsCopilotEventBusArn",
		"RunbooksBucket":  "OpsCopilotRunbooksBucket",
		"ArtifactsBucket": "OpsCopilotArtifactsBucket",
		"IncidentTable":   "OpsCopilotIncidentTable",
	}
	require.Len(t, outputs, len(exports))
	for name, export := range exports {
		require.NotNil(t, outputs[name].Export, name)
		assert.Equal(t, export, outputs[name].Export.Name)
	}

	assertJSON(t, `{"Fn::GetAtt": ["OpsCopilotBus", "Arn"]}`, outputs["EventBusArn"].Value)
	assertJSON(t, `{"Ref": "CopilotRunbooks"}`, outputs["RunbooksBucket"].Value)
	assertJSON(t, `{"Ref": "IncidentTimeline"}`, outputs["IncidentTable"].Value)
}

func TestStack_RoleDependsOnGrantedResources(t *testing.T) {
	deps := synthesize(t).Discovery.Resources["CopilotLambdaRole"].Dependencies

	assert.ElementsMatch(t, []string{
		"CopilotArtifacts",
		"CopilotRunbooks",
		"IncidentTimeline",
		"SlackNotifications",
		"OpsCopilotBus",
	}, deps)
}

func TestStack_Deterministic(t *testing.T) {
	first, err := template.ToJSON(synthesize(t).Template)
	require.NoError(t, err)
	second, err := template.ToJSON(synthesize(t).Template)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestStack_SchemaValid(t *testing.T) {
	result := schema.ValidateTemplate(synthesize(t).Template, schema.Options{Strict: true})
	assert.True(t, result.Valid, "schema errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestStack_LintHasNoErrors(t *testing.T) {
	result, err := lint.LintPackage(".", lint.Options{})
	require.NoError(t, err)
	assert.True(t, result.Success, "lint issues: %v", result.Issues)
	for _, issue := range result.Issues {
		assert.Equal(t, "WAW021", issue.Rule, "%s:%d: %s", issue.File, issue.Line, issue.Message)
	}
}
