package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	opscopilot "github.com/lex00/opscopilot-aws-go"
)

func templateOf(resources map[string]opscopilot.ResourceDef) *opscopilot.Template {
	return &opscopilot.Template{Resources: resources}
}

func TestValidateTemplate_Valid(t *testing.T) {
	result := ValidateTemplate(templateOf(map[string]opscopilot.ResourceDef{
		"IncidentTimeline": {
			Type: "AWS::DynamoDB::Table",
			Properties: map[string]any{
				"KeySchema":   []any{map[string]any{"AttributeName": "id", "KeyType": "HASH"}},
				"BillingMode": "PAY_PER_REQUEST",
			},
		},
		"TriagerFn": {
			Type: "AWS::Lambda::Function",
			Properties: map[string]any{
				"Code":    map[string]any{"S3Bucket": map[string]any{"Ref": "AssetBucket"}},
				"Role":    map[string]any{"Fn::GetAtt": []any{"CopilotLambdaRole", "Arn"}},
				"Runtime": "python3.9",
				"Timeout": 300,
			},
		},
	}), Options{})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateTemplate_Errors(t *testing.T) {
	result := ValidateTemplate(templateOf(map[string]opscopilot.ResourceDef{
		"Bad": {Type: "S3Bucket"},
		"Table": {
			Type:       "AWS::DynamoDB::Table",
			Properties: map[string]any{"BillingMode": "ON_DEMAND"},
		},
		"Fn": {
			Type: "AWS::Lambda::Function",
			Properties: map[string]any{
				"Code":    map[string]any{},
				"Role":    "arn:aws:iam::123456789012:role/copilot",
				"Timeout": "300",
			},
		},
	}), Options{})

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 4)

	assert.Equal(t, "Type", result.Errors[0].Property)
	assert.Equal(t, "Bad", result.Errors[0].Resource)
	assert.Equal(t, opscopilot.SchemaError{Resource: "Fn", Property: "Timeout", Message: "expected type Integer"}, result.Errors[1])
	assert.Equal(t, "missing required property: KeySchema", result.Errors[2].Message)
	assert.Contains(t, result.Errors[3].Message, `"ON_DEMAND" not in allowed values`)
}

func TestValidateTemplate_UnknownTypeAndStrict(t *testing.T) {
	tmpl := templateOf(map[string]opscopilot.ResourceDef{
		"Queue": {Type: "AWS::SQS::Queue"},
		"Topic": {
			Type:       "AWS::SNS::Topic",
			Properties: map[string]any{"ArchivePolicy": map[string]any{}},
		},
	})

	result := ValidateTemplate(tmpl, Options{})
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "unknown resource type: AWS::SQS::Queue")

	result = ValidateTemplate(tmpl, Options{Strict: true})
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "unknown property: ArchivePolicy", result.Warnings[1].Message)
}

func TestIsValidResourceType(t *testing.T) {
	assert.True(t, isValidResourceType("AWS::Chatbot::SlackChannelConfiguration"))
	assert.True(t, isValidResourceType("Custom::SlackInvite"))
	assert.False(t, isValidResourceType("AWS::S3"))
	assert.False(t, isValidResourceType("Azure::Storage::Account"))
}

func TestIsValidType_Intrinsics(t *testing.T) {
	assert.True(t, isValidType(map[string]any{"Ref": "DryRun"}, "Integer"))
	assert.True(t, isValidType(map[string]any{"Fn::Sub": "${AWS::Region}"}, "String"))
	assert.False(t, isValidType(map[string]any{"Ref": "A", "Extra": 1}, "String"))
	assert.True(t, isValidType(300.0, "Integer"))
	assert.False(t, isValidType("true", "Boolean"))
}
