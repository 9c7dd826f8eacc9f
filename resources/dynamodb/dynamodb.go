// Package dynamodb contains CloudFormation resource types for Amazon DynamoDB.
package dynamodb

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Table represents AWS::DynamoDB::Table.
// Ref returns the table name.
type Table struct {
	TableName                        any   `json:"TableName,omitempty"`
	AttributeDefinitions             []any `json:"AttributeDefinitions,omitempty"`
	KeySchema                        []any `json:"KeySchema,omitempty"`
	BillingMode                      any   `json:"BillingMode,omitempty"`
	ProvisionedThroughput            any   `json:"ProvisionedThroughput,omitempty"`
	PointInTimeRecoverySpecification any   `json:"PointInTimeRecoverySpecification,omitempty"`
	SSESpecification                 any   `json:"SSESpecification,omitempty"`
	StreamSpecification              any   `json:"StreamSpecification,omitempty"`
	TimeToLiveSpecification          any   `json:"TimeToLiveSpecification,omitempty"`
	Tags                             []any `json:"Tags,omitempty"`

	Arn       opscopilot.AttrRef `json:"-"`
	StreamArn opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Table) ResourceType() string { return "AWS::DynamoDB::Table" }

// Table_AttributeDefinition declares a key attribute and its scalar type.
type Table_AttributeDefinition struct {
	AttributeName any `json:"AttributeName,omitempty"`
	AttributeType any `json:"AttributeType,omitempty"`
}

// Table_KeySchema assigns a key role (HASH or RANGE) to an attribute.
type Table_KeySchema struct {
	AttributeName any `json:"AttributeName,omitempty"`
	KeyType       any `json:"KeyType,omitempty"`
}

// Table_PointInTimeRecoverySpecification toggles continuous backups.
type Table_PointInTimeRecoverySpecification struct {
	PointInTimeRecoveryEnabled bool `json:"PointInTimeRecoveryEnabled,omitempty"`
}

// Key types.
const (
	KeyTypeHash  = "HASH"
	KeyTypeRange = "RANGE"
)

// Scalar attribute types.
const (
	AttributeTypeString = "S"
	AttributeTypeNumber = "N"
	AttributeTypeBinary = "B"
)

// Billing modes.
const (
	BillingModePayPerRequest = "PAY_PER_REQUEST"
	BillingModeProvisioned   = "PROVISIONED"
)
