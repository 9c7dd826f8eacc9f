// Package copilot declares the OpsCopilot stack.
//
// This file contains the runbook and artifact buckets and the incident timeline.
package copilot

import (
	"github.com/lex00/opscopilot-aws-go/resources/dynamodb"
	"github.com/lex00/opscopilot-aws-go/resources/s3"
)

// ----------------------------------------------------------------------------
// Bucket settings
// ----------------------------------------------------------------------------

// S3ManagedEncryptionDefault selects SSE-S3.
var S3ManagedEncryptionDefault = s3.Bucket_ServerSideEncryptionByDefault{
	SSEAlgorithm: "AES256",
}

// S3ManagedEncryptionRule applies SSE-S3 to every object.
var S3ManagedEncryptionRule = s3.Bucket_ServerSideEncryptionRule{
	ServerSideEncryptionByDefault: S3ManagedEncryptionDefault,
}

// S3ManagedEncryption is shared by both buckets.
var S3ManagedEncryption = s3.Bucket_BucketEncryption{
	ServerSideEncryptionConfiguration: []any{S3ManagedEncryptionRule},
}

// BlockAllPublicAccess denies every form of public access.
var BlockAllPublicAccess = s3.Bucket_PublicAccessBlockConfiguration{
	BlockPublicAcls:       true,
	BlockPublicPolicy:     true,
	IgnorePublicAcls:      true,
	RestrictPublicBuckets: true,
}

// VersioningEnabled keeps prior artifact versions.
var VersioningEnabled = s3.Bucket_VersioningConfiguration{
	Status: "Enabled",
}

// ----------------------------------------------------------------------------
// Buckets
// ----------------------------------------------------------------------------

// CopilotRunbooks stores runbook documents read by the triager.
var CopilotRunbooks = s3.Bucket{
	BucketEncryption:               S3ManagedEncryption,
	PublicAccessBlockConfiguration: BlockAllPublicAccess,
}

// CopilotArtifacts stores triage artifacts.
var CopilotArtifacts = s3.Bucket{
	BucketEncryption:               S3ManagedEncryption,
	PublicAccessBlockConfiguration: BlockAllPublicAccess,
	VersioningConfiguration:        VersioningEnabled,
}

// ----------------------------------------------------------------------------
// Incident timeline
// ----------------------------------------------------------------------------

// IncidentIdAttribute is the partition key attribute.
var IncidentIdAttribute = dynamodb.Table_AttributeDefinition{
	AttributeName: "id",
	AttributeType: dynamodb.AttributeTypeString,
}

// IncidentTsAttribute is the sort key attribute.
var IncidentTsAttribute = dynamodb.Table_AttributeDefinition{
	AttributeName: "ts",
	AttributeType: dynamodb.AttributeTypeString,
}

// IncidentIdKey partitions records by incident.
var IncidentIdKey = dynamodb.Table_KeySchema{
	AttributeName: "id",
	KeyType:       dynamodb.KeyTypeHash,
}

// IncidentTsKey orders records within an incident.
var IncidentTsKey = dynamodb.Table_KeySchema{
	AttributeName: "ts",
	KeyType:       dynamodb.KeyTypeRange,
}

// IncidentRecovery turns on point-in-time recovery.
var IncidentRecovery = dynamodb.Table_PointInTimeRecoverySpecification{
	PointInTimeRecoveryEnabled: true,
}

// IncidentTimeline records one item per incident event.
var IncidentTimeline = dynamodb.Table{
	AttributeDefinitions:             []any{IncidentIdAttribute, IncidentTsAttribute},
	KeySchema:                        []any{IncidentIdKey, IncidentTsKey},
	BillingMode:                      dynamodb.BillingModePayPerRequest,
	PointInTimeRecoverySpecification: IncidentRecovery,
}
