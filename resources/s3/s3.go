// Package s3 contains CloudFormation resource types for Amazon S3.
package s3

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Bucket represents AWS::S3::Bucket.
// Ref returns the bucket name.
type Bucket struct {
	BucketName                     any   `json:"BucketName,omitempty"`
	BucketEncryption               any   `json:"BucketEncryption,omitempty"`
	VersioningConfiguration        any   `json:"VersioningConfiguration,omitempty"`
	PublicAccessBlockConfiguration any   `json:"PublicAccessBlockConfiguration,omitempty"`
	LifecycleConfiguration         any   `json:"LifecycleConfiguration,omitempty"`
	OwnershipControls              any   `json:"OwnershipControls,omitempty"`
	Tags                           []any `json:"Tags,omitempty"`

	Arn                opscopilot.AttrRef `json:"-"`
	DomainName         opscopilot.AttrRef `json:"-"`
	RegionalDomainName opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Bucket) ResourceType() string { return "AWS::S3::Bucket" }

// Bucket_BucketEncryption configures default server-side encryption.
type Bucket_BucketEncryption struct {
	ServerSideEncryptionConfiguration []any `json:"ServerSideEncryptionConfiguration,omitempty"`
}

// Bucket_ServerSideEncryptionRule is one default encryption rule.
type Bucket_ServerSideEncryptionRule struct {
	ServerSideEncryptionByDefault any  `json:"ServerSideEncryptionByDefault,omitempty"`
	BucketKeyEnabled              bool `json:"BucketKeyEnabled,omitempty"`
}

// Bucket_ServerSideEncryptionByDefault names the default algorithm.
type Bucket_ServerSideEncryptionByDefault struct {
	SSEAlgorithm   any `json:"SSEAlgorithm,omitempty"`
	KMSMasterKeyID any `json:"KMSMasterKeyID,omitempty"`
}

// Bucket_VersioningConfiguration sets the versioning state.
type Bucket_VersioningConfiguration struct {
	Status any `json:"Status,omitempty"`
}

// Bucket_PublicAccessBlockConfiguration controls public access.
type Bucket_PublicAccessBlockConfiguration struct {
	BlockPublicAcls       bool `json:"BlockPublicAcls,omitempty"`
	BlockPublicPolicy     bool `json:"BlockPublicPolicy,omitempty"`
	IgnorePublicAcls      bool `json:"IgnorePublicAcls,omitempty"`
	RestrictPublicBuckets bool `json:"RestrictPublicBuckets,omitempty"`
}
