// Package sns contains CloudFormation resource types for Amazon SNS.
package sns

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Topic represents AWS::SNS::Topic.
// Ref returns the topic ARN.
type Topic struct {
	TopicName      any   `json:"TopicName,omitempty"`
	DisplayName    any   `json:"DisplayName,omitempty"`
	KmsMasterKeyId any   `json:"KmsMasterKeyId,omitempty"`
	FifoTopic      bool  `json:"FifoTopic,omitempty"`
	Subscription   []any `json:"Subscription,omitempty"`
	Tags           []any `json:"Tags,omitempty"`

	TopicArn opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Topic) ResourceType() string { return "AWS::SNS::Topic" }
