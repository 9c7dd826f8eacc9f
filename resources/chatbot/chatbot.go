// Package chatbot contains CloudFormation resource types for AWS Chatbot.
package chatbot

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// SlackChannelConfiguration represents AWS::Chatbot::SlackChannelConfiguration.
type SlackChannelConfiguration struct {
	ConfigurationName any   `json:"ConfigurationName,omitempty"`
	IamRoleArn        any   `json:"IamRoleArn,omitempty"`
	SlackWorkspaceId  any   `json:"SlackWorkspaceId,omitempty"`
	SlackChannelId    any   `json:"SlackChannelId,omitempty"`
	SnsTopicArns      []any `json:"SnsTopicArns,omitempty"`
	GuardrailPolicies []any `json:"GuardrailPolicies,omitempty"`
	LoggingLevel      any   `json:"LoggingLevel,omitempty"`
	UserRoleRequired  bool  `json:"UserRoleRequired,omitempty"`

	Arn opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r SlackChannelConfiguration) ResourceType() string {
	return "AWS::Chatbot::SlackChannelConfiguration"
}
