// Package events contains CloudFormation resource types for Amazon EventBridge.
package events

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// EventBus represents AWS::Events::EventBus.
// Ref returns the bus name.
type EventBus struct {
	Name              any   `json:"Name,omitempty"`
	Description       any   `json:"Description,omitempty"`
	EventSourceName   any   `json:"EventSourceName,omitempty"`
	KmsKeyIdentifier  any   `json:"KmsKeyIdentifier,omitempty"`
	DeadLetterConfig  any   `json:"DeadLetterConfig,omitempty"`
	Policy            any   `json:"Policy,omitempty"`
	Tags              []any `json:"Tags,omitempty"`

	// Arn is the GetAtt reference for the bus ARN.
	Arn opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r EventBus) ResourceType() string { return "AWS::Events::EventBus" }

// Rule represents AWS::Events::Rule.
type Rule struct {
	Name               any   `json:"Name,omitempty"`
	Description        any   `json:"Description,omitempty"`
	EventBusName       any   `json:"EventBusName,omitempty"`
	EventPattern       any   `json:"EventPattern,omitempty"`
	ScheduleExpression any   `json:"ScheduleExpression,omitempty"`
	RoleArn            any   `json:"RoleArn,omitempty"`
	State              any   `json:"State,omitempty"`
	Targets            []any `json:"Targets,omitempty"`

	// Arn is the GetAtt reference for the rule ARN.
	Arn opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Rule) ResourceType() string { return "AWS::Events::Rule" }

// Rule_Target is a target of an EventBridge rule.
type Rule_Target struct {
	Id               any `json:"Id,omitempty"`
	Arn              any `json:"Arn,omitempty"`
	RoleArn          any `json:"RoleArn,omitempty"`
	Input            any `json:"Input,omitempty"`
	InputPath        any `json:"InputPath,omitempty"`
	DeadLetterConfig any `json:"DeadLetterConfig,omitempty"`
	RetryPolicy      any `json:"RetryPolicy,omitempty"`
}

// Rule_RetryPolicy bounds delivery retries to a target.
type Rule_RetryPolicy struct {
	MaximumEventAgeInSeconds int `json:"MaximumEventAgeInSeconds,omitempty"`
	MaximumRetryAttempts     int `json:"MaximumRetryAttempts,omitempty"`
}
