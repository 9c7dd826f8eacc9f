// Package copilot declares the OpsCopilot stack.
//
// This file contains the notification topic and the Slack channel.
package copilot

import (
	"github.com/lex00/opscopilot-aws-go/resources/chatbot"
	"github.com/lex00/opscopilot-aws-go/resources/sns"
)

// SlackNotifications fans copilot messages out to chat.
var SlackNotifications = sns.Topic{}

// SlackChannel forwards SlackNotifications into the configured channel.
var SlackChannel = chatbot.SlackChannelConfiguration{
	ConfigurationName: "ops-copilot-notifications",
	IamRoleArn:        ChatbotRole.Arn,
	SlackWorkspaceId:  SlackWorkspaceId,
	SlackChannelId:    SlackChannelId,
	SnsTopicArns:      []any{SlackNotifications},
}
