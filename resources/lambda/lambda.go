// Package lambda contains CloudFormation resource types for AWS Lambda.
package lambda

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Function represents AWS::Lambda::Function.
// Ref returns the function name.
type Function struct {
	FunctionName                 any   `json:"FunctionName,omitempty"`
	Description                  any   `json:"Description,omitempty"`
	Runtime                      any   `json:"Runtime,omitempty"`
	Handler                      any   `json:"Handler,omitempty"`
	Code                         any   `json:"Code,omitempty"`
	Role                         any   `json:"Role,omitempty"`
	Timeout                      int   `json:"Timeout,omitempty"`
	MemorySize                   int   `json:"MemorySize,omitempty"`
	Environment                  any   `json:"Environment,omitempty"`
	Architectures                []any `json:"Architectures,omitempty"`
	ReservedConcurrentExecutions int   `json:"ReservedConcurrentExecutions,omitempty"`
	TracingConfig                any   `json:"TracingConfig,omitempty"`
	Tags                         []any `json:"Tags,omitempty"`

	Arn opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Function) ResourceType() string { return "AWS::Lambda::Function" }

// Function_Code locates the deployment package.
type Function_Code struct {
	S3Bucket        any `json:"S3Bucket,omitempty"`
	S3Key           any `json:"S3Key,omitempty"`
	S3ObjectVersion any `json:"S3ObjectVersion,omitempty"`
	ZipFile         any `json:"ZipFile,omitempty"`
	ImageUri        any `json:"ImageUri,omitempty"`
}

// Function_Environment holds environment variables passed to the handler.
type Function_Environment struct {
	Variables map[string]any `json:"Variables,omitempty"`
}

// Permission represents AWS::Lambda::Permission.
type Permission struct {
	Action        any `json:"Action,omitempty"`
	FunctionName  any `json:"FunctionName,omitempty"`
	Principal     any `json:"Principal,omitempty"`
	SourceArn     any `json:"SourceArn,omitempty"`
	SourceAccount any `json:"SourceAccount,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Permission) ResourceType() string { return "AWS::Lambda::Permission" }
