// Package iam contains CloudFormation resource types for AWS IAM.
package iam

import (
	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Role represents AWS::IAM::Role.
// Ref returns the role name.
type Role struct {
	RoleName                 any   `json:"RoleName,omitempty"`
	Description              any   `json:"Description,omitempty"`
	Path                     any   `json:"Path,omitempty"`
	AssumeRolePolicyDocument any   `json:"AssumeRolePolicyDocument,omitempty"`
	ManagedPolicyArns        []any `json:"ManagedPolicyArns,omitempty"`
	Policies                 []any `json:"Policies,omitempty"`
	PermissionsBoundary      any   `json:"PermissionsBoundary,omitempty"`
	MaxSessionDuration       int   `json:"MaxSessionDuration,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`

	Arn    opscopilot.AttrRef `json:"-"`
	RoleId opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline policy embedded in a role.
type Role_Policy struct {
	PolicyName     any `json:"PolicyName,omitempty"`
	PolicyDocument any `json:"PolicyDocument,omitempty"`
}

// Policy represents AWS::IAM::Policy, an inline policy attached to
// roles, users or groups.
type Policy struct {
	PolicyName     any   `json:"PolicyName,omitempty"`
	PolicyDocument any   `json:"PolicyDocument,omitempty"`
	Roles          []any `json:"Roles,omitempty"`
	Users          []any `json:"Users,omitempty"`
	Groups         []any `json:"Groups,omitempty"`

	Id opscopilot.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Policy) ResourceType() string { return "AWS::IAM::Policy" }
