// Package opscopilot provides Go types for declaring the OpsCopilot
// incident-response stack as CloudFormation resources.
//
// Resources are declared as package-level variables using native Go syntax:
//
//	var IncidentTimeline = dynamodb.Table{
//	    BillingMode: "PAY_PER_REQUEST",
//	    KeySchema:   []any{TimelineHashKey, TimelineRangeKey},
//	}
//
//	var ApproverFn = lambda.Function{
//	    Role: CopilotLambdaRole.Arn,  // GetAtt reference
//	}
//
// The opscopilot CLI discovers these declarations via AST parsing and
// synthesizes a CloudFormation template.
package opscopilot

import (
	"encoding/json"
)

// Resource represents a CloudFormation resource.
// All resource types (s3.Bucket, iam.Role, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::S3::Bucket")
	ResourceType() string
}

// AttrRef represents a GetAtt reference to a resource attribute.
// Resource types have AttrRef fields for each supported attribute.
//
// Example:
//
//	var MyRole = iam.Role{...}
//	var MyFunction = lambda.Function{
//	    Role: MyRole.Arn,  // MyRole.Arn is an AttrRef
//	}
//
// The field is unbound at runtime; synthesis binds it from the declaration
// source and emits:
//
//	{"Fn::GetAtt": ["MyRole", "Arn"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "Arn", "DomainName")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// AttrRefUsage records where a Resource.Attribute reference appears inside
// a declaration.
type AttrRefUsage struct {
	// ResourceName is the logical name of the referenced resource
	ResourceName string
	// Attribute is the referenced attribute (e.g., "Arn")
	Attribute string
	// FieldPath locates the reference, e.g. "Policies[1].PolicyDocument.Statement[0].Resource"
	FieldPath string
}

// DiscoveredResource represents a resource found by AST parsing.
type DiscoveredResource struct {
	// Name is the variable name (becomes CloudFormation logical ID)
	Name string
	// Type is the Go type (e.g., "s3.Bucket", "iam.Role")
	Type string
	// Package is the package name containing the declaration
	Package string
	// File is the source file path
	File string
	// Line is the line number of the declaration
	Line int
	// Dependencies are logical names of referenced resources and variables
	Dependencies []string
	// AttrRefUsages are the Resource.Attribute references made directly in the literal
	AttrRefUsages []AttrRefUsage
}

// DiscoveredParameter represents a template parameter found by AST parsing.
type DiscoveredParameter struct {
	Name string
	File string
	Line int
}

// DiscoveredOutput represents a template output found by AST parsing.
type DiscoveredOutput struct {
	Name          string
	File          string
	Line          int
	AttrRefUsages []AttrRefUsage
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type                  string `json:"Type" yaml:"Type"`
	Description           string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default               any    `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues         []any  `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
	AllowedPattern        string `json:"AllowedPattern,omitempty" yaml:"AllowedPattern,omitempty"`
	ConstraintDescription string `json:"ConstraintDescription,omitempty" yaml:"ConstraintDescription,omitempty"`
	NoEcho                bool   `json:"NoEcho,omitempty" yaml:"NoEcho,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string        `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any           `json:"Value" yaml:"Value"`
	Export      *OutputExport `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// OutputExport names a cross-stack export.
type OutputExport struct {
	Name string `json:"Name" yaml:"Name"`
}

// BuildResult is the JSON output from `opscopilot build`.
type BuildResult struct {
	Success   bool     `json:"success"`
	Template  Template `json:"template,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// LintResult is the JSON output from `opscopilot lint`.
type LintResult struct {
	Success bool        `json:"success"`
	Issues  []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single linting issue.
type LintIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Rule     string `json:"rule"`
}

// ValidateResult is the JSON output from `opscopilot validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// SchemaError is a property-level schema violation in a synthesized template.
type SchemaError struct {
	Resource string `json:"resource"`
	Property string `json:"property"`
	Message  string `json:"message"`
}

// ListResult is the JSON output from `opscopilot list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name string `json:"name"`
	Type string `json:"type"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// TemplateDiff groups resource-level differences between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffEntry describes one changed resource.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type"`
	Changes  []string `json:"changes,omitempty"`
}

// DiffSummary counts the entries of a TemplateDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// DiffResult is the JSON output from `opscopilot diff`.
type DiffResult struct {
	Success bool         `json:"success"`
	Diff    TemplateDiff `json:"diff"`
	Summary DiffSummary  `json:"summary"`
}
