// Package intrinsics holds the values stack declarations are written with:
// CloudFormation intrinsic functions, template parameters and outputs, and
// IAM policy documents.
//
// Resource and parameter vars serialize to Ref and AttrRef fields to
// Fn::GetAtt, so the explicit forms below are only needed for strings:
//
//	Sub{String: "${CopilotArtifacts.Arn}/*"}  // {"Fn::Sub": "${CopilotArtifacts.Arn}/*"}
//	Join{Delimiter: "-", Values: []any{AWS_STACK_NAME, "timeline"}}
package intrinsics

import (
	"encoding/json"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// Intrinsic functions shared with cloudformation-schema-go.
type (
	Ref         = intrinsics.Ref
	GetAtt      = intrinsics.GetAtt
	Sub         = intrinsics.Sub
	SubWithMap  = intrinsics.SubWithMap
	Join        = intrinsics.Join
	Split       = intrinsics.Split
	ImportValue = intrinsics.ImportValue
)

// Parameter defines a CloudFormation template parameter with full metadata.
// When used as a value in resource properties, it serializes to {"Ref": "ParameterName"}.
//
// Example:
//
//	var DryRun = Parameter{
//	    Type:          "String",
//	    Default:       "true",
//	    AllowedValues: []any{"true", "false"},
//	}
//
//	var ApproverEnvironment = lambda.Function_Environment{
//	    Variables: Json{"DRY_RUN": DryRun},  // {"Ref": "DryRun"}
//	}
type Parameter struct {
	// Type is the CloudFormation parameter type (String, Number, List<Number>, etc.)
	Type string
	// Description is optional documentation for the parameter
	Description string
	// Default is the default value if none is provided
	Default any
	// AllowedValues restricts the parameter to specific values
	AllowedValues []any
	// AllowedPattern is a regex pattern for String type validation
	AllowedPattern string
	// ConstraintDescription explains validation failures
	ConstraintDescription string
	// NoEcho masks the parameter value in console/logs
	NoEcho bool

	// name is bound during synthesis
	name string
}

// SetName sets the parameter name for Ref serialization.
func (p *Parameter) SetName(name string) {
	p.name = name
}

// Name returns the parameter name.
func (p Parameter) Name() string {
	return p.name
}

// MarshalJSON serializes Parameter as a CloudFormation Ref when used as a value.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": p.name})
}

// ToDefinition returns the parameter as a map suitable for the Parameters section.
func (p Parameter) ToDefinition() map[string]any {
	def := map[string]any{
		"Type": p.Type,
	}
	if p.Description != "" {
		def["Description"] = p.Description
	}
	if p.Default != nil {
		def["Default"] = p.Default
	}
	if len(p.AllowedValues) > 0 {
		def["AllowedValues"] = p.AllowedValues
	}
	if p.AllowedPattern != "" {
		def["AllowedPattern"] = p.AllowedPattern
	}
	if p.ConstraintDescription != "" {
		def["ConstraintDescription"] = p.ConstraintDescription
	}
	if p.NoEcho {
		def["NoEcho"] = true
	}
	return def
}

// Output declares a CloudFormation stack output.
//
// Example:
//
//	var EventBusArn = Output{
//	    Value:      OpsCopilotBus.Arn,
//	    ExportName: "OpsCopilotEventBusArn",
//	}
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       any    `json:"Value,omitempty"`
	ExportName  string `json:"ExportName,omitempty"`
}

// BoolFlag returns the "true"/"false" string literal form used for
// Lambda feature flags.
func BoolFlag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
