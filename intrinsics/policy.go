package intrinsics

import "encoding/json"

// PolicyVersion is the IAM policy language version written into every
// document.
const PolicyVersion = "2012-10-17"

// Json is an inline JSON object, mostly used for Condition blocks:
//
//	Condition: Json{StringEquals: Json{"cloudwatch:namespace": "CopilotOps"}}
type Json = map[string]any

// List returns its arguments as a typed slice.
func List[T any](items ...T) []T {
	return items
}

// Any returns its arguments as []any, for fields mixing literals and
// intrinsics:
//
//	Resource: Any(ArtifactObjects, RunbookObjects),
func Any(items ...any) []any {
	return items
}

type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

func NewPolicyDocument() PolicyDocument {
	return PolicyDocument{Version: PolicyVersion}
}

// PolicyStatement is one IAM statement. Action and Resource take a string,
// an intrinsic, or a slice of either.
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// ServicePrincipal serializes to {"Service": ...}.
type ServicePrincipal []any

func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	return marshalPrincipal("Service", p)
}

// AWSPrincipal serializes to {"AWS": ...}.
type AWSPrincipal []any

func (p AWSPrincipal) MarshalJSON() ([]byte, error) {
	return marshalPrincipal("AWS", p)
}

// marshalPrincipal collapses a single-element list to a scalar, which is
// how IAM renders principals.
func marshalPrincipal(kind string, ids []any) ([]byte, error) {
	var v any = ids
	if len(ids) == 1 {
		v = ids[0]
	}
	return json.Marshal(map[string]any{kind: v})
}

// Condition operators.
const (
	StringEquals    = "StringEquals"
	StringNotEquals = "StringNotEquals"
	StringLike      = "StringLike"
	ArnEquals       = "ArnEquals"
	ArnLike         = "ArnLike"
	Bool            = "Bool"
	Null            = "Null"
)
