// Package ssm contains CloudFormation resource types for AWS Systems Manager.
package ssm

// Document represents AWS::SSM::Document.
// Ref returns the document name.
type Document struct {
	Name           any   `json:"Name,omitempty"`
	Content        any   `json:"Content,omitempty"`
	DocumentType   any   `json:"DocumentType,omitempty"`
	DocumentFormat any   `json:"DocumentFormat,omitempty"`
	TargetType     any   `json:"TargetType,omitempty"`
	UpdateMethod   any   `json:"UpdateMethod,omitempty"`
	Tags           []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Document) ResourceType() string { return "AWS::SSM::Document" }

// Document types.
const (
	DocumentTypeAutomation = "Automation"
	DocumentTypeCommand    = "Command"
)
