// Package cloudwatch contains CloudFormation resource types for Amazon CloudWatch.
package cloudwatch

// Dashboard represents AWS::CloudWatch::Dashboard.
type Dashboard struct {
	DashboardName any `json:"DashboardName,omitempty"`
	DashboardBody any `json:"DashboardBody,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Dashboard) ResourceType() string { return "AWS::CloudWatch::Dashboard" }
