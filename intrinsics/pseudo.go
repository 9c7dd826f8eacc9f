package intrinsics

// Pseudo-parameters are predefined by CloudFormation in every template.
//
//	Resource: Join(":", "arn", AWS_PARTITION, "sns", AWS_REGION, AWS_ACCOUNT_ID, "*")
var (
	AWS_ACCOUNT_ID        = Ref{LogicalName: "AWS::AccountId"}
	AWS_NOTIFICATION_ARNS = Ref{LogicalName: "AWS::NotificationARNs"}
	// AWS_NO_VALUE removes the property when returned from Fn::If.
	AWS_NO_VALUE   = Ref{LogicalName: "AWS::NoValue"}
	AWS_PARTITION  = Ref{LogicalName: "AWS::Partition"}
	AWS_REGION     = Ref{LogicalName: "AWS::Region"}
	AWS_STACK_ID   = Ref{LogicalName: "AWS::StackId"}
	AWS_STACK_NAME = Ref{LogicalName: "AWS::StackName"}
	AWS_URL_SUFFIX = Ref{LogicalName: "AWS::URLSuffix"}
)

// PseudoParameters maps each pseudo-parameter to the identifier declared
// for it above.
var PseudoParameters = map[string]string{
	"AWS::AccountId":        "AWS_ACCOUNT_ID",
	"AWS::NotificationARNs": "AWS_NOTIFICATION_ARNS",
	"AWS::NoValue":          "AWS_NO_VALUE",
	"AWS::Partition":        "AWS_PARTITION",
	"AWS::Region":           "AWS_REGION",
	"AWS::StackId":          "AWS_STACK_ID",
	"AWS::StackName":        "AWS_STACK_NAME",
	"AWS::URLSuffix":        "AWS_URL_SUFFIX",
}
