package schema

var (
	str  = PropertySchema{Type: "String"}
	num  = PropertySchema{Type: "Integer"}
	list = PropertySchema{Type: "List"}
	obj  = PropertySchema{Type: "Map"}
	doc  = PropertySchema{Type: "Json"}
	flag = PropertySchema{Type: "Boolean"}
)

func oneOf(values ...string) PropertySchema {
	return PropertySchema{Type: "String", AllowedValues: values}
}

// resourceSchemas covers the resource types declared by the copilot stack.
var resourceSchemas = map[string]ResourceSchema{
	"AWS::Events::EventBus": {
		Required: []string{"Name"},
		Properties: map[string]PropertySchema{
			"Name":             str,
			"Description":      str,
			"EventSourceName":  str,
			"KmsKeyIdentifier": str,
			"DeadLetterConfig": obj,
			"Policy":           doc,
			"Tags":             list,
		},
	},
	"AWS::Events::Rule": {
		Properties: map[string]PropertySchema{
			"Name":               str,
			"Description":        str,
			"EventBusName":       str,
			"EventPattern":       doc,
			"ScheduleExpression": str,
			"RoleArn":            str,
			"State":              oneOf("DISABLED", "ENABLED", "ENABLED_WITH_ALL_CLOUDTRAIL_MANAGEMENT_EVENTS"),
			"Targets":            list,
		},
	},
	"AWS::S3::Bucket": {
		Properties: map[string]PropertySchema{
			"BucketName":                     str,
			"BucketEncryption":               obj,
			"PublicAccessBlockConfiguration": obj,
			"VersioningConfiguration":        obj,
			"LifecycleConfiguration":         obj,
			"OwnershipControls":              obj,
			"Tags":                           list,
		},
	},
	"AWS::DynamoDB::Table": {
		Required: []string{"KeySchema"},
		Properties: map[string]PropertySchema{
			"TableName":                        str,
			"AttributeDefinitions":             list,
			"KeySchema":                        list,
			"BillingMode":                      oneOf("PROVISIONED", "PAY_PER_REQUEST"),
			"PointInTimeRecoverySpecification": obj,
			"ProvisionedThroughput":            obj,
			"SSESpecification":                 obj,
			"StreamSpecification":              obj,
			"TimeToLiveSpecification":          obj,
			"Tags":                             list,
		},
	},
	"AWS::SNS::Topic": {
		Properties: map[string]PropertySchema{
			"TopicName":      str,
			"DisplayName":    str,
			"KmsMasterKeyId": str,
			"FifoTopic":      flag,
			"Subscription":   list,
			"Tags":           list,
		},
	},
	"AWS::IAM::Role": {
		Required: []string{"AssumeRolePolicyDocument"},
		Properties: map[string]PropertySchema{
			"RoleName":                 str,
			"Description":              str,
			"Path":                     str,
			"AssumeRolePolicyDocument": doc,
			"ManagedPolicyArns":        list,
			"Policies":                 list,
			"MaxSessionDuration":       num,
			"PermissionsBoundary":      str,
			"Tags":                     list,
		},
	},
	"AWS::IAM::Policy": {
		Required: []string{"PolicyDocument", "PolicyName"},
		Properties: map[string]PropertySchema{
			"PolicyName":     str,
			"PolicyDocument": doc,
			"Roles":          list,
			"Groups":         list,
			"Users":          list,
		},
	},
	"AWS::Lambda::Function": {
		Required: []string{"Code", "Role"},
		Properties: map[string]PropertySchema{
			"FunctionName": str,
			"Description":  str,
			"Code":         obj,
			"Handler":      str,
			"Role":         str,
			"Runtime": oneOf(
				"python3.9", "python3.10", "python3.11", "python3.12", "python3.13",
				"nodejs18.x", "nodejs20.x", "nodejs22.x",
				"java17", "java21", "provided.al2", "provided.al2023",
			),
			"Timeout":                      num,
			"MemorySize":                   num,
			"Environment":                  obj,
			"Architectures":                list,
			"ReservedConcurrentExecutions": num,
			"TracingConfig":                obj,
			"Layers":                       list,
			"Tags":                         list,
		},
	},
	"AWS::Lambda::Permission": {
		Required: []string{"Action", "FunctionName", "Principal"},
		Properties: map[string]PropertySchema{
			"Action":        str,
			"FunctionName":  str,
			"Principal":     str,
			"SourceArn":     str,
			"SourceAccount": str,
		},
	},
	"AWS::SSM::Document": {
		Required: []string{"Content"},
		Properties: map[string]PropertySchema{
			"Name":    str,
			"Content": doc,
			"DocumentType": oneOf(
				"ApplicationConfiguration", "ApplicationConfigurationSchema", "Automation",
				"Automation.ChangeTemplate", "ChangeCalendar", "CloudFormation", "Command",
				"DeploymentStrategy", "Package", "Policy", "ProblemAnalysis",
				"ProblemAnalysisTemplate", "Session",
			),
			"DocumentFormat": oneOf("YAML", "JSON", "TEXT"),
			"TargetType":     str,
			"UpdateMethod":   oneOf("Replace", "NewVersion"),
			"Tags":           list,
		},
	},
	"AWS::Chatbot::SlackChannelConfiguration": {
		Required: []string{"ConfigurationName", "IamRoleArn", "SlackChannelId", "SlackWorkspaceId"},
		Properties: map[string]PropertySchema{
			"ConfigurationName": str,
			"IamRoleArn":        str,
			"SlackChannelId":    str,
			"SlackWorkspaceId":  str,
			"SnsTopicArns":      list,
			"GuardrailPolicies": list,
			"LoggingLevel":      oneOf("ERROR", "INFO", "NONE"),
			"UserRoleRequired":  flag,
		},
	},
	"AWS::CloudWatch::Dashboard": {
		Required: []string{"DashboardBody"},
		Properties: map[string]PropertySchema{
			"DashboardName": str,
			"DashboardBody": str,
		},
	},
}
