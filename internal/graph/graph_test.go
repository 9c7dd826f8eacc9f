package graph

import (
	"strings"
	"testing"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/discover"
)

func stack() *discover.Result {
	return &discover.Result{
		Resources: map[string]opscopilot.DiscoveredResource{
			"CopilotRunbooks":  {Name: "CopilotRunbooks", Type: "s3.Bucket"},
			"CopilotArtifacts": {Name: "CopilotArtifacts", Type: "s3.Bucket"},
			"CopilotLambdaRole": {
				Name:         "CopilotLambdaRole",
				Type:         "iam.Role",
				Dependencies: []string{"CopilotArtifacts"},
			},
			"TriagerFn": {
				Name:         "TriagerFn",
				Type:         "lambda.Function",
				Dependencies: []string{"CopilotLambdaRole", "CopilotRunbooks", "BedrockModel"},
			},
		},
		Parameters: map[string]opscopilot.DiscoveredParameter{
			"BedrockModel": {Name: "BedrockModel"},
		},
		VarRefs: map[string]discover.VarRefInfo{
			"TriagerFn": {
				AttrRefs: []opscopilot.AttrRefUsage{
					{ResourceName: "CopilotLambdaRole", Attribute: "Arn", FieldPath: "Role"},
				},
				Vars: map[string]string{"Environment": "TriagerEnvironment"},
			},
			"TriagerEnvironment": {
				Vars: map[string]string{
					"Variables.RUNBOOKS_BUCKET": "CopilotRunbooks",
					"Variables.BEDROCK_MODEL":   "BedrockModel",
				},
			},
		},
	}
}

func TestGenerator_DOT(t *testing.T) {
	gen := &Generator{}
	output, err := gen.GenerateString(stack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(output, "digraph") {
		t.Error("expected digraph declaration")
	}
	for _, label := range []string{
		"TriagerFn", "[AWS::Lambda::Function]",
		"CopilotLambdaRole", "[AWS::IAM::Role]",
		"CopilotRunbooks", "[AWS::S3::Bucket]",
	} {
		if !strings.Contains(output, label) {
			t.Errorf("expected node label %q", label)
		}
	}
	if strings.Contains(output, "BedrockModel") {
		t.Error("parameters should be hidden by default")
	}
}

func TestGenerator_GetAttEdgesAreBlue(t *testing.T) {
	gen := &Generator{}
	output, err := gen.GenerateString(stack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(output, "blue") != 1 {
		t.Errorf("expected exactly one GetAtt edge, got:\n%s", output)
	}
}

func TestGenerator_IncludeParameters(t *testing.T) {
	gen := &Generator{IncludeParameters: true}
	output, err := gen.GenerateString(stack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "BedrockModel") {
		t.Error("expected parameter node")
	}
	if !strings.Contains(output, "dashed") {
		t.Error("expected dashed parameter style")
	}
}

func TestGenerator_ClusterByService(t *testing.T) {
	gen := &Generator{ClusterByService: true}
	output, err := gen.GenerateString(stack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := strings.Count(output, "subgraph cluster_"); n != 1 {
		t.Errorf("expected one cluster, got %d:\n%s", n, output)
	}
	if !strings.Contains(output, `label="S3"`) {
		t.Error("expected S3 cluster for the two buckets")
	}
	if strings.Contains(output, `label="Lambda"`) {
		t.Error("single-resource services should not be clustered")
	}

	// Every resource is drawn once, and edges attach to the clustered nodes.
	for _, name := range []string{"CopilotArtifacts", "CopilotRunbooks", "CopilotLambdaRole", "TriagerFn"} {
		if n := strings.Count(output, `label="`+name); n != 1 {
			t.Errorf("expected %s once, got %d:\n%s", name, n, output)
		}
	}
	if n := strings.Count(output, "->"); n != 3 {
		t.Errorf("expected 3 edges, got %d:\n%s", n, output)
	}
}

func TestGenerator_Mermaid(t *testing.T) {
	gen := &Generator{Format: FormatMermaid}
	output, err := gen.GenerateString(stack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "flowchart TD") && !strings.Contains(output, "graph TD") {
		t.Errorf("expected top-down mermaid graph, got:\n%s", output)
	}
	if !strings.Contains(output, "TriagerFn") {
		t.Error("expected TriagerFn in mermaid output")
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	gen := &Generator{ClusterByService: true, IncludeParameters: true}
	first, err := gen.GenerateString(stack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := gen.GenerateString(stack())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != first {
			t.Fatal("graph output is not deterministic")
		}
	}
}

func TestServiceNameAndType(t *testing.T) {
	tests := []struct {
		goType  string
		service string
		cfType  string
	}{
		{"s3.Bucket", "S3", "AWS::S3::Bucket"},
		{"dynamodb.Table", "DynamoDB", "AWS::DynamoDB::Table"},
		{"chatbot.SlackChannelConfiguration", "Chatbot", "AWS::Chatbot::SlackChannelConfiguration"},
		{"custom.Thing", "CUSTOM", "custom.Thing"},
	}
	for _, tt := range tests {
		if got := serviceName(tt.goType); got != tt.service {
			t.Errorf("serviceName(%q) = %q, want %q", tt.goType, got, tt.service)
		}
		if got := cfType(tt.goType); got != tt.cfType {
			t.Errorf("cfType(%q) = %q, want %q", tt.goType, got, tt.cfType)
		}
	}
}
