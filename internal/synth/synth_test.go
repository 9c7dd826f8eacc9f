package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/opscopilot-aws-go/intrinsics"
	"github.com/lex00/opscopilot-aws-go/resources/iam"
	"github.com/lex00/opscopilot-aws-go/resources/s3"
)

const stackSource = `package copilot

import (
	. "github.com/lex00/opscopilot-aws-go/intrinsics"
	"github.com/lex00/opscopilot-aws-go/resources/iam"
	"github.com/lex00/opscopilot-aws-go/resources/s3"
)

var CopilotRunbooks = s3.Bucket{}

var CopilotLambdaRole = iam.Role{
	Description: CopilotRunbooks.Arn,
}

var RunbooksBucket = Output{
	Value:      CopilotRunbooks,
	ExportName: "OpsCopilotRunbooksBucket",
}
`

func writeStack(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stack.go"), []byte(source), 0644))
	return dir
}

func stackValues() map[string]any {
	return map[string]any{
		"CopilotRunbooks":   s3.Bucket{},
		"CopilotLambdaRole": iam.Role{},
		"RunbooksBucket": intrinsics.Output{
			Value:      s3.Bucket{},
			ExportName: "OpsCopilotRunbooksBucket",
		},
	}
}

func TestSynthesize(t *testing.T) {
	dir := writeStack(t, stackSource)

	result, err := Synthesize(Options{
		Packages:    []string{dir},
		Values:      stackValues(),
		Description: "OpsCopilot core stack",
	})
	require.NoError(t, err)

	tmpl := result.Template
	assert.Equal(t, "OpsCopilot core stack", tmpl.Description)
	assert.Len(t, tmpl.Resources, 2)
	assert.Equal(t, "AWS::S3::Bucket", tmpl.Resources["CopilotRunbooks"].Type)
	assert.Equal(t,
		map[string]any{"Fn::GetAtt": []any{"CopilotRunbooks", "Arn"}},
		tmpl.Resources["CopilotLambdaRole"].Properties["Description"],
	)
	assert.Equal(t, map[string]any{"Ref": "CopilotRunbooks"}, tmpl.Outputs["RunbooksBucket"].Value)
	assert.Contains(t, result.Discovery.Resources, "CopilotLambdaRole")
}

func TestSynthesize_NoPackages(t *testing.T) {
	_, err := Synthesize(Options{})
	assert.EqualError(t, err, "no packages to synthesize")
}

func TestSynthesize_NoResources(t *testing.T) {
	dir := writeStack(t, "package copilot\n")

	_, err := Synthesize(Options{Packages: []string{dir}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resources found")
}

func TestSynthesize_DiscoveryErrors(t *testing.T) {
	dir := writeStack(t, `package copilot

import "github.com/lex00/opscopilot-aws-go/resources/iam"

var CopilotLambdaRole = iam.Role{
	Description: MissingBucket.Arn,
}
`)

	_, err := Synthesize(Options{
		Packages: []string{dir},
		Values:   map[string]any{"CopilotLambdaRole": iam.Role{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discovery failed")
	assert.Contains(t, err.Error(), `references undefined resource "MissingBucket"`)
}

func TestSynthesize_RegistryDrift(t *testing.T) {
	dir := writeStack(t, stackSource)

	values := stackValues()
	delete(values, "CopilotLambdaRole")
	values["StaleBucket"] = s3.Bucket{}

	_, err := Synthesize(Options{Packages: []string{dir}, Values: values})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CopilotLambdaRole is declared but has no registered value")
	assert.Contains(t, err.Error(), "StaleBucket is registered but not declared")
}
