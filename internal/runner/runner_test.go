package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindModule(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/stack\n\ngo 1.24\n"), 0o644))
	nested := filepath.Join(root, "infra", "copilot")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	mod, err := FindModule(nested)
	require.NoError(t, err)
	assert.Equal(t, "example.com/stack", mod.Path)
	assert.Equal(t, root, mod.Dir)

	path, err := mod.ImportPath(nested)
	require.NoError(t, err)
	assert.Equal(t, "example.com/stack/infra/copilot", path)

	path, err = mod.ImportPath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/stack", path)

	_, err = mod.ImportPath(filepath.Dir(root))
	assert.ErrorContains(t, err, "outside module")
}

func TestFindModule_NoModuleDirective(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("go 1.24\n"), 0o644))

	_, err := FindModule(root)
	assert.ErrorContains(t, err, "no module directive")
}

func TestAbsPattern(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		pattern string
		want    string
	}{
		{"./infra", filepath.Join(wd, "infra")},
		{"./infra/...", filepath.Join(wd, "infra", "...")},
		{"...", filepath.Join(wd, "...")},
		{"./infra/", filepath.Join(wd, "infra")},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := absPattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderProgram(t *testing.T) {
	src, err := renderProgram(programData{
		ModulePath:  ModulePath,
		StackImport: ModulePath + "/infra/copilot",
		Packages:    []string{"/src/infra/copilot", "/src/infra/extra"},
		Description: `OpsCopilot "core"`,
	})
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, `stack "github.com/lex00/opscopilot-aws-go/infra/copilot"`)
	assert.Contains(t, out, `"github.com/lex00/opscopilot-aws-go/internal/synth"`)
	assert.Contains(t, out, `Packages:    []string{"/src/infra/copilot", "/src/infra/extra"},`)
	assert.Contains(t, out, `Description: "OpsCopilot \"core\"",`)
	assert.Contains(t, out, "Values:      stack.Values(),")
}

func TestSynthesize_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Synthesize(ctx, Options{Stack: "."})
	assert.ErrorContains(t, err, "no packages")

	_, err = Synthesize(ctx, Options{Packages: []string{"."}})
	assert.ErrorContains(t, err, "no stack package")

	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "go.mod"), []byte("module example.com/other\n"), 0o644))
	_, err = Synthesize(ctx, Options{Packages: []string{other}, Stack: other})
	assert.ErrorContains(t, err, "example.com/other")
}

const bucketStack = `package %s

import "github.com/lex00/opscopilot-aws-go/resources/s3"

var ScratchBucket = s3.Bucket{
	BucketName: %q,
}

func Values() map[string]any {
	return map[string]any{%s}
}
`

// writeStack writes a one-bucket stack package into dir.
func writeStack(t *testing.T, dir, bucketName, values string) {
	t.Helper()
	src := []byte(fmt.Sprintf(bucketStack, filepath.Base(dir), bucketName, values))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stack.go"), src, 0o644))
}

// TestSynthesize_FollowsSourceEdits runs the go toolchain: each synthesis
// must reflect the source as it is on disk, not as it was compiled.
func TestSynthesize_FollowsSourceEdits(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go run")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	mod, err := FindModule(".")
	require.NoError(t, err)
	dir, err := os.MkdirTemp(mod.Dir, "_runnertest")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	opts := Options{Packages: []string{dir}, Stack: dir, Description: "scratch"}
	ctx := context.Background()

	writeStack(t, dir, "first-name", `"ScratchBucket": ScratchBucket`)
	tmpl, err := Synthesize(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "scratch", tmpl.Description)
	require.Contains(t, tmpl.Resources, "ScratchBucket")
	assert.Equal(t, "AWS::S3::Bucket", tmpl.Resources["ScratchBucket"].Type)
	assert.Equal(t, "first-name", tmpl.Resources["ScratchBucket"].Properties["BucketName"])

	writeStack(t, dir, "second-name", `"ScratchBucket": ScratchBucket`)
	tmpl, err = Synthesize(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "second-name", tmpl.Resources["ScratchBucket"].Properties["BucketName"])

	// A declaration missing from the registry refuses the build.
	writeStack(t, dir, "third-name", "")
	_, err = Synthesize(ctx, opts)
	assert.ErrorContains(t, err, "ScratchBucket is declared but has no registered value")

	entries, err := filepath.Glob(filepath.Join(mod.Dir, runnerDirPattern))
	require.NoError(t, err)
	assert.Empty(t, entries, "runner dirs should be removed")
}
