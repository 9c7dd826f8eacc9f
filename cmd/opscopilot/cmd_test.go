package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/opscopilot-aws-go/infra/copilot"
	"github.com/lex00/opscopilot-aws-go/internal/differ"
	"github.com/lex00/opscopilot-aws-go/internal/synth"
)

const stackDir = "../../infra/copilot"

func copilotOptions() synth.Options {
	return synth.Options{
		Packages:    []string{stackDir},
		Values:      copilot.Values(),
		Description: "OpsCopilot core stack",
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"build", "list", "graph", "validate", "lint", "diff", "watch", "publish", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestRunBuild_WritesTemplate(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "template.json")
	yamlPath := filepath.Join(dir, "template.yaml")

	require.NoError(t, runBuild(copilotOptions(), "json", jsonPath))
	require.NoError(t, runBuild(copilotOptions(), "yaml", yamlPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"AWS::DynamoDB::Table"`)
	assert.Contains(t, string(data), `"OpsCopilotEventBusArn"`)

	// The same stack in both encodings compares equal.
	result, err := differ.CompareFiles(jsonPath, yamlPath, differ.Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total)
}

func TestRunBuild_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "template.json")

	err := runBuild(copilotOptions(), "toml", out)
	assert.ErrorContains(t, err, "unknown format")

	opts := copilotOptions()
	opts.Packages = []string{t.TempDir()}
	err = runBuild(opts, "json", out)
	assert.ErrorContains(t, err, "build failed")
	assert.NoFileExists(t, out)
}

func TestNewDiffCmd(t *testing.T) {
	cmd := newDiffCmd()

	if cmd.Use != "diff <template1> <template2>" {
		t.Errorf("Use = %q, want 'diff <template1> <template2>'", cmd.Use)
	}
	if cmd.Flags().Lookup("format") == nil {
		t.Error("missing --format flag")
	}
	if cmd.Flags().Lookup("ignore-order") == nil {
		t.Error("missing --ignore-order flag")
	}
	if err := cmd.Args(cmd, []string{"a.json"}); err == nil {
		t.Error("diff should require two templates")
	}
}

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd()

	if cmd.Flags().Lookup("lint-only") == nil {
		t.Error("missing --lint-only flag")
	}

	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("missing --debounce flag")
	}
	if flag.DefValue != "500ms" {
		t.Errorf("debounce default = %q, want '500ms'", flag.DefValue)
	}
}

func TestIsSourceChange(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write go file", fsnotify.Event{Name: "storage.go", Op: fsnotify.Write}, true},
		{"create go file", fsnotify.Event{Name: "alarms.go", Op: fsnotify.Create}, true},
		{"remove go file", fsnotify.Event{Name: "alarms.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "storage.go", Op: fsnotify.Chmod}, false},
		{"test file", fsnotify.Event{Name: "stack_test.go", Op: fsnotify.Write}, false},
		{"other file", fsnotify.Event{Name: "template.json", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSourceChange(tt.event))
		})
	}
}

func TestResolvePackageDirs(t *testing.T) {
	dirs, err := resolvePackageDirs([]string{"./infra/...", "infra", "..."})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(wd, "infra"), wd}, dirs)
}

func TestStackPackages(t *testing.T) {
	saved := cfg
	defer func() { cfg = saved }()
	cfg.Stack.Dir = "./stacks/copilot"

	assert.Equal(t, []string{"./stacks/copilot"}, stackPackages(nil))
	assert.Equal(t, []string{"./infra"}, stackPackages([]string{"./infra"}))
	assert.Len(t, stackOptions(nil).Values, len(copilot.Values()))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "flag", firstNonEmpty("flag", "env"))
	assert.Equal(t, "env", firstNonEmpty("", "env"))
	assert.Empty(t, firstNonEmpty("", ""))
}
