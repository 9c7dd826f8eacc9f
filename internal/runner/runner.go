// Package runner synthesizes a declaration package in a separate Go process.
//
// The values a template is built from are package-level Go vars, so a long
// running command such as watch would otherwise keep serializing the values
// compiled into it. The runner generates a small program inside the module
// that imports the stack package, calls its Values() registry and prints the
// synthesized template, then runs it with `go run`.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/mod/modfile"

	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// ModulePath is the module the generated program imports the synthesizer from.
// Stack packages must live inside it, since the synthesizer is internal.
const ModulePath = "github.com/lex00/opscopilot-aws-go"

// runnerDirPattern names the scratch package. The leading underscore keeps it
// out of ./... patterns while it exists.
const runnerDirPattern = "_opscopilot_runner_*"

var programTemplate = template.Must(template.New("runner").Parse(`// Code generated by opscopilot watch. DO NOT EDIT.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"{{.ModulePath}}/internal/synth"
	stack "{{.StackImport}}"
)

func main() {
	result, err := synth.Synthesize(synth.Options{
		Packages:    []string{ {{- range $i, $p := .Packages}}{{if $i}}, {{end}}{{printf "%q" $p}}{{end -}} },
		Values:      stack.Values(),
		Description: {{printf "%q" .Description}},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := json.NewEncoder(os.Stdout).Encode(result.Template); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`))

// Options configures a synthesis run.
type Options struct {
	// Packages are the declaration directories to discover.
	Packages []string
	// Stack is the directory of the package exporting Values().
	Stack string
	// Description is written to the template Description.
	Description string
	// GoBin is the go command. Defaults to "go" on PATH.
	GoBin string
}

// Module is the Go module enclosing a directory.
type Module struct {
	Path string
	Dir  string
}

// FindModule walks up from dir to the nearest go.mod.
func FindModule(dir string) (*Module, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			path := modfile.ModulePath(data)
			if path == "" {
				return nil, fmt.Errorf("%s: no module directive", filepath.Join(dir, "go.mod"))
			}
			return &Module{Path: path, Dir: dir}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, errors.New("no go.mod found")
		}
		dir = parent
	}
}

// ImportPath returns the import path of dir within m.
func (m *Module) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	if rel == "." {
		return m.Path, nil
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}

// absPattern makes a package pattern absolute, since the generated program
// runs from the module root.
func absPattern(pattern string) (string, error) {
	dir := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if dir != pattern && strings.HasSuffix(pattern, "...") {
		abs = filepath.Join(abs, "...")
	}
	return abs, nil
}

type programData struct {
	ModulePath  string
	StackImport string
	Packages    []string
	Description string
}

func renderProgram(data programData) ([]byte, error) {
	var buf bytes.Buffer
	if err := programTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Synthesize builds the template from the current source of opts.Stack.
// Compile errors and synthesis errors of the generated program are returned
// with its stderr.
func Synthesize(ctx context.Context, opts Options) (*opscopilot.Template, error) {
	if len(opts.Packages) == 0 {
		return nil, errors.New("no packages to synthesize")
	}
	if opts.Stack == "" {
		return nil, errors.New("no stack package")
	}

	mod, err := FindModule(opts.Stack)
	if err != nil {
		return nil, fmt.Errorf("finding module: %w", err)
	}
	if mod.Path != ModulePath {
		return nil, fmt.Errorf("stack %s is in module %s, want %s", opts.Stack, mod.Path, ModulePath)
	}
	stackImport, err := mod.ImportPath(opts.Stack)
	if err != nil {
		return nil, err
	}

	packages := make([]string, len(opts.Packages))
	for i, pkg := range opts.Packages {
		abs, err := absPattern(pkg)
		if err != nil {
			return nil, err
		}
		packages[i] = abs
	}

	program, err := renderProgram(programData{
		ModulePath:  ModulePath,
		StackImport: stackImport,
		Packages:    packages,
		Description: opts.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering program: %w", err)
	}

	dir, err := os.MkdirTemp(mod.Dir, runnerDirPattern)
	if err != nil {
		return nil, fmt.Errorf("creating runner dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if err := os.WriteFile(filepath.Join(dir, "main.go"), program, 0o644); err != nil {
		return nil, fmt.Errorf("writing runner: %w", err)
	}

	goBin := opts.GoBin
	if goBin == "" {
		goBin = "go"
	}
	cmd := exec.CommandContext(ctx, goBin, "run", "./"+filepath.Base(dir))
	cmd.Dir = mod.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("synthesizing %s: %s", stackImport, msg)
		}
		return nil, fmt.Errorf("synthesizing %s: %w", stackImport, err)
	}

	var tmpl opscopilot.Template
	if err := json.Unmarshal(stdout.Bytes(), &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &tmpl, nil
}
