// Package validation checks a stack end to end: source lint, synthesis,
// offline schema checks and cfn-lint over the synthesized template.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	sourcelint "github.com/lex00/opscopilot-aws-go/internal/lint"
	"github.com/lex00/opscopilot-aws-go/internal/schema"
	"github.com/lex00/opscopilot-aws-go/internal/synth"
	"github.com/lex00/opscopilot-aws-go/internal/template"
)

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Result contains every stage of a package validation.
type Result struct {
	Lint          *sourcelint.Result `json:"lint"`
	TemplatePath  string             `json:"template_path,omitempty"`
	Resources     int                `json:"resources"`
	BuildError    string             `json:"build_error,omitempty"`
	Schema        *schema.Result     `json:"schema,omitempty"`
	CfnLintResult *CfnLintResult     `json:"cfn_lint_result"`
}

// Passed reports whether no stage produced an error.
func (r *Result) Passed() bool {
	return r.Lint != nil && r.Lint.Success && r.BuildError == "" &&
		(r.Schema == nil || r.Schema.Valid) &&
		r.CfnLintResult != nil && r.CfnLintResult.Passed
}

// Summary converts the result to the CLI's JSON output shape.
func (r *Result) Summary() opscopilot.ValidateResult {
	out := opscopilot.ValidateResult{Success: r.Passed(), Resources: r.Resources}
	if r.Lint != nil {
		for _, issue := range r.Lint.Issues {
			line := fmt.Sprintf("%s:%d: %s: %s", issue.File, issue.Line, issue.Rule, issue.Message)
			if issue.Severity == sourcelint.SeverityError {
				out.Errors = append(out.Errors, line)
			} else {
				out.Warnings = append(out.Warnings, line)
			}
		}
	}
	if r.BuildError != "" {
		out.Errors = append(out.Errors, r.BuildError)
	}
	if r.Schema != nil {
		for _, e := range r.Schema.Errors {
			out.Errors = append(out.Errors, formatSchemaError(e))
		}
		for _, w := range r.Schema.Warnings {
			out.Warnings = append(out.Warnings, formatSchemaError(w))
		}
	}
	if r.CfnLintResult != nil {
		out.Errors = append(out.Errors, r.CfnLintResult.Errors...)
		out.Warnings = append(out.Warnings, r.CfnLintResult.Warnings...)
	}
	return out
}

// RunCfnLint runs cfn-lint-go on the given template file.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}
	for _, match := range matches {
		formatted := formatMatch(match)
		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Warnings are acceptable
	result.Passed = len(result.Errors) == 0
	return result, nil
}

// ValidateTemplate writes tmpl as JSON under dir and runs cfn-lint on it.
// It returns the path of the written template.
func ValidateTemplate(tmpl *opscopilot.Template, dir string) (string, *CfnLintResult, error) {
	data, err := template.ToJSON(tmpl)
	if err != nil {
		return "", nil, fmt.Errorf("encoding template: %w", err)
	}
	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", nil, fmt.Errorf("writing template: %w", err)
	}
	result, err := RunCfnLint(path)
	if err != nil {
		return "", nil, err
	}
	return path, result, nil
}

// ValidatePackage lints the declaration sources, synthesizes them and runs
// cfn-lint over the result. The template is kept in outputDir when set and
// in a removed temporary directory otherwise. Build keeps going after lint
// issues so one run reports as much as possible.
func ValidatePackage(opts synth.Options, outputDir string) (*Result, error) {
	result := &Result{Lint: &sourcelint.Result{Success: true}}

	for _, pkg := range opts.Packages {
		lintResult, err := sourcelint.LintPackage(pkg, sourcelint.Options{})
		if err != nil {
			return nil, fmt.Errorf("linting %s: %w", pkg, err)
		}
		result.Lint.Issues = append(result.Lint.Issues, lintResult.Issues...)
		result.Lint.Success = result.Lint.Success && lintResult.Success
	}

	synthesized, err := synth.Synthesize(opts)
	if err != nil {
		result.BuildError = err.Error()
		result.CfnLintResult = &CfnLintResult{
			Errors: []string{"Build failed - no template to validate"},
		}
		return result, nil
	}
	result.Resources = len(synthesized.Template.Resources)
	result.Schema = schema.ValidateTemplate(synthesized.Template, schema.Options{})

	dir := outputDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "opscopilot-validate-")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	path, cfnResult, err := ValidateTemplate(synthesized.Template, dir)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		result.TemplatePath = path
	}
	result.CfnLintResult = cfnResult
	return result, nil
}

func formatSchemaError(e opscopilot.SchemaError) string {
	return fmt.Sprintf("%s.%s: %s", e.Resource, e.Property, e.Message)
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, strings.Join(parts, "/"))
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}
