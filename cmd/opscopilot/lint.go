package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/discover"
	"github.com/lex00/opscopilot-aws-go/internal/lint"
)

func newLintCmd() *cobra.Command {
	var (
		outputFormat string
		rules        []string
	)

	cmd := &cobra.Command{
		Use:   "lint [packages...]",
		Short: "Check stack declarations for issues",
		Long: `Lint checks the stack declaration sources for common issues.

Rules:
    WAW001: Use pseudo-parameter constants instead of hardcoded strings
    WAW003: Detect duplicate resource variable names
    WAW004: Split large files with too many resources
    WAW015: Use direct references instead of explicit Ref{}
    WAW016: Use Resource.Attr instead of explicit GetAtt{}
    WAW017: Do not take the address of resource values
    WAW019: Hardcoded secrets
    WAW020: Placeholder identifiers such as YOUR_WORKSPACE_ID
    WAW021: Wildcard resource on write actions without a condition

Exit status is 2 when issues are found.

Examples:
    opscopilot lint
    opscopilot lint ./infra/... --rules WAW019,WAW020`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(stackPackages(args), outputFormat, rules)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "Only run these rule IDs")

	return cmd
}

func runLint(packages []string, format string, rules []string) error {
	var issues []opscopilot.LintIssue

	// Discovery validates references across files
	discoverResult, err := discover.Discover(discover.Options{
		Packages: packages,
	})
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	for _, e := range discoverResult.Errors {
		issues = append(issues, opscopilot.LintIssue{
			Severity: "error",
			Message:  e.Error(),
			Rule:     "undefined-reference",
		})
	}

	for _, pkg := range packages {
		lintResult, err := lint.LintPackage(pkg, lint.Options{EnabledRules: rules})
		if err != nil {
			logger.Warn("failed to lint package", "package", pkg, "error", err)
			continue
		}

		for _, issue := range lintResult.Issues {
			issues = append(issues, opscopilot.LintIssue{
				Severity: issue.Severity.String(),
				Message:  issue.Message,
				Rule:     issue.Rule,
				File:     issue.File,
				Line:     issue.Line,
				Column:   issue.Column,
			})
		}
	}

	result := opscopilot.LintResult{
		Success: len(issues) == 0,
		Issues:  issues,
	}

	if err := outputLintResult(result, format); err != nil {
		return err
	}
	if !result.Success {
		os.Exit(2)
	}
	return nil
}

func outputLintResult(result opscopilot.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Println("No issues found.")
			return nil
		}

		for _, issue := range result.Issues {
			fmt.Println(formatIssue(issue))
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}

func formatIssue(issue opscopilot.LintIssue) string {
	if issue.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
			issue.File, issue.Line, issue.Column,
			issue.Severity, issue.Message, issue.Rule)
	}
	return fmt.Sprintf("%s: %s [%s]", issue.Severity, issue.Message, issue.Rule)
}
