package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/validation"
)

// newValidateCmd creates the "validate" subcommand: source lint, build and
// cfn-lint in one pass.
func newValidateCmd() *cobra.Command {
	var (
		outputFormat string
		keepDir      string
	)

	cmd := &cobra.Command{
		Use:   "validate [packages...]",
		Short: "Lint, build and cfn-lint the stack",
		Long: `Validate runs the source lint rules, synthesizes the template and
checks it with cfn-lint.

Lint errors and cfn-lint errors fail validation; warnings are reported
but pass.

Examples:
    opscopilot validate
    opscopilot validate --keep ./out --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args, outputFormat, keepDir)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&keepDir, "keep", "", "Directory to keep the synthesized template in")

	return cmd
}

func runValidate(args []string, format, keepDir string) error {
	result, err := validation.ValidatePackage(stackOptions(args), keepDir)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if result.TemplatePath != "" {
		logger.Info("kept template", "path", result.TemplatePath)
	}

	summary := result.Summary()
	if err := outputValidateResult(summary, format); err != nil {
		return err
	}
	if !summary.Success {
		os.Exit(1)
	}
	return nil
}

func outputValidateResult(result opscopilot.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Printf("Validation passed: %d resources OK\n", result.Resources)
		} else {
			fmt.Println("Validation FAILED:")
		}
		for _, errMsg := range result.Errors {
			fmt.Printf("  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Printf("  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
