package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/differ"
)

func newDiffCmd() *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <template1> <template2>",
		Short: "Compare two CloudFormation templates",
		Long: `Diff compares two synthesized templates (JSON or YAML) resource by
resource and lists property-level changes.

Examples:
    opscopilot diff old.json template.json
    opscopilot diff old.yaml template.json --ignore-order`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], outputFormat, ignoreOrder)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore list ordering when comparing")

	return cmd
}

func runDiff(before, after, format string, ignoreOrder bool) error {
	result, err := differ.CompareFiles(before, after, differ.Options{IgnoreOrder: ignoreOrder})
	if err != nil {
		return err
	}

	return outputDiffResult(opscopilot.DiffResult{
		Success: true,
		Diff:    result.Diff,
		Summary: result.Summary,
	}, format)
}

func outputDiffResult(result opscopilot.DiffResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Summary.Total == 0 {
			fmt.Println("No differences.")
			return nil
		}
		for _, e := range result.Diff.Added {
			fmt.Printf("+ %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			fmt.Printf("- %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			fmt.Printf("~ %s (%s)\n", e.Resource, e.Type)
			for _, change := range e.Changes {
				fmt.Printf("    %s\n", change)
			}
		}
		fmt.Printf("\n%d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
