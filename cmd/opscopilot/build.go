package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/synth"
	"github.com/lex00/opscopilot-aws-go/internal/template"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build [packages...]",
		Short: "Generate the CloudFormation template",
		Long: `Build discovers the stack declarations and generates a template.

Examples:
    opscopilot build
    opscopilot build ./infra/copilot -o template.json
    opscopilot build --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(stackOptions(args), outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(opts synth.Options, format, outputFile string) error {
	result, err := synth.Synthesize(opts)
	if err != nil {
		return outputResult(opscopilot.BuildResult{
			Success: false,
			Errors:  []string{err.Error()},
		}, format, outputFile)
	}

	resourceNames := make([]string, 0, len(result.Template.Resources))
	for name := range result.Template.Resources {
		resourceNames = append(resourceNames, name)
	}
	sort.Strings(resourceNames)

	return outputResult(opscopilot.BuildResult{
		Success:   true,
		Template:  *result.Template,
		Resources: resourceNames,
	}, format, outputFile)
}

func outputResult(result opscopilot.BuildResult, format, outputFile string) error {
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	data, err := encodeTemplate(&result.Template, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}

func encodeTemplate(tmpl *opscopilot.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(tmpl)
	case "yaml":
		return template.ToYAML(tmpl)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
