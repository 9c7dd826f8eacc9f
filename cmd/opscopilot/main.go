// Command opscopilot synthesizes the OpsCopilot CloudFormation stack from its
// Go declarations and publishes the assets it deploys.
//
// Usage:
//
//	opscopilot build                    Generate CloudFormation template
//	opscopilot lint ./infra/...         Check declarations for issues
//	opscopilot validate                 Lint, build and run cfn-lint
//	opscopilot publish functions        Upload function code to S3
//	opscopilot version                  Show version
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/opscopilot-aws-go/internal/config"
)

var (
	cfg    config.Config
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "opscopilot",
		Short: "Synthesize and publish the OpsCopilot stack",
		Long: `opscopilot turns the Go declarations of the OpsCopilot stack into a
CloudFormation template.

The stack is declared as package-level values:

    var IncidentTimeline = dynamodb.Table{
        KeySchema:   []any{IncidentIdKey, IncidentTsKey},
        BillingMode: dynamodb.BillingModePayPerRequest,
    }

Generate the template with:

    opscopilot build -o template.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(envFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Environment file to load")

	rootCmd.AddCommand(
		newBuildCmd(),
		newListCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newLintCmd(),
		newDiffCmd(),
		newWatchCmd(),
		newPublishCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("opscopilot %s\n", getVersion())
		},
	}
}
