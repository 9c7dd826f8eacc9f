package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lex00/opscopilot-aws-go/internal/assets"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload function code and runbooks to S3",
		Long: `Publish uploads the assets the stack deploys.

Function archives are content-addressed, so publishing unchanged code is a
no-op. The command prints the parameter overrides to pass at deploy time.

Examples:
    opscopilot publish functions --bucket copilot-assets
    opscopilot publish runbooks --bucket copilot-runbooks-123`,
	}

	cmd.AddCommand(newPublishFunctionsCmd(), newPublishRunbooksCmd())
	return cmd
}

func newPublishFunctionsCmd() *cobra.Command {
	var bucket, prefix, dir string

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "Package and upload the Triager and Approver code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket = firstNonEmpty(bucket, cfg.Assets.Bucket)
			prefix = firstNonEmpty(prefix, cfg.Assets.Prefix)
			dir = firstNonEmpty(dir, cfg.Assets.FunctionsDir)

			client, err := assets.NewS3Client(cmd.Context(), assets.S3Config{
				Region:   cfg.AWS.Region,
				Endpoint: cfg.AWS.Endpoint,
			})
			if err != nil {
				return err
			}

			pub := assets.NewPublisher(client, bucket, prefix, logger)
			overrides, err := pub.PublishFunctions(cmd.Context(), dir, assets.CopilotFunctions)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(overrides))
			for k := range overrides {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%s=%s\n", k, overrides[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Asset bucket (default from OPSCOPILOT_ASSET_BUCKET)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from OPSCOPILOT_ASSET_PREFIX)")
	cmd.Flags().StringVar(&dir, "dir", "", "Functions directory (default from OPSCOPILOT_FUNCTIONS_DIR)")

	return cmd
}

func newPublishRunbooksCmd() *cobra.Command {
	var bucket, dir string

	cmd := &cobra.Command{
		Use:   "runbooks",
		Short: "Upload runbook documents to the runbooks bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket = firstNonEmpty(bucket, cfg.Assets.RunbooksBucket)
			dir = firstNonEmpty(dir, cfg.Assets.RunbooksDir)

			client, err := assets.NewS3Client(cmd.Context(), assets.S3Config{
				Region:   cfg.AWS.Region,
				Endpoint: cfg.AWS.Endpoint,
			})
			if err != nil {
				return err
			}

			uploads, err := assets.NewPublisher(client, bucket, "", logger).PublishRunbooks(cmd.Context(), dir)
			if err != nil {
				return err
			}

			skipped := 0
			for _, u := range uploads {
				if u.Skipped {
					skipped++
				}
			}
			fmt.Printf("Published %d runbooks (%d unchanged)\n", len(uploads), skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Runbooks bucket (default from OPSCOPILOT_RUNBOOKS_BUCKET)")
	cmd.Flags().StringVar(&dir, "dir", "", "Runbooks directory (default from OPSCOPILOT_RUNBOOKS_DIR)")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
