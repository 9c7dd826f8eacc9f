package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/opscopilot-aws-go/internal/discover"
	"github.com/lex00/opscopilot-aws-go/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var (
		outputFormat      string
		includeParameters bool
		clusterByService  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [packages...]",
		Short: "Generate a graph of resource dependencies",
		Long: `Generate a DOT or Mermaid graph showing resource dependencies.

Render with Graphviz:
    opscopilot graph | dot -Tpng -o deps.png

Or embed in markdown:
    opscopilot graph -f mermaid

Examples:
    opscopilot graph -p              # include parameters
    opscopilot graph -c              # cluster by service`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(stackPackages(args), outputFormat, includeParameters, clusterByService)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByService, "cluster", "c", false, "Cluster resources by AWS service")

	return cmd
}

func runGraph(packages []string, format string, includeParams bool, cluster bool) error {
	result, err := discover.Discover(discover.Options{
		Packages: packages,
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(result.Resources) == 0 {
		return fmt.Errorf("no resources found")
	}

	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	gen := &graph.Generator{
		Format:            graphFormat,
		IncludeParameters: includeParams,
		ClusterByService:  cluster,
	}

	return gen.Generate(result, os.Stdout)
}
