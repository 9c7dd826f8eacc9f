// Package graph renders the dependency graph of a discovered stack as DOT or Mermaid.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	"github.com/lex00/opscopilot-aws-go/internal/discover"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from a discovery result.
type Generator struct {
	// IncludeParameters adds parameter nodes and the edges into them.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources of the same AWS service.
	ClusterByService bool
}

// Generate writes the graph of result to w.
func (g *Generator) Generate(result *discover.Result, w io.Writer) error {
	graph := g.buildGraph(result)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the graph as a string.
func (g *Generator) GenerateString(result *discover.Result) (string, error) {
	var sb strings.Builder
	if err := g.Generate(result, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(result *discover.Result) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	names := sortedNames(result.Resources)
	var nodes map[string]dot.Node
	if g.ClusterByService {
		nodes = g.addClusteredNodes(graph, result, names)
	} else {
		nodes = make(map[string]dot.Node, len(names))
		for _, name := range names {
			nodes[name] = addResourceNode(graph, name, result.Resources[name].Type)
		}
	}

	if g.IncludeParameters {
		for _, name := range sortedNames(result.Parameters) {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
			nodes[name] = n
		}
	}

	// Graph.Node on the root does not search subgraphs, so edges must use
	// the nodes created above or clustered resources get duplicated.
	getAtts := getAttEdges(result, names)
	for _, name := range names {
		for _, dep := range result.Resources[name].Dependencies {
			to, ok := nodes[dep]
			if !ok {
				continue
			}
			e := graph.Edge(nodes[name], to)
			if getAtts[name+"->"+dep] {
				e.Attr("color", "blue")
			}
		}
	}

	return graph
}

// getAttEdges marks the edges that carry at least one attribute reference,
// including those made through property-type vars.
func getAttEdges(result *discover.Result, names []string) map[string]bool {
	edges := make(map[string]bool)
	for _, name := range names {
		for _, ref := range result.ResolveReferences(name) {
			if ref.Attribute != "" {
				edges[name+"->"+ref.Target] = true
			}
		}
	}
	return edges
}

// addClusteredNodes creates the resource nodes, placing services with more
// than one resource in their own cluster, and returns them by name.
func (g *Generator) addClusteredNodes(graph *dot.Graph, result *discover.Result, names []string) map[string]dot.Node {
	nodes := make(map[string]dot.Node, len(names))
	byService := make(map[string][]string)
	for _, name := range names {
		service := serviceName(result.Resources[name].Type)
		byService[service] = append(byService[service], name)
	}

	for _, service := range sortedNames(byService) {
		members := byService[service]
		if len(members) == 1 {
			nodes[members[0]] = addResourceNode(graph, members[0], result.Resources[members[0]].Type)
			continue
		}
		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, name := range members {
			nodes[name] = addResourceNode(cluster, name, result.Resources[name].Type)
		}
	}
	return nodes
}

func addResourceNode(graph *dot.Graph, name, goType string) dot.Node {
	return graph.Node(name).Label(name + "\\n[" + cfType(goType) + "]")
}

// serviceName returns the service part of a Go type, e.g. "s3.Bucket" -> "S3".
func serviceName(goType string) string {
	pkg, _, _ := strings.Cut(goType, ".")
	if prefix := discover.ServicePrefix(pkg); prefix != "" {
		return strings.TrimPrefix(prefix, "AWS::")
	}
	return strings.ToUpper(pkg)
}

// cfType returns the CloudFormation type of a Go type, e.g. "s3.Bucket" -> "AWS::S3::Bucket".
func cfType(goType string) string {
	pkg, typeName, ok := strings.Cut(goType, ".")
	if !ok {
		return goType
	}
	if prefix := discover.ServicePrefix(pkg); prefix != "" {
		return prefix + "::" + typeName
	}
	return goType
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
