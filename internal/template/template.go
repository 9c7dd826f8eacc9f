// Package template provides CloudFormation template building from discovered resources.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/discover"
	"github.com/lex00/opscopilot-aws-go/internal/serialize"
	"github.com/lex00/opscopilot-aws-go/intrinsics"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

// ReferenceResolver flattens the references made by a declaration.
// *discover.Result implements it.
type ReferenceResolver interface {
	ResolveReferences(name string) []discover.Reference
}

// Builder constructs CloudFormation templates from discovered resources.
type Builder struct {
	resources   map[string]opscopilot.DiscoveredResource
	parameters  map[string]opscopilot.DiscoveredParameter
	outputs     map[string]opscopilot.DiscoveredOutput
	values      map[string]any
	resolver    ReferenceResolver
	description string
}

// NewBuilder creates a template builder from discovered resources.
func NewBuilder(resources map[string]opscopilot.DiscoveredResource) *Builder {
	return &Builder{
		resources:  resources,
		parameters: make(map[string]opscopilot.DiscoveredParameter),
		outputs:    make(map[string]opscopilot.DiscoveredOutput),
		values:     make(map[string]any),
	}
}

// NewBuilderFromResult creates a template builder from a full discovery
// result, using it to resolve references.
func NewBuilderFromResult(result *discover.Result) *Builder {
	return &Builder{
		resources:  result.Resources,
		parameters: result.Parameters,
		outputs:    result.Outputs,
		values:     make(map[string]any),
		resolver:   result,
	}
}

// SetValue associates a declared value with its logical name.
func (b *Builder) SetValue(name string, value any) {
	b.values[name] = value
}

// SetDescription sets the template Description.
func (b *Builder) SetDescription(description string) {
	b.description = description
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*opscopilot.Template, error) {
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	template := &opscopilot.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]opscopilot.ResourceDef),
	}

	if len(b.parameters) > 0 {
		template.Parameters = make(map[string]opscopilot.Parameter)
		for _, name := range sortedNames(b.parameters) {
			val, ok := b.values[name]
			if !ok {
				return nil, fmt.Errorf("no value registered for parameter %s", name)
			}
			template.Parameters[name] = serializeParameter(val)
		}
	}

	for _, name := range order {
		res := b.resources[name]
		value, ok := b.values[name]
		if !ok {
			return nil, fmt.Errorf("no value registered for resource %s (%s:%d)", name, res.File, res.Line)
		}

		resourceType := cfResourceType(res.Type)
		if resourceType == "" {
			return nil, fmt.Errorf("unknown resource type: %s", res.Type)
		}
		if typed, ok := value.(opscopilot.Resource); ok && typed.ResourceType() != resourceType {
			return nil, fmt.Errorf("%s: value type %s does not match declared type %s",
				name, typed.ResourceType(), resourceType)
		}

		props, err := b.serializeResource(name, value)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		template.Resources[name] = opscopilot.ResourceDef{
			Type:       resourceType,
			Properties: props,
		}
	}

	if len(b.outputs) > 0 {
		template.Outputs = make(map[string]opscopilot.Output)
		for _, name := range sortedNames(b.outputs) {
			val, ok := b.values[name]
			if !ok {
				return nil, fmt.Errorf("no value registered for output %s", name)
			}
			output, err := b.serializeOutput(name, val)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			template.Outputs[name] = output
		}
	}

	return template, nil
}

// serializeParameter converts a Parameter value to the template format.
func serializeParameter(value any) opscopilot.Parameter {
	var valMap map[string]any
	switch v := value.(type) {
	case intrinsics.Parameter:
		valMap = v.ToDefinition()
	case *intrinsics.Parameter:
		valMap = v.ToDefinition()
	case map[string]any:
		valMap = v
	default:
		return opscopilot.Parameter{Type: "String"}
	}

	param := opscopilot.Parameter{Type: "String"}
	if t, ok := valMap["Type"].(string); ok && t != "" {
		param.Type = t
	}
	if desc, ok := valMap["Description"].(string); ok {
		param.Description = desc
	}
	if def, ok := valMap["Default"]; ok {
		param.Default = def
	}
	if vals, ok := valMap["AllowedValues"].([]any); ok {
		param.AllowedValues = vals
	}
	if pattern, ok := valMap["AllowedPattern"].(string); ok {
		param.AllowedPattern = pattern
	}
	if desc, ok := valMap["ConstraintDescription"].(string); ok {
		param.ConstraintDescription = desc
	}
	if v, ok := valMap["NoEcho"].(bool); ok {
		param.NoEcho = v
	}
	return param
}

// serializeOutput converts an Output value to the template format.
func (b *Builder) serializeOutput(name string, value any) (opscopilot.Output, error) {
	serialized, err := serialize.Value(value)
	if err != nil {
		return opscopilot.Output{}, err
	}
	valMap, ok := serialized.(map[string]any)
	if !ok {
		return opscopilot.Output{}, fmt.Errorf("expected an Output struct, got %T", value)
	}
	if err := b.patchReferences(name, valMap); err != nil {
		return opscopilot.Output{}, err
	}

	output := opscopilot.Output{}
	if desc, ok := valMap["Description"].(string); ok {
		output.Description = desc
	}
	if val, ok := valMap["Value"]; ok {
		output.Value = val
	}
	if exp, ok := valMap["Export"].(map[string]any); ok {
		if expName, ok := exp["Name"].(string); ok {
			output.Export = &opscopilot.OutputExport{Name: expName}
		}
	}
	if expName, ok := valMap["ExportName"]; ok {
		output.Export = &opscopilot.OutputExport{Name: fmt.Sprintf("%v", expName)}
	}
	if output.Value == nil {
		return output, errors.New("output has no value")
	}
	return output, nil
}

// serializeResource converts a Go struct to CloudFormation properties and
// writes resolved references at their field paths.
func (b *Builder) serializeResource(name string, value any) (map[string]any, error) {
	serialized, err := serialize.Value(value)
	if err != nil {
		return nil, err
	}
	props, _ := serialized.(map[string]any)
	if props == nil {
		props = make(map[string]any)
	}

	if err := b.patchReferences(name, props); err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, nil
	}
	return props, nil
}

func (b *Builder) patchReferences(name string, root map[string]any) error {
	if b.resolver == nil {
		return nil
	}
	for _, ref := range b.resolver.ResolveReferences(name) {
		var value any
		if ref.Attribute == "" {
			value = map[string]any{"Ref": ref.Target}
		} else {
			// Only resources expose attributes; Var.Field selectors on
			// plain values are already serialized in place.
			if _, ok := b.resources[ref.Target]; !ok {
				continue
			}
			value = map[string]any{"Fn::GetAtt": []any{ref.Target, ref.Attribute}}
		}
		if err := SetPath(root, ref.FieldPath, value); err != nil {
			return fmt.Errorf("reference to %s: %w", ref.Target, err)
		}
	}
	return nil
}

// pathSegment is one step of a field path: a map key or a slice index.
type pathSegment struct {
	key   string
	index int
}

func (s pathSegment) isIndex() bool { return s.key == "" }

// parsePath splits "Policies[0].PolicyDocument.Statement[1]" into segments.
// A backslash escapes the next byte, so map keys may contain dots or
// brackets: EventPattern.detail\.type.
func parsePath(path string) ([]pathSegment, error) {
	if path == "" {
		return nil, errors.New("empty field path")
	}
	var (
		segments []pathSegment
		key      strings.Builder
		inKey    bool
	)
	endKey := func() error {
		if key.Len() == 0 && inKey {
			return fmt.Errorf("malformed field path %q", path)
		}
		if key.Len() > 0 {
			segments = append(segments, pathSegment{key: key.String()})
			key.Reset()
		}
		inKey = false
		return nil
	}

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '\\':
			if i+1 == len(path) {
				return nil, fmt.Errorf("malformed field path %q", path)
			}
			i++
			key.WriteByte(path[i])
		case '.':
			if i == 0 {
				return nil, fmt.Errorf("malformed field path %q", path)
			}
			if err := endKey(); err != nil {
				return nil, err
			}
			inKey = true
		case '[':
			if err := endKey(); err != nil {
				return nil, err
			}
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("malformed field path %q", path)
			}
			n, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("malformed index in field path %q", path)
			}
			segments = append(segments, pathSegment{index: n})
			i += end
			if i+1 < len(path) && path[i+1] != '.' && path[i+1] != '[' {
				return nil, fmt.Errorf("malformed field path %q", path)
			}
		default:
			key.WriteByte(c)
		}
	}
	if err := endKey(); err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("malformed field path %q", path)
	}
	return segments, nil
}

// SetPath writes value into a serialized tree at the given field path.
// Missing map entries along the way are created, since zero values were
// omitted during serialization. Slice positions must already exist.
func SetPath(root map[string]any, path string, value any) error {
	segments, err := parsePath(path)
	if err != nil {
		return err
	}
	if segments[0].isIndex() {
		return fmt.Errorf("field path %q starts with an index", path)
	}

	var current any = root
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		// Go field names of intrinsic structs map onto the serialized
		// argument list, e.g. Join.Values is "Fn::Join"[1].
		if node, ok := current.(map[string]any); ok && !seg.isIndex() {
			if fn, pos, ok := intrinsicArgument(node, seg.key); ok {
				repl := []pathSegment{{key: fn}}
				if pos >= 0 {
					repl = append(repl, pathSegment{index: pos})
				}
				segments = append(segments[:i:i], append(repl, segments[i+1:]...)...)
				seg = segments[i]
			}
		}
		last := i == len(segments)-1
		switch node := current.(type) {
		case map[string]any:
			if seg.isIndex() {
				return fmt.Errorf("field path %q: index into object", path)
			}
			if last {
				node[seg.key] = value
				return nil
			}
			next, ok := node[seg.key]
			if !ok || next == nil {
				if segments[i+1].isIndex() {
					return fmt.Errorf("field path %q: missing list %s", path, seg.key)
				}
				next = make(map[string]any)
				node[seg.key] = next
			}
			current = next
		case []any:
			if !seg.isIndex() {
				return fmt.Errorf("field path %q: key %s into list", path, seg.key)
			}
			if seg.index < 0 || seg.index >= len(node) {
				return fmt.Errorf("field path %q: index %d out of range", path, seg.index)
			}
			if last {
				node[seg.index] = value
				return nil
			}
			next := node[seg.index]
			if next == nil {
				if segments[i+1].isIndex() {
					return fmt.Errorf("field path %q: missing list at [%d]", path, seg.index)
				}
				next = make(map[string]any)
				node[seg.index] = next
			}
			current = next
		default:
			return fmt.Errorf("field path %q: cannot descend into %T", path, current)
		}
	}
	return nil
}

// intrinsicFields maps intrinsic struct field names to their position in
// the serialized argument list. -1 addresses the argument itself.
var intrinsicFields = map[string]map[string]int{
	"Fn::Join":        {"Delimiter": 0, "Values": 1},
	"Fn::Select":      {"Index": 0, "List": 1},
	"Fn::Split":       {"Delimiter": 0, "Source": 1},
	"Fn::If":          {"Condition": 0, "ValueIfTrue": 1, "ValueIfFalse": 2},
	"Fn::Equals":      {"Value1": 0, "Value2": 1},
	"Fn::Sub":         {"String": 0, "Variables": 1},
	"Fn::Base64":      {"Value": -1},
	"Fn::ImportValue": {"ExportName": -1},
}

func intrinsicArgument(node map[string]any, field string) (string, int, bool) {
	if _, exists := node[field]; exists || len(node) != 1 {
		return "", 0, false
	}
	for fn := range node {
		if pos, ok := intrinsicFields[fn][field]; ok {
			return fn, pos, true
		}
	}
	return "", 0, false
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for _, name := range sortedNames(b.resources) {
		for _, dep := range b.resources[name].Dependencies {
			if _, exists := b.resources[dep]; exists && dep != name {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.resources[node].Dependencies {
			if _, exists := b.resources[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	for _, name := range sortedNames(b.resources) {
		if !visited[name] {
			if findCycle(name) {
				break
			}
		}
	}

	if len(cycle) > 0 {
		var msg strings.Builder
		msg.WriteString("circular dependency detected:\n")
		for i, name := range cycle {
			res := b.resources[name]
			fmt.Fprintf(&msg, "  %s (%s:%d)", name, res.File, res.Line)
			if i < len(cycle)-1 {
				msg.WriteString("\n    → ")
			}
		}
		return errors.New(msg.String())
	}

	return errors.New("circular dependency detected")
}

// cfResourceType converts Go type to CloudFormation type.
// e.g., "s3.Bucket" -> "AWS::S3::Bucket", "chatbot.SlackChannelConfiguration" ->
// "AWS::Chatbot::SlackChannelConfiguration"
func cfResourceType(goType string) string {
	parts := strings.SplitN(goType, ".", 2)
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}

	prefix := discover.ServicePrefix(parts[0])
	if prefix == "" {
		return ""
	}
	return prefix + "::" + parts[1]
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToJSON serializes the template to JSON.
func ToJSON(t *opscopilot.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *opscopilot.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
