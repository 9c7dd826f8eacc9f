// Package differ compares two synthesized CloudFormation templates resource by resource.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder compares lists as multisets, e.g. policy actions.
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    opscopilot.TemplateDiff
	Summary opscopilot.DiffSummary
}

// Compare returns the resources added, removed and modified between before and after.
func Compare(before, after *opscopilot.Template, opts Options) (*Result, error) {
	result := &Result{}

	for _, name := range sortedKeys(after.Resources) {
		if _, exists := before.Resources[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, opscopilot.DiffEntry{
				Resource: name,
				Type:     after.Resources[name].Type,
			})
		}
	}

	for _, name := range sortedKeys(before.Resources) {
		old := before.Resources[name]
		updated, exists := after.Resources[name]
		if !exists {
			result.Diff.Removed = append(result.Diff.Removed, opscopilot.DiffEntry{
				Resource: name,
				Type:     old.Type,
			})
			continue
		}
		changes, err := compareResources(old, updated, opts)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", name, err)
		}
		if len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, opscopilot.DiffEntry{
				Resource: name,
				Type:     old.Type,
				Changes:  changes,
			})
		}
	}

	result.Summary = opscopilot.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(before, after string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(before)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", before, err)
	}

	t2, err := LoadTemplate(after)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", after, err)
	}

	return Compare(t1, t2, opts)
}

// LoadTemplate reads a JSON or YAML template.
func LoadTemplate(path string) (*opscopilot.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var template opscopilot.Template
	if err := json.Unmarshal(data, &template); err != nil {
		if yamlErr := yaml.Unmarshal(data, &template); yamlErr != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", yamlErr)
		}
	}

	return &template, nil
}

func compareResources(before, after opscopilot.ResourceDef, opts Options) ([]string, error) {
	var changes []string

	if before.Type != after.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", before.Type, after.Type))
	}

	// YAML decodes numbers as int and JSON as float64; compare in one form.
	oldProps, err := normalize(before.Properties)
	if err != nil {
		return nil, err
	}
	newProps, err := normalize(after.Properties)
	if err != nil {
		return nil, err
	}
	changes = append(changes, compareValues("", oldProps, newProps, opts)...)

	if !reflect.DeepEqual(before.DependsOn, after.DependsOn) && len(before.DependsOn)+len(after.DependsOn) > 0 {
		changes = append(changes, "DependsOn changed")
	}

	sort.Strings(changes)
	return changes, nil
}

// compareValues descends through nested objects so a change is reported at
// the deepest property that differs. Lists and scalars are compared whole.
func compareValues(path string, before, after any, opts Options) []string {
	oldMap, oldIsMap := before.(map[string]any)
	newMap, newIsMap := after.(map[string]any)
	if !oldIsMap || !newIsMap || isIntrinsic(oldMap) || isIntrinsic(newMap) {
		if equal(before, after, opts) {
			return nil
		}
		return []string{path + " modified"}
	}

	var changes []string
	for _, key := range sortedKeys(newMap) {
		child := joinPath(path, key)
		if oldVal, exists := oldMap[key]; exists {
			changes = append(changes, compareValues(child, oldVal, newMap[key], opts)...)
		} else {
			changes = append(changes, child+" added")
		}
	}
	for _, key := range sortedKeys(oldMap) {
		if _, exists := newMap[key]; !exists {
			changes = append(changes, joinPath(path, key)+" removed")
		}
	}
	return changes
}

// isIntrinsic reports whether m is a single-key Ref or Fn:: object, which is
// reported as one value rather than descended into.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for key := range m {
		return key == "Ref" || len(key) > 4 && key[:4] == "Fn::"
	}
	return false
}

func equal(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		a = sortLists(a)
		b = sortLists(b)
	}
	return reflect.DeepEqual(a, b)
}

// sortLists orders every list by the JSON encoding of its elements.
func sortLists(v any) any {
	switch val := v.(type) {
	case []any:
		sorted := make([]any, len(val))
		keys := make(map[int]string, len(val))
		for i, item := range val {
			sorted[i] = sortLists(item)
		}
		for i, item := range sorted {
			data, _ := json.Marshal(item)
			keys[i] = string(data)
		}
		idx := make([]int, len(sorted))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })
		out := make([]any, len(sorted))
		for i, j := range idx {
			out[i] = sorted[j]
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = sortLists(item)
		}
		return out
	default:
		return v
	}
}

func normalize(props map[string]any) (any, error) {
	if props == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
