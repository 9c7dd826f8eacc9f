// Package synth runs the synthesis pipeline: discovery of declarations,
// binding of their in-process values, and template assembly.
package synth

import (
	"errors"
	"fmt"
	"sort"

	opscopilot "github.com/lex00/opscopilot-aws-go"
	"github.com/lex00/opscopilot-aws-go/internal/discover"
	"github.com/lex00/opscopilot-aws-go/internal/template"
)

// Options configures a synthesis run.
type Options struct {
	// Packages are the declaration directories to scan (e.g., "./infra/copilot")
	Packages []string
	// Values maps logical names to the declared Go values
	Values map[string]any
	// Description is written to the template Description
	Description string
	// Verbose enables discovery debug output
	Verbose bool
}

// Result is the outcome of a successful synthesis.
type Result struct {
	Template  *opscopilot.Template
	Discovery *discover.Result
}

// Synthesize discovers the declarations under opts.Packages and builds a
// CloudFormation template from the registered values.
func Synthesize(opts Options) (*Result, error) {
	if len(opts.Packages) == 0 {
		return nil, errors.New("no packages to synthesize")
	}

	discovered, err := discover.Discover(discover.Options{
		Packages: opts.Packages,
		Verbose:  opts.Verbose,
	})
	if err != nil {
		return nil, err
	}
	if len(discovered.Errors) > 0 {
		return nil, fmt.Errorf("discovery failed: %w", errors.Join(discovered.Errors...))
	}
	if len(discovered.Resources) == 0 {
		return nil, fmt.Errorf("no resources found in %v", opts.Packages)
	}

	if err := checkValues(discovered, opts.Values); err != nil {
		return nil, err
	}

	builder := template.NewBuilderFromResult(discovered)
	builder.SetDescription(opts.Description)
	for name, value := range opts.Values {
		builder.SetValue(name, value)
	}

	tmpl, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return &Result{Template: tmpl, Discovery: discovered}, nil
}

// checkValues requires a value for every declaration and a declaration
// for every value, so the registry cannot drift from the source.
func checkValues(discovered *discover.Result, values map[string]any) error {
	declared := make(map[string]bool)
	for name := range discovered.Resources {
		declared[name] = true
	}
	for name := range discovered.Parameters {
		declared[name] = true
	}
	for name := range discovered.Outputs {
		declared[name] = true
	}

	var errs []error
	for _, name := range sortedKeys(declared) {
		if _, ok := values[name]; !ok {
			errs = append(errs, fmt.Errorf("%s is declared but has no registered value", name))
		}
	}
	for _, name := range sortedKeys(values) {
		if !declared[name] {
			errs = append(errs, fmt.Errorf("%s is registered but not declared as a resource, parameter or output", name))
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
