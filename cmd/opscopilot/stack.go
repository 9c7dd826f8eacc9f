package main

import (
	"github.com/lex00/opscopilot-aws-go/infra/copilot"
	"github.com/lex00/opscopilot-aws-go/internal/synth"
)

// stackPackages returns the packages named on the command line, or the
// configured stack directory.
func stackPackages(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{cfg.Stack.Dir}
}

// stackOptions configures synthesis of the copilot declarations.
func stackOptions(args []string) synth.Options {
	return synth.Options{
		Packages:    stackPackages(args),
		Values:      copilot.Values(),
		Description: cfg.Stack.Description,
	}
}
