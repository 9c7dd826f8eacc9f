package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lex00/opscopilot-aws-go/internal/lint"
	"github.com/lex00/opscopilot-aws-go/internal/runner"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on file changes.
func newWatchCmd() *cobra.Command {
	var (
		lintOnly     bool
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Auto-rebuild on source file changes",
		Long: `Watch monitors the declaration sources and rebuilds on change.

The watch command:
- Monitors the stack directories for .go file changes
- Runs lint on each change
- Rebuilds if lint reports no errors (unless --lint-only)
- Debounces rapid changes

Each rebuild compiles and runs the stack package with the go toolchain, so
the template always reflects the declarations as they are on disk. The stack
package (OPSCOPILOT_STACK_DIR) must export Values().

Examples:
    opscopilot watch
    opscopilot watch --lint-only
    opscopilot watch -o template.json --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, runner.Options{
				Packages:    stackPackages(args),
				Stack:       cfg.Stack.Dir,
				Description: cfg.Stack.Description,
			}, watchOptions{
				lintOnly:     lintOnly,
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().BoolVar(&lintOnly, "lint-only", false, "Only run lint, skip build")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: summary only)")

	return cmd
}

type watchOptions struct {
	lintOnly     bool
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch rebuilds once, then again after each debounced burst of changes,
// until ctx is done.
func runWatch(ctx context.Context, opts runner.Options, wopts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dirs, err := resolvePackageDirs(opts.Packages)
	if err != nil {
		return fmt.Errorf("failed to resolve packages: %w", err)
	}

	for _, dir := range dirs {
		if err := addDirRecursive(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Info("watching", "dir", dir)
	}

	runLintAndBuild(ctx, opts, wopts)

	var debounceTimer *time.Timer
	rebuild := make(chan struct{}, 1)

	logger.Info("watching for changes (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceChange(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(wopts.debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case <-rebuild:
			logger.Info("change detected, rebuilding")
			runLintAndBuild(ctx, opts, wopts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("stopping watch")
			return nil
		}
	}
}

// isSourceChange reports whether event writes or creates a non-test Go file.
func isSourceChange(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// resolvePackageDirs converts package patterns to absolute directories.
func resolvePackageDirs(packages []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, pkg := range packages {
		pkg = strings.TrimSuffix(pkg, "/...")
		if pkg == "..." {
			pkg = "."
		}

		absPath, err := filepath.Abs(pkg)
		if err != nil {
			return nil, err
		}

		if !seen[absPath] {
			seen[absPath] = true
			dirs = append(dirs, absPath)
		}
	}

	return dirs, nil
}

// addDirRecursive adds a directory and its subdirectories to the watcher.
func addDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// runLintAndBuild lints the packages and rebuilds unless lint reported errors.
func runLintAndBuild(ctx context.Context, opts runner.Options, wopts watchOptions) {
	if !runWatchLint(opts.Packages) {
		logger.Warn("lint failed, skipping build")
		return
	}
	if wopts.lintOnly {
		return
	}
	runWatchBuild(ctx, opts, wopts)
}

// runWatchLint prints lint issues and reports whether none were errors.
func runWatchLint(packages []string) bool {
	success := true
	for _, pkg := range packages {
		result, err := lint.LintPackage(pkg, lint.Options{})
		if err != nil {
			logger.Error("lint failed", "package", pkg, "error", err)
			return false
		}
		for _, issue := range result.Issues {
			fmt.Printf("%s:%d:%d: %s: %s [%s]\n",
				issue.File, issue.Line, issue.Column,
				issue.Severity, issue.Message, issue.Rule)
		}
		success = success && result.Success
	}
	return success
}

// runWatchBuild synthesizes the template from the current source and writes
// it when an output file is set. A failed build leaves the output untouched.
func runWatchBuild(ctx context.Context, opts runner.Options, wopts watchOptions) bool {
	tmpl, err := runner.Synthesize(ctx, opts)
	if err != nil {
		logger.Error("build failed", "error", err)
		return false
	}

	if wopts.outputFile == "" {
		logger.Info("build successful", "resources", len(tmpl.Resources))
		return true
	}

	data, err := encodeTemplate(tmpl, wopts.outputFormat)
	if err != nil {
		logger.Error("encoding template", "error", err)
		return false
	}
	if err := os.WriteFile(wopts.outputFile, data, 0644); err != nil {
		logger.Error("writing template", "path", wopts.outputFile, "error", err)
		return false
	}
	logger.Info("build successful", "resources", len(tmpl.Resources), "output", wopts.outputFile)
	return true
}
