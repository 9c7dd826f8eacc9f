// Package lint checks stack declaration sources for patterns that break
// discovery or make the synthesized template unsafe.
package lint

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	corelint "github.com/lex00/wetwire-core-go/lint"
)

type (
	// Issue is a single lint finding.
	Issue = corelint.Issue
	// Severity ranks an Issue.
	Severity = corelint.Severity
	// Rule checks one file.
	Rule = corelint.Rule
)

const (
	SeverityError   = corelint.SeverityError
	SeverityWarning = corelint.SeverityWarning
	SeverityInfo    = corelint.SeverityInfo
)

// Result contains the outcome of linting.
type Result struct {
	// Success is false when any issue has error severity.
	Success bool
	Issues  []Issue
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
	// MaxResources for the FileTooLarge rule.
	MaxResources int
}

// PackageContext holds declarations across every file of a package.
type PackageContext struct {
	// Resources maps a resource var name to each place it is declared
	Resources map[string][]token.Position
}

// PackageAwareRule is implemented by rules that need cross-file visibility.
type PackageAwareRule interface {
	Rule
	CheckWithContext(file *ast.File, fset *token.FileSet, ctx *PackageContext) []Issue
}

// AllRules returns every lint rule.
func AllRules() []Rule {
	return []Rule{
		HardcodedPseudoParameter{},
		DuplicateResource{},
		FileTooLarge{MaxResources: defaultMaxResources},
		AvoidExplicitRef{},
		AvoidExplicitGetAtt{},
		AvoidPointerAssignment{},
		SecretPattern{},
		PlaceholderIdentifier{},
		WildcardWriteResource{},
	}
}

// LintFile lints a single Go file.
func LintFile(path string, opts Options) (Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return Result{}, err
	}

	var issues []Issue
	for _, rule := range getRules(opts) {
		issues = append(issues, rule.Check(file, fset)...)
	}
	return newResult(issues), nil
}

// LintPackage lints the non-test Go files of a directory, or of a tree
// when the path ends in "...".
func LintPackage(pkgPath string, opts Options) (Result, error) {
	if strings.HasSuffix(pkgPath, "...") {
		root := strings.TrimSuffix(strings.TrimSuffix(pkgPath, "..."), "/")
		if root == "" {
			root = "."
		}
		return lintRecursive(root, opts)
	}

	issues, err := lintDir(pkgPath, opts)
	if err != nil {
		return Result{}, err
	}
	return newResult(issues), nil
}

func lintDir(dir string, opts Options) ([]Issue, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	rules := getRules(opts)
	var issues []Issue
	for _, pkgName := range sortedKeys(pkgs) {
		pkg := pkgs[pkgName]
		ctx := buildPackageContext(fset, pkg)
		for _, filename := range sortedKeys(pkg.Files) {
			file := pkg.Files[filename]
			for _, rule := range rules {
				if par, ok := rule.(PackageAwareRule); ok {
					issues = append(issues, par.CheckWithContext(file, fset, ctx)...)
				} else {
					issues = append(issues, rule.Check(file, fset)...)
				}
			}
		}
	}
	return issues, nil
}

// buildPackageContext collects resource declarations across all files.
func buildPackageContext(fset *token.FileSet, pkg *ast.Package) *PackageContext { //nolint:staticcheck
	ctx := &PackageContext{Resources: make(map[string][]token.Position)}
	for _, filename := range sortedKeys(pkg.Files) {
		for _, spec := range resourceSpecs(pkg.Files[filename]) {
			for _, name := range spec.Names {
				ctx.Resources[name.Name] = append(ctx.Resources[name.Name], fset.Position(name.Pos()))
			}
		}
	}
	return ctx
}

func lintRecursive(root string, opts Options) (Result, error) {
	var issues []Issue

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (d.Name() == "vendor" || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
			return filepath.SkipDir
		}
		dirIssues, err := lintDir(path, opts)
		if err != nil {
			// Directories that fail to parse are reported by the build
			return nil
		}
		issues = append(issues, dirIssues...)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return newResult(issues), nil
}

func newResult(issues []Issue) Result {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Rule < issues[j].Rule
	})

	success := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			success = false
			break
		}
	}
	return Result{Success: success, Issues: issues}
}

// getRules returns the rules to use based on options.
func getRules(opts Options) []Rule {
	all := AllRules()

	if opts.MaxResources > 0 {
		for i, r := range all {
			if _, ok := r.(FileTooLarge); ok {
				all[i] = FileTooLarge{MaxResources: opts.MaxResources}
			}
		}
	}

	if len(opts.EnabledRules) == 0 {
		return all
	}

	enabled := make(map[string]bool)
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}

	var filtered []Rule
	for _, r := range all {
		if enabled[r.ID()] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
