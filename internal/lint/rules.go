package lint

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/lex00/opscopilot-aws-go/internal/discover"
	"github.com/lex00/opscopilot-aws-go/intrinsics"
)

const defaultMaxResources = 15

// HardcodedPseudoParameter detects hardcoded AWS pseudo-parameter strings.
//
// Detects: "AWS::Region", "AWS::AccountId", "AWS::StackName"
// Suggests: AWS_REGION, AWS_ACCOUNT_ID, etc.
type HardcodedPseudoParameter struct{}

func (r HardcodedPseudoParameter) ID() string { return "WAW001" }
func (r HardcodedPseudoParameter) Description() string {
	return "Use pseudo-parameter constants instead of hardcoded strings"
}

func (r HardcodedPseudoParameter) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		value, ok := stringLiteral(n)
		if !ok {
			return true
		}
		if constant, found := intrinsics.PseudoParameters[value]; found {
			issues = append(issues, newIssue(r.ID(), fset.Position(n.Pos()), SeverityWarning,
				fmt.Sprintf("Use %s instead of %q", constant, value), constant))
		}
		return true
	})

	return issues
}

// DuplicateResource detects resource vars declared more than once. Within a
// package the earlier declaration may live in another file.
type DuplicateResource struct{}

func (r DuplicateResource) ID() string { return "WAW003" }
func (r DuplicateResource) Description() string {
	return "Detect duplicate resource variable names"
}

func (r DuplicateResource) Check(file *ast.File, fset *token.FileSet) []Issue {
	ctx := &PackageContext{Resources: make(map[string][]token.Position)}
	for _, spec := range resourceSpecs(file) {
		for _, name := range spec.Names {
			ctx.Resources[name.Name] = append(ctx.Resources[name.Name], fset.Position(name.Pos()))
		}
	}
	return r.CheckWithContext(file, fset, ctx)
}

func (r DuplicateResource) CheckWithContext(file *ast.File, fset *token.FileSet, ctx *PackageContext) []Issue {
	var issues []Issue
	filename := fset.Position(file.Pos()).Filename

	for _, name := range sortedKeys(ctx.Resources) {
		locations := ctx.Resources[name]
		if len(locations) < 2 {
			continue
		}
		first := locations[0]
		for _, loc := range locations[1:] {
			if loc.Filename != filename {
				continue
			}
			issues = append(issues, newIssue(r.ID(), loc, SeverityError,
				fmt.Sprintf("Duplicate resource variable '%s' (first defined at %s:%d)", name, first.Filename, first.Line),
				"Rename or remove one of the declarations"))
		}
	}

	return issues
}

// FileTooLarge detects files with too many resources.
type FileTooLarge struct {
	MaxResources int
}

func (r FileTooLarge) ID() string { return "WAW004" }
func (r FileTooLarge) Description() string {
	return "Split large files into smaller ones"
}

func (r FileTooLarge) Check(file *ast.File, fset *token.FileSet) []Issue {
	maxResources := r.MaxResources
	if maxResources == 0 {
		maxResources = defaultMaxResources
	}

	count := 0
	for _, spec := range resourceSpecs(file) {
		count += len(spec.Names)
	}
	if count <= maxResources {
		return nil
	}

	pos := fset.Position(file.Pos())
	pos.Line, pos.Column = 1, 0
	return []Issue{newIssue(r.ID(), pos, SeverityWarning,
		fmt.Sprintf("File has %d resources (max %d). Consider splitting by concern: bus.go, storage.go, compute.go, security.go", count, maxResources),
		fmt.Sprintf("// Split %d resources into multiple files", count))}
}

// resourceSpecs returns the top-level var specs whose value is a resource
// literal such as s3.Bucket{...}. Property types (s3.Bucket_...) are excluded.
func resourceSpecs(file *ast.File) []*ast.ValueSpec {
	var specs []*ast.ValueSpec
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if ok && isResourceDeclaration(valueSpec) {
				specs = append(specs, valueSpec)
			}
		}
	}
	return specs
}

func isResourceDeclaration(spec *ast.ValueSpec) bool {
	for _, value := range spec.Values {
		if u, ok := value.(*ast.UnaryExpr); ok && u.Op == token.AND {
			value = u.X
		}
		comp, ok := value.(*ast.CompositeLit)
		if !ok {
			continue
		}
		sel, ok := comp.Type.(*ast.SelectorExpr)
		if !ok {
			continue
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			continue
		}
		if discover.ServicePrefix(pkg.Name) != "" && !strings.Contains(sel.Sel.Name, "_") {
			return true
		}
	}
	return false
}

// stringLiteral returns the unquoted value of a string literal node.
func stringLiteral(n ast.Node) (string, bool) {
	lit, ok := n.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

func newIssue(rule string, pos token.Position, severity Severity, message, suggestion string) Issue {
	return Issue{
		Rule:       rule,
		Message:    message,
		Suggestion: suggestion,
		File:       pos.Filename,
		Line:       pos.Line,
		Column:     pos.Column,
		Severity:   severity,
	}
}
