package lint

import (
	"fmt"
	"go/ast"
	"go/token"
)

// AvoidExplicitRef detects explicit Ref{} literals. Resources and
// parameters are referenced by naming their var directly.
//
// Example:
//
//	// Bad
//	EventBusName: Ref{"OpsCopilotBus"},
//
//	// Good
//	EventBusName: OpsCopilotBus,
type AvoidExplicitRef struct{}

func (r AvoidExplicitRef) ID() string { return "WAW015" }
func (r AvoidExplicitRef) Description() string {
	return "Avoid explicit Ref{} - use direct variable references"
}

func (r AvoidExplicitRef) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		comp, ok := n.(*ast.CompositeLit)
		if !ok || intrinsicTypeName(comp) != "Ref" {
			return true
		}

		suggestion := "Reference the resource or parameter var directly"
		if args := literalArgs(comp); len(args) > 0 {
			suggestion = fmt.Sprintf("Use %s directly", args[0])
		}
		issues = append(issues, newIssue(r.ID(), fset.Position(comp.Pos()), SeverityWarning,
			"Avoid Ref{} - use a direct variable reference", suggestion))
		return true
	})

	return issues
}

// AvoidExplicitGetAtt detects explicit GetAtt{} literals.
//
// Example:
//
//	// Bad
//	Role: GetAtt{"CopilotLambdaRole", "Arn"},
//
//	// Good
//	Role: CopilotLambdaRole.Arn,
type AvoidExplicitGetAtt struct{}

func (r AvoidExplicitGetAtt) ID() string { return "WAW016" }
func (r AvoidExplicitGetAtt) Description() string {
	return "Avoid explicit GetAtt{} - use resource.Attr field access"
}

func (r AvoidExplicitGetAtt) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		comp, ok := n.(*ast.CompositeLit)
		if !ok || intrinsicTypeName(comp) != "GetAtt" {
			return true
		}

		suggestion := "Use Resource.Attr field access instead"
		if args := literalArgs(comp); len(args) >= 2 {
			suggestion = fmt.Sprintf("Use %s.%s instead", args[0], args[1])
		}
		issues = append(issues, newIssue(r.ID(), fset.Position(comp.Pos()), SeverityWarning,
			"Avoid GetAtt{} - use resource.Attr field access", suggestion))
		return true
	})

	return issues
}

// AvoidPointerAssignment detects &Type{} in top-level var declarations.
// The values registry copies declarations, so they must be value types.
type AvoidPointerAssignment struct{}

func (r AvoidPointerAssignment) ID() string { return "WAW017" }
func (r AvoidPointerAssignment) Description() string {
	return "Avoid pointer assignments (&Type{}) - use value types"
}

func (r AvoidPointerAssignment) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			for i, value := range valueSpec.Values {
				unary, ok := value.(*ast.UnaryExpr)
				if !ok || unary.Op != token.AND {
					continue
				}
				comp, ok := unary.X.(*ast.CompositeLit)
				if !ok {
					continue
				}

				typeName := "struct"
				switch t := comp.Type.(type) {
				case *ast.SelectorExpr:
					typeName = t.Sel.Name
				case *ast.Ident:
					typeName = t.Name
				}
				varName := "_"
				if i < len(valueSpec.Names) {
					varName = valueSpec.Names[i].Name
				}

				issues = append(issues, newIssue(r.ID(), fset.Position(unary.Pos()), SeverityError,
					fmt.Sprintf("Avoid pointer assignment for %s - use value type instead of &%s{}", varName, typeName),
					fmt.Sprintf("var %s = %s{...} (remove &)", varName, typeName)))
			}
		}
	}

	return issues
}

// intrinsicTypeName returns the type name of Ref{...} or intrinsics.Ref{...}.
func intrinsicTypeName(comp *ast.CompositeLit) string {
	switch t := comp.Type.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok && pkg.Name == "intrinsics" {
			return t.Sel.Name
		}
	}
	return ""
}

// literalArgs returns the string arguments of a literal, positional or keyed.
func literalArgs(comp *ast.CompositeLit) []string {
	var args []string
	for _, elt := range comp.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			elt = kv.Value
		}
		value, ok := stringLiteral(elt)
		if !ok {
			return args
		}
		args = append(args, value)
	}
	return args
}
