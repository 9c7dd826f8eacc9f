// Package discover provides AST-based discovery of CloudFormation resource declarations.
//
// It parses Go source files looking for package-level variable declarations
// of the form:
//
//	var CopilotRunbooks = s3.Bucket{...}
//
// and extracts resource metadata including dependencies on other resources
// and the field paths at which those references appear.
package discover

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	coreast "github.com/lex00/wetwire-core-go/ast"

	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// knownResourcePackages maps package names to CloudFormation service prefixes.
var knownResourcePackages = map[string]string{
	"chatbot":    "AWS::Chatbot",
	"cloudwatch": "AWS::CloudWatch",
	"dynamodb":   "AWS::DynamoDB",
	"events":     "AWS::Events",
	"iam":        "AWS::IAM",
	"lambda":     "AWS::Lambda",
	"s3":         "AWS::S3",
	"sns":        "AWS::SNS",
	"ssm":        "AWS::SSM",
}

// ServicePrefix returns the CloudFormation prefix for a resource package,
// or "" when the package is not a resource package.
func ServicePrefix(pkgName string) string {
	return knownResourcePackages[pkgName]
}

// subVarPattern matches ${Name} and ${Name.Attr} inside Fn::Sub strings.
var subVarPattern = regexp.MustCompile(`\$\{([A-Za-z][A-Za-z0-9]*)(?:\.([A-Za-z][A-Za-z0-9.]*))?\}`)

// Options configures the discovery process.
type Options struct {
	// Packages to scan (e.g., "./infra/...")
	Packages []string
	// Verbose enables debug output
	Verbose bool
}

// Result contains all discovered resources and any errors.
type Result struct {
	// Resources maps logical name to discovered resource
	Resources map[string]opscopilot.DiscoveredResource
	// Parameters maps logical name to discovered parameter
	Parameters map[string]opscopilot.DiscoveredParameter
	// Outputs maps logical name to discovered output
	Outputs map[string]opscopilot.DiscoveredOutput
	// AllVars tracks all package-level var and const declarations.
	// Used to avoid false positives when checking dependencies.
	AllVars map[string]bool
	// VarRefs tracks references for every composite literal var,
	// including property types that are later embedded in resources.
	VarRefs map[string]VarRefInfo
	// Errors encountered during parsing
	Errors []error
}

// VarRefInfo tracks the references made directly inside one variable's literal.
type VarRefInfo struct {
	// Deps lists every name the literal mentions, in source order
	Deps     []string
	AttrRefs []opscopilot.AttrRefUsage
	// Vars maps field path to referenced variable name
	Vars map[string]string
}

// Reference is a fully resolved reference to patch into a serialized value.
type Reference struct {
	// Target is the referenced logical name
	Target string
	// Attribute is set for GetAtt references and empty for Ref
	Attribute string
	// FieldPath locates the value to replace
	FieldPath string
}

// Discover scans Go packages for CloudFormation resource declarations.
func Discover(opts Options) (*Result, error) {
	result := &Result{
		Resources:  make(map[string]opscopilot.DiscoveredResource),
		Parameters: make(map[string]opscopilot.DiscoveredParameter),
		Outputs:    make(map[string]opscopilot.DiscoveredOutput),
		AllVars:    make(map[string]bool),
		VarRefs:    make(map[string]VarRefInfo),
	}

	for _, pkg := range opts.Packages {
		if err := discoverPackage(pkg, result, opts); err != nil {
			return nil, fmt.Errorf("discovering %s: %w", pkg, err)
		}
	}

	// Only flag truly undefined references. Property type blocks and
	// other local vars are legitimate targets.
	for _, name := range sortedKeys(result.Resources) {
		res := result.Resources[name]
		result.checkDependencies(name, res.File, res.Line, res.Dependencies)
	}
	for _, name := range sortedKeys(result.Outputs) {
		out := result.Outputs[name]
		var deps []string
		for _, ref := range out.AttrRefUsages {
			deps = append(deps, ref.ResourceName)
		}
		for _, v := range result.VarRefs[name].Vars {
			deps = append(deps, v)
		}
		result.checkDependencies(name, out.File, out.Line, deps)
	}

	for name, res := range result.Resources {
		res.Dependencies = result.flattenDependencies(res.Dependencies)
		result.Resources[name] = res
	}

	return result, nil
}

// flattenDependencies replaces property-type vars with the resources and
// parameters they mention, so ordering sees references made through them.
// Names that are neither (constants, locals) are dropped.
func (r *Result) flattenDependencies(direct []string) []string {
	var out []string
	seen := make(map[string]bool)
	var visit func(names []string)
	visit = func(names []string) {
		for _, dep := range names {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if r.isReferenceTarget(dep) {
				out = append(out, dep)
				continue
			}
			if info, ok := r.VarRefs[dep]; ok {
				visit(info.Deps)
			}
		}
	}
	visit(direct)
	return out
}

func (r *Result) checkDependencies(name, file string, line int, deps []string) {
	seen := make(map[string]bool)
	for _, dep := range deps {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		if _, ok := r.Resources[dep]; ok {
			continue
		}
		if r.AllVars[dep] {
			continue
		}
		r.Errors = append(r.Errors, fmt.Errorf(
			"%s:%d: %s references undefined resource %q",
			file, line, name, dep,
		))
	}
}

func discoverPackage(pattern string, result *Result, opts Options) error {
	// Handle ./... pattern
	recursive := strings.HasSuffix(pattern, "...")
	if recursive {
		pattern = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if pattern == "" {
			pattern = "."
		}
	}

	absPath, err := filepath.Abs(pattern)
	if err != nil {
		return err
	}

	if recursive {
		return filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return discoverDir(path, result, opts)
			}
			return nil
		})
	}

	return discoverDir(absPath, result, opts)
}

func discoverDir(dir string, result *Result, opts Options) error {
	fset := token.NewFileSet()

	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		// Directory might not contain Go files
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no Go files") {
			return nil
		}
		return err
	}

	for _, pkg := range pkgs {
		for filename, file := range pkg.Files {
			discoverFile(fset, filename, file, result, opts)
		}
	}

	return nil
}

func discoverFile(fset *token.FileSet, filename string, file *ast.File, result *Result, opts Options) {
	imports := importMap(file)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}

		if genDecl.Tok == token.CONST {
			for _, spec := range genDecl.Specs {
				if valueSpec, ok := spec.(*ast.ValueSpec); ok {
					for _, ident := range valueSpec.Names {
						result.AllVars[ident.Name] = true
					}
				}
			}
			continue
		}
		if genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, ident := range valueSpec.Names {
				if ident.Name != "_" {
					result.AllVars[ident.Name] = true
				}
			}
			if len(valueSpec.Names) != 1 || len(valueSpec.Values) != 1 {
				continue
			}

			name := valueSpec.Names[0].Name
			if name == "_" {
				continue
			}

			compLit, ok := unwrapLiteral(valueSpec.Values[0])
			if !ok {
				continue
			}

			typeName, pkgName := coreast.ExtractTypeName(compLit.Type)
			if typeName == "" {
				continue
			}

			pos := fset.Position(valueSpec.Pos())
			w := newWalker(imports)
			w.literal(compLit, "")

			if isIntrinsicPackage(pkgName, imports) {
				switch typeName {
				case "Parameter":
					result.Parameters[name] = opscopilot.DiscoveredParameter{
						Name: name,
						File: filename,
						Line: pos.Line,
					}
					continue
				case "Output":
					result.Outputs[name] = opscopilot.DiscoveredOutput{
						Name:          name,
						File:          filename,
						Line:          pos.Line,
						AttrRefUsages: w.attrRefs,
					}
					result.VarRefs[name] = VarRefInfo{Deps: w.deps, AttrRefs: w.attrRefs, Vars: w.vars}
					continue
				}
			}

			result.VarRefs[name] = VarRefInfo{Deps: w.deps, AttrRefs: w.attrRefs, Vars: w.vars}

			if _, known := knownResourcePackages[pkgName]; !known {
				continue
			}

			// Property types (e.g., Bucket_VersioningConfiguration) are
			// nested values, not CloudFormation resources.
			if strings.Contains(typeName, "_") {
				continue
			}

			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "discovered %s (%s.%s) at %s:%d\n", name, pkgName, typeName, filename, pos.Line)
			}

			result.Resources[name] = opscopilot.DiscoveredResource{
				Name:          name,
				Type:          fmt.Sprintf("%s.%s", pkgName, typeName),
				Package:       file.Name.Name,
				File:          filename,
				Line:          pos.Line,
				Dependencies:  w.deps,
				AttrRefUsages: w.attrRefs,
			}
		}
	}
}

// unwrapLiteral accepts Type{...} and &Type{...}.
func unwrapLiteral(expr ast.Expr) (*ast.CompositeLit, bool) {
	if u, ok := expr.(*ast.UnaryExpr); ok && u.Op == token.AND {
		expr = u.X
	}
	lit, ok := expr.(*ast.CompositeLit)
	return lit, ok
}

func importMap(file *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		var name string
		if imp.Name != nil {
			name = imp.Name.Name
		} else {
			parts := strings.Split(path, "/")
			name = parts[len(parts)-1]
		}
		imports[name] = path
	}
	return imports
}

// isIntrinsicPackage checks if the package is the intrinsics package.
func isIntrinsicPackage(pkgName string, imports map[string]string) bool {
	if pkgName == "" {
		for alias, path := range imports {
			if alias == "." && strings.HasSuffix(path, "/intrinsics") {
				return true
			}
		}
		return false
	}
	if pkgName == "intrinsics" {
		return true
	}
	if path, ok := imports[pkgName]; ok {
		return strings.HasSuffix(path, "/intrinsics")
	}
	return false
}

// walker collects references from one composite literal.
type walker struct {
	imports  map[string]string
	deps     []string
	attrRefs []opscopilot.AttrRefUsage
	vars     map[string]string
	seen     map[string]bool
}

func newWalker(imports map[string]string) *walker {
	return &walker{
		imports: imports,
		vars:    make(map[string]string),
		seen:    make(map[string]bool),
	}
}

func (w *walker) addDep(name string) {
	if !w.seen[name] {
		w.deps = append(w.deps, name)
		w.seen[name] = true
	}
}

func (w *walker) literal(lit *ast.CompositeLit, path string) {
	typeName, pkgName := coreast.ExtractTypeName(lit.Type)
	if isIntrinsicPackage(pkgName, w.imports) || pkgName == "" {
		switch typeName {
		case "Sub":
			w.subStrings(lit, nil)
			return
		case "SubWithMap":
			w.subWithMap(lit, path)
			return
		}
	}

	index := 0
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			w.expr(elt, indexPath(path, index))
			index++
			continue
		}
		key := keyName(kv.Key)
		if key == "" {
			w.expr(kv.Value, path)
			continue
		}
		w.expr(kv.Value, joinPath(path, key))
	}
}

func (w *walker) expr(expr ast.Expr, path string) {
	switch v := expr.(type) {
	case *ast.Ident:
		name := v.Name
		if _, isImport := w.imports[name]; isImport {
			return
		}
		if isCommonIdent(name) || !isExported(name) {
			return
		}
		w.addDep(name)
		if path != "" {
			w.vars[path] = name
		}

	case *ast.SelectorExpr:
		ident, ok := v.X.(*ast.Ident)
		if !ok {
			return
		}
		if _, isImport := w.imports[ident.Name]; isImport {
			return
		}
		// Resource.Attribute (e.g., CopilotLambdaRole.Arn)
		if isExported(ident.Name) {
			w.addDep(ident.Name)
			w.attrRefs = append(w.attrRefs, opscopilot.AttrRefUsage{
				ResourceName: ident.Name,
				Attribute:    v.Sel.Name,
				FieldPath:    path,
			})
		}

	case *ast.CompositeLit:
		w.literal(v, path)

	case *ast.UnaryExpr:
		w.expr(v.X, path)

	case *ast.CallExpr:
		// Any(...) and List(...) build slices, so arguments are positional.
		if isSliceBuilder(v.Fun) {
			for i, arg := range v.Args {
				w.expr(arg, indexPath(path, i))
			}
			return
		}
		for _, arg := range v.Args {
			w.dependencyOnly(arg)
		}

	case *ast.ParenExpr:
		w.expr(v.X, path)

	case *ast.SliceExpr:
		w.dependencyOnly(v.X)

	case *ast.IndexExpr:
		w.dependencyOnly(v.X)
		w.dependencyOnly(v.Index)
	}
}

// dependencyOnly records dependencies of expressions whose result cannot
// be located by a field path.
func (w *walker) dependencyOnly(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.CallExpr:
			// The callee is a function, not a declaration.
			for _, arg := range v.Args {
				w.dependencyOnly(arg)
			}
			return false
		case *ast.CompositeLit:
			for _, elt := range v.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					elt = kv.Value
				}
				w.dependencyOnly(elt)
			}
			return false
		case *ast.SelectorExpr:
			if ident, ok := v.X.(*ast.Ident); ok {
				if _, isImport := w.imports[ident.Name]; !isImport && isExported(ident.Name) && !isCommonIdent(ident.Name) {
					w.addDep(ident.Name)
				}
			}
			return false
		case *ast.Ident:
			if _, isImport := w.imports[v.Name]; !isImport && isExported(v.Name) && !isCommonIdent(v.Name) {
				w.addDep(v.Name)
			}
		case *ast.BasicLit:
			w.subString(v)
		}
		return true
	})
}

// subStrings records ${Name} and ${Name.Attr} dependencies from Fn::Sub
// template strings, skipping names bound locally by a variable map.
func (w *walker) subStrings(lit *ast.CompositeLit, local map[string]bool) {
	for _, elt := range lit.Elts {
		value := elt
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			if keyName(kv.Key) != "String" {
				continue
			}
			value = kv.Value
		}
		if basic, ok := value.(*ast.BasicLit); ok && basic.Kind == token.STRING {
			w.subStringExcept(basic, local)
		}
		// Positional Sub{...} has a single string element.
		if _, ok := elt.(*ast.KeyValueExpr); !ok {
			return
		}
	}
}

func (w *walker) subWithMap(lit *ast.CompositeLit, path string) {
	local := make(map[string]bool)
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok || keyName(kv.Key) != "Variables" {
			continue
		}
		if vars, ok := kv.Value.(*ast.CompositeLit); ok {
			for _, v := range vars.Elts {
				if vkv, ok := v.(*ast.KeyValueExpr); ok {
					local[keyName(vkv.Key)] = true
					w.dependencyOnly(vkv.Value)
				}
			}
		}
	}
	w.subStrings(lit, local)
}

func (w *walker) subString(lit *ast.BasicLit) {
	w.subStringExcept(lit, nil)
}

func (w *walker) subStringExcept(lit *ast.BasicLit, local map[string]bool) {
	if lit.Kind != token.STRING {
		return
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return
	}
	for _, m := range SubReferences(s) {
		if local[m] {
			continue
		}
		w.addDep(m)
	}
}

// SubReferences returns the logical names referenced by ${Name} or
// ${Name.Attr} placeholders in an Fn::Sub template. Pseudo parameters
// (AWS::Region) and literal escapes (${!Literal}) are ignored.
func SubReferences(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range subVarPattern.FindAllStringSubmatch(s, -1) {
		name := m[1]
		if !isExported(name) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func isSliceBuilder(fun ast.Expr) bool {
	var name string
	switch f := fun.(type) {
	case *ast.Ident:
		name = f.Name
	case *ast.SelectorExpr:
		name = f.Sel.Name
	case *ast.IndexExpr:
		// List[T](...)
		return isSliceBuilder(f.X)
	}
	return name == "Any" || name == "List"
}

// keyName returns the path segment for a literal key: a struct field name,
// a string map key, or a selector naming a constant.
func keyName(key ast.Expr) string {
	switch k := key.(type) {
	case *ast.Ident:
		return k.Name
	case *ast.BasicLit:
		if k.Kind == token.STRING {
			if s, err := strconv.Unquote(k.Value); err == nil {
				return s
			}
		}
		return k.Value
	case *ast.SelectorExpr:
		return k.Sel.Name
	}
	return ""
}

func joinPath(prefix, field string) string {
	field = escapePathKey(field)
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

var pathKeyEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `[`, `\[`)

// escapePathKey quotes map keys such as "detail.type" so the template
// builder reads them back as one path segment.
func escapePathKey(key string) string {
	return pathKeyEscaper.Replace(key)
}

func indexPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}

// joinPrefixed appends a nested path to a prefix, keeping index segments
// attached without a separator.
func joinPrefixed(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	if strings.HasPrefix(path, "[") {
		return prefix + path
	}
	return prefix + "." + path
}

// ResolveReferences flattens every reference reachable from a variable into
// full field paths. References to resources and parameters become Ref
// entries, Resource.Attr selectors become GetAtt entries, and references
// to intermediate property-type vars are followed with their path prefixed.
// The result is sorted by field path.
func (r *Result) ResolveReferences(varName string) []Reference {
	visited := make(map[string]bool)
	refs := r.resolve(varName, "", visited)
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].FieldPath < refs[j].FieldPath
	})
	return refs
}

func (r *Result) resolve(varName, prefix string, visited map[string]bool) []Reference {
	if visited[varName] {
		return nil
	}
	visited[varName] = true
	defer delete(visited, varName)

	info, ok := r.VarRefs[varName]
	if !ok {
		return nil
	}

	var refs []Reference
	for _, ref := range info.AttrRefs {
		refs = append(refs, Reference{
			Target:    ref.ResourceName,
			Attribute: ref.Attribute,
			FieldPath: joinPrefixed(prefix, ref.FieldPath),
		})
	}

	for _, fieldPath := range sortedKeys(info.Vars) {
		target := info.Vars[fieldPath]
		full := joinPrefixed(prefix, fieldPath)
		if r.isReferenceTarget(target) {
			refs = append(refs, Reference{Target: target, FieldPath: full})
			continue
		}
		refs = append(refs, r.resolve(target, full, visited)...)
	}

	return refs
}

func (r *Result) isReferenceTarget(name string) bool {
	if _, ok := r.Resources[name]; ok {
		return true
	}
	_, ok := r.Parameters[name]
	return ok
}

func isExported(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isCommonIdent returns true for identifiers that are likely not resource names.
func isCommonIdent(name string) bool {
	common := map[string]bool{
		// Go built-ins
		"true": true, "false": true, "nil": true,
		"string": true, "int": true, "bool": true, "float64": true,
		"any": true, "error": true,

		// Intrinsic function types (from intrinsics package)
		"Ref": true, "Sub": true, "SubWithMap": true, "Join": true, "GetAtt": true,
		"Split": true, "ImportValue": true, "Json": true,
		"Parameter": true, "Output": true, "PolicyDocument": true,
		"PolicyStatement": true, "ServicePrincipal": true, "AWSPrincipal": true,
		"Any": true, "List": true, "BoolFlag": true, "NewPolicyDocument": true,
		"PolicyVersion": true, "StringEquals": true, "StringNotEquals": true,
		"StringLike": true, "ArnEquals": true, "ArnLike": true, "Bool": true, "Null": true,

		// Pseudo-parameter variables (from intrinsics package)
		"AWS_ACCOUNT_ID": true, "AWS_NO_VALUE": true, "AWS_PARTITION": true,
		"AWS_REGION": true, "AWS_STACK_ID": true,
		"AWS_STACK_NAME": true, "AWS_URL_SUFFIX": true, "AWS_NOTIFICATION_ARNS": true,
	}
	return common[name]
}
