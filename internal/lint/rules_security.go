package lint

import (
	"fmt"
	"go/ast"
	"go/token"
	"regexp"
	"strings"
)

// SecretPattern detects hardcoded secrets, API keys and tokens.
//
// Example:
//
//	// Bad
//	Variables: map[string]any{"SLACK_TOKEN": "xoxb-..."},
//
//	// Good - store the token in Secrets Manager and pass its ARN
type SecretPattern struct{}

func (r SecretPattern) ID() string { return "WAW019" }
func (r SecretPattern) Description() string {
	return "Detect hardcoded secrets, API keys, and sensitive credentials"
}

type secretPatternDef struct {
	name    string
	pattern *regexp.Regexp
}

var secretPatterns = []secretPatternDef{
	{"AWS access key", regexp.MustCompile(`^(A3T[A-Z0-9]|AKIA|ABIA|ACCA|ASIA)[A-Z0-9]{16}$`)},
	{"AWS secret key", regexp.MustCompile(`^[A-Za-z0-9/+=]{40}$`)},
	{"private key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|DSA\s+|OPENSSH\s+)?PRIVATE\s+KEY-----`)},
	{"GitHub token", regexp.MustCompile(`^(gh[pousr]_[A-Za-z0-9_]{36,}|github_pat_[A-Za-z0-9_]{22,})$`)},
	{"Slack token", regexp.MustCompile(`^xox[baprs]-[0-9]{10,}-[0-9]{10,}-[a-zA-Z0-9]{24,}$`)},
	{"Slack webhook", regexp.MustCompile(`^https://hooks\.slack\.com/services/T[A-Z0-9]+/B[A-Z0-9]+/[A-Za-z0-9]+$`)},
	{"API key", regexp.MustCompile(`^[A-Za-z0-9_\-]{32,}$`)},
}

// sensitiveFieldNames are map keys and fields that commonly hold secrets.
var sensitiveFieldNames = map[string]bool{
	"password":          true,
	"secret":            true,
	"api_key":           true,
	"apikey":            true,
	"access_key":        true,
	"private_key":       true,
	"secret_key":        true,
	"token":             true,
	"auth_token":        true,
	"slack_token":       true,
	"bot_token":         true,
	"webhook_url":       true,
	"credentials":       true,
	"connection_string": true,
}

func (r SecretPattern) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		value, ok := stringLiteral(n)
		if !ok || len(value) < 10 {
			return true
		}
		for _, sp := range secretPatterns {
			if !sp.pattern.MatchString(value) {
				continue
			}
			if sp.name == "AWS secret key" && isSafeString(value) {
				continue
			}
			if sp.name == "API key" && !isHighEntropy(value) {
				continue
			}
			issues = append(issues, newIssue(r.ID(), fset.Position(n.Pos()), SeverityError,
				fmt.Sprintf("Potential %s detected - avoid hardcoding secrets", sp.name),
				"Use AWS Secrets Manager or Parameter Store"))
			break
		}
		return true
	})

	ast.Inspect(file, func(n ast.Node) bool {
		kv, ok := n.(*ast.KeyValueExpr)
		if !ok {
			return true
		}

		var keyName string
		switch key := kv.Key.(type) {
		case *ast.Ident:
			keyName = strings.ToLower(key.Name)
		case *ast.BasicLit:
			if s, ok := stringLiteral(key); ok {
				keyName = strings.ToLower(s)
			}
		}
		if !sensitiveFieldNames[keyName] {
			return true
		}

		value, ok := stringLiteral(kv.Value)
		if !ok || len(value) < 8 || isPlaceholder(value) {
			return true
		}
		issues = append(issues, newIssue(r.ID(), fset.Position(kv.Value.Pos()), SeverityError,
			fmt.Sprintf("Hardcoded value in sensitive field '%s' - avoid storing secrets in code", keyName),
			"Use AWS Secrets Manager or Parameter Store"))
		return true
	})

	return issues
}

func isSafeString(s string) bool {
	for _, pattern := range []string{"arn:", "${", "AWS::", "http://", "https://", "s3://", ".amazonaws.com"} {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}

// isHighEntropy reports whether s mixes at least three character classes.
func isHighEntropy(s string) bool {
	var lower, upper, digit, other bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		default:
			other = true
		}
	}
	count := 0
	for _, has := range []bool{lower, upper, digit, other} {
		if has {
			count++
		}
	}
	return count >= 3 && len(s) >= 32
}

func isPlaceholder(s string) bool {
	s = strings.ToLower(s)
	for _, p := range []string{"changeme", "placeholder", "example", "your_", "your-", "todo", "<", "xxx", "dummy", "test"} {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// PlaceholderIdentifier detects values left as YOUR_... or <...> placeholders.
// They synthesize and deploy, then fail at runtime (e.g. a Slack channel that
// does not exist). Declare a Parameter instead.
type PlaceholderIdentifier struct{}

func (r PlaceholderIdentifier) ID() string { return "WAW020" }
func (r PlaceholderIdentifier) Description() string {
	return "Replace placeholder identifiers with parameters"
}

var placeholderPattern = regexp.MustCompile(`^(YOUR_[A-Z0-9_]+|<[A-Za-z0-9_ -]+>|REPLACE_ME|CHANGEME)$`)

func (r PlaceholderIdentifier) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		value, ok := stringLiteral(n)
		if !ok || !placeholderPattern.MatchString(value) {
			return true
		}
		issues = append(issues, newIssue(r.ID(), fset.Position(n.Pos()), SeverityError,
			fmt.Sprintf("Placeholder value %q will be deployed as-is", value),
			"Declare a Parameter and reference it instead"))
		return true
	})

	return issues
}

// WildcardWriteResource flags policy statements that allow write actions on
// Resource "*" without a Condition.
//
// Example:
//
//	// Flagged
//	var AutomationStatement = PolicyStatement{
//	    Effect:   "Allow",
//	    Action:   []any{"ssm:StartAutomationExecution"},
//	    Resource: "*",
//	}
type WildcardWriteResource struct{}

func (r WildcardWriteResource) ID() string { return "WAW021" }
func (r WildcardWriteResource) Description() string {
	return "Scope write actions to specific resources or add a condition"
}

// readVerbs prefix the actions that only read.
var readVerbs = []string{"Get", "List", "Describe", "BatchGet", "Query", "Scan", "Search", "Lookup", "View", "Head"}

func (r WildcardWriteResource) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		comp, ok := n.(*ast.CompositeLit)
		if !ok || !isPolicyStatement(comp) {
			return true
		}

		fields := make(map[string]ast.Expr)
		for _, elt := range comp.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if key, ok := kv.Key.(*ast.Ident); ok {
					fields[key.Name] = kv.Value
				}
			}
		}

		if effect, ok := stringLiteral(fields["Effect"]); ok && effect == "Deny" {
			return true
		}
		if _, hasCondition := fields["Condition"]; hasCondition {
			return true
		}
		if !containsString(fields["Resource"], "*") {
			return true
		}

		var writes []string
		for _, action := range stringValues(fields["Action"]) {
			if isWriteAction(action) {
				writes = append(writes, action)
			}
		}
		if len(writes) == 0 {
			return true
		}

		issues = append(issues, newIssue(r.ID(), fset.Position(comp.Pos()), SeverityWarning,
			fmt.Sprintf("Write actions %s are allowed on every resource", strings.Join(writes, ", ")),
			"Scope Resource to specific ARNs or add a Condition"))
		return true
	})

	return issues
}

func isPolicyStatement(comp *ast.CompositeLit) bool {
	switch t := comp.Type.(type) {
	case *ast.Ident:
		return t.Name == "PolicyStatement"
	case *ast.SelectorExpr:
		return t.Sel.Name == "PolicyStatement"
	}
	return false
}

func isWriteAction(action string) bool {
	_, verb, ok := strings.Cut(action, ":")
	if !ok {
		return action == "*"
	}
	if verb == "*" {
		return true
	}
	for _, prefix := range readVerbs {
		if strings.HasPrefix(verb, prefix) {
			return false
		}
	}
	return true
}

// stringValues returns the string literals of a value that is a literal,
// a slice literal, or an Any(...)/List(...) call.
func stringValues(expr ast.Expr) []string {
	if expr == nil {
		return nil
	}
	if s, ok := stringLiteral(expr); ok {
		return []string{s}
	}

	var elems []ast.Expr
	switch v := expr.(type) {
	case *ast.CompositeLit:
		elems = v.Elts
	case *ast.CallExpr:
		elems = v.Args
	}

	var values []string
	for _, elem := range elems {
		if s, ok := stringLiteral(elem); ok {
			values = append(values, s)
		}
	}
	return values
}

func containsString(expr ast.Expr, want string) bool {
	for _, s := range stringValues(expr) {
		if s == want {
			return true
		}
	}
	return false
}
