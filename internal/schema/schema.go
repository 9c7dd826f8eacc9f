// Package schema checks a synthesized template offline against the
// CloudFormation schemas of the resource types the stack declares.
package schema

import (
	"fmt"
	"sort"
	"strings"

	opscopilot "github.com/lex00/opscopilot-aws-go"
)

// Options configures schema validation.
type Options struct {
	// Strict reports properties missing from the schema as warnings
	Strict bool
}

// Result contains schema validation results.
type Result struct {
	Valid    bool
	Errors   []opscopilot.SchemaError
	Warnings []opscopilot.SchemaError
}

// ValidateTemplate checks every resource of template. Resources are
// visited in name order so results are stable.
func ValidateTemplate(template *opscopilot.Template, opts Options) *Result {
	result := &Result{Valid: true}

	names := make([]string, 0, len(template.Resources))
	for name := range template.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		errors, warnings := validateResource(name, template.Resources[name], opts)
		result.Errors = append(result.Errors, errors...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateResource(name string, resource opscopilot.ResourceDef, opts Options) ([]opscopilot.SchemaError, []opscopilot.SchemaError) {
	var errors, warnings []opscopilot.SchemaError

	if !isValidResourceType(resource.Type) {
		errors = append(errors, opscopilot.SchemaError{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("invalid resource type format: %s", resource.Type),
		})
		return errors, warnings
	}

	schema, ok := resourceSchemas[resource.Type]
	if !ok {
		warnings = append(warnings, opscopilot.SchemaError{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("unknown resource type: %s (schema not available for validation)", resource.Type),
		})
		return errors, warnings
	}

	for _, required := range schema.Required {
		if _, exists := resource.Properties[required]; !exists {
			errors = append(errors, opscopilot.SchemaError{
				Resource: name,
				Property: required,
				Message:  fmt.Sprintf("missing required property: %s", required),
			})
		}
	}

	props := make([]string, 0, len(resource.Properties))
	for prop := range resource.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		propSchema, ok := schema.Properties[prop]
		if !ok {
			if opts.Strict {
				warnings = append(warnings, opscopilot.SchemaError{
					Resource: name,
					Property: prop,
					Message:  fmt.Sprintf("unknown property: %s", prop),
				})
			}
			continue
		}
		errors = append(errors, validateProperty(name, prop, resource.Properties[prop], propSchema)...)
	}

	return errors, warnings
}

// isValidResourceType checks for AWS::Service::Resource or Custom::*.
func isValidResourceType(resourceType string) bool {
	if strings.HasPrefix(resourceType, "Custom::") {
		return true
	}
	parts := strings.Split(resourceType, "::")
	return len(parts) == 3 && parts[0] == "AWS" && parts[1] != "" && parts[2] != ""
}

func validateProperty(resource, property string, value any, schema PropertySchema) []opscopilot.SchemaError {
	var errors []opscopilot.SchemaError

	if !isValidType(value, schema.Type) {
		errors = append(errors, opscopilot.SchemaError{
			Resource: resource,
			Property: property,
			Message:  fmt.Sprintf("expected type %s", schema.Type),
		})
	}

	if strVal, ok := value.(string); ok && len(schema.AllowedValues) > 0 {
		found := false
		for _, allowed := range schema.AllowedValues {
			if strVal == allowed {
				found = true
				break
			}
		}
		if !found {
			errors = append(errors, opscopilot.SchemaError{
				Resource: resource,
				Property: property,
				Message:  fmt.Sprintf("value %q not in allowed values: %v", strVal, schema.AllowedValues),
			})
		}
	}

	return errors
}

// isValidType checks a serialized value against a schema type. Intrinsic
// functions are accepted for every type.
func isValidType(value any, expectedType string) bool {
	if m, ok := value.(map[string]any); ok && len(m) == 1 {
		for key := range m {
			if strings.HasPrefix(key, "Fn::") || key == "Ref" {
				return true
			}
		}
	}

	switch expectedType {
	case "String":
		_, ok := value.(string)
		return ok
	case "Integer":
		switch value.(type) {
		case int, int32, int64, float64:
			return true
		}
		return false
	case "Boolean":
		_, ok := value.(bool)
		return ok
	case "List":
		_, ok := value.([]any)
		return ok
	case "Map":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

// ResourceSchema defines the schema for a resource type.
type ResourceSchema struct {
	Required   []string
	Properties map[string]PropertySchema
}

// PropertySchema defines the schema for a top-level property.
type PropertySchema struct {
	Type          string
	AllowedValues []string
}
