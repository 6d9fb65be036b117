package config

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// evalCondition evaluates a CEL condition against document metadata.
// An empty condition matches everything.
func evalCondition(expr string, meta map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if meta == nil {
		meta = map[string]any{}
	}
	env, err := createCELEnv(meta)
	if err != nil {
		return false, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		// A condition over keys the document does not carry simply does
		// not match.
		if strings.Contains(issues.Err().Error(), "undeclared reference") {
			return false, nil
		}
		return false, fmt.Errorf("condition compilation error for %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("condition program creation error for %q: %w", expr, err)
	}
	out, _, err := prg.Eval(meta)
	if err != nil {
		return false, fmt.Errorf("condition evaluation error for %q: %w", expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to a bool", expr)
	}
	return result, nil
}

// createCELEnv creates a CEL environment with all metadata keys as
// variables.
func createCELEnv(meta map[string]any) (*cel.Env, error) {
	var options []cel.EnvOption
	for key, value := range meta {
		options = append(options, cel.Variable(key, inferCELType(value)))
	}
	return cel.NewEnv(options...)
}

// inferCELType infers the CEL type from a Go value.
func inferCELType(value any) *cel.Type {
	switch value.(type) {
	case string:
		return cel.StringType
	case int, int32, int64:
		return cel.IntType
	case float32, float64:
		return cel.DoubleType
	case bool:
		return cel.BoolType
	case map[string]any:
		return cel.MapType(cel.StringType, cel.AnyType)
	case map[string]string:
		return cel.MapType(cel.StringType, cel.StringType)
	case []any:
		return cel.ListType(cel.AnyType)
	case []string:
		return cel.ListType(cel.StringType)
	default:
		return cel.AnyType
	}
}
