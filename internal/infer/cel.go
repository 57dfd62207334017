package infer

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

// CompileSelector builds a Selector from a CEL expression. This is the
// externally-configurable form of capability matching: an authoring tool can
// ship a query like `grader && tag != "Exercise"` without linking Go code.
//
// The expression is evaluated against:
//
//	tag        string            the node's tag
//	id         string            the node's id
//	grader     bool              capability flag
//	input      bool              capability flag
//	template   bool              capability flag
//	attributes map[string]string the node's literal attributes
func CompileSelector(expression string) (Selector, error) {
	if expression == "" {
		return nil, fmt.Errorf("selector expression must not be empty")
	}

	env, err := celgo.NewEnv(
		celgo.Variable("tag", celgo.StringType),
		celgo.Variable("id", celgo.StringType),
		celgo.Variable("grader", celgo.BoolType),
		celgo.Variable("input", celgo.BoolType),
		celgo.Variable("template", celgo.BoolType),
		celgo.Variable("attributes", celgo.MapType(celgo.StringType, celgo.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("building selector environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", expression, issues.Err())
	}
	if ast.OutputType() != celgo.BoolType {
		return nil, fmt.Errorf("selector %q must evaluate to bool, got %s", expression, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("planning selector %q: %w", expression, err)
	}

	return func(info *Info) bool {
		attrs := info.Entry.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		out, _, err := program.Eval(map[string]any{
			"tag":        info.Entry.Tag,
			"id":         info.Entry.ID,
			"grader":     info.Blueprint.Capabilities.Grader,
			"input":      info.Blueprint.Capabilities.Input,
			"template":   info.Blueprint.Capabilities.Template,
			"attributes": attrs,
		})
		if err != nil {
			return false
		}
		matched, ok := out.Value().(bool)
		return ok && matched
	}, nil
}
