package plan

import (
	"strconv"
	"strings"
)

// Resolve substitutes ${stepN.field} references in params with values from
// completed step results. Resolution is best effort: a reference to a step
// that has not completed, or to a field the result does not carry, passes
// through unchanged so an optional downstream reference never aborts an
// otherwise-valid step. Non-reference values pass through as-is.
//
// Results that wrap their payload in a "data" envelope are looked up there
// first, then at the top level.
//
// Resolve is pure: it never mutates params or ctx.
func Resolve(params map[string]any, ctx ExecutionContext) map[string]any {
	resolved := make(map[string]any, len(params))
	for key, value := range params {
		resolved[key] = resolveValue(value, ctx)
	}
	return resolved
}

func resolveValue(value any, ctx ExecutionContext) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	stepNumber, field, ok := parseReference(str)
	if !ok {
		return value
	}
	result, ok := ctx[stepNumber]
	if !ok {
		return value
	}
	if data, ok := result["data"].(map[string]any); ok {
		if nested, ok := data[field]; ok {
			return nested
		}
	}
	if top, ok := result[field]; ok {
		return top
	}
	return value
}

// parseReference recognizes exactly ${stepN.field}. Anything else, including
// a malformed near-miss, is treated as a literal.
func parseReference(s string) (stepNumber int, field string, ok bool) {
	if !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return 0, "", false
	}
	ref := s[2 : len(s)-1]
	target, field, found := strings.Cut(ref, ".")
	if !found || field == "" {
		return 0, "", false
	}
	numberPart, hasPrefix := strings.CutPrefix(target, "step")
	if !hasPrefix {
		return 0, "", false
	}
	stepNumber, err := strconv.Atoi(numberPart)
	if err != nil {
		return 0, "", false
	}
	return stepNumber, field, true
}
