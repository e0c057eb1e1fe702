package filter

import (
	"fmt"
	"strings"
)

// Parse converts a MongoDB-like filter document (already JSON-decoded into
// Go values: map[string]any, []any, and scalars) into an AST. Siblings at
// the same object level are ANDed together. An empty or nil
// tree parses to an empty And (always true).
func Parse(tree map[string]any) (Node, error) {
	var children []Node
	for field, value := range tree {
		nodes, err := parseField(field, value)
		if err != nil {
			return nil, err
		}
		children = append(children, nodes...)
	}
	return And{Children: children}, nil
}

// parseField parses the value attached to one field path, yielding the
// (possibly several, if the value object has multiple operator keys)
// conditions against that path.
func parseField(path string, value any) ([]Node, error) {
	obj, isObj := value.(map[string]any)
	if !isObj {
		// Shorthand equality: {"f": 5} == {"f": {"$eq": 5}}.
		return []Node{Cmp{Path: path, Op: OpEq, Value: value}}, nil
	}

	if !hasOperatorKeys(obj) {
		// Nested field segment: {"a": {"b": 1}} -> path "a.b".
		var nodes []Node
		for k, v := range obj {
			sub, err := parseField(path+"."+k, v)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, sub...)
		}
		return nodes, nil
	}

	var nodes []Node
	for op, raw := range obj {
		node, err := parseOperator(path, op, raw)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func hasOperatorKeys(obj map[string]any) bool {
	for k := range obj {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

// parseOperator builds the AST node for one "$op": value pair under path.
// An unknown operator key is ignored,
// returning (nil, nil) rather than an error.
func parseOperator(path, op string, value any) (Node, error) {
	switch CmpOp(op) {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return Cmp{Path: path, Op: CmpOp(op), Value: value}, nil
	}

	switch op {
	case "$exists":
		want, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: $exists requires a bool, got %T", errInvalidFilter, value)
		}
		return Exists{Path: path, Want: want}, nil
	case "$in":
		values, err := asSlice(value)
		if err != nil {
			return nil, fmt.Errorf("$in: %w", err)
		}
		return In{Path: path, Values: values}, nil
	case "$nin":
		values, err := asSlice(value)
		if err != nil {
			return nil, fmt.Errorf("$nin: %w", err)
		}
		return Nin{Path: path, Values: values}, nil
	default:
		// Unknown operator: ignored, not an error.
		return nil, nil
	}
}

func asSlice(value any) ([]any, error) {
	slice, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", value)
	}
	return slice, nil
}
