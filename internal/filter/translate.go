package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Translate renders node as a SQL WHERE fragment using json_extract over a
// column named "metadata".
func Translate(node Node) (string, error) {
	switch n := node.(type) {
	case And:
		if len(n.Children) == 0 {
			return "1=1", nil
		}
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			p, err := Translate(c)
			if err != nil {
				return "", err
			}
			parts[i] = "(" + p + ")"
		}
		return strings.Join(parts, " AND "), nil

	case Cmp:
		return translateCmp(n)

	case Exists:
		extract := jsonExtract(n.Path)
		if n.Want {
			return extract + " IS NOT NULL", nil
		}
		return extract + " IS NULL", nil

	case In:
		return translateIn(n.Path, n.Values, false)

	case Nin:
		return translateIn(n.Path, n.Values, true)

	default:
		return "", fmt.Errorf("%w: unknown node type %T", errInvalidFilter, node)
	}
}

func translateCmp(c Cmp) (string, error) {
	var sqlOp string
	switch c.Op {
	case OpEq:
		sqlOp = "="
	case OpNe:
		sqlOp = "!="
	case OpGt:
		sqlOp = ">"
	case OpGte:
		sqlOp = ">="
	case OpLt:
		sqlOp = "<"
	case OpLte:
		sqlOp = "<="
	default:
		return "", fmt.Errorf("%w: unknown comparison operator %q", errInvalidFilter, c.Op)
	}
	return fmt.Sprintf("%s %s %s", jsonExtract(c.Path), sqlOp, sqlLiteral(c.Value)), nil
}

// translateIn builds the $in / $nin fragment: an all-string list becomes a
// direct OR-of-equalities against the scalar extraction; any other list is
// matched through json_each so array-valued fields are handled too. $nin is
// the negation, siblings ANDed by the caller since $nin only negates this
// one operator's condition.
func translateIn(path string, values []any, negate bool) (string, error) {
	if len(values) == 0 {
		if negate {
			return "1=1", nil // empty $nin: always true
		}
		return "1=0", nil // empty $in: always false
	}

	extract := jsonExtract(path)
	allStrings := true
	for _, v := range values {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}

	var clauses []string
	if allStrings {
		for _, v := range values {
			clauses = append(clauses, fmt.Sprintf("%s = %s", extract, sqlLiteral(v)))
		}
	} else {
		for _, v := range values {
			clauses = append(clauses,
				fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE value = %s)", extract, sqlLiteral(v)))
		}
	}

	joined := strings.Join(clauses, " OR ")
	if negate {
		return "NOT (" + joined + ")", nil
	}
	return joined, nil
}

func jsonExtract(path string) string {
	return fmt.Sprintf("json_extract(metadata,'$.%s')", path)
}

// sqlLiteral renders a JSON-decoded Go value as a SQL literal, escaping
// string literals by doubling single quotes.
func sqlLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("'%v'", val)
	}
}
