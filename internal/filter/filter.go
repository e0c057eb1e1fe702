// Package filter translates a MongoDB-like JSON filter tree into a SQL
// WHERE fragment over json_extract(metadata, ...). It parses into a small
// typed AST first rather than assembling SQL strings directly from the
// JSON tree, so each operator has exactly one code path from AST to SQL.
package filter

// Node is one node of a parsed filter tree.
type Node interface {
	node()
}

// And conjoins its children; an empty And is the always-true condition.
type And struct {
	Children []Node
}

// CmpOp is a scalar comparison operator.
type CmpOp string

const (
	OpEq  CmpOp = "$eq"
	OpNe  CmpOp = "$ne"
	OpGt  CmpOp = "$gt"
	OpGte CmpOp = "$gte"
	OpLt  CmpOp = "$lt"
	OpLte CmpOp = "$lte"
)

// Cmp is a single scalar comparison against a JSON field path.
type Cmp struct {
	Path  string
	Op    CmpOp
	Value any
}

// In matches when the field's value is a member of Values (or, for
// array-valued fields, when the array contains a member of Values).
type In struct {
	Path   string
	Values []any
}

// Nin is the negation of In.
type Nin struct {
	Path   string
	Values []any
}

// Exists matches on presence (Want true) or absence (Want false) of Path.
type Exists struct {
	Path string
	Want bool
}

func (And) node()    {}
func (Cmp) node()    {}
func (In) node()     {}
func (Nin) node()    {}
func (Exists) node() {}
