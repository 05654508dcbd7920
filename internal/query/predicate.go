package query

import (
	"sqlsim/internal/schema"
)

// Op is a predicate operator.
type Op string

// Predicate operators.
const (
	OpTrue  Op = "TRUE"
	OpFalse Op = "FALSE"
	OpEq    Op = "="
	OpNeq   Op = "<>"
	OpGt    Op = ">"
	OpLt    Op = "<"
	OpAnd   Op = "AND"
	OpOr    Op = "OR"
	OpNot   Op = "NOT"
)

// Predicate is a boolean test over a row of a table.
// It is plain data: comparisons hold a column name and a literal,
// connectives hold children.
type Predicate struct {
	Op       Op            `json:"op"`
	Column   string        `json:"column,omitempty"`
	Value    *schema.Value `json:"value,omitempty"`
	Children []Predicate   `json:"children,omitempty"`
}

// True matches every row.
func True() Predicate { return Predicate{Op: OpTrue} }

// False matches no row.
func False() Predicate { return Predicate{Op: OpFalse} }

// Eq compares a column for equality.
func Eq(column string, v schema.Value) Predicate { return compare(OpEq, column, v) }

// Neq compares a column for inequality.
func Neq(column string, v schema.Value) Predicate { return compare(OpNeq, column, v) }

// Gt matches rows where column > v.
func Gt(column string, v schema.Value) Predicate { return compare(OpGt, column, v) }

// Lt matches rows where column < v.
func Lt(column string, v schema.Value) Predicate { return compare(OpLt, column, v) }

// And matches when every child matches.
func And(children ...Predicate) Predicate { return Predicate{Op: OpAnd, Children: children} }

// Or matches when any child matches.
func Or(children ...Predicate) Predicate { return Predicate{Op: OpOr, Children: children} }

// Not negates a predicate.
func Not(child Predicate) Predicate { return Predicate{Op: OpNot, Children: []Predicate{child}} }

func compare(op Op, column string, v schema.Value) Predicate {
	val := v.Clone()
	return Predicate{Op: op, Column: column, Value: &val}
}

// Test evaluates the predicate against a row laid out as tbl.
// Comparisons against NULL, unknown columns or mismatched kinds are false,
// and NOT of such a comparison is false as well.
func (p Predicate) Test(row schema.Row, tbl schema.Table) bool {
	return p.eval(row, tbl) == truthTrue
}

type truth int

const (
	truthFalse truth = iota
	truthTrue
	truthUnknown
)

func (p Predicate) eval(row schema.Row, tbl schema.Table) truth {
	switch p.Op {
	case OpTrue:
		return truthTrue
	case OpFalse:
		return truthFalse
	case OpAnd:
		out := truthTrue
		for _, c := range p.Children {
			switch c.eval(row, tbl) {
			case truthFalse:
				return truthFalse
			case truthUnknown:
				out = truthUnknown
			}
		}
		return out
	case OpOr:
		out := truthFalse
		for _, c := range p.Children {
			switch c.eval(row, tbl) {
			case truthTrue:
				return truthTrue
			case truthUnknown:
				out = truthUnknown
			}
		}
		return out
	case OpNot:
		if len(p.Children) != 1 {
			return truthUnknown
		}
		switch p.Children[0].eval(row, tbl) {
		case truthTrue:
			return truthFalse
		case truthFalse:
			return truthTrue
		default:
			return truthUnknown
		}
	case OpEq, OpNeq, OpGt, OpLt:
		idx := tbl.ColumnIndex(p.Column)
		if idx < 0 || idx >= len(row) || p.Value == nil {
			return truthUnknown
		}
		cmp, ok := row[idx].Compare(*p.Value)
		if !ok {
			return truthUnknown
		}
		var res bool
		switch p.Op {
		case OpEq:
			res = cmp == 0
		case OpNeq:
			res = cmp != 0
		case OpGt:
			res = cmp > 0
		case OpLt:
			res = cmp < 0
		}
		if res {
			return truthTrue
		}
		return truthFalse
	}
	return truthUnknown
}

// Build emits the predicate as SQL.
func (p Predicate) Build(b *SQLBuilder) {
	switch p.Op {
	case OpTrue, OpFalse:
		b.Write(string(p.Op))
	case OpAnd, OpOr:
		if len(p.Children) == 0 {
			if p.Op == OpAnd {
				b.Write(string(OpTrue))
			} else {
				b.Write(string(OpFalse))
			}
			return
		}
		b.Write("(")
		for i, c := range p.Children {
			if i > 0 {
				b.Write(" " + string(p.Op) + " ")
			}
			c.Build(b)
		}
		b.Write(")")
	case OpNot:
		b.Write("(NOT (")
		if len(p.Children) == 1 {
			p.Children[0].Build(b)
		} else {
			b.Write(string(OpTrue))
		}
		b.Write("))")
	default:
		b.Write(p.Column)
		b.Write(" " + string(p.Op) + " ")
		if p.Value == nil {
			b.Write("NULL")
			return
		}
		b.Write(p.Value.SQL())
	}
}

// String renders the predicate as SQL.
func (p Predicate) String() string {
	b := SQLBuilder{}
	p.Build(&b)
	return b.String()
}
