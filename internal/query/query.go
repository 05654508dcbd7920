// Package query models the statements a simulation issues and renders them as SQL.
package query

import (
	"strings"

	"sqlsim/internal/schema"
)

// Kind tags the statement variant.
type Kind string

// Query kinds.
const (
	KindInsert Kind = "insert"
	KindSelect Kind = "select"
	KindCreate Kind = "create"
	KindDelete Kind = "delete"
)

// Query is one of Insert, Select, Create or Delete.
type Query interface {
	Kind() Kind
	// TableName is the table the statement targets.
	TableName() string
	Build(b *SQLBuilder)
	SQL() string
	isQuery()
}

// Insert adds rows to a table.
type Insert struct {
	Table  string       `json:"table"`
	Values []schema.Row `json:"values"`
}

// Select reads the rows of a table that match a predicate.
type Select struct {
	Table     string    `json:"table"`
	Predicate Predicate `json:"predicate"`
}

// Create creates a table.
type Create struct {
	Table schema.Table `json:"table"`
}

// Delete removes the rows of a table that match a predicate.
type Delete struct {
	Table     string    `json:"table"`
	Predicate Predicate `json:"predicate"`
}

func (Insert) isQuery() {}
func (Select) isQuery() {}
func (Create) isQuery() {}
func (Delete) isQuery() {}

// Kind implements Query.
func (Insert) Kind() Kind { return KindInsert }

// Kind implements Query.
func (Select) Kind() Kind { return KindSelect }

// Kind implements Query.
func (Create) Kind() Kind { return KindCreate }

// Kind implements Query.
func (Delete) Kind() Kind { return KindDelete }

// TableName implements Query.
func (q Insert) TableName() string { return q.Table }

// TableName implements Query.
func (q Select) TableName() string { return q.Table }

// TableName implements Query.
func (q Create) TableName() string { return q.Table.Name }

// TableName implements Query.
func (q Delete) TableName() string { return q.Table }

// Build emits INSERT INTO t VALUES (...), (...).
func (q Insert) Build(b *SQLBuilder) {
	b.Write("INSERT INTO ")
	b.Write(q.Table)
	b.Write(" VALUES ")
	for i, row := range q.Values {
		if i > 0 {
			b.Write(", ")
		}
		b.Write("(")
		for j, v := range row {
			if j > 0 {
				b.Write(", ")
			}
			b.Write(v.SQL())
		}
		b.Write(")")
	}
}

// Build emits SELECT * FROM t WHERE p.
func (q Select) Build(b *SQLBuilder) {
	b.Write("SELECT * FROM ")
	b.Write(q.Table)
	b.Write(" WHERE ")
	q.Predicate.Build(b)
}

// Build emits CREATE TABLE t (...).
func (q Create) Build(b *SQLBuilder) {
	b.Write("CREATE TABLE ")
	b.Write(q.Table.Name)
	b.Write(" (")
	cols := make([]string, 0, len(q.Table.Columns))
	for _, col := range q.Table.Columns {
		cols = append(cols, col.Name+" "+col.Type.SQLType())
	}
	b.Write(strings.Join(cols, ", "))
	b.Write(")")
}

// Build emits DELETE FROM t WHERE p.
func (q Delete) Build(b *SQLBuilder) {
	b.Write("DELETE FROM ")
	b.Write(q.Table)
	b.Write(" WHERE ")
	q.Predicate.Build(b)
}

// SQL renders the statement.
func (q Insert) SQL() string { return render(q) }

// SQL renders the statement.
func (q Select) SQL() string { return render(q) }

// SQL renders the statement.
func (q Create) SQL() string { return render(q) }

// SQL renders the statement.
func (q Delete) SQL() string { return render(q) }

func render(q Query) string {
	b := SQLBuilder{}
	q.Build(&b)
	return b.String()
}
