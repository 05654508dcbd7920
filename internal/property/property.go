// Package property models testable database invariants as plain data and
// compiles them into interaction scripts.
package property

import (
	"fmt"

	"sqlsim/internal/plan"
	"sqlsim/internal/query"
	"sqlsim/internal/schema"
)

// Kind tags a property variant.
type Kind string

// Property kinds.
const (
	KindInsertSelect        Kind = "insert_select"
	KindDoubleCreateFailure Kind = "double_create_failure"
)

// Property is an executable claim about database behavior.
// Implementations hold only serializable data; Interactions derives the
// executable script from it.
type Property interface {
	Kind() Kind
	Name() string
	Interactions() []plan.Interaction
}

// InsertSelect asserts that a row inserted into a table is returned by a
// later SELECT whose predicate matches it:
//
//	INSERT INTO t VALUES (...)
//	Q_0 ... Q_n
//	SELECT * FROM t WHERE <predicate>
//
// The filler queries Q_i never delete the selected row and never create t.
type InsertSelect struct {
	Insert   query.Insert `json:"insert"`
	RowIndex int          `json:"row_index"`
	Queries  query.List   `json:"queries"`
	Select   query.Select `json:"select"`
}

// DoubleCreateFailure asserts that creating the same table twice fails:
//
//	CREATE TABLE t (...)
//	Q_0 ... Q_n
//	CREATE TABLE t (...) -> error
//
// The filler queries Q_i never create t.
type DoubleCreateFailure struct {
	Create  query.Create `json:"create"`
	Queries query.List   `json:"queries"`
}

// Kind implements Property.
func (InsertSelect) Kind() Kind { return KindInsertSelect }

// Kind implements Property.
func (DoubleCreateFailure) Kind() Kind { return KindDoubleCreateFailure }

// Name implements Property.
func (InsertSelect) Name() string { return "Insert-Select" }

// Name implements Property.
func (DoubleCreateFailure) Name() string { return "Double-Create-Failure" }

// SelectedRow returns the row the property asserts is readable.
// It panics when the insert is empty or the index is out of range.
func (p InsertSelect) SelectedRow() schema.Row {
	if len(p.Insert.Values) == 0 {
		panic("insert query should have at least 1 value")
	}
	if p.RowIndex < 0 || p.RowIndex >= len(p.Insert.Values) {
		panic(fmt.Sprintf("row index %d out of range for %d inserted rows", p.RowIndex, len(p.Insert.Values)))
	}
	return p.Insert.Values[p.RowIndex].Clone()
}

// Interactions implements Property.
func (p InsertSelect) Interactions() []plan.Interaction {
	row := p.SelectedRow()

	out := make([]plan.Interaction, 0, len(p.Queries)+4)
	out = append(out, plan.Assumption(plan.TableExists{Table: p.Insert.Table}))
	out = append(out, plan.QueryStep(p.Insert))
	for _, q := range p.Queries {
		out = append(out, plan.QueryStep(q))
	}
	out = append(out, plan.QueryStep(p.Select))
	out = append(out, plan.Assertion(plan.RowInLastResult{Table: p.Insert.Table, Row: row}))
	return out
}

// Interactions implements Property.
func (p DoubleCreateFailure) Interactions() []plan.Interaction {
	name := p.Create.Table.Name
	create := query.Create{Table: p.Create.Table.Clone()}

	out := make([]plan.Interaction, 0, len(p.Queries)+4)
	out = append(out, plan.Assumption(plan.TableAbsent{Table: name}))
	out = append(out, plan.QueryStep(create))
	for _, q := range p.Queries {
		out = append(out, plan.QueryStep(q))
	}
	out = append(out, plan.QueryStep(query.Create{Table: p.Create.Table.Clone()}))
	out = append(out, plan.Assertion(plan.LastErrorContains{Substring: plan.TableAlreadyExists(name)}))
	return out
}
