// Package memdb is an in-memory reference engine used for self-check runs
// and tests. It implements the statement subset the simulator issues.
package memdb

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"sqlsim/internal/plan"
	"sqlsim/internal/query"
	"sqlsim/internal/schema"
)

type table struct {
	def  schema.Table
	rows []schema.Row
}

// DB is a map of tables guarded by a mutex.
type DB struct {
	mu     sync.Mutex
	tables map[string]*table
}

// New returns an empty database.
func New() *DB {
	return &DB{tables: make(map[string]*table)}
}

// Execute runs one query.
func (d *DB) Execute(ctx context.Context, q query.Query) plan.ResultSet {
	if err := ctx.Err(); err != nil {
		return plan.Failed(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch v := q.(type) {
	case query.Create:
		return d.create(v)
	case query.Insert:
		return d.insert(v)
	case query.Select:
		return d.selectRows(v)
	case query.Delete:
		return d.delete(v)
	default:
		return plan.Failed(errors.Errorf("unsupported query %T", q))
	}
}

// Tables returns the names of the existing tables.
func (d *DB) Tables() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	return names
}

// Close implements io.Closer.
func (d *DB) Close() error {
	return nil
}

func (d *DB) create(q query.Create) plan.ResultSet {
	if _, ok := d.tables[q.Table.Name]; ok {
		return plan.Failed(errors.Errorf("Table %s already exists", q.Table.Name))
	}
	d.tables[q.Table.Name] = &table{def: q.Table.Clone()}
	return plan.Ok(nil)
}

func (d *DB) insert(q query.Insert) plan.ResultSet {
	t, err := d.lookup(q.Table)
	if err != nil {
		return plan.Failed(err)
	}
	for i, row := range q.Values {
		if len(row) != len(t.def.Columns) {
			return plan.Failed(errors.Errorf("row %d has %d values, table %s has %d columns", i, len(row), q.Table, len(t.def.Columns)))
		}
	}
	for _, row := range q.Values {
		t.rows = append(t.rows, row.Clone())
	}
	return plan.Ok(nil)
}

func (d *DB) selectRows(q query.Select) plan.ResultSet {
	t, err := d.lookup(q.Table)
	if err != nil {
		return plan.Failed(err)
	}
	if err := checkColumns(q.Predicate, t.def); err != nil {
		return plan.Failed(err)
	}
	out := make([]schema.Row, 0)
	for _, row := range t.rows {
		if q.Predicate.Test(row, t.def) {
			out = append(out, row.Clone())
		}
	}
	return plan.Ok(out)
}

func (d *DB) delete(q query.Delete) plan.ResultSet {
	t, err := d.lookup(q.Table)
	if err != nil {
		return plan.Failed(err)
	}
	if err := checkColumns(q.Predicate, t.def); err != nil {
		return plan.Failed(err)
	}
	kept := t.rows[:0]
	for _, row := range t.rows {
		if !q.Predicate.Test(row, t.def) {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return plan.Ok(nil)
}

func (d *DB) lookup(name string) (*table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, errors.Errorf("Table %s does not exist", name)
	}
	return t, nil
}

func checkColumns(p query.Predicate, tbl schema.Table) error {
	if p.Column != "" && tbl.ColumnIndex(p.Column) < 0 {
		return errors.Errorf("unknown column %s in table %s", p.Column, tbl.Name)
	}
	for _, child := range p.Children {
		if err := checkColumns(child, tbl); err != nil {
			return err
		}
	}
	return nil
}
