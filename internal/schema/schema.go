// Package schema defines table schemas, typed values and rows.
package schema

import (
	"github.com/pkg/errors"
)

// ColumnType enumerates column data types.
type ColumnType int

// Column type constants for schema generation.
const (
	TypeInteger ColumnType = iota
	TypeFloat
	TypeText
	TypeBlob
)

var columnTypeNames = map[ColumnType]string{
	TypeInteger: "integer",
	TypeFloat:   "float",
	TypeText:    "text",
	TypeBlob:    "blob",
}

// String returns the lowercase type name.
func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return "integer"
}

// MarshalText encodes the type by name.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name.
func (t *ColumnType) UnmarshalText(text []byte) error {
	for typ, name := range columnTypeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return errors.Errorf("unknown column type %q", string(text))
}

// SQLType returns the SQL type string for this column type.
func (t ColumnType) SQLType() string {
	switch t {
	case TypeInteger:
		return "BIGINT"
	case TypeFloat:
		return "DOUBLE"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	default:
		return "BIGINT"
	}
}

// Column describes a table column.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Table describes a database table.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// ColumnIndex returns the position of a column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// ColumnByName returns a column by name if present.
func (t Table) ColumnByName(name string) (Column, bool) {
	if idx := t.ColumnIndex(name); idx >= 0 {
		return t.Columns[idx], true
	}
	return Column{}, false
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Name: t.Name}
	if t.Columns != nil {
		out.Columns = append([]Column(nil), t.Columns...)
	}
	return out
}

// Row is an ordered sequence of column values.
type Row []Value

// Equal reports component-wise equality.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !r[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for i, v := range r {
		out[i] = v.Clone()
	}
	return out
}

// Strings renders each value for messages.
func (r Row) Strings() []string {
	out := make([]string, 0, len(r))
	for _, v := range r {
		out = append(out, v.String())
	}
	return out
}

// ContainsRow reports whether rows has an entry equal to row.
func ContainsRow(rows []Row, row Row) bool {
	for _, r := range rows {
		if r.Equal(row) {
			return true
		}
	}
	return false
}
