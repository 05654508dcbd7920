package validator

import (
	"strings"
	"testing"

	"sqlsim/internal/query"
	"sqlsim/internal/schema"
)

func TestCheckRenderedQueries(t *testing.T) {
	tbl := schema.Table{Name: "t_abc", Columns: []schema.Column{
		{Name: "c0", Type: schema.TypeInteger},
		{Name: "c1", Type: schema.TypeFloat},
		{Name: "c2", Type: schema.TypeText},
		{Name: "c3", Type: schema.TypeBlob},
	}}
	row := schema.Row{
		schema.IntValue(-3),
		schema.FloatValue(2),
		schema.TextValue("it's"),
		schema.BlobValue([]byte{0x01, 0xab}),
	}
	pred := query.Or(
		query.And(query.Eq("c0", schema.IntValue(-3)), query.Gt("c1", schema.FloatValue(1.25))),
		query.Not(query.Lt("c2", schema.TextValue("b"))),
		query.Neq("c3", schema.BlobValue([]byte{0x00})),
	)
	queries := []query.Query{
		query.Create{Table: tbl},
		query.Insert{Table: tbl.Name, Values: []schema.Row{row, row}},
		query.Select{Table: tbl.Name, Predicate: pred},
		query.Select{Table: tbl.Name, Predicate: query.And()},
		query.Delete{Table: tbl.Name, Predicate: query.Or()},
	}
	v := New()
	for _, q := range queries {
		if err := v.Check(q); err != nil {
			t.Fatalf("check %s: %v", q.SQL(), err)
		}
	}
}

func TestCheckRejectsSyntaxErrors(t *testing.T) {
	// A reserved word as a bare column name does not parse.
	tbl := schema.Table{Name: "t_bad", Columns: []schema.Column{{Name: "select", Type: schema.TypeInteger}}}
	err := New().Check(query.Create{Table: tbl})
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
