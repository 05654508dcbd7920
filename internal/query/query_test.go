package query

import (
	"encoding/json"
	"reflect"
	"testing"

	"sqlsim/internal/schema"
)

func testTable() schema.Table {
	return schema.Table{
		Name: "t",
		Columns: []schema.Column{
			{Name: "a", Type: schema.TypeInteger},
			{Name: "b", Type: schema.TypeText},
			{Name: "c", Type: schema.TypeFloat},
		},
	}
}

func TestPredicateTest(t *testing.T) {
	tbl := testTable()
	row := schema.Row{schema.IntValue(5), schema.TextValue("x"), schema.FloatValue(1.5)}
	cases := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"true", True(), true},
		{"false", False(), false},
		{"eq", Eq("a", schema.IntValue(5)), true},
		{"eq miss", Eq("a", schema.IntValue(6)), false},
		{"neq", Neq("b", schema.TextValue("y")), true},
		{"gt numeric mix", Gt("a", schema.FloatValue(4.5)), true},
		{"lt", Lt("c", schema.FloatValue(1.5)), false},
		{"and", And(Eq("a", schema.IntValue(5)), Eq("b", schema.TextValue("x"))), true},
		{"and short", And(Eq("a", schema.IntValue(5)), Eq("b", schema.TextValue("z"))), false},
		{"or", Or(Eq("a", schema.IntValue(1)), Eq("b", schema.TextValue("x"))), true},
		{"empty and", And(), true},
		{"empty or", Or(), false},
		{"not", Not(Eq("a", schema.IntValue(1))), true},
		{"unknown column", Eq("zz", schema.IntValue(5)), false},
		{"not unknown", Not(Eq("zz", schema.IntValue(5))), false},
		{"kind mismatch", Eq("b", schema.IntValue(5)), false},
	}
	for _, c := range cases {
		if got := c.pred.Test(row, tbl); got != c.want {
			t.Fatalf("%s: Test()=%t, want %t (%s)", c.name, got, c.want, c.pred)
		}
	}
}

func TestPredicateNullIsUnknown(t *testing.T) {
	tbl := testTable()
	row := schema.Row{schema.NullValue(), schema.TextValue("x"), schema.FloatValue(1)}
	if Eq("a", schema.IntValue(1)).Test(row, tbl) {
		t.Fatalf("comparison with NULL must not match")
	}
	if Not(Eq("a", schema.IntValue(1))).Test(row, tbl) {
		t.Fatalf("negated comparison with NULL must not match")
	}
	if !Or(Eq("a", schema.IntValue(1)), True()).Test(row, tbl) {
		t.Fatalf("OR with TRUE must match")
	}
}

func TestQuerySQL(t *testing.T) {
	tbl := testTable()
	cases := []struct {
		q    Query
		want string
	}{
		{
			Insert{Table: "t", Values: []schema.Row{
				{schema.IntValue(1), schema.TextValue("a"), schema.FloatValue(2)},
				{schema.IntValue(2), schema.TextValue("b'c"), schema.FloatValue(0.5)},
			}},
			"INSERT INTO t VALUES (1, 'a', 2.0), (2, 'b''c', 0.5)",
		},
		{
			Select{Table: "t", Predicate: And(Eq("a", schema.IntValue(1)), Gt("c", schema.FloatValue(1.25)))},
			"SELECT * FROM t WHERE (a = 1 AND c > 1.25)",
		},
		{
			Create{Table: tbl},
			"CREATE TABLE t (a BIGINT, b TEXT, c DOUBLE)",
		},
		{
			Delete{Table: "t", Predicate: Not(Lt("a", schema.IntValue(0)))},
			"DELETE FROM t WHERE (NOT (a < 0))",
		},
		{
			Select{Table: "t", Predicate: True()},
			"SELECT * FROM t WHERE TRUE",
		},
	}
	for _, c := range cases {
		if got := c.q.SQL(); got != c.want {
			t.Fatalf("SQL()=%q, want %q", got, c.want)
		}
	}
}

func TestQueryTableName(t *testing.T) {
	if got := (Create{Table: testTable()}).TableName(); got != "t" {
		t.Fatalf("Create.TableName()=%s", got)
	}
	if got := (Delete{Table: "u"}).TableName(); got != "u" {
		t.Fatalf("Delete.TableName()=%s", got)
	}
}

func TestListJSONRoundTrip(t *testing.T) {
	list := List{
		Insert{Table: "t", Values: []schema.Row{{schema.IntValue(1), schema.TextValue("a"), schema.FloatValue(0.1)}}},
		Select{Table: "t", Predicate: Or(Eq("a", schema.IntValue(1)), Neq("b", schema.TextValue("q")))},
		Create{Table: testTable()},
		Delete{Table: "t", Predicate: Gt("c", schema.FloatValue(3))},
	}
	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got List
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(list, got) {
		t.Fatalf("list changed through json:\n%s", data)
	}
	for i := range list {
		if list[i].SQL() != got[i].SQL() {
			t.Fatalf("query %d renders differently after round trip", i)
		}
	}
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"kind":"update"}`)); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := Unmarshal([]byte(`{"kind":"insert"}`)); err == nil {
		t.Fatalf("expected error for missing payload")
	}
	q, err := Unmarshal([]byte(`{"kind":"select","select":{"table":"t","predicate":{"op":"TRUE"}}}`))
	if err != nil {
		t.Fatalf("unmarshal select: %v", err)
	}
	if q.Kind() != KindSelect || q.TableName() != "t" {
		t.Fatalf("unexpected query %#v", q)
	}
}
