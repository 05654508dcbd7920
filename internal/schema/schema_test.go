package schema

import (
	"encoding/json"
	"testing"
)

func TestRowEqualIsComponentWise(t *testing.T) {
	a := Row{IntValue(1), TextValue("x"), FloatValue(1.5), BlobValue([]byte{1, 2})}
	b := Row{IntValue(1), TextValue("x"), FloatValue(1.5), BlobValue([]byte{1, 2})}
	if !a.Equal(b) {
		t.Fatalf("expected rows to be equal")
	}
	b[1] = TextValue("y")
	if a.Equal(b) {
		t.Fatalf("expected rows to differ")
	}
	if a.Equal(a[:3]) {
		t.Fatalf("rows with different lengths must differ")
	}
}

func TestValueEqualRequiresSameKind(t *testing.T) {
	if IntValue(1).Equal(FloatValue(1)) {
		t.Fatalf("integer and float must not be equal")
	}
	if !NullValue().Equal(NullValue()) {
		t.Fatalf("null values compare equal component-wise")
	}
}

func TestValueCompare(t *testing.T) {
	cases := []struct {
		a, b Value
		cmp  int
		ok   bool
	}{
		{IntValue(1), IntValue(2), -1, true},
		{IntValue(3), FloatValue(2.5), 1, true},
		{TextValue("b"), TextValue("a"), 1, true},
		{BlobValue([]byte{1}), BlobValue([]byte{1}), 0, true},
		{TextValue("1"), IntValue(1), 0, false},
		{NullValue(), IntValue(1), 0, false},
	}
	for _, c := range cases {
		cmp, ok := c.a.Compare(c.b)
		if ok != c.ok || (ok && cmp != c.cmp) {
			t.Fatalf("Compare(%s, %s)=(%d,%t), want (%d,%t)", c.a, c.b, cmp, ok, c.cmp, c.ok)
		}
	}
}

func TestValueSQLLiterals(t *testing.T) {
	cases := map[string]Value{
		"42":      IntValue(42),
		"2.0":     FloatValue(2),
		"-0.25":   FloatValue(-0.25),
		"'it''s'": TextValue("it's"),
		"X'0aff'": BlobValue([]byte{0x0a, 0xff}),
		"NULL":    NullValue(),
	}
	for want, v := range cases {
		if got := v.SQL(); got != want {
			t.Fatalf("SQL()=%s, want %s", got, want)
		}
	}
}

func TestRowJSONKeepsKinds(t *testing.T) {
	row := Row{IntValue(9007199254740993), FloatValue(0.1), TextValue("t"), BlobValue([]byte("ab")), NullValue()}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Row
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !row.Equal(got) {
		t.Fatalf("row changed through json: %s", data)
	}
}

func TestTableColumnLookup(t *testing.T) {
	tbl := Table{Name: "t", Columns: []Column{{Name: "a", Type: TypeInteger}, {Name: "b", Type: TypeText}}}
	if idx := tbl.ColumnIndex("b"); idx != 1 {
		t.Fatalf("ColumnIndex(b)=%d", idx)
	}
	if _, ok := tbl.ColumnByName("c"); ok {
		t.Fatalf("unexpected column c")
	}
	clone := tbl.Clone()
	clone.Columns[0].Name = "z"
	if tbl.Columns[0].Name != "a" {
		t.Fatalf("clone shares columns with original")
	}
}

func TestColumnTypeText(t *testing.T) {
	var typ ColumnType
	if err := typ.UnmarshalText([]byte("blob")); err != nil || typ != TypeBlob {
		t.Fatalf("UnmarshalText(blob)=%v err=%v", typ, err)
	}
	if err := typ.UnmarshalText([]byte("money")); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
