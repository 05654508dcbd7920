package db

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"sqlsim/internal/plan"
	"sqlsim/internal/query"
	"sqlsim/internal/schema"
)

func TestNormalizeErrorTableExists(t *testing.T) {
	q := query.Create{Table: schema.Table{Name: "t1", Columns: []schema.Column{{Name: "a", Type: schema.TypeInteger}}}}
	raw := &mysql.MySQLError{Number: errTableExists, Message: "Table 'sqlsim.t1' already exists"}
	err := normalizeError(q, raw)
	if !strings.Contains(err.Error(), plan.TableAlreadyExists("t1")) {
		t.Fatalf("unexpected message: %v", err)
	}
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != errTableExists {
		t.Fatalf("expected wrapped mysql error, got %v", err)
	}
}

func TestNormalizeErrorMissingTable(t *testing.T) {
	q := query.Select{Table: "t2", Predicate: query.True()}
	err := normalizeError(q, &mysql.MySQLError{Number: errNoSuchTable, Message: "Table 'sqlsim.t2' doesn't exist"})
	if !strings.Contains(err.Error(), "Table t2 does not exist") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestNormalizeErrorPassThrough(t *testing.T) {
	q := query.Select{Table: "t", Predicate: query.True()}
	raw := &mysql.MySQLError{Number: 1064, Message: "syntax error"}
	if err := normalizeError(q, raw); err != raw {
		t.Fatalf("expected unchanged error, got %v", err)
	}
	plain := errors.New("boom")
	if err := normalizeError(q, plain); err != plain {
		t.Fatalf("expected unchanged error, got %v", err)
	}
}

func TestDecodeValue(t *testing.T) {
	cases := []struct {
		typeName string
		raw      sql.RawBytes
		want     schema.Value
	}{
		{"BIGINT", sql.RawBytes("-12"), schema.IntValue(-12)},
		{"DOUBLE", sql.RawBytes("1.5"), schema.FloatValue(1.5)},
		{"TEXT", sql.RawBytes("abc"), schema.TextValue("abc")},
		{"BLOB", sql.RawBytes{0x00, 0xff}, schema.BlobValue([]byte{0x00, 0xff})},
		{"BIGINT", nil, schema.NullValue()},
	}
	for _, tc := range cases {
		got, err := decodeValue(tc.typeName, tc.raw)
		if err != nil {
			t.Fatalf("%s %q: %v", tc.typeName, tc.raw, err)
		}
		if got.Kind != tc.want.Kind || (got.Kind != schema.KindNull && !got.Equal(tc.want)) {
			t.Fatalf("%s %q: expected %s, got %s", tc.typeName, tc.raw, tc.want, got)
		}
	}
	if _, err := decodeValue("INT", sql.RawBytes("x")); err == nil {
		t.Fatalf("expected parse error")
	}
}
