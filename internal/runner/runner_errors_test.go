package runner

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"sqlsim/internal/plan"
)

func TestMySQLErrCodeThroughWrap(t *testing.T) {
	err := errors.Wrap(&mysql.MySQLError{Number: 1050, Message: "exists"}, "Table t already exists")
	code, ok := mysqlErrCode(err)
	if !ok || code != 1050 {
		t.Fatalf("expected 1050, got %d %v", code, ok)
	}
	if _, ok := mysqlErrCode(errors.New("plain")); ok {
		t.Fatalf("expected no code for plain errors")
	}
}

func TestOutcomeDetailsErrorCodes(t *testing.T) {
	out := Outcome{Executed: 2, Results: []plan.ResultSet{
		plan.Ok(nil),
		plan.Failed(&mysql.MySQLError{Number: 1146, Message: "missing"}),
	}}
	details := outcomeDetails(out)
	codes, ok := details["error_codes"].([]int)
	if !ok || len(codes) != 2 || codes[0] != 0 || codes[1] != 1146 {
		t.Fatalf("unexpected error codes %#v", details["error_codes"])
	}
}
