// Package validator checks rendered statements with the TiDB parser before
// they reach an engine.
package validator

import (
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
	"github.com/pkg/errors"

	"sqlsim/internal/query"
)

// Validator wraps the TiDB parser for SQL validation.
// It is not safe for concurrent use.
type Validator struct {
	parser *parser.Parser
}

// New returns a Validator instance.
func New() *Validator {
	return &Validator{parser: parser.New()}
}

func (v *Validator) parse(sql string) ([]ast.StmtNode, error) {
	stmts, _, err := v.parser.Parse(sql, "", "")
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", sql)
	}
	return stmts, nil
}

// Check renders q and verifies it parses as exactly one statement of the
// matching kind.
func (v *Validator) Check(q query.Query) error {
	sqlText := q.SQL()
	stmts, err := v.parse(sqlText)
	if err != nil {
		return err
	}
	if len(stmts) != 1 {
		return errors.Errorf("expected one statement, got %d: %q", len(stmts), sqlText)
	}
	if got := stmtKind(stmts[0]); got != q.Kind() {
		return errors.Errorf("statement %q parsed as %q, expected %q", sqlText, got, q.Kind())
	}
	return nil
}

func stmtKind(stmt ast.StmtNode) query.Kind {
	switch stmt.(type) {
	case *ast.InsertStmt:
		return query.KindInsert
	case *ast.SelectStmt:
		return query.KindSelect
	case *ast.CreateTableStmt:
		return query.KindCreate
	case *ast.DeleteStmt:
		return query.KindDelete
	default:
		return ""
	}
}
