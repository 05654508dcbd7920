package plan

import (
	"fmt"
	"strings"

	"sqlsim/internal/schema"
	"sqlsim/internal/simenv"

	"github.com/pkg/errors"
)

// ErrOracle marks a check that could not be evaluated because the
// simulation itself produced unexpected input, as opposed to a check
// that evaluated to false.
var ErrOracle = errors.New("simulation oracle error")

// ErrEmptyStack is returned when an assertion runs before any query result.
var ErrEmptyStack = errors.Wrap(ErrOracle, "empty result-set stack")

func oracleErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrOracle, format, args...)
}

// IsOracleError reports whether err is classified as an oracle error.
func IsOracleError(err error) bool {
	return errors.Is(err, ErrOracle)
}

// Check is an assumption or assertion evaluated over the result-set stack
// and the environment. Implementations hold copies of the data they need.
type Check interface {
	Message() string
	Evaluate(stack []ResultSet, env *simenv.Env) (bool, error)
}

// TableExists holds when the environment knows the table.
type TableExists struct {
	Table string
}

// Message implements Check.
func (c TableExists) Message() string {
	return fmt.Sprintf("table %s exists", c.Table)
}

// Evaluate implements Check.
func (c TableExists) Evaluate(_ []ResultSet, env *simenv.Env) (bool, error) {
	return env.HasTable(c.Table), nil
}

// TableAbsent holds when the environment does not know the table.
type TableAbsent struct {
	Table string
}

// Message implements Check.
func (c TableAbsent) Message() string {
	return "Double-Create-Failure should not be called on an existing table"
}

// Evaluate implements Check.
func (c TableAbsent) Evaluate(_ []ResultSet, env *simenv.Env) (bool, error) {
	return !env.HasTable(c.Table), nil
}

// RowInLastResult holds when the most recent result set succeeded and
// contains Row.
type RowInLastResult struct {
	Table string
	Row   schema.Row
}

// Message implements Check.
func (c RowInLastResult) Message() string {
	return fmt.Sprintf("row [%s] not found in table %s", strings.Join(c.Row.Strings(), ", "), c.Table)
}

// Evaluate implements Check.
func (c RowInLastResult) Evaluate(stack []ResultSet, _ *simenv.Env) (bool, error) {
	if len(stack) == 0 {
		return false, errors.WithStack(ErrEmptyStack)
	}
	last := stack[len(stack)-1]
	if last.Err != nil {
		return false, oracleErrorf("select on table %s failed: %v", c.Table, last.Err)
	}
	return schema.ContainsRow(last.Rows, c.Row), nil
}

// LastErrorContains holds when the most recent result set is an error whose
// message contains Substring.
type LastErrorContains struct {
	Substring string
}

// TableAlreadyExists is the error text expected from a duplicate CREATE TABLE.
func TableAlreadyExists(table string) string {
	return fmt.Sprintf("Table %s already exists", table)
}

// Message implements Check.
func (c LastErrorContains) Message() string {
	return "creating two tables with the name should result in a failure for the second query"
}

// Evaluate implements Check.
func (c LastErrorContains) Evaluate(stack []ResultSet, _ *simenv.Env) (bool, error) {
	if len(stack) == 0 {
		return false, errors.WithStack(ErrEmptyStack)
	}
	last := stack[len(stack)-1]
	if last.Err == nil {
		return false, nil
	}
	return strings.Contains(last.Err.Error(), c.Substring), nil
}
