// Package db runs simulator queries against a MySQL-compatible server.
package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"sqlsim/internal/plan"
	"sqlsim/internal/query"
	"sqlsim/internal/schema"
)

// MySQL error numbers rewritten into engine-neutral messages.
const (
	errTableExists  = 1050
	errNoSuchTable  = 1146
	errBadTableName = 1051
)

// DB wraps a connection pool.
type DB struct {
	*sql.DB
	// StatementTimeout bounds each statement; zero disables the bound.
	StatementTimeout time.Duration
}

// Open creates a DB and verifies the connection.
func Open(dsn string) (*DB, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping")
	}
	return &DB{DB: conn}, nil
}

// Execute runs one query. Statements that return no rows yield an empty
// success result.
func (d *DB) Execute(ctx context.Context, q query.Query) plan.ResultSet {
	if d.StatementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.StatementTimeout)
		defer cancel()
	}
	sqlText := q.SQL()
	if q.Kind() != query.KindSelect {
		if _, err := d.ExecContext(ctx, sqlText); err != nil {
			return plan.Failed(normalizeError(q, err))
		}
		return plan.Ok(nil)
	}
	rows, err := d.QueryContext(ctx, sqlText)
	if err != nil {
		return plan.Failed(normalizeError(q, err))
	}
	defer rows.Close()
	out, err := decodeRows(rows)
	if err != nil {
		return plan.Failed(normalizeError(q, err))
	}
	return plan.Ok(out)
}

// normalizeError rewrites table existence errors into the messages the
// property checks look for. The original error stays reachable via Cause.
func normalizeError(q query.Query, err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}
	switch mysqlErr.Number {
	case errTableExists:
		return errors.Wrapf(err, "Table %s already exists", q.TableName())
	case errNoSuchTable, errBadTableName:
		return errors.Wrapf(err, "Table %s does not exist", q.TableName())
	default:
		return err
	}
}

func decodeRows(rows *sql.Rows) ([]schema.Row, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	values := make([]sql.RawBytes, len(types))
	scanArgs := make([]any, len(values))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	out := make([]schema.Row, 0)
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		row := make(schema.Row, 0, len(values))
		for i, raw := range values {
			v, err := decodeValue(types[i].DatabaseTypeName(), raw)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", types[i].Name())
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func decodeValue(typeName string, raw sql.RawBytes) (schema.Value, error) {
	if raw == nil {
		return schema.NullValue(), nil
	}
	typeName = strings.ToUpper(typeName)
	switch {
	case strings.Contains(typeName, "INT"):
		n, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.IntValue(n), nil
	case typeName == "DOUBLE" || typeName == "FLOAT" || typeName == "DECIMAL" || typeName == "REAL":
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.FloatValue(f), nil
	case strings.Contains(typeName, "BLOB") || strings.Contains(typeName, "BINARY"):
		return schema.BlobValue(raw), nil
	default:
		return schema.TextValue(string(raw)), nil
	}
}
