package runner

import (
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// mysqlErrCode extracts the server error number, if err came from a MySQL
// compatible engine.
func mysqlErrCode(err error) (uint16, bool) {
	if err == nil {
		return 0, false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}
