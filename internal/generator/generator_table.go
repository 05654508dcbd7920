package generator

import (
	"fmt"
	"math/rand"

	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Table creates a randomized table definition with a fresh name.
func (g *Generator) Table(r *rand.Rand) schema.Table {
	colCount := util.RandIntRange(r, ColumnCountMin, g.MaxColumns)
	cols := make([]schema.Column, 0, colCount)
	for i := 0; i < colCount; i++ {
		cols = append(cols, schema.Column{
			Name: fmt.Sprintf("c%d", i),
			Type: randomColumnType(r),
		})
	}
	return schema.Table{Name: TableName(r), Columns: cols}
}

// TableName returns a random table name.
func TableName(r *rand.Rand) string {
	return "t_" + util.RandString(r, TableNameLen, TableNameLen)
}

func randomColumnType(r *rand.Rand) schema.ColumnType {
	types := []schema.ColumnType{schema.TypeInteger, schema.TypeFloat, schema.TypeText, schema.TypeBlob}
	return types[util.PickWeighted(r, columnTypeWeights)]
}
