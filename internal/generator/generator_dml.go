package generator

import (
	"math/rand"

	"sqlsim/internal/property"
	"sqlsim/internal/query"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Row produces one row of values for tbl. Values are never NULL.
func (g *Generator) Row(r *rand.Rand, tbl schema.Table) schema.Row {
	row := make(schema.Row, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		row = append(row, literalForColumn(r, col.Type))
	}
	return row
}

// Query produces one filler query against tbl. The statement kind is
// weighted by the remaining budgets: SELECT by reads, INSERT and DELETE by
// writes, CREATE by creates.
func (g *Generator) Query(r *rand.Rand, tbl schema.Table, rem property.Remaining) query.Query {
	weights := []float64{
		rem.Write,
		rem.Read,
		rem.Create,
		rem.Write * DeleteWriteShare / 100,
	}
	switch util.PickWeightedFloat(r, weights) {
	case 0:
		return g.Insert(r, tbl)
	case 1:
		return query.Select{Table: tbl.Name, Predicate: g.Arbitrary(r, tbl)}
	case 2:
		return query.Create{Table: g.Table(r)}
	default:
		return query.Delete{Table: tbl.Name, Predicate: g.Arbitrary(r, tbl)}
	}
}

// Insert produces an INSERT of 1..InsertRowCountMax rows.
func (g *Generator) Insert(r *rand.Rand, tbl schema.Table) query.Insert {
	count := util.RandIntRange(r, 1, InsertRowCountMax)
	rows := make([]schema.Row, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, g.Row(r, tbl))
	}
	return query.Insert{Table: tbl.Name, Values: rows}
}

func literalForColumn(r *rand.Rand, typ schema.ColumnType) schema.Value {
	switch typ {
	case schema.TypeFloat:
		return schema.FloatValue(float64(r.Intn(FloatLiteralScale)-FloatLiteralScale/2) / FloatLiteralDiv)
	case schema.TypeText:
		return schema.TextValue(util.RandString(r, 1, TextLenMax))
	case schema.TypeBlob:
		buf := make([]byte, util.RandIntRange(r, 1, BlobLenMax))
		for i := range buf {
			buf[i] = byte(r.Intn(256))
		}
		return schema.BlobValue(buf)
	default:
		return schema.IntValue(r.Int63n(IntLiteralSpan) - IntLiteralSpan/2)
	}
}
