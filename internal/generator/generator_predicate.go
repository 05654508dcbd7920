package generator

import (
	"math/rand"

	"sqlsim/internal/query"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Matching builds a predicate that is true for row. Each term constrains one
// non-NULL column of the row; terms are AND-combined and the whole predicate
// is occasionally OR-ed with an arbitrary one.
func (g *Generator) Matching(r *rand.Rand, tbl schema.Table, row schema.Row) query.Predicate {
	candidates := make([]int, 0, len(row))
	for i, v := range row {
		if i < len(tbl.Columns) && v.Kind != schema.KindNull {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return query.True()
	}
	r.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	count := util.RandIntRange(r, 1, min(len(candidates), PredicateColumnsMax))
	terms := make([]query.Predicate, 0, count)
	for _, idx := range candidates[:count] {
		terms = append(terms, matchingTerm(r, tbl.Columns[idx].Name, row[idx]))
	}
	pred := terms[0]
	if len(terms) > 1 {
		pred = query.And(terms...)
	}
	if util.Chance(r, PredicateOrNoiseProb) {
		pred = query.Or(pred, g.Arbitrary(r, tbl))
	}
	return pred
}

func matchingTerm(r *rand.Rand, column string, v schema.Value) query.Predicate {
	term := query.Eq(column, v)
	switch {
	case util.Chance(r, PredicateRangeProb):
		term = rangeTerm(r, column, v)
	case util.Chance(r, PredicateNeqProb):
		term = query.Neq(column, differentValue(v))
	}
	if util.Chance(r, PredicateNotProb) {
		term = query.Not(query.Not(term))
	}
	return term
}

// rangeTerm bounds v from one side.
func rangeTerm(r *rand.Rand, column string, v schema.Value) query.Predicate {
	delta := int64(util.RandIntRange(r, 1, PredicateDeltaMax))
	below := util.Chance(r, 50)
	switch v.Kind {
	case schema.KindInteger:
		if below {
			return query.Gt(column, schema.IntValue(v.Int-delta))
		}
		return query.Lt(column, schema.IntValue(v.Int+delta))
	case schema.KindFloat:
		if below {
			return query.Gt(column, schema.FloatValue(v.Float-float64(delta)))
		}
		return query.Lt(column, schema.FloatValue(v.Float+float64(delta)))
	case schema.KindText:
		return query.Lt(column, schema.TextValue(v.Text+"z"))
	default:
		return query.Eq(column, v)
	}
}

// differentValue returns a value of the same kind that is not equal to v.
func differentValue(v schema.Value) schema.Value {
	switch v.Kind {
	case schema.KindInteger:
		return schema.IntValue(v.Int + 1)
	case schema.KindFloat:
		return schema.FloatValue(v.Float + 1)
	case schema.KindText:
		return schema.TextValue(v.Text + "x")
	case schema.KindBlob:
		return schema.BlobValue(append(append([]byte(nil), v.Blob...), 0))
	default:
		return v
	}
}

// Arbitrary builds a random predicate over tbl's columns with no guarantee
// about which rows it matches.
func (g *Generator) Arbitrary(r *rand.Rand, tbl schema.Table) query.Predicate {
	if len(tbl.Columns) == 0 || util.Chance(r, PredicateTrueProb) {
		return query.True()
	}
	count := util.RandIntRange(r, 1, PredicateTermsMax)
	terms := make([]query.Predicate, 0, count)
	for i := 0; i < count; i++ {
		col := tbl.Columns[r.Intn(len(tbl.Columns))]
		lit := literalForColumn(r, col.Type)
		switch r.Intn(4) {
		case 0:
			terms = append(terms, query.Eq(col.Name, lit))
		case 1:
			terms = append(terms, query.Neq(col.Name, lit))
		case 2:
			terms = append(terms, query.Gt(col.Name, lit))
		default:
			terms = append(terms, query.Lt(col.Name, lit))
		}
	}
	if len(terms) == 1 {
		return terms[0]
	}
	if util.Chance(r, PredicateOrProb) {
		return query.Or(terms...)
	}
	return query.And(terms...)
}
