package property

import (
	"fmt"
	"math/rand"

	"sqlsim/internal/plan"
	"sqlsim/internal/query"
	"sqlsim/internal/schema"
	"sqlsim/internal/simenv"
	"sqlsim/internal/util"
)

const (
	insertRowsMin = 1
	insertRowsMax = 5
	fillerMax     = 2
)

// ValueProvider produces one row of values valid for a table.
type ValueProvider interface {
	Row(r *rand.Rand, tbl schema.Table) schema.Row
}

// QueryProvider produces an arbitrary query against a table, biased by the
// remaining budgets.
type QueryProvider interface {
	Query(r *rand.Rand, tbl schema.Table, rem Remaining) query.Query
}

// PredicateProvider produces a predicate that evaluates true for row.
type PredicateProvider interface {
	Matching(r *rand.Rand, tbl schema.Table, row schema.Row) query.Predicate
}

// Generator builds properties from a single random stream.
// It is not safe for concurrent use.
type Generator struct {
	Rand       *rand.Rand
	Values     ValueProvider
	Queries    QueryProvider
	Predicates PredicateProvider
}

// NewGenerator constructs a Generator.
func NewGenerator(r *rand.Rand, values ValueProvider, queries QueryProvider, predicates PredicateProvider) *Generator {
	return &Generator{Rand: r, Values: values, Queries: queries, Predicates: predicates}
}

// Weighted pairs a property kind with its dispatch weight.
type Weighted struct {
	Kind   Kind
	Weight float64
}

// Weights returns the dispatch weights for the remaining budgets, in a
// fixed order. InsertSelect spends a read and a write, so it is bounded by
// the scarcer of the two; DoubleCreateFailure spends two creates.
func Weights(rem Remaining) []Weighted {
	return []Weighted{
		{Kind: KindInsertSelect, Weight: min(rem.Read, rem.Write)},
		{Kind: KindDoubleCreateFailure, Weight: rem.Create / 2},
	}
}

// Choose draws a property kind proportionally to Weights(rem). When every
// weight is zero the kinds are picked uniformly.
func (g *Generator) Choose(rem Remaining) Kind {
	weighted := Weights(rem)
	weights := make([]float64, 0, len(weighted))
	for _, w := range weighted {
		weights = append(weights, w.Weight)
	}
	return weighted[util.PickWeightedFloat(g.Rand, weights)].Kind
}

// Generate computes the remaining budgets, picks a property kind and
// builds one instance of it.
func (g *Generator) Generate(env *simenv.Env, stats plan.InteractionStats) Property {
	rem := RemainingBudget(env, stats)
	return g.GenerateKind(g.Choose(rem), env, rem)
}

// GenerateKind builds one property of the given kind.
func (g *Generator) GenerateKind(kind Kind, env *simenv.Env, rem Remaining) Property {
	switch kind {
	case KindInsertSelect:
		return g.insertSelect(env, rem)
	case KindDoubleCreateFailure:
		return g.doubleCreateFailure(env, rem)
	default:
		panic(fmt.Sprintf("unknown property kind %q", kind))
	}
}

func (g *Generator) pickTable(env *simenv.Env) schema.Table {
	if env == nil || len(env.Tables) == 0 {
		panic("property generation requires at least one table")
	}
	return env.Tables[g.Rand.Intn(len(env.Tables))]
}

func (g *Generator) insertSelect(env *simenv.Env, rem Remaining) InsertSelect {
	tbl := g.pickTable(env)
	count := util.RandIntRange(g.Rand, insertRowsMin, insertRowsMax)
	rows := make([]schema.Row, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, g.Values.Row(g.Rand, tbl))
	}
	rowIndex := g.Rand.Intn(len(rows))
	row := rows[rowIndex].Clone()

	queries := g.fillers(tbl, rem, func(q query.Query) bool {
		return keepInsertSelectFiller(q, tbl, row)
	})

	pred := g.Predicates.Matching(g.Rand, tbl, row)
	if !pred.Test(row, tbl) {
		panic(fmt.Sprintf("predicate %s does not match row %v of table %s", pred, row.Strings(), tbl.Name))
	}
	return InsertSelect{
		Insert:   query.Insert{Table: tbl.Name, Values: rows},
		RowIndex: rowIndex,
		Queries:  queries,
		Select:   query.Select{Table: tbl.Name, Predicate: pred},
	}
}

func (g *Generator) doubleCreateFailure(env *simenv.Env, rem Remaining) DoubleCreateFailure {
	tbl := g.pickTable(env)
	queries := g.fillers(tbl, rem, func(q query.Query) bool {
		return keepDoubleCreateFiller(q, tbl)
	})
	return DoubleCreateFailure{
		Create:  query.Create{Table: tbl.Clone()},
		Queries: queries,
	}
}

// fillers draws up to fillerMax candidate queries and keeps those accepted
// by keep. Rejected candidates are not replaced.
func (g *Generator) fillers(tbl schema.Table, rem Remaining, keep func(query.Query) bool) query.List {
	attempts := g.Rand.Intn(fillerMax + 1)
	out := make(query.List, 0, attempts)
	for i := 0; i < attempts; i++ {
		q := g.Queries.Query(g.Rand, tbl, rem)
		if !keep(q) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// keepInsertSelectFiller rejects deletes that would remove row from tbl and
// creates of tbl, which would fail.
func keepInsertSelectFiller(q query.Query, tbl schema.Table, row schema.Row) bool {
	switch v := q.(type) {
	case query.Delete:
		if v.Table == tbl.Name && v.Predicate.Test(row, tbl) {
			return false
		}
	case query.Create:
		if v.Table.Name == tbl.Name {
			return false
		}
	}
	return true
}

// keepDoubleCreateFiller rejects creates of tbl, which would fail before
// the second create of the property.
func keepDoubleCreateFiller(q query.Query, tbl schema.Table) bool {
	if v, ok := q.(query.Create); ok && v.Table.Name == tbl.Name {
		return false
	}
	return true
}
