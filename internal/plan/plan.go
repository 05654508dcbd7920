// Package plan defines the executable form of a property: interactions,
// the result sets they produce, and the checks evaluated against them.
package plan

import (
	"fmt"
	"strings"

	"sqlsim/internal/query"
	"sqlsim/internal/schema"
)

// ResultSet is the outcome of one executed query.
type ResultSet struct {
	Rows []schema.Row
	Err  error
}

// Ok wraps returned rows.
func Ok(rows []schema.Row) ResultSet {
	return ResultSet{Rows: rows}
}

// Failed wraps an execution error.
func Failed(err error) ResultSet {
	return ResultSet{Err: err}
}

// IsErr reports whether the query failed.
func (r ResultSet) IsErr() bool {
	return r.Err != nil
}

// InteractionStats counts executed queries by workload category.
type InteractionStats struct {
	ReadCount   int `json:"read_count"`
	WriteCount  int `json:"write_count"`
	CreateCount int `json:"create_count"`
}

// Record counts one executed query.
func (s *InteractionStats) Record(q query.Query) {
	switch q.Kind() {
	case query.KindSelect:
		s.ReadCount++
	case query.KindInsert, query.KindDelete:
		s.WriteCount++
	case query.KindCreate:
		s.CreateCount++
	}
}

// Total is the number of recorded queries.
func (s InteractionStats) Total() int {
	return s.ReadCount + s.WriteCount + s.CreateCount
}

// InteractionKind tags an Interaction.
type InteractionKind int

// Interaction kinds.
const (
	KindQuery InteractionKind = iota
	KindAssumption
	KindAssertion
)

func (k InteractionKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindAssumption:
		return "assumption"
	case KindAssertion:
		return "assertion"
	default:
		return "unknown"
	}
}

// Interaction is one step of an executable script.
// Query is set for KindQuery; Check for assumptions and assertions.
type Interaction struct {
	Kind  InteractionKind
	Query query.Query
	Check Check
}

// QueryStep wraps a query.
func QueryStep(q query.Query) Interaction {
	return Interaction{Kind: KindQuery, Query: q}
}

// Assumption wraps a precondition.
func Assumption(c Check) Interaction {
	return Interaction{Kind: KindAssumption, Check: c}
}

// Assertion wraps a postcondition.
func Assertion(c Check) Interaction {
	return Interaction{Kind: KindAssertion, Check: c}
}

// String renders the interaction as one line of a replayable SQL script;
// checks are emitted as comments.
func (i Interaction) String() string {
	switch i.Kind {
	case KindQuery:
		return i.Query.SQL() + ";"
	case KindAssumption:
		return fmt.Sprintf("-- ASSUME %s", oneLine(i.Check.Message()))
	case KindAssertion:
		return fmt.Sprintf("-- ASSERT %s", oneLine(i.Check.Message()))
	default:
		return "-- unknown interaction"
	}
}

// Script renders interactions one per line.
func Script(interactions []Interaction) string {
	var b strings.Builder
	for _, it := range interactions {
		b.WriteString(it.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Queries extracts the query steps in order.
func Queries(interactions []Interaction) []query.Query {
	out := make([]query.Query, 0, len(interactions))
	for _, it := range interactions {
		if it.Kind == KindQuery {
			out = append(out, it.Query)
		}
	}
	return out
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
