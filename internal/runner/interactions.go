package runner

import (
	"context"

	"github.com/pkg/errors"

	"sqlsim/internal/plan"
	"sqlsim/internal/query"
)

// Status classifies how a property run ended.
type Status string

// Property run statuses.
const (
	StatusPassed      Status = "passed"
	StatusSkipped     Status = "skipped"
	StatusFailed      Status = "failed"
	StatusOracleError Status = "oracle_error"
)

// Outcome is the result of running one property's interactions.
type Outcome struct {
	Status Status
	// Message is the message of the check that decided the outcome.
	Message string
	// Err is the check error for StatusOracleError.
	Err error
	// Executed counts the queries sent to the engine.
	Executed int
	// Results holds one result set per executed query.
	Results []plan.ResultSet
}

// RunInteractions executes a compiled property. Every assumption is
// evaluated before the first query; a false assumption skips the property
// without touching the engine. Queries run in order and assertions are
// evaluated against the accumulated result stack.
//
// The returned error is reserved for tool faults: a canceled context or a
// generated statement that does not parse.
func (r *Runner) RunInteractions(ctx context.Context, interactions []plan.Interaction) (Outcome, error) {
	for _, it := range interactions {
		if it.Kind != plan.KindAssumption {
			continue
		}
		ok, err := it.Check.Evaluate(nil, r.env)
		if err != nil {
			return r.checkError(it, err, Outcome{})
		}
		if !ok {
			return Outcome{Status: StatusSkipped, Message: it.Check.Message()}, nil
		}
	}

	out := Outcome{Status: StatusPassed}
	for _, it := range interactions {
		switch it.Kind {
		case plan.KindQuery:
			if err := ctx.Err(); err != nil {
				return out, err
			}
			res, err := r.execute(ctx, it.Query)
			if err != nil {
				return out, err
			}
			out.Results = append(out.Results, res)
			out.Executed++
		case plan.KindAssertion:
			ok, err := it.Check.Evaluate(out.Results, r.env)
			if err != nil {
				return r.checkError(it, err, out)
			}
			if !ok {
				out.Status = StatusFailed
				out.Message = it.Check.Message()
				return out, nil
			}
		}
	}
	return out, nil
}

func (r *Runner) checkError(it plan.Interaction, err error, out Outcome) (Outcome, error) {
	if !plan.IsOracleError(err) {
		return out, errors.Wrapf(err, "evaluate %q", it.Check.Message())
	}
	out.Status = StatusOracleError
	out.Message = it.Check.Message()
	out.Err = err
	return out, nil
}

// execute validates and runs q, counts it, and registers successfully
// created tables in the environment.
func (r *Runner) execute(ctx context.Context, q query.Query) (plan.ResultSet, error) {
	if err := r.validate(q); err != nil {
		return plan.ResultSet{}, errors.Wrap(err, "generated invalid sql")
	}
	res := r.exec.Execute(ctx, q)
	r.statsMu.Lock()
	r.stats.Record(q)
	r.statsMu.Unlock()
	if create, ok := q.(query.Create); ok && !res.IsErr() {
		r.env.AddTable(create.Table)
	}
	return res, nil
}
