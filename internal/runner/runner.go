// Package runner drives property-based simulations against an engine: it
// generates properties, executes their interactions, evaluates checks and
// records failing cases.
package runner

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/generator"
	"sqlsim/internal/plan"
	"sqlsim/internal/property"
	"sqlsim/internal/query"
	"sqlsim/internal/report"
	"sqlsim/internal/runinfo"
	"sqlsim/internal/schema"
	"sqlsim/internal/simenv"
	"sqlsim/internal/uploader"
	"sqlsim/internal/util"
	"sqlsim/internal/validator"
)

// Executor runs one query against the engine under test. Engine errors are
// reported through the result set, never as a Go error.
type Executor interface {
	Execute(ctx context.Context, q query.Query) plan.ResultSet
}

// Runner orchestrates generation, execution, and reporting.
// A Runner owns its environment and is not safe for concurrent use; the
// stats logger is the only other goroutine that reads it.
type Runner struct {
	cfg       config.Config
	exec      Executor
	env       *simenv.Env
	rand      *rand.Rand
	tables    *generator.Generator
	gen       *property.Generator
	validator *validator.Validator
	reporter  *report.Reporter
	uploader  uploader.Uploader
	runInfo   *runinfo.Info

	// pending is a table definition that does not exist yet; generation may pick
	// it so that Double-Create-Failure has a table whose assumption holds.
	pending schema.Table

	statsMu sync.Mutex
	stats   plan.InteractionStats

	properties atomic.Int64
	passed     atomic.Int64
	skipped    atomic.Int64
	failed     atomic.Int64
	oracleErrs atomic.Int64
	cases      atomic.Int64
}

// New constructs a Runner for the given config and executor.
func New(cfg config.Config, exec Executor) *Runner {
	r := rand.New(rand.NewSource(cfg.Seed))
	gen := generator.New(cfg)
	up, err := uploader.FromConfig(cfg.Storage)
	if err != nil {
		util.Warnf("storage uploader disabled err=%v", err)
		up = uploader.NoopUploader{}
	}
	runner := &Runner{
		cfg:      cfg,
		exec:     exec,
		env:      simenv.New(cfg.Simulation),
		rand:     r,
		tables:   gen,
		gen:      property.NewGenerator(r, gen, gen, gen),
		reporter: report.New(cfg.Corpus.Dir),
		uploader: up,
		runInfo:  runinfo.FromEnv(),
	}
	if cfg.Engine.ValidateSQL {
		runner.validator = validator.New()
	}
	return runner
}

// Env returns the live environment.
func (r *Runner) Env() *simenv.Env {
	return r.env
}

// Stats returns the interaction counters observed so far.
func (r *Runner) Stats() plan.InteractionStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

// Run bootstraps tables and executes properties until the iteration count
// or the interaction budget is exhausted.
func (r *Runner) Run(ctx context.Context) error {
	stop := r.startStatsLogger()
	defer stop()

	util.Infof("runner start engine=%s seed=%d iterations=%d max_interactions=%d", r.cfg.Engine.Kind, r.cfg.Seed, r.cfg.Iterations, r.cfg.Simulation.MaxInteractions)
	if r.runInfo != nil {
		util.Infof("run info provider=%s repository=%s branch=%s commit=%s", r.runInfo.Provider, r.runInfo.Repository, r.runInfo.Branch, r.runInfo.Commit)
	}
	if err := r.Bootstrap(ctx); err != nil {
		return err
	}
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Stats().Total() >= r.cfg.Simulation.MaxInteractions {
			util.Infof("interaction budget reached total=%d", r.Stats().Total())
			break
		}
		if err := r.runIteration(ctx, i); err != nil {
			return err
		}
	}
	r.logTotals()
	return nil
}

// Bootstrap creates max_tables random tables and draws the first pending
// table. Bootstrap creates are not counted towards the workload mix.
func (r *Runner) Bootstrap(ctx context.Context) error {
	tables := make([]schema.Table, 0, r.cfg.MaxTables)
	for i := 0; i < r.cfg.MaxTables; i++ {
		tables = append(tables, r.tables.Table(r.rand))
	}
	if err := r.CreateTables(ctx, tables); err != nil {
		return err
	}
	r.pending = r.tables.Table(r.rand)
	return nil
}

// CreateTables creates each table on the engine and registers it in the
// environment without counting the statements.
func (r *Runner) CreateTables(ctx context.Context, tables []schema.Table) error {
	for _, tbl := range tables {
		create := query.Create{Table: tbl}
		if err := r.validate(create); err != nil {
			return errors.Wrap(err, "generated invalid sql")
		}
		res := r.exec.Execute(ctx, create)
		if res.IsErr() {
			return errors.Wrapf(res.Err, "create %s", tbl.Name)
		}
		r.env.AddTable(tbl)
		util.Detailf("created table %s", create.SQL())
	}
	return nil
}

func (r *Runner) runIteration(ctx context.Context, iteration int) error {
	attempts := max(1, r.cfg.MaxGenerationAttempts)
	for attempt := 0; attempt < attempts; attempt++ {
		before := r.env.Snapshot()
		p := r.gen.Generate(r.candidateEnv(), r.Stats())
		out, err := r.RunInteractions(ctx, p.Interactions())
		if err != nil {
			return errors.Wrapf(err, "%s iteration %d", p.Name(), iteration)
		}
		r.refreshPending()
		r.record(out)
		if out.Status == StatusSkipped {
			util.Detailf("property skipped name=%s reason=%s", p.Name(), out.Message)
			continue
		}
		util.Detailf("property %s name=%s queries=%d", out.Status, p.Name(), out.Executed)
		if out.Status != StatusPassed || r.cfg.Corpus.RecordPassing {
			r.reportCase(ctx, p, out, before, iteration)
		}
		return nil
	}
	return nil
}

// candidateEnv is the live environment plus the pending table.
func (r *Runner) candidateEnv() *simenv.Env {
	env := r.env.Snapshot()
	if r.pending.Name != "" && !env.HasTable(r.pending.Name) {
		env.Tables = append(env.Tables, r.pending.Clone())
	}
	return env
}

// refreshPending draws a new pending table once the current one exists.
func (r *Runner) refreshPending() {
	if r.pending.Name == "" || r.env.HasTable(r.pending.Name) {
		r.pending = r.tables.Table(r.rand)
	}
}

func (r *Runner) validate(q query.Query) error {
	if r.validator == nil {
		return nil
	}
	return r.validator.Check(q)
}
