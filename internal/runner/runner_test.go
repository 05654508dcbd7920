package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/memdb"
	"sqlsim/internal/plan"
	"sqlsim/internal/property"
	"sqlsim/internal/query"
	"sqlsim/internal/report"
	"sqlsim/internal/schema"
)

type countingExec struct {
	inner Executor
	calls int
}

func (c *countingExec) Execute(ctx context.Context, q query.Query) plan.ResultSet {
	c.calls++
	return c.inner.Execute(ctx, q)
}

// lenientCreates accepts duplicate CREATE TABLE statements.
type lenientCreates struct {
	inner Executor
}

func (l lenientCreates) Execute(ctx context.Context, q query.Query) plan.ResultSet {
	res := l.inner.Execute(ctx, q)
	if q.Kind() == query.KindCreate && res.IsErr() && strings.Contains(res.Err.Error(), "already exists") {
		return plan.Ok(nil)
	}
	return res
}

// brokenSelects fails every SELECT.
type brokenSelects struct {
	inner Executor
}

func (b brokenSelects) Execute(ctx context.Context, q query.Query) plan.ResultSet {
	if q.Kind() == query.KindSelect {
		return plan.Failed(errors.New("select is broken"))
	}
	return b.inner.Execute(ctx, q)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 11
	cfg.Corpus.Dir = t.TempDir()
	cfg.Logging.ReportIntervalSeconds = 0
	cfg.Engine.ValidateSQL = true
	return cfg
}

func testTable() schema.Table {
	return schema.Table{Name: "t", Columns: []schema.Column{
		{Name: "a", Type: schema.TypeInteger},
		{Name: "b", Type: schema.TypeText},
	}}
}

func insertSelect(tbl schema.Table) property.InsertSelect {
	row := schema.Row{schema.IntValue(7), schema.TextValue("x")}
	return property.InsertSelect{
		Insert:   query.Insert{Table: tbl.Name, Values: []schema.Row{{schema.IntValue(1), schema.TextValue("y")}, row}},
		RowIndex: 1,
		Queries:  query.List{query.Delete{Table: tbl.Name, Predicate: query.Eq("a", schema.IntValue(1))}},
		Select:   query.Select{Table: tbl.Name, Predicate: query.Gt("a", schema.IntValue(5))},
	}
}

func newRunnerWithTable(t *testing.T, exec Executor) *Runner {
	t.Helper()
	r := New(testConfig(t), exec)
	tbl := testTable()
	res, err := r.execute(context.Background(), query.Create{Table: tbl})
	if err != nil || res.IsErr() {
		t.Fatalf("create: %v %v", err, res.Err)
	}
	return r
}

func TestRunInteractionsSkipsWithoutTouchingEngine(t *testing.T) {
	exec := &countingExec{inner: memdb.New()}
	r := New(testConfig(t), exec)
	out, err := r.RunInteractions(context.Background(), insertSelect(testTable()).Interactions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Status != StatusSkipped || out.Message != "table t exists" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if exec.calls != 0 || r.Stats().Total() != 0 {
		t.Fatalf("expected no queries, got calls=%d stats=%+v", exec.calls, r.Stats())
	}
}

func TestRunInteractionsInsertSelectPasses(t *testing.T) {
	r := newRunnerWithTable(t, memdb.New())
	out, err := r.RunInteractions(context.Background(), insertSelect(testTable()).Interactions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Status != StatusPassed || out.Executed != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	stats := r.Stats()
	if stats.ReadCount != 1 || stats.WriteCount != 2 || stats.CreateCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRunInteractionsOracleError(t *testing.T) {
	r := newRunnerWithTable(t, brokenSelects{inner: memdb.New()})
	out, err := r.RunInteractions(context.Background(), insertSelect(testTable()).Interactions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Status != StatusOracleError || !errors.Is(out.Err, plan.ErrOracle) {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestRunInteractionsDoubleCreate(t *testing.T) {
	p := property.DoubleCreateFailure{Create: query.Create{Table: testTable()}}

	r := New(testConfig(t), memdb.New())
	out, err := r.RunInteractions(context.Background(), p.Interactions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Status != StatusPassed {
		t.Fatalf("expected pass on a strict engine, got %+v", out)
	}
	if !r.Env().HasTable("t") {
		t.Fatalf("expected created table to be registered")
	}

	r = New(testConfig(t), lenientCreates{inner: memdb.New()})
	out, err = r.RunInteractions(context.Background(), p.Interactions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Status != StatusFailed || !strings.Contains(out.Message, "failure for the second query") {
		t.Fatalf("expected failure on a lenient engine, got %+v", out)
	}
}

func TestRunInteractionsRejectsInvalidSQL(t *testing.T) {
	r := New(testConfig(t), memdb.New())
	bad := query.Create{Table: schema.Table{Name: "t", Columns: []schema.Column{{Name: "select", Type: schema.TypeInteger}}}}
	if _, err := r.RunInteractions(context.Background(), []plan.Interaction{plan.QueryStep(bad)}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRunInteractionsCanceled(t *testing.T) {
	r := newRunnerWithTable(t, memdb.New())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RunInteractions(ctx, insertSelect(testTable()).Interactions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestRunAgainstReferenceEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.MaxInteractions = 300
	cfg.Iterations = 300
	r := New(cfg, memdb.New())
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	totals := r.Totals()
	if totals.Failed != 0 || totals.OracleError != 0 || totals.Cases != 0 {
		t.Fatalf("reference engine should not fail: %+v", totals)
	}
	if totals.Passed == 0 {
		t.Fatalf("expected passing properties: %+v", totals)
	}
	if len(r.Env().Tables) < cfg.MaxTables {
		t.Fatalf("expected at least %d tables, got %d", cfg.MaxTables, len(r.Env().Tables))
	}
}

func TestRunRecordsFailingCases(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation = config.SimOptions{MaxInteractions: 20, CreatePercent: 100}
	cfg.Iterations = 10
	cfg.MaxGenerationAttempts = 64
	r := New(cfg, lenientCreates{inner: memdb.New()})
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	totals := r.Totals()
	if totals.Failed == 0 || totals.Cases != totals.Failed {
		t.Fatalf("expected recorded failures: %+v", totals)
	}
	entries, err := os.ReadDir(cfg.Corpus.Dir)
	if err != nil {
		t.Fatalf("read corpus: %v", err)
	}
	if int64(len(entries)) != totals.Cases {
		t.Fatalf("expected %d case dirs, got %d", totals.Cases, len(entries))
	}
	dir := filepath.Join(cfg.Corpus.Dir, entries[0].Name())
	for _, name := range []string{report.PropertyFile, report.CaseSQLFile, report.SummaryFile, report.TablesFile, report.CaseArchiveName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, report.PropertyFile))
	if err != nil {
		t.Fatalf("read property: %v", err)
	}
	p, err := property.Unmarshal(data)
	if err != nil {
		t.Fatalf("decode property: %v", err)
	}
	if p.Kind() != property.KindDoubleCreateFailure {
		t.Fatalf("unexpected property kind %s", p.Kind())
	}
}

func TestWriteSummaryReportsFailure(t *testing.T) {
	r := New(testConfig(t), memdb.New())
	good := report.Case{ID: "ok", Dir: t.TempDir()}
	if err := r.writeSummary(good, report.Summary{Property: "Insert-Select"}); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	if _, err := os.Stat(filepath.Join(good.Dir, report.SummaryFile)); err != nil {
		t.Fatalf("summary missing: %v", err)
	}
	missing := report.Case{ID: "gone", Dir: filepath.Join(t.TempDir(), "absent", "case")}
	if err := r.writeSummary(missing, report.Summary{Property: "Insert-Select"}); err == nil {
		t.Fatalf("expected error for missing case dir")
	}
}
