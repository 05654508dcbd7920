// Package repro replays a recorded case against a fresh engine.
package repro

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/db"
	"sqlsim/internal/memdb"
	"sqlsim/internal/property"
	"sqlsim/internal/report"
	"sqlsim/internal/runner"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Options configures a reproduction run.
type Options struct {
	CaseDir     string
	Engine      string
	DSN         string
	Database    string
	ValidateSQL bool
}

// Result is the outcome of replaying one case.
type Result struct {
	Property property.Property
	Tables   []schema.Table
	Outcome  runner.Outcome
}

// Load reads the property and the table set of a case directory. Both
// files fall back to the case archive when the plain file is missing.
func Load(caseDir string) (property.Property, []schema.Table, error) {
	data, err := report.ReadCaseFile(caseDir, report.PropertyFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read property")
	}
	p, err := property.Unmarshal(data)
	if err != nil {
		return nil, nil, err
	}
	var tables []schema.Table
	data, err = report.ReadCaseFile(caseDir, report.TablesFile)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &tables); err != nil {
			return nil, nil, errors.Wrap(err, "decode tables")
		}
	case os.IsNotExist(errors.Cause(err)) || errors.Is(err, report.ErrNotInArchive):
		util.Warnf("case has no %s, replaying without pre-existing tables", report.TablesFile)
	default:
		return nil, nil, errors.Wrap(err, "read tables")
	}
	return p, tables, nil
}

// Run executes the reproduction flow for a case directory.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.CaseDir == "" {
		return Result{}, errors.New("case_dir is required")
	}
	p, tables, err := Load(opts.CaseDir)
	if err != nil {
		return Result{}, err
	}

	cfg := config.Default()
	cfg.Engine.Kind = opts.Engine
	if cfg.Engine.Kind == "" {
		cfg.Engine.Kind = config.EngineMemory
	}
	cfg.Engine.ValidateSQL = opts.ValidateSQL
	cfg.Logging.ReportIntervalSeconds = 0

	var exec runner.Executor
	switch cfg.Engine.Kind {
	case config.EngineMemory:
		exec = memdb.New()
	case config.EngineMySQL:
		if opts.DSN == "" {
			return Result{}, errors.New("dsn is required")
		}
		cfg.Engine.DSN = opts.DSN
		cfg.Engine.Database = opts.Database
		if cfg.Engine.Database == "" {
			cfg.Engine.Database = "sqlsim_repro"
		}
		conn, err := db.OpenEngine(ctx, cfg.Engine, true)
		if err != nil {
			return Result{}, err
		}
		defer util.CloseWithErr(conn, "repro db")
		exec = conn
	default:
		return Result{}, errors.Errorf("unknown engine kind %q", cfg.Engine.Kind)
	}

	fmt.Printf("case=%s property=%s tables=%d engine=%s\n", opts.CaseDir, p.Name(), len(tables), cfg.Engine.Kind)
	r := runner.New(cfg, exec)
	if err := r.CreateTables(ctx, tables); err != nil {
		return Result{}, errors.Wrap(err, "tables")
	}
	out, err := r.RunInteractions(ctx, p.Interactions())
	if err != nil {
		return Result{}, err
	}
	fmt.Printf("outcome=%s executed=%d message=%s\n", out.Status, out.Executed, out.Message)
	return Result{Property: p, Tables: tables, Outcome: out}, nil
}
