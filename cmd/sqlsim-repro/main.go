package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"sqlsim/internal/config"
	"sqlsim/internal/repro"
	"sqlsim/internal/runner"
)

func main() {
	caseDir := flag.String("case_dir", "", "path to case directory")
	engine := flag.String("engine", config.EngineMemory, "engine kind: memory or mysql")
	dsn := flag.String("dsn", "", "database DSN (mysql engine)")
	database := flag.String("database", "sqlsim_repro", "database name for reproduction")
	validate := flag.Bool("validate_sql", true, "parse statements before executing them")
	flag.Parse()

	if *caseDir == "" {
		fmt.Fprintln(os.Stderr, "case_dir is required")
		flag.Usage()
		os.Exit(1)
	}

	opts := repro.Options{
		CaseDir:     *caseDir,
		Engine:      *engine,
		DSN:         *dsn,
		Database:    *database,
		ValidateSQL: *validate,
	}
	res, err := repro.Run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro failed: %v\n", err)
		os.Exit(1)
	}
	switch res.Outcome.Status {
	case runner.StatusFailed, runner.StatusOracleError:
		os.Exit(2)
	}
}
