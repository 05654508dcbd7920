package db

import (
	"context"
	"fmt"

	"sqlsim/internal/config"
	"sqlsim/internal/util"
)

// EnsureDatabase creates the database if it does not exist.
func EnsureDatabase(ctx context.Context, dsn string, dbName string) error {
	return adminExec(ctx, dsn, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", dbName), dbName)
}

// ResetDatabase drops and recreates the database so a run starts with no tables.
func ResetDatabase(ctx context.Context, dsn string, dbName string) error {
	if err := adminExec(ctx, dsn, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName), dbName); err != nil {
		return err
	}
	return EnsureDatabase(ctx, dsn, dbName)
}

// OpenEngine prepares the configured database and opens a connection to it.
func OpenEngine(ctx context.Context, cfg config.EngineConfig, reset bool) (*DB, error) {
	prepare := EnsureDatabase
	if reset {
		prepare = ResetDatabase
	}
	if err := prepare(ctx, cfg.DSN, cfg.Database); err != nil {
		return nil, err
	}
	conn, err := Open(config.UpdateDatabaseInDSN(cfg.DSN, cfg.Database))
	if err != nil {
		return nil, err
	}
	conn.StatementTimeout = cfg.StatementTimeout()
	return conn, nil
}

func adminExec(ctx context.Context, dsn string, stmt string, dbName string) error {
	if dbName == "" {
		return nil
	}
	exec, err := Open(config.AdminDSN(dsn))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "db exec")
	_, err = exec.ExecContext(ctx, stmt)
	return err
}
