// Package simenv holds the simulator's view of the engine: the tables known to
// exist and the workload options.
package simenv

import (
	"sqlsim/internal/config"
	"sqlsim/internal/schema"
)

// Env is the environment snapshot observed by generation and checks.
type Env struct {
	Tables []schema.Table
	Opts   config.SimOptions
}

// New returns an empty environment with the given options.
func New(opts config.SimOptions) *Env {
	return &Env{Opts: opts}
}

// HasTable reports whether a table with this name is known.
func (e *Env) HasTable(name string) bool {
	_, ok := e.Table(name)
	return ok
}

// Table returns a known table by name.
func (e *Env) Table(name string) (schema.Table, bool) {
	if e == nil {
		return schema.Table{}, false
	}
	for _, tbl := range e.Tables {
		if tbl.Name == name {
			return tbl, true
		}
	}
	return schema.Table{}, false
}

// AddTable records a table; an existing entry with the same name is replaced.
func (e *Env) AddTable(tbl schema.Table) {
	tbl = tbl.Clone()
	for i := range e.Tables {
		if e.Tables[i].Name == tbl.Name {
			e.Tables[i] = tbl
			return
		}
	}
	e.Tables = append(e.Tables, tbl)
}

// Snapshot returns a copy that does not share table storage with e.
func (e *Env) Snapshot() *Env {
	out := &Env{Opts: e.Opts, Tables: make([]schema.Table, 0, len(e.Tables))}
	for _, tbl := range e.Tables {
		out.Tables = append(out.Tables, tbl.Clone())
	}
	return out
}
