// Package generator provides the default randomized providers for property
// generation: table schemas, rows, predicates and filler queries.
package generator

import (
	"sqlsim/internal/config"
	"sqlsim/internal/property"
)

// Generator implements the value, query and predicate providers. It holds
// no random state of its own; every method draws from the stream it is given.
type Generator struct {
	MaxColumns int
}

var (
	_ property.ValueProvider     = (*Generator)(nil)
	_ property.QueryProvider     = (*Generator)(nil)
	_ property.PredicateProvider = (*Generator)(nil)
)

// New constructs a Generator from configuration.
func New(cfg config.Config) *Generator {
	maxColumns := cfg.MaxColumns
	if maxColumns < ColumnCountMin {
		maxColumns = ColumnCountMin
	}
	return &Generator{MaxColumns: maxColumns}
}
