package property

import (
	"math"

	"sqlsim/internal/plan"
	"sqlsim/internal/simenv"
)

// Remaining is the per-category gap between the target workload mix and
// what has run so far. Every field is non-negative.
type Remaining struct {
	Read   float64
	Write  float64
	Create float64
}

// RemainingBudget computes the remaining quotas for env's options given the
// counters observed so far.
func RemainingBudget(env *simenv.Env, stats plan.InteractionStats) Remaining {
	total := float64(env.Opts.MaxInteractions)
	return Remaining{
		Read:   quota(total, env.Opts.ReadPercent, stats.ReadCount),
		Write:  quota(total, env.Opts.WritePercent, stats.WriteCount),
		Create: quota(total, env.Opts.CreatePercent, stats.CreateCount),
	}
}

func quota(total float64, percent float64, observed int) float64 {
	v := total*percent/100 - float64(observed)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
