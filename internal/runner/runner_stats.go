package runner

import (
	"time"

	"sqlsim/internal/util"
)

// Totals is a snapshot of the property counters.
type Totals struct {
	Properties  int64
	Passed      int64
	Skipped     int64
	Failed      int64
	OracleError int64
	Cases       int64
}

// Totals returns the property counters observed so far.
func (r *Runner) Totals() Totals {
	return Totals{
		Properties:  r.properties.Load(),
		Passed:      r.passed.Load(),
		Skipped:     r.skipped.Load(),
		Failed:      r.failed.Load(),
		OracleError: r.oracleErrs.Load(),
		Cases:       r.cases.Load(),
	}
}

func (r *Runner) record(out Outcome) {
	r.properties.Add(1)
	switch out.Status {
	case StatusPassed:
		r.passed.Add(1)
	case StatusSkipped:
		r.skipped.Add(1)
	case StatusFailed:
		r.failed.Add(1)
	case StatusOracleError:
		r.oracleErrs.Add(1)
	}
}

func (r *Runner) logTotals() {
	t := r.Totals()
	s := r.Stats()
	util.Infof("runner done properties=%d passed=%d skipped=%d failed=%d oracle_errors=%d cases=%d reads=%d writes=%d creates=%d",
		t.Properties, t.Passed, t.Skipped, t.Failed, t.OracleError, t.Cases, s.ReadCount, s.WriteCount, s.CreateCount)
}

func (r *Runner) startStatsLogger() func() {
	interval := time.Duration(r.cfg.Logging.ReportIntervalSeconds) * time.Second
	if interval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		var last Totals
		var lastQueries int
		for {
			select {
			case <-ticker.C:
				t := r.Totals()
				s := r.Stats()
				util.Infof("stats properties=%d(+%d) passed=%d skipped=%d failed=%d(+%d) oracle_errors=%d queries=%d(+%d) reads=%d writes=%d creates=%d",
					t.Properties, t.Properties-last.Properties,
					t.Passed, t.Skipped,
					t.Failed, t.Failed-last.Failed,
					t.OracleError,
					s.Total(), s.Total()-lastQueries,
					s.ReadCount, s.WriteCount, s.CreateCount)
				last = t
				lastQueries = s.Total()
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		ticker.Stop()
	}
}
