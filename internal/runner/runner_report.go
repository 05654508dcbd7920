package runner

import (
	"context"
	"time"

	"sqlsim/internal/property"
	"sqlsim/internal/report"
	"sqlsim/internal/simenv"
	"sqlsim/internal/util"
)

// reportCase writes a case directory for p. Report failures are logged and
// never stop the run.
func (r *Runner) reportCase(ctx context.Context, p property.Property, out Outcome, before *simenv.Env, iteration int) {
	caseData, err := r.reporter.NewCase()
	if err != nil {
		util.Warnf("case allocation failed err=%v", err)
		return
	}
	r.cases.Add(1)
	summary := report.Summary{
		Property:  p.Name(),
		Kind:      string(p.Kind()),
		Outcome:   string(out.Status),
		Message:   out.Message,
		Seed:      r.cfg.Seed,
		Iteration: iteration,
		Engine:    r.cfg.Engine.Kind,
		Stats:     r.Stats(),
		Details:   outcomeDetails(out),
		RunInfo:   r.runInfo,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if out.Err != nil {
		summary.Error = out.Err.Error()
	}
	if err := r.reporter.WriteProperty(caseData, p); err != nil {
		util.Warnf("case property write failed dir=%s err=%v", caseData.Dir, err)
	}
	if err := r.reporter.WriteTables(caseData, before.Tables); err != nil {
		util.Warnf("case tables write failed dir=%s err=%v", caseData.Dir, err)
	}
	r.writeSummary(caseData, summary)
	if name, codec, err := r.reporter.WriteCaseArchive(caseData); err != nil {
		util.Warnf("case archive failed dir=%s err=%v", caseData.Dir, err)
	} else {
		summary.ArchiveName = name
		summary.ArchiveCodec = codec
		r.writeSummary(caseData, summary)
	}

	if r.uploader.Enabled() {
		location, err := r.uploader.UploadDir(ctx, caseData.Dir)
		if err != nil {
			util.Warnf("case upload failed dir=%s err=%v", caseData.Dir, err)
		} else {
			summary.UploadLocation = location
			r.writeSummary(caseData, summary)
		}
	}

	switch out.Status {
	case StatusFailed:
		util.Errorf("case captured property=%s dir=%s assertion=%q", p.Name(), caseData.Dir, out.Message)
	case StatusOracleError:
		util.Errorf("case captured property=%s dir=%s err=%v", p.Name(), caseData.Dir, out.Err)
	default:
		util.Infof("case recorded property=%s outcome=%s dir=%s", p.Name(), out.Status, caseData.Dir)
	}
}

// outcomeDetails lists the per-query errors of the run. Error codes are
// zero for successful queries and for engines without server codes.
// writeSummary persists summary.json and logs a failed write.
func (r *Runner) writeSummary(c report.Case, summary report.Summary) error {
	err := r.reporter.WriteSummary(c, summary)
	if err != nil {
		util.Warnf("case summary write failed dir=%s err=%v", c.Dir, err)
	}
	return err
}

func outcomeDetails(out Outcome) map[string]any {
	errs := make([]string, 0, len(out.Results))
	codes := make([]int, 0, len(out.Results))
	for _, res := range out.Results {
		if !res.IsErr() {
			errs = append(errs, "")
			codes = append(codes, 0)
			continue
		}
		errs = append(errs, res.Err.Error())
		code, _ := mysqlErrCode(res.Err)
		codes = append(codes, int(code))
	}
	return map[string]any{
		"executed":      out.Executed,
		"query_errors":  errs,
		"error_codes":   codes,
		"result_counts": resultCounts(out),
	}
}

func resultCounts(out Outcome) []int {
	counts := make([]int, 0, len(out.Results))
	for _, res := range out.Results {
		counts = append(counts, len(res.Rows))
	}
	return counts
}
