// Package report writes failing (and optionally passing) property runs to
// case directories that can be archived, uploaded and replayed.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"sqlsim/internal/plan"
	"sqlsim/internal/property"
	"sqlsim/internal/query"
	"sqlsim/internal/runinfo"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Case file names.
const (
	PropertyFile = "property.json"
	TablesFile   = "tables.json"
	SchemaFile   = "schema.sql"
	CaseSQLFile  = "case.sql"
	SummaryFile  = "summary.json"
)

// Reporter writes case artifacts to disk.
type Reporter struct {
	OutputDir   string
	UseUUIDPath bool

	mu      sync.Mutex
	caseSeq int
}

// Case describes a report directory.
type Case struct {
	ID  string
	Dir string
}

// Summary captures the persisted metadata for a case.
type Summary struct {
	Property       string                `json:"property"`
	Kind           string                `json:"kind"`
	Outcome        string                `json:"outcome"`
	Message        string                `json:"message"`
	Error          string                `json:"error"`
	Seed           int64                 `json:"seed"`
	Iteration      int                   `json:"iteration"`
	Engine         string                `json:"engine"`
	Stats          plan.InteractionStats `json:"stats"`
	UploadLocation string                `json:"upload_location"`
	CaseID         string                `json:"case_id"`
	CaseDir        string                `json:"case_dir"`
	ArchiveName    string                `json:"archive_name"`
	ArchiveCodec   string                `json:"archive_codec"`
	Details        map[string]any        `json:"details"`
	RunInfo        *runinfo.Info         `json:"run_info,omitempty"`
	Timestamp      string                `json:"timestamp"`
}

// New creates a reporter that writes to outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir}
}

// NewCase allocates a new case directory.
func (r *Reporter) NewCase() (Case, error) {
	r.mu.Lock()
	r.caseSeq++
	seq := r.caseSeq
	r.mu.Unlock()
	caseID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		caseID = v7.String()
	}
	caseDir := fmt.Sprintf("case_%04d_%s", seq, caseID)
	if r.UseUUIDPath {
		caseDir = caseID
	}
	dir := filepath.Join(r.OutputDir, caseDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Case{}, err
	}
	_ = os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Reproduce Case\n\n- Apply schema: schema.sql\n- Run property: case.sql\n- Replay: sqlsim-repro -case <this dir>\n"), 0o644)
	return Case{ID: caseID, Dir: dir}, nil
}

// WriteSummary writes summary.json into the case directory.
func (r *Reporter) WriteSummary(c Case, summary Summary) error {
	summary.CaseID = c.ID
	summary.CaseDir = c.Dir
	return writeJSON(filepath.Join(c.Dir, SummaryFile), summary)
}

// WriteProperty writes property.json and case.sql for p.
func (r *Reporter) WriteProperty(c Case, p property.Property) error {
	data, err := property.MarshalIndent(p)
	if err != nil {
		return err
	}
	if err := r.WriteText(c, PropertyFile, string(data)+"\n"); err != nil {
		return err
	}
	return r.WriteText(c, CaseSQLFile, plan.Script(p.Interactions()))
}

// WriteTables writes the tables known when the property ran, both as
// replayable JSON and as a schema.sql script.
func (r *Reporter) WriteTables(c Case, tables []schema.Table) error {
	if tables == nil {
		tables = []schema.Table{}
	}
	if err := writeJSON(filepath.Join(c.Dir, TablesFile), tables); err != nil {
		return err
	}
	statements := make([]string, 0, len(tables))
	for _, tbl := range tables {
		statements = append(statements, query.Create{Table: tbl}.SQL())
	}
	return r.WriteSQL(c, SchemaFile, statements)
}

// WriteSQL writes a SQL file from the provided statements.
func (r *Reporter) WriteSQL(c Case, name string, statements []string) error {
	content := ""
	if len(statements) > 0 {
		content = strings.Join(statements, ";\n") + ";\n"
	}
	return r.WriteText(c, name, content)
}

// WriteText writes raw text content into the case directory.
func (r *Reporter) WriteText(c Case, name string, content string) error {
	path := filepath.Join(c.Dir, name)
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "json output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
