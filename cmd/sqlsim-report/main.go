package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sqlsim/internal/report"
	"sqlsim/internal/util"
)

// FileContent holds inlined report file content.
type FileContent struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// CaseEntry represents a report case entry.
type CaseEntry struct {
	ID             string                 `json:"id"`
	Dir            string                 `json:"dir"`
	Property       string                 `json:"property"`
	Outcome        string                 `json:"outcome"`
	Message        string                 `json:"message"`
	Error          string                 `json:"error"`
	Seed           int64                  `json:"seed"`
	Engine         string                 `json:"engine"`
	Timestamp      string                 `json:"timestamp"`
	ArchiveName    string                 `json:"archive_name"`
	UploadLocation string                 `json:"upload_location"`
	Files          map[string]FileContent `json:"files"`
}

// Group counts cases sharing a property and outcome.
type Group struct {
	Property string `json:"property"`
	Outcome  string `json:"outcome"`
	Count    int    `json:"count"`
}

// SiteData is the JSON payload written to report.json.
type SiteData struct {
	GeneratedAt string      `json:"generated_at"`
	Source      string      `json:"source"`
	Groups      []Group     `json:"groups"`
	Cases       []CaseEntry `json:"cases"`
}

func main() {
	input := flag.String("input", "cases", "case corpus directory")
	output := flag.String("output", "web/public", "output directory for report.json")
	maxBytes := flag.Int("max-bytes", 64*1024, "max bytes to read per case file")
	flag.Parse()

	cases, err := loadLocalCases(*input, *maxBytes)
	if err != nil {
		fail("load cases: %v", err)
	}
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Timestamp > cases[j].Timestamp
	})
	site := SiteData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Source:      *input,
		Groups:      groupCases(cases),
		Cases:       cases,
	}
	if err := writeJSON(*output, site); err != nil {
		fail("write json: %v", err)
	}
	for _, g := range site.Groups {
		fmt.Printf("%-24s %-14s %d\n", g.Property, g.Outcome, g.Count)
	}
	fmt.Printf("report json written to %s\n", filepath.Join(*output, "report.json"))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadLocalCases(root string, maxBytes int) ([]CaseEntry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	cases := make([]CaseEntry, 0, len(dirs))
	for _, dirEntry := range dirs {
		if !dirEntry.IsDir() {
			continue
		}
		dir := filepath.Join(root, dirEntry.Name())
		entry, err := readCaseFromDir(dir, maxBytes)
		if err != nil {
			util.Warnf("skip case dir=%s err=%v", dir, err)
			continue
		}
		if strings.TrimSpace(entry.ID) == "" {
			entry.ID = dirEntry.Name()
		}
		cases = append(cases, entry)
	}
	return cases, nil
}

func readCaseFromDir(dir string, maxBytes int) (CaseEntry, error) {
	data, err := report.ReadCaseFile(dir, report.SummaryFile)
	if err != nil {
		return CaseEntry{}, err
	}
	var summary report.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return CaseEntry{}, err
	}
	files := map[string]FileContent{}
	for _, name := range []string{report.CaseSQLFile, report.SchemaFile, report.PropertyFile} {
		files[name] = mustReadFile(filepath.Join(dir, name), maxBytes)
	}
	return CaseEntry{
		ID:             summary.CaseID,
		Dir:            dir,
		Property:       summary.Property,
		Outcome:        summary.Outcome,
		Message:        summary.Message,
		Error:          summary.Error,
		Seed:           summary.Seed,
		Engine:         summary.Engine,
		Timestamp:      summary.Timestamp,
		ArchiveName:    summary.ArchiveName,
		UploadLocation: summary.UploadLocation,
		Files:          files,
	}, nil
}

func groupCases(cases []CaseEntry) []Group {
	counts := map[[2]string]int{}
	for _, c := range cases {
		counts[[2]string{c.Property, c.Outcome}]++
	}
	groups := make([]Group, 0, len(counts))
	for key, n := range counts {
		groups = append(groups, Group{Property: key[0], Outcome: key[1], Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].Property != groups[j].Property {
			return groups[i].Property < groups[j].Property
		}
		return groups[i].Outcome < groups[j].Outcome
	})
	return groups
}

func mustReadFile(path string, maxBytes int) FileContent {
	content, truncated, err := readFileLimited(path, maxBytes)
	if err != nil {
		return FileContent{Name: filepath.Base(path)}
	}
	return FileContent{Name: filepath.Base(path), Content: content, Truncated: truncated}
}

func readFileLimited(path string, maxBytes int) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer util.CloseWithErr(f, "report input")
	data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
	if err != nil {
		return "", false, err
	}
	truncated := len(data) > maxBytes
	if truncated {
		data = data[:maxBytes]
	}
	return string(data), truncated, nil
}

func writeJSON(output string, site SiteData) error {
	if err := os.MkdirAll(output, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(output, "report.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "report output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(site)
}
