// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/talent-radar/pkg/types"
)

// ResultFile is the on-disk form of one aggregated search, so a run can be
// reviewed later without querying the boards again.
type ResultFile struct {
	Query    ResultQuery              `yaml:"query"`
	Backends []BackendSummary         `yaml:"backends"`
	Items    []types.SearchResultItem `yaml:"items"`
	Summary  ResultSummary            `yaml:"summary"`
}

// ResultQuery records the raw request and the normalized query.
type ResultQuery struct {
	Raw        string `yaml:"raw"`
	Normalized string `yaml:"normalized"`
}

// BackendSummary records one backend's settled outcome.
type BackendSummary struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	Count  int    `yaml:"count"`
	Error  string `yaml:"error,omitempty"`
}

// ResultSummary stores totals and a timestamp.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewResultFile builds the file form of out.
func NewResultFile(rawQuery string, out Output, now time.Time) ResultFile {
	rf := ResultFile{
		Query: ResultQuery{Raw: rawQuery, Normalized: out.Query},
		Items: out.Items,
		Summary: ResultSummary{
			Total:     len(out.Items),
			Failed:    len(out.Failed()),
			Timestamp: now.UTC(),
		},
	}
	for _, oc := range out.Outcomes {
		bs := BackendSummary{Name: oc.Backend.Name, Domain: oc.Backend.Domain, Count: len(oc.Items)}
		if oc.Err != nil {
			bs.Error = oc.Err.Error()
		}
		rf.Backends = append(rf.Backends, bs)
	}
	return rf
}

// PerBackendCounts rebuilds the count map of the stored search.
func (rf ResultFile) PerBackendCounts() map[string]int {
	counts := make(map[string]int, len(rf.Backends))
	for _, b := range rf.Backends {
		counts[b.Name] += b.Count
	}
	return counts
}

// WriteResultFile saves an aggregated search to a YAML file.
func WriteResultFile(path, rawQuery string, out Output) error {
	rf := NewResultFile(rawQuery, out, time.Now())
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
