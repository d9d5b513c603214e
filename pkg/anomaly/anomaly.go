// Package anomaly collects data-quality problems found while compiling
// and inferring. Anomalies never stop a run; they are logged when they
// happen and summarized at the end.
package anomaly

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Kind names a class of data-quality problem.
type Kind string

const (
	AccessionWithoutGroup    Kind = "accession_without_group"
	AccessionWithoutPeptides Kind = "accession_without_peptides"
	PeptideRegrouped         Kind = "peptide_regrouped"
	MissingGroup             Kind = "missing_group"
	MissingPSMSet            Kind = "missing_psm_set"
	MissingReportPSM         Kind = "missing_report_psm"
	MissingPeptide           Kind = "missing_peptide"
	DuplicateProtein         Kind = "duplicate_protein"
	UnknownScore             Kind = "unknown_score"
	BadRecord                Kind = "bad_record"
)

// MaxExamples is the number of messages kept per kind.
const MaxExamples = 10

// Collector is safe for concurrent use. A nil *Collector only logs.
type Collector struct {
	mu       sync.Mutex
	counts   map[Kind]int
	examples map[Kind][]string
}

// New creates an empty Collector.
func New() *Collector {
	return &Collector{
		counts:   make(map[Kind]int),
		examples: make(map[Kind][]string),
	}
}

// Add logs an anomaly and records it.
func (c *Collector) Add(kind Kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn(msg, "anomaly", string(kind))
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[kind]++
	if len(c.examples[kind]) < MaxExamples {
		c.examples[kind] = append(c.examples[kind], msg)
	}
}

// Count returns how many anomalies of the kind were recorded.
func (c *Collector) Count(kind Kind) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

// Total returns the number of all recorded anomalies.
func (c *Collector) Total() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var res int
	for _, v := range c.counts {
		res += v
	}
	return res
}

// Summary is a snapshot of one kind of anomalies.
type Summary struct {
	Kind     Kind
	Count    int
	Examples []string
}

// Summaries returns recorded anomalies sorted by kind.
func (c *Collector) Summaries() []Summary {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	res := make([]Summary, 0, len(c.counts))
	for k, v := range c.counts {
		res = append(res, Summary{
			Kind:     k,
			Count:    v,
			Examples: slices.Clone(c.examples[k]),
		})
	}
	slices.SortFunc(res, func(a, b Summary) int {
		switch {
		case a.Kind < b.Kind:
			return -1
		case a.Kind > b.Kind:
			return 1
		}
		return 0
	})
	return res
}
