// Package agg has aggregation logic for sweep results.
package agg

import (
	"sort"
	"sync"

	"github.com/huangsam/regsweep/schema"
)

// Aggregator accumulates failures and throughput for one sweep.
// It is safe for concurrent use; callers feed it in discovery order.
type Aggregator struct {
	mu         sync.Mutex
	order      []string                          // categories in first-seen order
	buckets    map[string][]schema.FailureRecord // category -> failures in discovery order
	stats      map[string]*schema.CategoryStats
	throughput map[string]float64 // fixture path -> bytes/sec
	fixtures   int
	failures   int
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		buckets:    make(map[string][]schema.FailureRecord),
		stats:      make(map[string]*schema.CategoryStats),
		throughput: make(map[string]float64),
	}
}

// Record routes one invocation result. Failures go to the category bucket;
// successes with a defined throughput go to the throughput table.
func (a *Aggregator) Record(r schema.InvocationResult) {
	if r.Success {
		a.countFixture(r.Category, true)
		if r.Throughput != nil {
			a.RecordThroughput(r.FixturePath, *r.Throughput)
		}
		return
	}
	a.countFixture(r.Category, false)
	a.RecordFailure(r.Category, schema.FailureRecord{
		FixturePath: r.FixturePath,
		CommandLine: r.CommandLine,
		FailureKind: r.FailureKind,
		ExitCode:    r.ExitCode,
	})
}

// RecordFailure appends to the category's failure list, creating it on first use.
func (a *Aggregator) RecordFailure(category string, rec schema.FailureRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bucketFor(category)
	a.buckets[category] = append(a.buckets[category], rec)
	a.failures++
}

// RecordThroughput upserts the throughput of a successful run.
func (a *Aggregator) RecordThroughput(fixturePath string, bytesPerSec float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.throughput[fixturePath] = bytesPerSec
}

// bucketFor returns the category bucket, inserting an empty one if absent.
// Callers must hold mu.
func (a *Aggregator) bucketFor(category string) []schema.FailureRecord {
	bucket, ok := a.buckets[category]
	if !ok {
		bucket = []schema.FailureRecord{}
		a.buckets[category] = bucket
		a.order = append(a.order, category)
	}
	return bucket
}

func (a *Aggregator) countFixture(category string, passed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.stats[category]
	if !ok {
		s = &schema.CategoryStats{Category: category}
		a.stats[category] = s
	}
	s.Fixtures++
	if passed {
		s.Passed++
	} else {
		s.Failed++
	}
	a.fixtures++
}

// Categories returns the categories with failures in first-seen order.
func (a *Aggregator) Categories() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.order...)
}

// Failures returns a copy of one category's failures in discovery order.
func (a *Aggregator) Failures(category string) []schema.FailureRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]schema.FailureRecord(nil), a.buckets[category]...)
}

// Buckets returns every non-empty category bucket sorted by category name.
func (a *Aggregator) Buckets() []schema.CategoryFailures {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := append([]string(nil), a.order...)
	sort.Strings(names)
	out := make([]schema.CategoryFailures, 0, len(names))
	for _, name := range names {
		if len(a.buckets[name]) == 0 {
			continue
		}
		out = append(out, schema.CategoryFailures{
			Category: name,
			Failures: append([]schema.FailureRecord(nil), a.buckets[name]...),
		})
	}
	return out
}

// Stats returns per-category counts sorted by category name.
func (a *Aggregator) Stats() []schema.CategoryStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]schema.CategoryStats, 0, len(a.stats))
	for _, s := range a.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Throughput returns the throughput table sorted by fixture path.
func (a *Aggregator) Throughput() []schema.ThroughputEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]schema.ThroughputEntry, 0, len(a.throughput))
	for path, v := range a.throughput {
		out = append(out, schema.ThroughputEntry{FixturePath: path, BytesPerSec: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FixturePath < out[j].FixturePath })
	return out
}

// Slowest returns the entry with the highest bytes/sec. Equal values resolve
// to the lexically smallest path. ok is false when nothing succeeded.
func (a *Aggregator) Slowest() (schema.ThroughputEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var best schema.ThroughputEntry
	found := false
	for path, v := range a.throughput {
		if !found || v > best.BytesPerSec || (v == best.BytesPerSec && path < best.FixturePath) {
			best = schema.ThroughputEntry{FixturePath: path, BytesPerSec: v}
			found = true
		}
	}
	return best, found
}

// TotalFixtures returns the number of results recorded through Record.
func (a *Aggregator) TotalFixtures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fixtures
}

// TotalFailures returns the number of failure records across all categories.
func (a *Aggregator) TotalFailures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failures
}

// Fill copies the aggregated state into a summary.
func (a *Aggregator) Fill(summary *schema.SweepSummary) {
	summary.TotalFixtures = a.TotalFixtures()
	summary.TotalFailures = a.TotalFailures()
	summary.Failures = a.Buckets()
	summary.Stats = a.Stats()
	summary.Throughput = a.Throughput()
	if best, ok := a.Slowest(); ok {
		summary.Slowest = &best
	} else {
		summary.Slowest = nil
	}
}
