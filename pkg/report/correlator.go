// Package report implements the file-report collection engine: grouping
// task output files by logical output name, correlating work-directory
// paths with their eventually published destinations, and emitting
// per-task and collated JSON reports.
package report

import (
	"sync"

	"github.com/theiagen/nf-theia/pkg/scheme"
)

// Correlator is the run-scoped registry mapping a normalized
// work-directory path to the set of destinations it was published to.
// Publish events may arrive before, interleaved with, or after the owning
// task's completion event; the correlator is the single source of truth
// consulted at report-build time and again at run-completion backfill.
//
// Keys and values are canonical strings, not OS path handles: handle
// equality silently fails to match semantically identical paths built via
// different routes. Entries are append-only for the life of the run.
type Correlator struct {
	mu    sync.RWMutex
	order map[string][]string            // source -> destinations, insertion order
	seen  map[string]map[string]struct{} // source -> destination set
}

func NewCorrelator() *Correlator {
	return &Correlator{
		order: make(map[string][]string),
		seen:  make(map[string]map[string]struct{}),
	}
}

// Record adds a destination to the set for source. Recording the same
// pair twice is a no-op. Destinations are classified so stripped platform
// URIs are stored in their reconstructed, addressable form.
func (c *Correlator) Record(source, destination string) {
	src := scheme.NormalizeSource(source)
	dst := scheme.Classify(destination).Normalized

	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.seen[src]
	if !ok {
		set = make(map[string]struct{})
		c.seen[src] = set
	}
	if _, dup := set[dst]; dup {
		return
	}
	set[dst] = struct{}{}
	c.order[src] = append(c.order[src], dst)
}

// IsPublished reports whether at least one publish event arrived for
// source.
func (c *Correlator) IsPublished(source string) bool {
	src := scheme.NormalizeSource(source)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order[src]) > 0
}

// Destinations returns a copy of the destination set for source, in the
// order the publish events arrived. Empty when nothing was published yet.
func (c *Correlator) Destinations(source string) []string {
	src := scheme.NormalizeSource(source)
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order[src]))
	copy(out, c.order[src])
	return out
}

// AllPublished reports whether every given source has at least one
// recorded destination.
func (c *Correlator) AllPublished(sources []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range sources {
		if len(c.order[scheme.NormalizeSource(s)]) == 0 {
			return false
		}
	}
	return true
}

// Size returns the number of distinct source paths recorded so far.
func (c *Correlator) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
