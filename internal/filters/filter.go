// Package filters post-processes a built logical database. Filters run in
// ascending order and are the only sanctioned mutators of a Database: they
// rewrite existing cell values in place (Row.Set) and never add or remove
// rows, tables, or columns.
package filters

import (
	"fmt"
	"sort"
	"time"

	"mork-export/internal/morkdb"
)

// Options control the built-in conversions, mirroring the converter tool's
// command-line switches.
type Options struct {
	NoConvert  bool   // skip every filter's conversions
	NoTime     bool   // leave time/date fields untouched
	TimeFormat string // Go time layout for rendered times (default time.ANSIC)
	NoBase     bool   // leave hexadecimal integers untouched
	NoSymbolic bool   // leave flags, booleans, and enumerations untouched

	// Location renders times in a specific zone; nil means time.Local.
	Location *time.Location
}

func (o *Options) layout() string {
	if o.TimeFormat != "" {
		return o.TimeFormat
	}
	return time.ANSIC
}

func (o *Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

// Filter is one post-build processing step.
type Filter interface {
	// Name identifies the filter in logs and errors.
	Name() string
	// Order positions the filter in the pipeline; lower runs first.
	Order() int
	// Process rewrites the database in place.
	Process(db *morkdb.Database, opts *Options) error
}

// Pipeline is an ordered set of filters.
type Pipeline struct {
	filters []Filter
}

// Add appends a filter; ordering is applied at Run time.
func (p *Pipeline) Add(f Filter) {
	p.filters = append(p.filters, f)
}

// Run executes all filters in ascending order. The first failing filter
// aborts the run.
func (p *Pipeline) Run(db *morkdb.Database, opts *Options) error {
	sorted := make([]Filter, len(p.filters))
	copy(sorted, p.filters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})

	for _, f := range sorted {
		if err := f.Process(db, opts); err != nil {
			return fmt.Errorf("filter %s: %w", f.Name(), err)
		}
	}
	return nil
}
