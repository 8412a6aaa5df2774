package model

import (
	"sort"

	"github.com/secmon-lab/gradeview/pkg/domain/types"
)

// Dataset is the full in-memory collection of records. It is never mutated
// after construction.
type Dataset struct {
	id         types.DatasetID
	source     string
	termColumn types.ColumnName
	records    []Record
}

// DatasetOption configures a Dataset
type DatasetOption func(*Dataset)

// WithSource sets the name of the store the records came from
func WithSource(source string) DatasetOption {
	return func(d *Dataset) {
		d.source = source
	}
}

// WithTermColumn overrides the column used as the term
func WithTermColumn(column types.ColumnName) DatasetOption {
	return func(d *Dataset) {
		if column != "" {
			d.termColumn = column
		}
	}
}

// NewDataset creates a dataset holding a copy of records
func NewDataset(records []Record, opts ...DatasetOption) *Dataset {
	d := &Dataset{
		id:         types.NewDatasetID(),
		termColumn: types.ColumnTerm,
		records:    make([]Record, len(records)),
	}
	copy(d.records, records)

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the identifier assigned at load time
func (d *Dataset) ID() types.DatasetID {
	return d.id
}

// Source returns the name of the originating store
func (d *Dataset) Source() string {
	return d.source
}

// TermColumn returns the column used as the term
func (d *Dataset) TermColumn() types.ColumnName {
	return d.termColumn
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the records in dataset order
func (d *Dataset) Records() []Record {
	records := make([]Record, len(d.records))
	copy(records, d.records)
	return records
}

// Terms returns the distinct term values in ascending order. Records without
// the term column are skipped.
func (d *Dataset) Terms() []string {
	seen := make(map[string]struct{})
	terms := []string{}
	for _, r := range d.records {
		term, ok := r.Get(string(d.termColumn))
		if !ok {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Find returns the first record matching sel in dataset order
func (d *Dataset) Find(sel Selection) (Record, bool) {
	for _, r := range d.records {
		if sel.Matches(r, d.termColumn) {
			return r, true
		}
	}
	return Record{}, false
}

// Lookup derives the chart series for sel. Later duplicates of the first
// match are ignored.
func (d *Dataset) Lookup(sel Selection) ChartSeries {
	r, ok := d.Find(sel)
	if !ok {
		return EmptySeries()
	}
	return SeriesFromRecord(r)
}
