package model

import "fmt"

// GradeBucketCount is the number of chart slices
const GradeBucketCount = 10

// GradeBuckets lists the grade columns in chart order
var GradeBuckets = [GradeBucketCount]string{
	"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "DFW",
}

// Display defaults used when a record has no value or nothing matched
const (
	DefaultGPA      = "0.00"
	DefaultStudents = "0"
)

// ChartSeries is the derived grade distribution for one selection
type ChartSeries struct {
	Counts   [GradeBucketCount]int
	GPA      string
	Students string
	Matched  bool
}

// EmptySeries returns the series shown when no record matches
func EmptySeries() ChartSeries {
	return ChartSeries{
		GPA:      DefaultGPA,
		Students: DefaultStudents,
	}
}

// SeriesFromRecord derives the chart series of a single record
func SeriesFromRecord(r Record) ChartSeries {
	s := ChartSeries{
		GPA:      valueOr(r, string(columnGPA), DefaultGPA),
		Students: valueOr(r, string(columnStudents), DefaultStudents),
		Matched:  true,
	}
	for i, bucket := range GradeBuckets {
		s.Counts[i] = parseLeadingInt(r.Value(bucket))
	}
	return s
}

// Values returns the counts as a slice
func (s ChartSeries) Values() []int {
	values := make([]int, GradeBucketCount)
	copy(values, s.Counts[:])
	return values
}

// Total returns the sum of all counts
func (s ChartSeries) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// Percents returns each bucket's share of the total. All zero when the total
// is zero.
func (s ChartSeries) Percents() []float64 {
	values := s.Values()
	percents := make([]float64, len(values))
	for i := range values {
		if p, ok := SlicePercent(values, i); ok {
			percents[i] = p
		}
	}
	return percents
}

// LabelVisibility reports for each bucket whether its slice label is drawn
func (s ChartSeries) LabelVisibility() []bool {
	values := s.Values()
	visible := make([]bool, len(values))
	for i := range values {
		visible[i] = ShowLabel(values, i)
	}
	return visible
}

// Labels returns the slice label text, empty for suppressed labels
func (s ChartSeries) Labels() []string {
	labels := make([]string, GradeBucketCount)
	for i, visible := range s.LabelVisibility() {
		if visible {
			labels[i] = GradeBuckets[i]
		}
	}
	return labels
}

// CenterText returns the two lines drawn in the donut hole
func (s ChartSeries) CenterText() (gpa string, students string) {
	return s.GPA + " GPA", s.Students + " Students"
}

// Key identifies the rendered appearance of the series. The display strings
// are quoted so that no two series share a key.
func (s ChartSeries) Key() string {
	return fmt.Sprintf("%v|%q|%q", s.Counts, s.GPA, s.Students)
}

func valueOr(r Record, key, fallback string) string {
	if v := r.Value(key); v != "" {
		return v
	}
	return fallback
}
