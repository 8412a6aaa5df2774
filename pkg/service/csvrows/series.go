package csvrows

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

// SeriesRow is one grade bucket of an exported chart series
type SeriesRow struct {
	Bucket  string `csv:"bucket"`
	Count   int    `csv:"count"`
	Percent string `csv:"percent"`
	Label   bool   `csv:"label"`
}

// SeriesRows lists the buckets of series in chart order
func SeriesRows(series model.ChartSeries) []*SeriesRow {
	percents := series.Percents()
	visible := series.LabelVisibility()

	rows := make([]*SeriesRow, 0, model.GradeBucketCount)
	for i, bucket := range model.GradeBuckets {
		rows = append(rows, &SeriesRow{
			Bucket:  bucket,
			Count:   series.Counts[i],
			Percent: fmt.Sprintf("%.1f", percents[i]),
			Label:   visible[i],
		})
	}
	return rows
}

// WriteSeries writes series as CSV with a header row
func WriteSeries(w io.Writer, series model.ChartSeries) error {
	if err := gocsv.Marshal(SeriesRows(series), w); err != nil {
		return goerr.Wrap(err, "failed to write series CSV")
	}
	return nil
}
