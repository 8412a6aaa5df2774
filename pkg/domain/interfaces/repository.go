package interfaces

import (
	"context"

	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

// Repository stores the ordered record collection of one dataset
type Repository interface {
	// PutRecords replaces the stored records with records, keeping their order
	PutRecords(ctx context.Context, records []model.Record) error

	// ListRecords returns all stored records in stored order
	ListRecords(ctx context.Context) ([]model.Record, error)

	// Name describes the store for logs and the dataset summary
	Name() string

	// Close closes the repository connection
	Close() error
}

// ChartRenderer draws a chart series as an image
type ChartRenderer interface {
	Render(series model.ChartSeries) ([]byte, error)
	ContentType() string
}
