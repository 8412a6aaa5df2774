package types

import (
	"github.com/google/uuid"
)

// DatasetID identifies one loaded copy of the dataset
type DatasetID string

// String returns the string representation
func (id DatasetID) String() string {
	return string(id)
}

// NewDatasetID creates a new DatasetID
func NewDatasetID() DatasetID {
	return DatasetID(uuid.New().String())
}

// ColumnName is a CSV header field
type ColumnName string

// String returns the string representation
func (c ColumnName) String() string {
	return string(c)
}

// Well-known columns of the grade distribution export
const (
	ColumnTerm     ColumnName = "Term"
	ColumnSubject  ColumnName = "Subject"
	ColumnCatalog  ColumnName = "Catalog Number"
	ColumnGPA      ColumnName = "Course GPA"
	ColumnStudents ColumnName = "# of Students"
)
