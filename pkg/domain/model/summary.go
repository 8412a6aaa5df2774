package model

import "github.com/secmon-lab/gradeview/pkg/domain/types"

// DatasetSummary describes the loaded dataset
type DatasetSummary struct {
	ID      types.DatasetID    `json:"id,omitempty"`
	Source  string             `json:"source"`
	Records int                `json:"records"`
	Terms   int                `json:"terms"`
	State   types.DatasetState `json:"state"`
}
