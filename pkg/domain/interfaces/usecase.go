package interfaces

import (
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/domain/types"
)

// Dashboard answers the queries of the dashboard page
type Dashboard interface {
	State() types.DatasetState
	Summary() model.DatasetSummary
	Terms() ([]string, error)
	Series(sel model.Selection) (model.ChartSeries, error)
	Chart(sel model.Selection) ([]byte, string, error)
}
