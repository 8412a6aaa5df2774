package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
	"github.com/secmon-lab/gradeview/pkg/domain/types"
)

// DashboardUseCase owns the dataset behind the dashboard page. The dataset is
// loaded once and never changes afterwards.
type DashboardUseCase struct {
	repo       interfaces.Repository
	renderer   interfaces.ChartRenderer
	termColumn types.ColumnName

	mu      sync.RWMutex
	state   types.DatasetState
	dataset *model.Dataset
}

// DashboardOption configures a DashboardUseCase
type DashboardOption func(*DashboardUseCase)

// WithTermColumn sets the column holding the term
func WithTermColumn(column types.ColumnName) DashboardOption {
	return func(uc *DashboardUseCase) {
		uc.termColumn = column
	}
}

// NewDashboard creates a DashboardUseCase in the loading state
func NewDashboard(repo interfaces.Repository, renderer interfaces.ChartRenderer, opts ...DashboardOption) *DashboardUseCase {
	uc := &DashboardUseCase{
		repo:       repo,
		renderer:   renderer,
		termColumn: types.ColumnTerm,
		state:      types.DatasetStateLoading,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load reads all records from the repository. On failure the dashboard stays
// unusable.
func (uc *DashboardUseCase) Load(ctx context.Context) error {
	records, err := uc.repo.ListRecords(ctx)
	if err != nil {
		err = goerr.Wrap(err, "failed to load dataset",
			goerr.V("source", uc.repo.Name()),
			goerr.T(model.ErrTagDatasetLoad))

		uc.mu.Lock()
		uc.state = types.DatasetStateFailed
		uc.mu.Unlock()
		return err
	}

	ds := model.NewDataset(records,
		model.WithSource(uc.repo.Name()),
		model.WithTermColumn(uc.termColumn),
	)

	uc.mu.Lock()
	uc.dataset = ds
	uc.state = types.DatasetStateReady
	uc.mu.Unlock()

	ctxlog.From(ctx).Info("Dataset loaded",
		"id", ds.ID(),
		"source", ds.Source(),
		"records", ds.Len(),
		"termColumn", ds.TermColumn(),
	)
	return nil
}

var _ interfaces.Dashboard = (*DashboardUseCase)(nil)

// State returns the current load state
func (uc *DashboardUseCase) State() types.DatasetState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

// Summary describes the dataset. It never fails so the page can show the
// state while loading.
func (uc *DashboardUseCase) Summary() model.DatasetSummary {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	summary := model.DatasetSummary{
		Source: uc.repo.Name(),
		State:  uc.state,
	}
	if uc.dataset != nil {
		summary.ID = uc.dataset.ID()
		summary.Records = uc.dataset.Len()
		summary.Terms = len(uc.dataset.Terms())
	}
	return summary
}

// Terms returns the sorted distinct terms for the term selector
func (uc *DashboardUseCase) Terms() ([]string, error) {
	ds, err := uc.ready()
	if err != nil {
		return nil, err
	}
	return ds.Terms(), nil
}

// Series derives the chart series for sel
func (uc *DashboardUseCase) Series(sel model.Selection) (model.ChartSeries, error) {
	ds, err := uc.ready()
	if err != nil {
		return model.ChartSeries{}, err
	}
	return ds.Lookup(sel), nil
}

// Chart derives the series for sel and renders it
func (uc *DashboardUseCase) Chart(sel model.Selection) ([]byte, string, error) {
	series, err := uc.Series(sel)
	if err != nil {
		return nil, "", err
	}

	img, err := uc.renderer.Render(series)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to render chart", goerr.V("selection", sel))
	}
	return img, uc.renderer.ContentType(), nil
}

func (uc *DashboardUseCase) ready() (*model.Dataset, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if !uc.state.IsReady() {
		return nil, goerr.Wrap(model.ErrDatasetNotReady, "dataset unavailable",
			goerr.V("state", uc.state))
	}
	return uc.dataset, nil
}
