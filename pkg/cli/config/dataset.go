package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/types"
	"github.com/secmon-lab/gradeview/pkg/repository"
	"github.com/urfave/cli/v3"
)

const (
	DefaultInputPath   = "LARGE-DATA.csv"
	DefaultDatasetPath = "public/LARGE-DATA.json"
)

// Convert holds the converter's file locations
type Convert struct {
	Input  string
	Output string
}

// Flags returns CLI flags for Convert configuration
func (c *Convert) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "CSV export to convert",
			Category:    "Dataset",
			Value:       DefaultInputPath,
			Sources:     cli.EnvVars("GRADEVIEW_INPUT"),
			Destination: &c.Input,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "JSON file to write",
			Category:    "Dataset",
			Value:       DefaultDatasetPath,
			Sources:     cli.EnvVars("GRADEVIEW_OUTPUT"),
			Destination: &c.Output,
		},
	}
}

// LogValue returns structured log value
func (c Convert) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("input", c.Input),
		slog.String("output", c.Output),
	)
}

// Dataset holds the dashboard's dataset location and layout
type Dataset struct {
	Path       string
	TermColumn string
}

// Flags returns CLI flags for Dataset configuration
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Usage:       "JSON file produced by the convert command",
			Category:    "Dataset",
			Value:       DefaultDatasetPath,
			Sources:     cli.EnvVars("GRADEVIEW_DATASET"),
			Destination: &d.Path,
		},
		&cli.StringFlag{
			Name:        "term-column",
			Usage:       "Column holding the academic term",
			Category:    "Dataset",
			Value:       string(types.ColumnTerm),
			Sources:     cli.EnvVars("GRADEVIEW_TERM_COLUMN"),
			Destination: &d.TermColumn,
		},
	}
}

// Column returns the term column, falling back to the default
func (d *Dataset) Column() types.ColumnName {
	if d.TermColumn == "" {
		return types.ColumnTerm
	}
	return types.ColumnName(d.TermColumn)
}

// LogValue returns structured log value
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", d.Path),
		slog.String("termColumn", d.TermColumn),
	)
}

// Source picks the repository the dashboard reads: Firestore when a project
// is set, then SQLite when a path is set, then the JSON file.
func Source(ctx context.Context, dataset *Dataset, fs *Firestore, sqlite *SQLite) (interfaces.Repository, error) {
	repo, err := fs.Configure(ctx)
	if err != nil || repo != nil {
		return repo, err
	}

	repo, err = sqlite.Configure(ctx)
	if err != nil || repo != nil {
		return repo, err
	}

	return repository.NewJSONFile(dataset.Path), nil
}

// Sinks returns every repository the converter writes to. The JSON file is
// always first.
func Sinks(ctx context.Context, conv *Convert, fs *Firestore, sqlite *SQLite) ([]interfaces.Repository, error) {
	sinks := []interfaces.Repository{repository.NewJSONFile(conv.Output)}

	for _, configure := range []func(context.Context) (interfaces.Repository, error){
		fs.Configure,
		sqlite.Configure,
	} {
		repo, err := configure(ctx)
		if err != nil {
			closeAll(sinks)
			return nil, err
		}
		if repo != nil {
			sinks = append(sinks, repo)
		}
	}

	return sinks, nil
}

func closeAll(repos []interfaces.Repository) {
	for _, r := range repos {
		_ = r.Close()
	}
}
