package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/gradeview/pkg/cli/config"
	"github.com/secmon-lab/gradeview/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdConvert() *cli.Command {
	var (
		convertCfg   config.Convert
		firestoreCfg config.Firestore
		sqliteCfg    config.SQLite
	)

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert the grade distribution CSV export into the dashboard's JSON dataset",
		Flags: joinFlags(
			convertCfg.Flags(),
			firestoreCfg.Flags(),
			sqliteCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("Converting CSV",
				slog.Any("dataset", convertCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("sqlite", sqliteCfg),
			)

			sinks, err := config.Sinks(ctx, &convertCfg, &firestoreCfg, &sqliteCfg)
			if err != nil {
				return err
			}
			defer func() {
				for _, s := range sinks {
					if err := s.Close(); err != nil {
						logger.Warn("Failed to close repository", "name", s.Name(), "error", err)
					}
				}
			}()

			if _, err := usecase.NewConvert(sinks...).ConvertFile(ctx, convertCfg.Input); err != nil {
				return err
			}
			return nil
		},
	}
}
