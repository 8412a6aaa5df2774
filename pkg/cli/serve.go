package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/cli/config"
	controller "github.com/secmon-lab/gradeview/pkg/controller/http"
	"github.com/secmon-lab/gradeview/pkg/repository"
	"github.com/secmon-lab/gradeview/pkg/usecase"
	"github.com/secmon-lab/gradeview/pkg/utils/apperr"
	"github.com/secmon-lab/gradeview/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		datasetCfg   config.Dataset
		chartCfg     config.Chart
		firestoreCfg config.Firestore
		sqliteCfg    config.SQLite
	)

	flags := joinFlags(
		serverCfg.Flags(),
		datasetCfg.Flags(),
		chartCfg.Flags(),
		firestoreCfg.Flags(),
		sqliteCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting gradeview server",
				slog.Any("server", serverCfg),
				slog.Any("dataset", datasetCfg),
				slog.Any("chart", chartCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("sqlite", sqliteCfg),
			)

			repo, err := config.Source(ctx, &datasetCfg, &firestoreCfg, &sqliteCfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			renderer, err := chartCfg.Configure()
			if err != nil {
				return err
			}

			dashboard := usecase.NewDashboard(repo, renderer,
				usecase.WithTermColumn(datasetCfg.Column()),
			)

			var opts []controller.Option
			if f, ok := repo.(*repository.JSONFile); ok {
				opts = append(opts, controller.WithDatasetFile(f.Path()))
			}

			server, err := controller.NewServer(ctx, serverCfg.Addr, dashboard, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// The page is served while the dataset loads; the API answers 503
			// until then.
			async.Dispatch(ctx, func(ctx context.Context) error {
				if err := dashboard.Load(ctx); err != nil {
					apperr.Handle(ctx, err)
				}
				return nil
			})

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return err
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
