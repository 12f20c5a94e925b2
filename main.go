package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/rateshop/internal/graphql"
	"github.com/tournevent/rateshop/internal/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rateshop",
	Short:   "Batch-resumable FedEx, UPS and USPS rate shopping over a shipment sheet",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rate-shop the sheet batch by batch until every row is done",
	RunE:  runRun,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and rate-shop the sheet in the background",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(runCmd, serveCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	failed := make(chan error, 1)
	a, err := setup(ctx, func(err error) {
		select {
		case failed <- err:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	a.logger.Info("Starting rate shopping run",
		zap.String("version", a.cfg.Version),
		zap.String("sheet_backend", a.cfg.SheetBackend),
		zap.Int("batch_size", a.cfg.BatchSize),
	)

	a.job.Invoke(ctx)

	select {
	case <-a.notifier.Done():
		err = nil
	case err = <-failed:
	case <-ctx.Done():
		a.logger.Info("Run interrupted, the marker keeps the resume point")
	}

	a.scheduler.CancelAll()
	a.scheduler.Wait()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx, nil)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	a.logger.Info("Starting rateshop server",
		zap.Int("port", a.cfg.Port),
		zap.String("version", a.cfg.Version),
	)

	resolver := graphql.NewResolver(a.job, a.registry, a.logger, a.metrics)
	srv := server.New(server.Config{Port: a.cfg.Port}, resolver, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a.job.Invoke(gctx)
		return nil
	})

	err = g.Wait()
	a.scheduler.CancelAll()
	a.scheduler.Wait()
	return err
}
