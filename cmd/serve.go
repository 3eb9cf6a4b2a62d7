package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/app"
	"github.com/sgaunet/s3browse/pkg/health"
	"github.com/sgaunet/s3browse/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser as a JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if listenFlag != "" {
			cfg.Server.Listen = listenFlag
		}
		// Logs go to stdout for the long running server.
		logger = initTrace(cfg.LogLevel, cmd.OutOrStdout())

		ctx, cancel := SetupCloseHandler(cmd.Context(), logger)
		defer cancel()

		st, err := newStore(ctx, cfg.S3, logger)
		if err != nil {
			return err
		}
		sess, err := openSessionOn(ctx, st, "")
		if err != nil {
			return err
		}

		h := health.NewStoreHealth(st, logger)
		h.Start(ctx)
		defer h.Stop()

		sched := scheduler.NewScheduler(cfg.Stats, sess)
		sched.SetLogger(logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		s := app.NewApp(cfg, sess, h)
		s.SetLogger(logger)
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.StartServer()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logger.Info("stop the server")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := s.StopServer(shutdownCtx); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenFlag, "listen", "l", "", "listen address, overrides the configuration")
	rootCmd.AddCommand(serveCmd)
}
