package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// initTrace initializes the logger
func initTrace(debugLevel string, w io.Writer) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch debugLevel {
	case "debug":
		handlerOptions.Level = slog.LevelDebug
		handlerOptions.AddSource = true
	case "info":
		handlerOptions.Level = slog.LevelInfo
	case "warn":
		handlerOptions.Level = slog.LevelWarn
	case "error":
		handlerOptions.Level = slog.LevelError
	default:
		handlerOptions.Level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, handlerOptions))
}

// SetupCloseHandler cancels the returned context on SIGINT or SIGTERM.
func SetupCloseHandler(parent context.Context, log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancelFunc := context.WithCancel(parent)
	c := make(chan os.Signal, 5)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case s := <-c:
			log.Info("signal received", slog.String("signal", s.String()))
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return ctx, cancelFunc
}
