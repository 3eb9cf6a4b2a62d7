// Package app exposes a browsing session as a JSON API.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sgaunet/s3browse/pkg/config"
	"github.com/sgaunet/s3browse/pkg/health"
	"github.com/sgaunet/s3browse/pkg/session"
)

const readHeaderTimeout = 10 * time.Second

// App serves one session over HTTP.
type App struct {
	cfg     config.Config
	session *session.Session
	health  *health.StoreHealth
	router  *mux.Router
	srv     *http.Server
	log     *slog.Logger
}

// NewApp creates the HTTP API. h may be nil, /health then reports unhealthy.
func NewApp(cfg config.Config, sess *session.Session, h *health.StoreHealth) *App {
	s := &App{
		cfg:     cfg,
		session: sess,
		health:  h,
		router:  mux.NewRouter().StrictSlash(true),
		log:     slog.New(slog.DiscardHandler),
	}
	s.srv = &http.Server{
		Addr:              cfg.Server.Listen,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.initRouter()
	return s
}

// SetLogger sets the logger.
func (s *App) SetLogger(log *slog.Logger) {
	s.log = log
}

// StartServer listens until StopServer is called.
func (s *App) StartServer() error {
	s.log.Info("listen", slog.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// StopServer shuts the server down gracefully.
func (s *App) StopServer(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Router returns the HTTP handler of the API.
func (s *App) Router() http.Handler {
	return s.router
}
