package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// Server là HTTP server cho query API và trigger thu thập
type Server struct {
	Logger  log.Logger
	Config  *cfg.Config
	Handler *Handler
	server  *http.Server
}

func NewServer(logger log.Logger, config *cfg.Config, handler *Handler) (*Server, error) {
	if handler == nil {
		return nil, errors.New("server requires a handler")
	}
	return &Server{
		Logger:  logger,
		Config:  config,
		Handler: handler,
	}, nil
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.Config.Server.Host, strconv.Itoa(s.Config.Server.Port))
}

// Start chặn cho tới khi server bị Stop
func (s *Server) Start() error {
	mux := http.NewServeMux()
	s.Handler.RegisterRoutes(mux)

	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      withCORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.Logger.Info(context.Background(), "Starting HTTP server on %s", s.Addr())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.Logger.Info(ctx, "Shutting down HTTP server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// withCORS cho phép mọi origin
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
