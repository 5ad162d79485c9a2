package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/thep200/daily-git-brief/api"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/internal/progress"
	"github.com/thep200/daily-git-brief/pkg/log"
)

type QueryStore interface {
	RankedRepos(ctx context.Context, date string) ([]model.RankedRepo, error)
	DailyLanguageTrends(ctx context.Context, date string) ([]model.LanguageTrend, error)
	WeeklyLanguageTrends(ctx context.Context, endDate string) ([]model.LanguageTrend, error)
}

// CollectionControl là phần của api.CollectorAPI mà HTTP cần
type CollectionControl interface {
	StartCollection(ctx context.Context) error
	Status() api.CollectionStats
	Broadcaster() *progress.Broadcaster
}

// Handler manages HTTP requests
type Handler struct {
	Logger    log.Logger
	Config    *cfg.Config
	store     QueryStore
	control   CollectionControl
	dbStatus  func() (string, error)
	now       func() time.Time
	keepAlive time.Duration
}

type Option func(*Handler)

// WithDatabaseStatus gắn kiểm tra database vào /health
func WithDatabaseStatus(check func() (string, error)) Option {
	return func(h *Handler) {
		h.dbStatus = check
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

func NewHandler(logger log.Logger, config *cfg.Config, store QueryStore, control CollectionControl, opts ...Option) *Handler {
	h := &Handler{
		Logger:    logger,
		Config:    config,
		store:     store,
		control:   control,
		now:       time.Now,
		keepAlive: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)

	mux.HandleFunc("GET /api/trends", h.getTrends)
	mux.HandleFunc("GET /api/languages/daily", h.getDailyLanguages)
	mux.HandleFunc("GET /api/languages/weekly", h.getWeeklyLanguages)

	mux.HandleFunc("POST /api/collect", h.startCollection)
	mux.HandleFunc("GET /api/collect/status", h.getCollectionStatus)
	mux.HandleFunc("GET /api/collect/events", h.streamCollectionEvents)
}

// Response là envelope chung cho mọi JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	h.writeJSON(w, r, status, Response{Success: true, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, Response{Success: false, Error: message})
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "OK"}
	if h.dbStatus != nil {
		message, err := h.dbStatus()
		status.Database = message
		if err != nil {
			h.Logger.Warn(r.Context(), "Health check failed: %v", err)
			status.Status = "DEGRADED"
			h.writeJSON(w, r, http.StatusServiceUnavailable, Response{Success: false, Data: status, Error: err.Error()})
			return
		}
	}
	h.ok(w, r, http.StatusOK, status)
}
