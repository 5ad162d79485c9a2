// Package api cung cấp các API public để khởi chạy và theo dõi lượt thu thập
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/internal/progress"
	"github.com/thep200/daily-git-brief/pkg/log"
)

var ErrCollectionInProgress = errors.New("collection already in progress")

// Runner là một lượt thu thập; *collector.Collector thỏa mãn interface này
type Runner interface {
	Run(ctx context.Context, sink progress.Sink) (int, error)
}

// CollectionStats chứa trạng thái của lượt chạy hiện tại hoặc gần nhất
type CollectionStats struct {
	IsRunning    bool       `json:"is_running"`
	Message      string     `json:"message"`
	CurrentCount int        `json:"current_count"`
	TotalCount   int        `json:"total_count"`
	Collected    int        `json:"collected"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

func (s CollectionStats) Event() model.ProgressEvent {
	return model.ProgressEvent{
		IsRunning:    s.IsRunning,
		Message:      s.Message,
		CurrentCount: s.CurrentCount,
		TotalCount:   s.TotalCount,
	}
}

// CollectorAPI giữ guard một-slot: tại mọi thời điểm chỉ có tối đa một lượt chạy
type CollectorAPI struct {
	logger      log.Logger
	runner      Runner
	broadcaster *progress.Broadcaster
	running     atomic.Bool
	statsMu     sync.RWMutex
	stats       CollectionStats
	done        chan struct{}
	now         func() time.Time
}

func NewCollectorAPI(logger log.Logger, runner Runner, broadcaster *progress.Broadcaster) *CollectorAPI {
	if broadcaster == nil {
		broadcaster = progress.NewBroadcaster(progress.DefaultBuffer)
	}
	return &CollectorAPI{
		logger:      logger,
		runner:      runner,
		broadcaster: broadcaster,
		stats:       CollectionStats{Message: "Idle"},
		now:         time.Now,
	}
}

func (a *CollectorAPI) Broadcaster() *progress.Broadcaster {
	return a.broadcaster
}

// StartCollection chiếm guard và chạy collector trên goroutine riêng rồi trả về ngay.
// Lượt chạy không bị hủy khi ctx của caller (ví dụ một HTTP request) kết thúc.
func (a *CollectorAPI) StartCollection(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrCollectionInProgress
	}

	startedAt := a.now().UTC()
	done := make(chan struct{})
	a.statsMu.Lock()
	a.done = done
	a.stats = CollectionStats{
		IsRunning: true,
		Message:   "Collection started",
		StartedAt: &startedAt,
	}
	a.statsMu.Unlock()

	runCtx := context.WithoutCancel(ctx)
	sink := progress.Multi{progress.Func(a.record), a.broadcaster}

	go func() {
		var (
			collected int
			runErr    error
		)
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error(runCtx, "Collection panicked: %v", r)
				runErr = fmt.Errorf("collection panicked: %v", r)
			}
			a.finish(runCtx, collected, runErr)
			a.running.Store(false)
			close(done)
		}()

		a.logger.Info(runCtx, "Collection started")
		collected, runErr = a.runner.Run(runCtx, sink)
	}()

	return nil
}

// IsRunning báo guard có đang bị chiếm hay không
func (a *CollectorAPI) IsRunning() bool {
	return a.running.Load()
}

func (a *CollectorAPI) Status() CollectionStats {
	a.statsMu.RLock()
	defer a.statsMu.RUnlock()

	stats := a.stats
	stats.IsRunning = a.running.Load()
	return stats
}

// Wait chặn tới khi lượt chạy hiện tại (nếu có) kết thúc
func (a *CollectorAPI) Wait() {
	a.statsMu.RLock()
	done := a.done
	a.statsMu.RUnlock()

	if done != nil {
		<-done
	}
}

func (a *CollectorAPI) record(event model.ProgressEvent) {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()

	a.stats.Message = event.Message
	a.stats.CurrentCount = event.CurrentCount
	a.stats.TotalCount = event.TotalCount
}

func (a *CollectorAPI) finish(ctx context.Context, collected int, runErr error) {
	finishedAt := a.now().UTC()

	a.statsMu.Lock()
	a.stats.Collected = collected
	a.stats.FinishedAt = &finishedAt
	if runErr != nil {
		a.stats.LastError = runErr.Error()
		a.stats.Message = "Collection failed: " + runErr.Error()
	}
	event := a.stats.Event()
	a.statsMu.Unlock()

	if runErr != nil {
		a.logger.Error(ctx, "Collection failed: %v", runErr)
		event.IsRunning = false
		a.broadcaster.Publish(event)
		return
	}
	a.logger.Info(ctx, "Collection finished, %d repos collected", collected)
}
