package api

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/internal/progress"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// blockingRunner chạy tới khi release bị đóng
type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	calls   int
	ctxErr  error
	mu      sync.Mutex
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (r *blockingRunner) Run(ctx context.Context, sink progress.Sink) (int, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	sink.Publish(model.ProgressEvent{IsRunning: true, Message: "Fetched 2 trending repos", TotalCount: 2})
	r.started <- struct{}{}
	<-r.release

	r.mu.Lock()
	r.ctxErr = ctx.Err()
	r.mu.Unlock()

	sink.Publish(model.ProgressEvent{Message: "Collection complete. Collected 2 repos.", CurrentCount: 2, TotalCount: 2})
	return 2, nil
}

type funcRunner func(ctx context.Context, sink progress.Sink) (int, error)

func (f funcRunner) Run(ctx context.Context, sink progress.Sink) (int, error) {
	return f(ctx, sink)
}

func testLogger(t *testing.T) log.Logger {
	t.Helper()
	logger, err := log.NewCslLogger(log.WithWriter(io.Discard))
	require.NoError(t, err)
	return logger
}

func TestStartCollection_RejectsConcurrentRuns(t *testing.T) {
	runner := newBlockingRunner()
	collectorAPI := NewCollectorAPI(testLogger(t), runner, nil)

	require.NoError(t, collectorAPI.StartCollection(context.Background()))
	<-runner.started

	err := collectorAPI.StartCollection(context.Background())
	assert.ErrorIs(t, err, ErrCollectionInProgress)
	assert.True(t, collectorAPI.IsRunning())

	close(runner.release)
	collectorAPI.Wait()

	assert.False(t, collectorAPI.IsRunning())
	assert.Equal(t, 1, runner.calls)
}

func TestStartCollection_ParallelTriggersStartOneRun(t *testing.T) {
	runner := newBlockingRunner()
	collectorAPI := NewCollectorAPI(testLogger(t), runner, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := collectorAPI.StartCollection(context.Background())
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, ErrCollectionInProgress) {
				rejected++
			} else if err == nil {
				accepted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 19, rejected)

	close(runner.release)
	collectorAPI.Wait()
	assert.Equal(t, 1, runner.calls)
}

func TestStartCollection_GuardReleasedAfterRun(t *testing.T) {
	runner := funcRunner(func(ctx context.Context, sink progress.Sink) (int, error) { return 1, nil })
	collectorAPI := NewCollectorAPI(testLogger(t), runner, nil)

	require.NoError(t, collectorAPI.StartCollection(context.Background()))
	collectorAPI.Wait()
	require.NoError(t, collectorAPI.StartCollection(context.Background()))
	collectorAPI.Wait()

	assert.Equal(t, 1, collectorAPI.Status().Collected)
}

func TestStartCollection_DetachedFromCallerContext(t *testing.T) {
	runner := newBlockingRunner()
	collectorAPI := NewCollectorAPI(testLogger(t), runner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, collectorAPI.StartCollection(ctx))
	<-runner.started
	cancel()

	close(runner.release)
	collectorAPI.Wait()
	assert.NoError(t, runner.ctxErr)
}

func TestStartCollection_PanicReleasesGuard(t *testing.T) {
	runner := funcRunner(func(ctx context.Context, sink progress.Sink) (int, error) { panic("kaboom") })
	collectorAPI := NewCollectorAPI(testLogger(t), runner, nil)

	require.NoError(t, collectorAPI.StartCollection(context.Background()))
	collectorAPI.Wait()

	status := collectorAPI.Status()
	assert.False(t, status.IsRunning)
	assert.Contains(t, status.LastError, "kaboom")
	assert.NoError(t, collectorAPI.StartCollection(context.Background()))
	collectorAPI.Wait()
}

func TestStartCollection_FailurePublishesTerminalEvent(t *testing.T) {
	runner := funcRunner(func(ctx context.Context, sink progress.Sink) (int, error) {
		return 0, errors.New("trend source unavailable")
	})
	broadcaster := progress.NewBroadcaster(8)
	sub := broadcaster.Subscribe()
	defer sub.Close()
	collectorAPI := NewCollectorAPI(testLogger(t), runner, broadcaster)

	require.NoError(t, collectorAPI.StartCollection(context.Background()))
	collectorAPI.Wait()

	select {
	case event := <-sub.C:
		assert.False(t, event.IsRunning)
		assert.Contains(t, event.Message, "trend source unavailable")
	case <-time.After(time.Second):
		t.Fatal("expected a failure event")
	}

	status := collectorAPI.Status()
	assert.Equal(t, "trend source unavailable", status.LastError)
	require.NotNil(t, status.FinishedAt)
}

func TestStatus_TracksProgress(t *testing.T) {
	runner := newBlockingRunner()
	broadcaster := progress.NewBroadcaster(8)
	sub := broadcaster.Subscribe()
	defer sub.Close()
	collectorAPI := NewCollectorAPI(testLogger(t), runner, broadcaster)

	assert.Equal(t, "Idle", collectorAPI.Status().Message)

	require.NoError(t, collectorAPI.StartCollection(context.Background()))
	<-runner.started

	status := collectorAPI.Status()
	assert.True(t, status.IsRunning)
	assert.Equal(t, 2, status.TotalCount)
	require.NotNil(t, status.StartedAt)

	close(runner.release)
	collectorAPI.Wait()

	status = collectorAPI.Status()
	assert.False(t, status.IsRunning)
	assert.Equal(t, "Collection complete. Collected 2 repos.", status.Message)
	assert.Equal(t, 2, status.CurrentCount)
	assert.Equal(t, 2, status.Collected)
	assert.Empty(t, status.LastError)

	first := <-sub.C
	assert.True(t, first.IsRunning)
	last := <-sub.C
	assert.False(t, last.IsRunning)
}

func TestWait_NoRun(t *testing.T) {
	collectorAPI := NewCollectorAPI(testLogger(t), newBlockingRunner(), nil)
	collectorAPI.Wait()
	assert.False(t, collectorAPI.IsRunning())
}

func TestInitialize_WithSqlite(t *testing.T) {
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)

	app, err := Initialize(context.Background(), config, testLogger(t))
	require.NoError(t, err)

	status, err := app.DatabaseStatus()
	require.NoError(t, err)
	assert.Equal(t, "Database connected", status)
	assert.NotNil(t, app.Collector)
	assert.False(t, app.CollectorAPI.IsRunning())

	require.NoError(t, app.Close())
}

func TestInitialize_UnknownDriver(t *testing.T) {
	loader, err := cfg.NewMockLoader(func(c *cfg.Config) { c.Database.Driver = "oracle" })
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)

	_, err = Initialize(context.Background(), config, testLogger(t))
	assert.Error(t, err)
}
