package api

import (
	"context"
	"fmt"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/collector"
	githubapi "github.com/thep200/daily-git-brief/internal/github_api"
	"github.com/thep200/daily-git-brief/internal/llm"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/internal/ossinsight"
	"github.com/thep200/daily-git-brief/internal/progress"
	"github.com/thep200/daily-git-brief/pkg/db"
	"github.com/thep200/daily-git-brief/pkg/kafka"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// App gom mọi thành phần đã được khởi tạo từ cấu hình
type App struct {
	Config       *cfg.Config
	Logger       log.Logger
	Database     db.Database
	Store        *model.Store
	Collector    *collector.Collector
	CollectorAPI *CollectorAPI

	producer      *kafka.Producer
	stopForwarder context.CancelFunc
	forwarderDone chan struct{}
}

// Initialize kết nối database, migrate bảng và dựng collector cùng các client bên ngoài.
// Kafka là tùy chọn: lỗi khi tạo producer chỉ được log.
func Initialize(ctx context.Context, config *cfg.Config, logger log.Logger) (*App, error) {
	database, err := db.New(config)
	if err != nil {
		logger.Error(ctx, "Failed to create database: %v", err)
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	store, err := model.NewStore(config, logger, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	if err := store.Migrate(); err != nil {
		logger.Error(ctx, "Failed to migrate database: %v", err)
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	c, err := collector.NewCollector(
		logger,
		config,
		ossinsight.NewClient(logger, config),
		githubapi.NewCaller(logger, config),
		llm.NewClient(logger, config),
		store,
	)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create collector: %w", err)
	}

	broadcaster := progress.NewBroadcaster(progress.DefaultBuffer)
	app := &App{
		Config:       config,
		Logger:       logger,
		Database:     database,
		Store:        store,
		Collector:    c,
		CollectorAPI: NewCollectorAPI(logger, c, broadcaster),
	}

	if config.KafkaEnabled() {
		app.startKafkaForwarder(ctx, broadcaster)
	}

	return app, nil
}

func (a *App) startKafkaForwarder(ctx context.Context, broadcaster *progress.Broadcaster) {
	producer, err := kafka.NewProducer(a.Config, a.Logger, a.Config.Kafka.ProgressTopic)
	if err != nil {
		a.Logger.Warn(ctx, "Kafka progress forwarding disabled: %v", err)
		return
	}

	fwdCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		progress.ForwardToKafka(fwdCtx, broadcaster, producer, a.Logger)
	}()

	a.producer = producer
	a.stopForwarder = cancel
	a.forwarderDone = done
	a.Logger.Info(ctx, "Forwarding progress events to Kafka topic %s", a.Config.Kafka.ProgressTopic)
}

// DatabaseStatus kiểm tra trạng thái kết nối cơ sở dữ liệu
func (a *App) DatabaseStatus() (string, error) {
	if a.Database == nil {
		return "Database not initialized", nil
	}
	if err := a.Database.Ping(); err != nil {
		return "Database not connected: " + err.Error(), err
	}
	return "Database connected", nil
}

// Close đợi lượt chạy hiện tại rồi giải phóng Kafka và database
func (a *App) Close() error {
	a.CollectorAPI.Wait()

	if a.stopForwarder != nil {
		a.stopForwarder()
		<-a.forwarderDone
	}
	a.CollectorAPI.Broadcaster().Close()

	var firstErr error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.Database.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
