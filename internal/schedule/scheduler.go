// Package schedule kích hoạt lượt thu thập hằng ngày theo biểu thức cron (UTC)
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/thep200/daily-git-brief/api"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// DefaultSpec chạy lúc 00:00:00 UTC mỗi ngày
const DefaultSpec = "0 0 0 * * *"

var parser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Trigger là cùng guard mà HTTP endpoint dùng
type Trigger interface {
	StartCollection(ctx context.Context) error
}

type Scheduler struct {
	Logger   log.Logger
	spec     string
	schedule cron.Schedule
	cron     *cron.Cron
	trigger  Trigger
}

func NewScheduler(logger log.Logger, config *cfg.Config, trigger Trigger) (*Scheduler, error) {
	spec := config.Schedule.Cron
	if spec == "" {
		spec = DefaultSpec
	}

	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s := &Scheduler{
		Logger:   logger,
		spec:     spec,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		trigger:  trigger,
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.fire))
	return s, nil
}

func (s *Scheduler) Start() {
	s.Logger.Info(context.Background(), "Scheduler started (%s UTC), next run at %s",
		s.spec, s.Next(time.Now()).Format(time.RFC3339))
	s.cron.Start()
}

// Stop dừng lịch và chờ job đang chạy trả về; lượt thu thập đã khởi động vẫn tiếp tục
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next trả về thời điểm kích hoạt kế tiếp sau after
func (s *Scheduler) Next(after time.Time) time.Time {
	return s.schedule.Next(after.UTC())
}

func (s *Scheduler) fire() {
	ctx := context.Background()
	s.Logger.Info(ctx, "Running scheduled data collection")

	err := s.trigger.StartCollection(ctx)
	switch {
	case errors.Is(err, api.ErrCollectionInProgress):
		s.Logger.Warn(ctx, "Scheduled collection skipped: %v", err)
	case err != nil:
		s.Logger.Error(ctx, "Scheduled collection failed to start: %v", err)
	}
}
