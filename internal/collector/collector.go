// Package collector chạy một lượt thu thập trending repos trong ngày:
// lấy danh sách ứng viên, bỏ qua repo đã có summary, làm giàu từng repo,
// rồi tính xu hướng ngôn ngữ đã chuẩn hóa.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/internal/progress"
	"github.com/thep200/daily-git-brief/pkg/log"
)

const DefaultDelay = 100 * time.Millisecond

type TrendSource interface {
	FetchTrending(ctx context.Context) ([]model.Candidate, error)
}

type CodeHost interface {
	FetchReadme(ctx context.Context, repoName string) (string, bool, error)
	FetchLanguages(ctx context.Context, repoName string, threshold float64) ([]model.LanguageShare, error)
}

// Summarizer trả về false thay cho lỗi
type Summarizer interface {
	Summarize(ctx context.Context, document, repoName string) (string, bool)
}

type Store interface {
	ExistingSummarizedIDs(ctx context.Context, date string) (map[int64]struct{}, error)
	UpsertRepoRecord(ctx context.Context, record *model.TrendingRepo) error
	UpsertLanguageRow(ctx context.Context, date string, repoID int64, language string, percentage float64) error
	UpsertLanguageTrend(ctx context.Context, date, language string, normalized float64, repoCount int) error
}

type Collector struct {
	Logger     log.Logger
	trends     TrendSource
	codeHost   CodeHost
	summarizer Summarizer
	store      Store
	threshold  float64
	delay      time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)
}

type Option func(*Collector)

// WithClock thay đồng hồ dùng để tính ngày của lượt chạy
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

func WithDelay(delay time.Duration) Option {
	return func(c *Collector) {
		c.delay = delay
	}
}

func WithSleep(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(c *Collector) {
		c.sleep = sleep
	}
}

func NewCollector(
	logger log.Logger,
	config *cfg.Config,
	trends TrendSource,
	codeHost CodeHost,
	summarizer Summarizer,
	store Store,
	opts ...Option,
) (*Collector, error) {
	if trends == nil || codeHost == nil || summarizer == nil || store == nil {
		return nil, fmt.Errorf("collector requires trend source, code host, summarizer and store")
	}

	c := &Collector{
		Logger:     logger,
		trends:     trends,
		codeHost:   codeHost,
		summarizer: summarizer,
		store:      store,
		threshold:  config.Collector.LanguageThreshold,
		delay:      time.Duration(config.Collector.Delay) * time.Millisecond,
		now:        time.Now,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run thực hiện một lượt thu thập và trả về số repo đã ghi thành công.
// Chỉ lỗi khi lấy danh sách ứng viên mới được trả về; mọi lỗi khác chỉ được log.
func (c *Collector) Run(ctx context.Context, sink progress.Sink) (int, error) {
	if sink == nil {
		sink = progress.Func(func(model.ProgressEvent) {})
	}

	today := c.now().UTC().Format(model.DateLayout)
	c.Logger.Info(ctx, "Starting data collection for %s", today)

	candidates, err := c.trends.FetchTrending(ctx)
	if err != nil {
		c.Logger.Error(ctx, "Failed to fetch trending repos: %v", err)
		return 0, fmt.Errorf("failed to fetch trending repos: %w", err)
	}
	total := len(candidates)
	c.Logger.Info(ctx, "Fetched %d trending repos", total)
	c.emit(ctx, sink, true, fmt.Sprintf("Fetched %d trending repos", total), 0, total)

	skip, err := c.store.ExistingSummarizedIDs(ctx, today)
	if err != nil {
		c.Logger.Warn(ctx, "Failed to load summarized repos for %s, processing all: %v", today, err)
		skip = map[int64]struct{}{}
	}
	if len(skip) > 0 {
		c.Logger.Info(ctx, "%d repos already have summaries for %s", len(skip), today)
	}

	acc := NewAccumulator()
	collected := 0
	for i, candidate := range candidates {
		if ctx.Err() != nil {
			c.Logger.Warn(ctx, "Collection interrupted after %d of %d repos: %v", i, total, ctx.Err())
			break
		}

		if _, done := skip[candidate.ID]; done {
			c.Logger.Debug(ctx, "Skipping %s (already summarized)", candidate.Name)
			c.emit(ctx, sink, true, fmt.Sprintf("Skipped %s (already summarized)", candidate.Name), i+1, total)
			continue
		}

		shares, saved := c.processCandidate(ctx, today, candidate)
		acc.Add(shares)
		if saved {
			collected++
		}

		c.sleep(ctx, c.delay)
		c.emit(ctx, sink, true, fmt.Sprintf("Processed %s", candidate.Name), i+1, total)
	}

	c.saveLanguageTrends(ctx, Normalize(acc, today))

	c.Logger.Info(ctx, "Collection complete for %s. Collected %d repos", today, collected)
	c.emit(ctx, sink, false, fmt.Sprintf("Collection complete. Collected %d repos.", collected), total, total)
	return collected, nil
}

// processCandidate làm giàu và lưu một repo. Lỗi của từng bước chỉ làm repo này
// thiếu dữ liệu, không ảnh hưởng các repo còn lại.
func (c *Collector) processCandidate(ctx context.Context, date string, candidate model.Candidate) (shares []model.LanguageShare, saved bool) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error(ctx, "Recovered while processing %s: %v", candidate.Name, r)
			saved = false
		}
	}()

	summary := c.summarize(ctx, candidate.Name)

	shares, err := c.codeHost.FetchLanguages(ctx, candidate.Name, c.threshold)
	if err != nil {
		c.Logger.Warn(ctx, "Failed to fetch languages for %s: %v", candidate.Name, err)
		shares = nil
	}

	for _, share := range shares {
		if err := c.store.UpsertLanguageRow(ctx, date, candidate.ID, share.Language, share.Percentage); err != nil {
			c.Logger.Warn(ctx, "Failed to save language %s for %s: %v", share.Language, candidate.Name, err)
		}
	}

	if err := c.store.UpsertRepoRecord(ctx, buildRecord(date, candidate, summary)); err != nil {
		c.Logger.Warn(ctx, "Failed to save repo %s: %v", candidate.Name, err)
		return shares, false
	}
	return shares, true
}

func (c *Collector) summarize(ctx context.Context, repoName string) *string {
	readme, found, err := c.codeHost.FetchReadme(ctx, repoName)
	if err != nil {
		c.Logger.Warn(ctx, "Failed to fetch README for %s: %v", repoName, err)
		return nil
	}
	if !found {
		c.Logger.Debug(ctx, "No README for %s", repoName)
		return nil
	}

	summary, ok := c.summarizer.Summarize(ctx, readme, repoName)
	if !ok {
		return nil
	}
	return &summary
}

func (c *Collector) saveLanguageTrends(ctx context.Context, trends []model.LanguageTrend) {
	if len(trends) == 0 {
		c.Logger.Info(ctx, "No language data collected, skipping language trends")
		return
	}

	saved := 0
	for _, trend := range trends {
		if err := c.store.UpsertLanguageTrend(ctx, trend.Date, trend.Language, trend.NormalizedPercentage, trend.RepoCount); err != nil {
			c.Logger.Warn(ctx, "Failed to save language trend %s: %v", trend.Language, err)
			continue
		}
		saved++
	}
	c.Logger.Info(ctx, "Saved %d language trends", saved)
}

// emit không bao giờ để lỗi của observer lan sang lượt chạy
func (c *Collector) emit(ctx context.Context, sink progress.Sink, running bool, message string, current, total int) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Warn(ctx, "Progress sink panicked: %v", r)
		}
	}()
	sink.Publish(model.ProgressEvent{
		IsRunning:    running,
		Message:      message,
		CurrentCount: current,
		TotalCount:   total,
	})
}

func buildRecord(date string, candidate model.Candidate, summary *string) *model.TrendingRepo {
	return &model.TrendingRepo{
		Date:              date,
		RepoID:            candidate.ID,
		RepoName:          candidate.Name,
		PrimaryLanguage:   candidate.PrimaryLanguage,
		Description:       candidate.Description,
		Summary:           summary,
		Stars:             candidate.Stars,
		Forks:             candidate.Forks,
		PullRequests:      candidate.PullRequests,
		Pushes:            candidate.Pushes,
		TotalScore:        candidate.TotalScore,
		ContributorLogins: candidate.ContributorLogins,
		CollectionNames:   candidate.CollectionNames,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
