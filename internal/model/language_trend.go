package model

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/db"
	"github.com/thep200/daily-git-brief/pkg/log"
	"gorm.io/gorm/clause"
)

// WeeklyWindowDays là số ngày lùi lại tính từ ngày kết thúc (bao gồm cả hai đầu)
const WeeklyWindowDays = 7

type LanguageTrend struct {
	Model
	Date                 string    `json:"date" gorm:"column:date;type:varchar(10);primaryKey"`
	Language             string    `json:"language" gorm:"column:language;type:varchar(100);primaryKey"`
	NormalizedPercentage float64   `json:"normalized_percentage" gorm:"column:normalized_percentage;not null"`
	RepoCount            int       `json:"repo_count" gorm:"column:repo_count;not null"`
	UpdatedAt            time.Time `json:"-" gorm:"column:updated_at"`
}

func NewLanguageTrend(config *cfg.Config, logger log.Logger, database db.Database) (*LanguageTrend, error) {
	return &LanguageTrend{
		Model: Model{
			Config:   config,
			Logger:   logger,
			Database: database,
		},
	}, nil
}

func (t *LanguageTrend) TableName() string {
	return "daily_language_trends"
}

func (t *LanguageTrend) Upsert(ctx context.Context, date, language string, normalized float64, repoCount int) error {
	gdb, err := t.Database.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	row := &LanguageTrend{
		Date:                 date,
		Language:             TruncateString(language, 100),
		NormalizedPercentage: normalized,
		RepoCount:            repoCount,
		UpdatedAt:            time.Now().UTC(),
	}
	if err := gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{"normalized_percentage", "repo_count", "updated_at"}),
	}).Create(row).Error; err != nil {
		return fmt.Errorf("failed to upsert language trend %s: %w", language, err)
	}
	return nil
}

func (t *LanguageTrend) ListDaily(ctx context.Context, date string) ([]LanguageTrend, error) {
	gdb, err := t.Database.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var trends []LanguageTrend
	if err := gdb.WithContext(ctx).
		Where("date = ?", date).
		Order("normalized_percentage DESC").
		Order("language ASC").
		Find(&trends).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch daily language trends: %w", err)
	}
	return trends, nil
}

type weeklyRow struct {
	Language             string
	NormalizedPercentage float64
	RepoCount            int
}

// ListWeekly lấy trung bình normalized_percentage và tổng repo_count
// trong khoảng [endDate - 7 ngày, endDate]
func (t *LanguageTrend) ListWeekly(ctx context.Context, endDate string) ([]LanguageTrend, error) {
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", endDate, err)
	}
	start := end.AddDate(0, 0, -WeeklyWindowDays).Format(DateLayout)

	gdb, err := t.Database.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var rows []weeklyRow
	if err := gdb.WithContext(ctx).Model(&LanguageTrend{}).
		Select("language, AVG(normalized_percentage) AS normalized_percentage, SUM(repo_count) AS repo_count").
		Where("date >= ? AND date <= ?", start, endDate).
		Group("language").
		Order("normalized_percentage DESC").
		Order("language ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch weekly language trends: %w", err)
	}

	trends := make([]LanguageTrend, 0, len(rows))
	for _, row := range rows {
		trends = append(trends, LanguageTrend{
			Date:                 endDate,
			Language:             row.Language,
			NormalizedPercentage: row.NormalizedPercentage,
			RepoCount:            row.RepoCount,
		})
	}
	return trends, nil
}
