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

type RepoLanguage struct {
	Model
	Date       string    `json:"date" gorm:"column:date;type:varchar(10);primaryKey"`
	RepoID     int64     `json:"repo_id" gorm:"column:repo_id;primaryKey;autoIncrement:false"`
	Language   string    `json:"language" gorm:"column:language;type:varchar(100);primaryKey"`
	Percentage float64   `json:"percentage" gorm:"column:percentage;not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func NewRepoLanguage(config *cfg.Config, logger log.Logger, database db.Database) (*RepoLanguage, error) {
	return &RepoLanguage{
		Model: Model{
			Config:   config,
			Logger:   logger,
			Database: database,
		},
	}, nil
}

func (l *RepoLanguage) TableName() string {
	return "repo_languages"
}

func (l *RepoLanguage) Upsert(ctx context.Context, date string, repoID int64, language string, percentage float64) error {
	gdb, err := l.Database.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	row := &RepoLanguage{
		Date:       date,
		RepoID:     repoID,
		Language:   TruncateString(language, 100),
		Percentage: percentage,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "repo_id"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{"percentage", "updated_at"}),
	}).Create(row).Error; err != nil {
		return fmt.Errorf("failed to upsert language %s for repo %d: %w", language, repoID, err)
	}
	return nil
}

// ListByDate gom ngôn ngữ theo repo_id, mỗi nhóm sắp xếp theo phần trăm giảm dần
func (l *RepoLanguage) ListByDate(ctx context.Context, date string) (map[int64][]LanguageShare, error) {
	gdb, err := l.Database.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var rows []RepoLanguage
	if err := gdb.WithContext(ctx).
		Where("date = ?", date).
		Order("repo_id ASC").
		Order("percentage DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch repo languages: %w", err)
	}

	grouped := make(map[int64][]LanguageShare)
	for _, row := range rows {
		grouped[row.RepoID] = append(grouped[row.RepoID], LanguageShare{
			Language:   row.Language,
			Percentage: row.Percentage,
		})
	}
	return grouped, nil
}
