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

type TrendingRepo struct {
	Model
	Date              string    `json:"date" gorm:"column:date;type:varchar(10);primaryKey"`
	RepoID            int64     `json:"repo_id" gorm:"column:repo_id;primaryKey;autoIncrement:false"`
	RepoName          string    `json:"repo_name" gorm:"column:repo_name;type:varchar(255);not null"`
	PrimaryLanguage   *string   `json:"primary_language" gorm:"column:primary_language;type:varchar(255)"`
	Description       *string   `json:"description" gorm:"column:description;type:text"`
	Summary           *string   `json:"summary" gorm:"column:summary;type:text"`
	Stars             *int      `json:"stars" gorm:"column:stars"`
	Forks             *int      `json:"forks" gorm:"column:forks"`
	PullRequests      *int      `json:"pull_requests" gorm:"column:pull_requests"`
	Pushes            *int      `json:"pushes" gorm:"column:pushes"`
	TotalScore        *float64  `json:"total_score" gorm:"column:total_score"`
	ContributorLogins *string   `json:"contributor_logins" gorm:"column:contributor_logins;type:text"`
	CollectionNames   *string   `json:"collection_names" gorm:"column:collection_names;type:text"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func NewTrendingRepo(config *cfg.Config, logger log.Logger, database db.Database) (*TrendingRepo, error) {
	return &TrendingRepo{
		Model: Model{
			Config:   config,
			Logger:   logger,
			Database: database,
		},
	}, nil
}

func (r *TrendingRepo) TableName() string {
	return "trending_repos"
}

// Upsert ghi đè mọi trường của bản ghi (date, repo_id) đã có
func (r *TrendingRepo) Upsert(ctx context.Context, record *TrendingRepo) error {
	gdb, err := r.Database.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	row := *record
	row.Model = Model{}
	row.RepoName = TruncateString(row.RepoName, 250)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	if err := gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "repo_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"repo_name", "primary_language", "description", "summary",
			"stars", "forks", "pull_requests", "pushes", "total_score",
			"contributor_logins", "collection_names", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert trending repo %s: %w", record.RepoName, err)
	}
	return nil
}

// SummarizedIDs trả về các repo_id của ngày date đã có summary
func (r *TrendingRepo) SummarizedIDs(ctx context.Context, date string) (map[int64]struct{}, error) {
	gdb, err := r.Database.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var ids []int64
	if err := gdb.WithContext(ctx).Model(&TrendingRepo{}).
		Where("date = ? AND summary IS NOT NULL", date).
		Pluck("repo_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load summarized repo ids: %w", err)
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// ListByDate sắp xếp theo total_score giảm dần
func (r *TrendingRepo) ListByDate(ctx context.Context, date string) ([]TrendingRepo, error) {
	gdb, err := r.Database.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var repos []TrendingRepo
	if err := gdb.WithContext(ctx).
		Where("date = ?", date).
		Order("total_score DESC").
		Order("repo_id ASC").
		Find(&repos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch trending repos: %w", err)
	}
	return repos, nil
}
