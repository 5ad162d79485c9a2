package model

import (
	"context"
	"fmt"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/db"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// Store gom ba bảng lại sau một kiểu duy nhất cho collector và HTTP API
type Store struct {
	Logger     log.Logger
	Database   db.Database
	RepoMd     *TrendingRepo
	LanguageMd *RepoLanguage
	TrendMd    *LanguageTrend
}

func NewStore(config *cfg.Config, logger log.Logger, database db.Database) (*Store, error) {
	repoMd, err := NewTrendingRepo(config, logger, database)
	if err != nil {
		return nil, fmt.Errorf("failed to create trending repo model: %w", err)
	}

	languageMd, err := NewRepoLanguage(config, logger, database)
	if err != nil {
		return nil, fmt.Errorf("failed to create repo language model: %w", err)
	}

	trendMd, err := NewLanguageTrend(config, logger, database)
	if err != nil {
		return nil, fmt.Errorf("failed to create language trend model: %w", err)
	}

	return &Store{
		Logger:     logger,
		Database:   database,
		RepoMd:     repoMd,
		LanguageMd: languageMd,
		TrendMd:    trendMd,
	}, nil
}

func (s *Store) Migrate() error {
	return s.Database.Migrate(&TrendingRepo{}, &RepoLanguage{}, &LanguageTrend{})
}

func (s *Store) ExistingSummarizedIDs(ctx context.Context, date string) (map[int64]struct{}, error) {
	return s.RepoMd.SummarizedIDs(ctx, date)
}

func (s *Store) UpsertRepoRecord(ctx context.Context, record *TrendingRepo) error {
	return s.RepoMd.Upsert(ctx, record)
}

func (s *Store) UpsertLanguageRow(ctx context.Context, date string, repoID int64, language string, percentage float64) error {
	return s.LanguageMd.Upsert(ctx, date, repoID, language, percentage)
}

func (s *Store) UpsertLanguageTrend(ctx context.Context, date, language string, normalized float64, repoCount int) error {
	return s.TrendMd.Upsert(ctx, date, language, normalized, repoCount)
}

// RankedRepo là một dòng của bảng xếp hạng trong ngày
type RankedRepo struct {
	Rank            int             `json:"rank"`
	RepoID          int64           `json:"repo_id"`
	RepoName        string          `json:"repo_name"`
	GithubURL       string          `json:"github_url"`
	PrimaryLanguage *string         `json:"primary_language"`
	Languages       []LanguageShare `json:"languages"`
	Description     *string         `json:"description"`
	Summary         *string         `json:"summary"`
	Stars           *int            `json:"stars"`
	Forks           *int            `json:"forks"`
	TotalScore      *float64        `json:"total_score"`
}

func (s *Store) RankedRepos(ctx context.Context, date string) ([]RankedRepo, error) {
	repos, err := s.RepoMd.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	languages, err := s.LanguageMd.ListByDate(ctx, date)
	if err != nil {
		// Vẫn trả về danh sách repo, chỉ thiếu phần ngôn ngữ
		s.Logger.Warn(ctx, "Failed to load languages for %s: %v", date, err)
		languages = map[int64][]LanguageShare{}
	}

	ranked := make([]RankedRepo, 0, len(repos))
	for i, repo := range repos {
		langs := languages[repo.RepoID]
		if langs == nil {
			langs = []LanguageShare{}
		}
		ranked = append(ranked, RankedRepo{
			Rank:            i + 1,
			RepoID:          repo.RepoID,
			RepoName:        repo.RepoName,
			GithubURL:       "https://github.com/" + repo.RepoName,
			PrimaryLanguage: repo.PrimaryLanguage,
			Languages:       langs,
			Description:     repo.Description,
			Summary:         repo.Summary,
			Stars:           repo.Stars,
			Forks:           repo.Forks,
			TotalScore:      repo.TotalScore,
		})
	}
	return ranked, nil
}

func (s *Store) DailyLanguageTrends(ctx context.Context, date string) ([]LanguageTrend, error) {
	return s.TrendMd.ListDaily(ctx, date)
}

func (s *Store) WeeklyLanguageTrends(ctx context.Context, endDate string) ([]LanguageTrend, error) {
	return s.TrendMd.ListWeekly(ctx, endDate)
}
