package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/daily-git-brief/internal/model"
)

var (
	queryDate    string
	weeklyWindow bool
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show the ranked trending repositories of a day.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		date, err := resolveDate(queryDate)
		if err != nil {
			return err
		}

		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		repos, err := store.RankedRepos(cmd.Context(), date)
		if err != nil {
			return err
		}
		return renderRepos(os.Stdout, date, repos)
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Show normalized language trends for a day or the week ending on it.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		date, err := resolveDate(queryDate)
		if err != nil {
			return err
		}

		store, closeFn, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		var trends []model.LanguageTrend
		if weeklyWindow {
			trends, err = store.WeeklyLanguageTrends(cmd.Context(), date)
		} else {
			trends, err = store.DailyLanguageTrends(cmd.Context(), date)
		}
		if err != nil {
			return err
		}
		return renderLanguages(os.Stdout, date, weeklyWindow, trends)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{trendsCmd, languagesCmd} {
		cmd.Flags().StringVar(&queryDate, "date", "", "day to query as YYYY-MM-DD (default today, UTC)")
	}
	languagesCmd.Flags().BoolVar(&weeklyWindow, "weekly", false, "aggregate the 7 days ending on --date")
}

func resolveDate(date string) (string, error) {
	if date == "" {
		return time.Now().UTC().Format(model.DateLayout), nil
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", err
	}
	return date, nil
}
