package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/thep200/daily-git-brief/internal/model"
)

const maxSummaryWidth = 60

var (
	runningColor = color.New(color.FgCyan)
	doneColor    = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

func printEvent(w io.Writer, event model.ProgressEvent) {
	counter := dimColor.Sprintf("[%d/%d]", event.CurrentCount, event.TotalCount)
	switch {
	case event.IsRunning:
		fmt.Fprintf(w, "%s %s\n", counter, runningColor.Sprint(event.Message))
	case strings.HasPrefix(event.Message, "Collection failed"):
		fmt.Fprintf(w, "%s %s\n", counter, errorColor.Sprint(event.Message))
	default:
		fmt.Fprintf(w, "%s %s\n", counter, doneColor.Sprint(event.Message))
	}
}

func renderRepos(w io.Writer, date string, repos []model.RankedRepo) error {
	if len(repos) == 0 {
		_, err := fmt.Fprintf(w, "No trending repos collected for %s\n", date)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Repo", "Language", "Stars", "Score", "Summary"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, repo := range repos {
		data = append(data, []string{
			strconv.Itoa(repo.Rank),
			repo.RepoName,
			deref(repo.PrimaryLanguage),
			intOrDash(repo.Stars),
			floatOrDash(repo.TotalScore),
			model.TruncateString(deref(repo.Summary), maxSummaryWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func renderLanguages(w io.Writer, date string, weekly bool, trends []model.LanguageTrend) error {
	if len(trends) == 0 {
		_, err := fmt.Fprintf(w, "No language trends for %s\n", date)
		return err
	}

	share, repos := "Share %", "Repos"
	if weekly {
		share, repos = "Avg share %", "Repos (7d)"
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Language", share, repos})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, trend := range trends {
		data = append(data, []string{
			trend.Language,
			strconv.FormatFloat(trend.NormalizedPercentage, 'f', 2, 64),
			strconv.Itoa(trend.RepoCount),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func floatOrDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', 1, 64)
}
