package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/daily-git-brief/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, model.ProgressEvent{IsRunning: true, Message: "Processed acme/one", CurrentCount: 1, TotalCount: 3})
	printEvent(&buf, model.ProgressEvent{Message: "Collection complete. Collected 3 repos.", CurrentCount: 3, TotalCount: 3})

	assert.Equal(t, "[1/3] Processed acme/one\n[3/3] Collection complete. Collected 3 repos.\n", buf.String())
}

func TestRenderRepos(t *testing.T) {
	var buf bytes.Buffer
	repos := []model.RankedRepo{
		{Rank: 1, RepoName: "acme/widget", PrimaryLanguage: model.StringPtr("Go"), Stars: model.IntPtr(120), TotalScore: model.Float64Ptr(88.4), Summary: model.StringPtr("위젯 라이브러리")},
		{Rank: 2, RepoName: "acme/gadget"},
	}
	require.NoError(t, renderRepos(&buf, "2026-10-15", repos))

	out := buf.String()
	assert.Contains(t, out, "acme/widget")
	assert.Contains(t, out, "acme/gadget")
	assert.Contains(t, out, "88.4")
	assert.Contains(t, out, "위젯 라이브러리")
}

func TestRenderRepos_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderRepos(&buf, "2026-10-15", nil))
	assert.Equal(t, "No trending repos collected for 2026-10-15\n", buf.String())
}

func TestRenderLanguages(t *testing.T) {
	var buf bytes.Buffer
	trends := []model.LanguageTrend{
		{Language: "Go", NormalizedPercentage: 61.5, RepoCount: 4},
		{Language: "Rust", NormalizedPercentage: 38.5, RepoCount: 2},
	}
	require.NoError(t, renderLanguages(&buf, "2026-10-15", true, trends))

	out := buf.String()
	assert.Contains(t, out, "61.50")
	assert.Contains(t, out, "Rust")
	assert.Contains(t, strings.ToUpper(out), "7D")
}

func TestResolveDate(t *testing.T) {
	date, err := resolveDate("2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", date)

	_, err = resolveDate("yesterday")
	assert.Error(t, err)

	date, err = resolveDate("")
	require.NoError(t, err)
	assert.Len(t, date, len(model.DateLayout))
}
