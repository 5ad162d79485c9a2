package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/daily-git-brief/internal/model"
)

func TestNormalize_TwoRepos(t *testing.T) {
	acc := NewAccumulator()
	acc.Add([]model.LanguageShare{{Language: "A", Percentage: 40}, {Language: "B", Percentage: 60}})
	acc.Add([]model.LanguageShare{{Language: "A", Percentage: 20}, {Language: "B", Percentage: 80}})

	trends := Normalize(acc, "2026-10-15")
	require.Len(t, trends, 2)

	assert.Equal(t, "B", trends[0].Language)
	assert.InDelta(t, 70, trends[0].NormalizedPercentage, 1e-9)
	assert.Equal(t, 2, trends[0].RepoCount)

	assert.Equal(t, "A", trends[1].Language)
	assert.InDelta(t, 30, trends[1].NormalizedPercentage, 1e-9)
	assert.Equal(t, 2, trends[1].RepoCount)
	assert.Equal(t, "2026-10-15", trends[1].Date)
}

func TestNormalize_SumsToHundred(t *testing.T) {
	acc := NewAccumulator()
	acc.Add([]model.LanguageShare{{Language: "Go", Percentage: 91.3}, {Language: "Shell", Percentage: 8.7}})
	acc.Add([]model.LanguageShare{{Language: "Python", Percentage: 55}, {Language: "C", Percentage: 25}})
	acc.Add([]model.LanguageShare{{Language: "Go", Percentage: 100}})

	var sum float64
	for _, trend := range Normalize(acc, "2026-10-15") {
		sum += trend.NormalizedPercentage
	}
	assert.InDelta(t, 100, sum, 1e-9)
}

func TestNormalize_ZeroMass(t *testing.T) {
	acc := NewAccumulator()
	assert.Nil(t, Normalize(acc, "2026-10-15"))

	acc.Add(nil)
	acc.Add([]model.LanguageShare{})
	assert.Nil(t, Normalize(acc, "2026-10-15"))
	assert.Zero(t, acc.TotalMass())
}

func TestAccumulator_Merge(t *testing.T) {
	left := NewAccumulator()
	left.Add([]model.LanguageShare{{Language: "A", Percentage: 40}, {Language: "B", Percentage: 60}})
	right := NewAccumulator()
	right.Add([]model.LanguageShare{{Language: "A", Percentage: 20}, {Language: "C", Percentage: 80}})

	left.Merge(right)
	assert.Equal(t, 3, left.Len())
	assert.InDelta(t, 200, left.TotalMass(), 1e-9)

	trends := Normalize(left, "d")
	byLanguage := map[string]model.LanguageTrend{}
	for _, trend := range trends {
		byLanguage[trend.Language] = trend
	}
	assert.Equal(t, 2, byLanguage["A"].RepoCount)
	assert.InDelta(t, 30, byLanguage["A"].NormalizedPercentage, 1e-9)
	assert.Equal(t, 1, byLanguage["C"].RepoCount)
}
