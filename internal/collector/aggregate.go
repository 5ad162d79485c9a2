package collector

import (
	"sort"

	"github.com/thep200/daily-git-brief/internal/model"
)

type languageTotal struct {
	sum   float64
	repos int
}

// Accumulator cộng dồn phần trăm và số repo theo từng ngôn ngữ trong một lần chạy.
// Không an toàn cho nhiều goroutine; các lần chạy song song dùng Merge.
type Accumulator struct {
	totals map[string]*languageTotal
}

func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[string]*languageTotal)}
}

// Add gộp breakdown của một repo
func (a *Accumulator) Add(shares []model.LanguageShare) {
	for _, share := range shares {
		total, ok := a.totals[share.Language]
		if !ok {
			total = &languageTotal{}
			a.totals[share.Language] = total
		}
		total.sum += share.Percentage
		total.repos++
	}
}

func (a *Accumulator) Merge(other *Accumulator) {
	for language, src := range other.totals {
		total, ok := a.totals[language]
		if !ok {
			total = &languageTotal{}
			a.totals[language] = total
		}
		total.sum += src.sum
		total.repos += src.repos
	}
}

// TotalMass là tổng phần trăm của mọi ngôn ngữ trên mọi repo
func (a *Accumulator) TotalMass() float64 {
	var mass float64
	for _, total := range a.totals {
		mass += total.sum
	}
	return mass
}

func (a *Accumulator) Len() int {
	return len(a.totals)
}

// Normalize tính (sum / total_mass) * 100 cho từng ngôn ngữ, nên kết quả cộng lại bằng 100.
// Trả về nil khi total mass bằng 0.
func Normalize(acc *Accumulator, date string) []model.LanguageTrend {
	mass := acc.TotalMass()
	if mass <= 0 {
		return nil
	}

	trends := make([]model.LanguageTrend, 0, len(acc.totals))
	for language, total := range acc.totals {
		trends = append(trends, model.LanguageTrend{
			Date:                 date,
			Language:             language,
			NormalizedPercentage: total.sum / mass * 100,
			RepoCount:            total.repos,
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].NormalizedPercentage != trends[j].NormalizedPercentage {
			return trends[i].NormalizedPercentage > trends[j].NormalizedPercentage
		}
		return trends[i].Language < trends[j].Language
	})
	return trends
}
