package server

import (
	"net/http"
	"time"

	"github.com/thep200/daily-git-brief/internal/model"
)

// dateParam đọc ?date=YYYY-MM-DD, mặc định là hôm nay theo UTC
func (h *Handler) dateParam(r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return h.now().UTC().Format(model.DateLayout), true
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

type trendsPayload struct {
	Date  string             `json:"date"`
	Repos []model.RankedRepo `json:"repos"`
}

func (h *Handler) getTrends(w http.ResponseWriter, r *http.Request) {
	date, valid := h.dateParam(r)
	if !valid {
		h.fail(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	repos, err := h.store.RankedRepos(r.Context(), date)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch trends for %s: %v", date, err)
		h.fail(w, r, http.StatusInternalServerError, "Failed to fetch trends")
		return
	}
	if repos == nil {
		repos = []model.RankedRepo{}
	}
	h.ok(w, r, http.StatusOK, trendsPayload{Date: date, Repos: repos})
}

type languagesPayload struct {
	Date      string                `json:"date"`
	Languages []model.LanguageTrend `json:"languages"`
}

func (h *Handler) getDailyLanguages(w http.ResponseWriter, r *http.Request) {
	date, valid := h.dateParam(r)
	if !valid {
		h.fail(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	trends, err := h.store.DailyLanguageTrends(r.Context(), date)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch daily languages for %s: %v", date, err)
		h.fail(w, r, http.StatusInternalServerError, "Failed to fetch language trends")
		return
	}
	if trends == nil {
		trends = []model.LanguageTrend{}
	}
	h.ok(w, r, http.StatusOK, languagesPayload{Date: date, Languages: trends})
}

func (h *Handler) getWeeklyLanguages(w http.ResponseWriter, r *http.Request) {
	date, valid := h.dateParam(r)
	if !valid {
		h.fail(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	trends, err := h.store.WeeklyLanguageTrends(r.Context(), date)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch weekly languages ending %s: %v", date, err)
		h.fail(w, r, http.StatusInternalServerError, "Failed to fetch language trends")
		return
	}
	if trends == nil {
		trends = []model.LanguageTrend{}
	}
	h.ok(w, r, http.StatusOK, languagesPayload{Date: date, Languages: trends})
}
