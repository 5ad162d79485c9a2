// Gói ossinsight lấy danh sách repository đang trending từ OSS Insight

package ossinsight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/pkg/log"
)

type Client struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewClient(logger log.Logger, config *cfg.Config) *Client {
	timeout := time.Duration(config.Collector.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchTrending(ctx context.Context) ([]model.Candidate, error) {
	url := strings.TrimRight(c.Config.OssInsight.BaseUrl, "/") + "/v1/trends/repos/"
	c.Logger.Info(ctx, "Fetching trending repos from OSS Insight: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot received response: %v", resp.Status)
	}

	payload := &Response{}
	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return nil, fmt.Errorf("cannot decode trending response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(payload.Data.Rows))
	for _, row := range payload.Data.Rows {
		candidate, err := row.Candidate()
		if err != nil {
			c.Logger.Warn(ctx, "Skipping trending row %q: %v", row.RepoName, err)
			continue
		}
		candidates = append(candidates, candidate)
	}

	c.Logger.Info(ctx, "Fetched %d trending repos", len(candidates))
	return candidates, nil
}

// Candidate chuyển row dạng chuỗi sang kiểu có type; số không hợp lệ thành nil
func (r Row) Candidate() (model.Candidate, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.RepoID), 10, 64)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("invalid repo_id %q", r.RepoID)
	}
	if strings.TrimSpace(r.RepoName) == "" {
		return model.Candidate{}, fmt.Errorf("empty repo_name for id %d", id)
	}

	return model.Candidate{
		ID:                id,
		Name:              r.RepoName,
		PrimaryLanguage:   nonEmpty(r.PrimaryLanguage),
		Description:       nonEmpty(r.Description),
		Stars:             parseInt(r.Stars),
		Forks:             parseInt(r.Forks),
		PullRequests:      parseInt(r.PullRequests),
		Pushes:            parseInt(r.Pushes),
		TotalScore:        parseFloat(r.TotalScore),
		ContributorLogins: nonEmpty(r.ContributorLogins),
		CollectionNames:   nonEmpty(r.CollectionNames),
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func parseInt(s *string) *int {
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &v
}

func parseFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil
	}
	return &v
}
