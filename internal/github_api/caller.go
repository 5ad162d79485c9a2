// Gói githubapi lấy README và thống kê ngôn ngữ của một repository từ GitHub.
// Mọi request đi qua rate limiter và mang access token nếu được cấu hình.

package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/limiter"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/pkg/log"
)

const userAgent = "Daily-Git-Brief"

var ErrRateLimited = errors.New("github api rate limit reached")

var readmeNames = []string{"README.md", "readme.md", "Readme.md"}

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	client      *http.Client
	rateLimiter *limiter.RateLimiter
}

func NewCaller(logger log.Logger, config *cfg.Config) *Caller {
	timeout := time.Duration(config.Collector.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Caller{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: timeout},
		rateLimiter: limiter.NewRateLimiter(
			config.GithubApi.RequestsPerSecond,
			time.Duration(config.GithubApi.ThrottleDelay)*time.Millisecond,
		),
	}
}

// HandleRateLimit xử lý rate limit dựa trên thông tin từ header API
func (c *Caller) HandleRateLimit(ctx context.Context, resp *http.Response) (bool, error) {
	rateRemaining := resp.Header.Get("X-RateLimit-Remaining")
	limited := (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests) && rateRemaining == "0"
	if !limited {
		return false, nil
	}

	resetTimeStr := resp.Header.Get("X-RateLimit-Reset")
	resetTimeInt, err := strconv.ParseInt(resetTimeStr, 10, 64)
	if err != nil {
		c.Logger.Warn(ctx, "Rate limit hit! Không xác định được thời gian reset")
		return true, ErrRateLimited
	}

	resetTime := time.Unix(resetTimeInt, 0)
	c.Logger.Warn(ctx, "Rate limit hit! GitHub API sẽ reset sau %v (%v)",
		time.Until(resetTime).Round(time.Second), resetTime.UTC().Format(time.RFC3339))
	return true, fmt.Errorf("%w, reset at %s", ErrRateLimited, resetTime.UTC().Format(time.RFC3339))
}

func (c *Caller) get(ctx context.Context, url string, withToken bool) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	if withToken {
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.Config.GithubApi.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.Config.GithubApi.AccessToken)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send request: %w", err)
	}

	if rateRemaining := resp.Header.Get("X-RateLimit-Remaining"); rateRemaining != "" {
		c.Logger.Debug(ctx, "Rate limit remaining: %s", rateRemaining)
	}

	if isRateLimited, rateLimitErr := c.HandleRateLimit(ctx, resp); isRateLimited {
		resp.Body.Close()
		return nil, rateLimitErr
	}
	return resp, nil
}

func (c *Caller) apiUrl(path string) string {
	return strings.TrimRight(c.Config.GithubApi.ApiUrl, "/") + path
}

// FetchReadme trả về found=false khi repo không tồn tại hoặc không có README
func (c *Caller) FetchReadme(ctx context.Context, repoName string) (string, bool, error) {
	resp, err := c.get(ctx, c.apiUrl("/repos/"+repoName), true)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warn(ctx, "Failed to fetch repo info for %s: %s", repoName, resp.Status)
		return "", false, nil
	}

	info := &RepoInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return "", false, fmt.Errorf("cannot decode repo info: %w", err)
	}
	if info.DefaultBranch == "" {
		info.DefaultBranch = "main"
	}

	rawBase := strings.TrimRight(c.Config.GithubApi.RawUrl, "/")
	for _, name := range readmeNames {
		url := fmt.Sprintf("%s/%s/%s/%s", rawBase, repoName, info.DefaultBranch, name)
		content, ok, err := c.fetchRaw(ctx, url)
		if err != nil {
			return "", false, err
		}
		if ok {
			content = model.TruncateString(content, c.readmeLimit())
			c.Logger.Info(ctx, "Fetched README for %s (%d bytes)", repoName, len(content))
			return content, true, nil
		}
	}

	c.Logger.Warn(ctx, "No README found for %s", repoName)
	return "", false, nil
}

func (c *Caller) fetchRaw(ctx context.Context, url string) (string, bool, error) {
	resp, err := c.get(ctx, url, false)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, nil
	}

	// Đọc dư một chút để TruncateString còn chỗ lùi về ranh giới UTF-8
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.readmeLimit())+4))
	if err != nil {
		return "", false, fmt.Errorf("cannot read README body: %w", err)
	}
	return string(body), true, nil
}

func (c *Caller) readmeLimit() int {
	if c.Config.GithubApi.ReadmeMaxBytes <= 0 {
		return 8000
	}
	return c.Config.GithubApi.ReadmeMaxBytes
}

// FetchLanguages trả về breakdown rỗng khi GitHub trả về mã khác 200
func (c *Caller) FetchLanguages(ctx context.Context, repoName string, threshold float64) ([]model.LanguageShare, error) {
	resp, err := c.get(ctx, c.apiUrl("/repos/"+repoName+"/languages"), true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warn(ctx, "Failed to fetch languages for %s: %s", repoName, resp.Status)
		return []model.LanguageShare{}, nil
	}

	languages := Languages{}
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return nil, fmt.Errorf("cannot decode languages: %w", err)
	}

	shares := LanguageShares(languages, threshold)
	c.Logger.Debug(ctx, "Found %d languages above %.1f%% for %s", len(shares), threshold*100, repoName)
	return shares, nil
}

// LanguageShares đổi số byte thành phần trăm, bỏ các ngôn ngữ dưới threshold*100
// và sắp xếp giảm dần theo phần trăm
func LanguageShares(languages Languages, threshold float64) []model.LanguageShare {
	var total int64
	for _, bytes := range languages {
		total += bytes
	}
	if total <= 0 {
		return []model.LanguageShare{}
	}

	shares := make([]model.LanguageShare, 0, len(languages))
	for language, bytes := range languages {
		percentage := float64(bytes) / float64(total) * 100
		if percentage >= threshold*100 {
			shares = append(shares, model.LanguageShare{Language: language, Percentage: percentage})
		}
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Language < shares[j].Language
	})
	return shares
}
