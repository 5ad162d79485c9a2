// Gói llm tóm tắt README bằng một API chat completions tương thích OpenAI

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/log"
)

const systemPrompt = `You are a technical documentation summarizer.
Your task is to summarize GitHub README content in Korean.
Focus on:
1. 프로젝트가 무엇인지 (What it does)
2. 주요 기능 (Key features)
3. 기술 스택 (Tech stack if mentioned)

Rules:
- Keep the summary under 200 characters
- Use Korean language only
- Be concise and informative
- Do not include markdown formatting
- Do not include links or code`

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

// Summarize không bao giờ trả lỗi: mọi thất bại đều được log và trả về ok=false
func (c *Client) Summarize(ctx context.Context, document, repoName string) (string, bool) {
	summary, err := c.complete(ctx, document, repoName)
	if err != nil {
		c.Logger.Warn(ctx, "Failed to summarize README for %s: %v", repoName, err)
		return "", false
	}
	c.Logger.Info(ctx, "Generated summary for %s (%d chars)", repoName, len([]rune(summary)))
	return summary, true
}

func (c *Client) complete(ctx context.Context, document, repoName string) (string, error) {
	if c.Config.Llm.ApiKey == "" {
		return "", errors.New("llm api key is not configured")
	}

	request := ChatCompletionRequest{
		Model: c.Config.Llm.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Summarize this README for the repository '%s' in Korean:\n\n%s", repoName, document)},
		},
		MaxTokens: c.Config.Llm.MaxTokens,
	}
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.Config.Llm.BaseUrl, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.Llm.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cannot send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm api error: %s - %s", resp.Status, strings.TrimSpace(string(errText)))
	}

	completion := &ChatCompletionResponse{}
	if err := json.NewDecoder(resp.Body).Decode(completion); err != nil {
		return "", fmt.Errorf("cannot decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("empty completion")
	}
	return summary, nil
}
