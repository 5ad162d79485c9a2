package ossinsight

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/log"
)

const trendingBody = `{
  "type": "sql_endpoint",
  "data": {
    "columns": [{"col": "repo_id", "data_type": "INT"}],
    "rows": [
      {"repo_id": "101", "repo_name": "acme/widget", "primary_language": "Go",
       "description": "Widgets", "stars": "120", "forks": "7", "pull_requests": "3",
       "pushes": "9", "total_score": "1234.5", "contributor_logins": "alice,bob",
       "collection_names": ""},
      {"repo_id": "not-a-number", "repo_name": "broken/row"},
      {"repo_id": "202", "repo_name": "acme/gadget", "primary_language": null,
       "stars": "n/a", "total_score": null}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	loader, err := cfg.NewMockLoader(func(c *cfg.Config) { c.OssInsight.BaseUrl = srv.URL })
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)

	logger, err := log.NewCslLogger(log.WithWriter(io.Discard))
	require.NoError(t, err)
	return NewClient(logger, config)
}

func TestClient_FetchTrending(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/trends/repos/", r.URL.Path)
		_, _ = w.Write([]byte(trendingBody))
	}))

	candidates, err := client.FetchTrending(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, int64(101), first.ID)
	assert.Equal(t, "acme/widget", first.Name)
	assert.Equal(t, "Go", *first.PrimaryLanguage)
	assert.Equal(t, 120, *first.Stars)
	assert.Equal(t, 7, *first.Forks)
	assert.Equal(t, 3, *first.PullRequests)
	assert.Equal(t, 9, *first.Pushes)
	assert.InDelta(t, 1234.5, *first.TotalScore, 1e-9)
	assert.Equal(t, "alice,bob", *first.ContributorLogins)
	assert.Nil(t, first.CollectionNames)

	second := candidates[1]
	assert.Equal(t, int64(202), second.ID)
	assert.Nil(t, second.PrimaryLanguage)
	assert.Nil(t, second.Stars)
	assert.Nil(t, second.TotalScore)
}

func TestClient_FetchTrendingFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchTrending(context.Background())
	assert.Error(t, err)
}

func TestClient_FetchTrendingMalformed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": `))
	}))

	_, err := client.FetchTrending(context.Background())
	assert.Error(t, err)
}
