package githubapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/config"
)

func newTestClient(baseURL string, cfg *config.GitHubConfig) *Client {
	c := NewClient(cfg)
	c.BaseURL = baseURL
	return c
}

func TestFetchRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created:asc", r.URL.Query().Get("sort"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"name":"hello-world","html_url":"https://github.com/octocat/hello-world",
			 "description":"First repo","stargazers_count":80,"watchers_count":80,
			 "forks_count":9,"created_at":"2011-01-26T19:01:12Z"}
		]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &config.GitHubConfig{})

	repos, err := client.FetchRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "hello-world", repos[0].Name)
	assert.Equal(t, "https://github.com/octocat/hello-world", repos[0].HTMLURL)
	assert.Equal(t, 80, repos[0].StargazersCount)
}

func TestFetchReposSendsCredentialsWhenConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "my-id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "my-secret", r.URL.Query().Get("client_secret"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &config.GitHubConfig{
		ClientID:     "my-id",
		ClientSecret: "my-secret",
	})

	_, err := client.FetchRepos(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestFetchReposOmitsCredentialsWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasID := r.URL.Query()["client_id"]
		_, hasSecret := r.URL.Query()["client_secret"]
		assert.False(t, hasID)
		assert.False(t, hasSecret)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &config.GitHubConfig{})

	_, err := client.FetchRepos(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestFetchReposUnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &config.GitHubConfig{})

	_, err := client.FetchRepos(context.Background(), "no-such-user")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "No Github profile found", err.Error())
}

func TestFetchReposServerError(t *testing.T) {
	// Rate limiting and upstream failures get the same client-facing answer
	// as an unknown user.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &config.GitHubConfig{})

	_, err := client.FetchRepos(context.Background(), "octocat")
	assert.True(t, apperror.IsNotFound(err))
}
