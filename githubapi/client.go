// Package githubapi fetches a user's public repositories from the
// GitHub REST API.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/config"
)

const defaultBaseURL = "https://api.github.com"

// Repo is the subset of the GitHub repository payload the API exposes.
type Repo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
	CreatedAt       string `json:"created_at"`
}

// Client talks to the GitHub API. Credentials are optional; without
// them requests count against the unauthenticated rate limit.
type Client struct {
	// BaseURL may be overridden in tests.
	BaseURL string

	httpClient   *http.Client
	clientID     string
	clientSecret string
}

// NewClient creates a GitHub client from the application config.
func NewClient(cfg *config.GitHubConfig) *Client {
	return &Client{
		BaseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

// FetchRepos returns the user's five most recently created public
// repositories. Any non-200 answer from GitHub, including an unknown
// username, surfaces as "No Github profile found".
func (c *Client) FetchRepos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos", c.BaseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewExternalServiceError("failed to build github request", err)
	}

	q := req.URL.Query()
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.clientID != "" && c.clientSecret != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "devconnector-go")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewExternalServiceError("github request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewNotFoundError("No Github profile found", nil)
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, apperror.NewExternalServiceError("failed to decode github response", err)
	}
	return repos, nil
}
