package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/focus/internal/shared"
	"golang.org/x/oauth2"
)

const defaultGitHubAPI = "https://api.github.com"

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gistPayload struct {
	Description string              `json:"description,omitempty"`
	Public      *bool               `json:"public,omitempty"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	ID      string              `json:"id"`
	HTMLURL string              `json:"html_url"`
	Files   map[string]gistFile `json:"files"`
}

// APIGistClient implements [GistClient] against the GitHub REST API using a personal access token.
type APIGistClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIGistClient creates a client whose requests carry token through an [oauth2.StaticTokenSource].
func NewAPIGistClient(ctx context.Context, baseURL, token string) *APIGistClient {
	if baseURL == "" {
		baseURL = defaultGitHubAPI
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &APIGistClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

// Name returns the client name.
func (a *APIGistClient) Name() string {
	return "api"
}

// Available reports whether the token is accepted.
func (a *APIGistClient) Available(ctx context.Context) bool {
	if a.token == "" {
		return false
	}
	return a.doRequest(ctx, http.MethodGet, "/user", nil, nil) == nil
}

// Create posts a new single-file gist.
func (a *APIGistClient) Create(ctx context.Context, filename, description, content string, public bool) (string, error) {
	payload := gistPayload{
		Description: description,
		Public:      &public,
		Files:       map[string]gistFile{filename: {Content: content}},
	}

	var resp gistResponse
	if err := a.doRequest(ctx, http.MethodPost, "/gists", payload, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: response has no id", shared.ErrGistRequest)
	}
	return resp.ID, nil
}

// Read fetches the gist and returns the content of filename, following raw_url when truncated.
func (a *APIGistClient) Read(ctx context.Context, id, filename string) (string, error) {
	var resp gistResponse
	if err := a.doRequest(ctx, http.MethodGet, "/gists/"+id, nil, &resp); err != nil {
		return "", err
	}

	file, ok := resp.Files[filename]
	if !ok {
		return "", fmt.Errorf("%w: gist %s has no file %s", shared.ErrGistRequest, id, filename)
	}
	if file.Truncated && file.RawURL != "" {
		return a.fetchRaw(ctx, file.RawURL)
	}
	return file.Content, nil
}

// Update patches the content of filename.
func (a *APIGistClient) Update(ctx context.Context, id, filename, content string) error {
	payload := gistPayload{Files: map[string]gistFile{filename: {Content: content}}}
	return a.doRequest(ctx, http.MethodPatch, "/gists/"+id, payload, nil)
}

func (a *APIGistClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrGistRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%w: %s (status %d)", shared.ErrGistRequest, errResp.Message, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d", shared.ErrGistRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (a *APIGistClient) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrGistRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: raw status %d", shared.ErrGistRequest, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read raw content: %w", err)
	}
	return string(data), nil
}
