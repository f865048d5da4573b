package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/focus/internal/shared"
	tu "github.com/desertthunder/focus/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGHGistClient(t *testing.T) {
	t.Run("Create stages a file named after the gist file", func(t *testing.T) {
		var staged string
		runner := &tu.FakeRunner{Handler: func(name string, args []string) tu.RunResult {
			staged = args[2]
			data, err := os.ReadFile(staged)
			require.NoError(t, err)
			assert.Equal(t, "# log\n", string(data))
			return tu.RunResult{Stdout: "https://gist.github.com/octocat/abc123\n"}
		}}
		client := NewGHGistClient("gh", runner)
		client.TempDir = t.TempDir()

		id, err := client.Create(context.Background(), "focus_learning_log.md", "desc", "# log\n", true)
		require.NoError(t, err)
		assert.Equal(t, "abc123", id)

		call := runner.Calls()[0]
		assert.Equal(t, "gh", call.Name)
		assert.Equal(t, []string{"gist", "create", staged, "--desc", "desc", "--public"}, call.Args)
		assert.Equal(t, "focus_learning_log.md", filepath.Base(staged))

		_, err = os.Stat(staged)
		assert.True(t, os.IsNotExist(err), "staged file should be removed")
	})

	t.Run("Read views the raw file", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: "content"}}
		client := NewGHGistClient("", runner)

		content, err := client.Read(context.Background(), "abc123", "log.md")
		require.NoError(t, err)
		assert.Equal(t, "content", content)
		assert.Equal(t, []string{"gist", "view", "abc123", "--filename", "log.md", "--raw"}, runner.Calls()[0].Args)
	})

	t.Run("Update edits the named file", func(t *testing.T) {
		runner := &tu.FakeRunner{}
		client := NewGHGistClient("gh", runner)
		client.TempDir = t.TempDir()

		require.NoError(t, client.Update(context.Background(), "abc123", "log.md", "new"))
		args := runner.Calls()[0].Args
		assert.Equal(t, []string{"gist", "edit", "abc123", "--filename", "log.md"}, args[:5])
	})

	t.Run("failures wrap ErrGistRequest", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stderr: "HTTP 404", Err: errors.New("exit status 1")}}
		client := NewGHGistClient("gh", runner)

		_, err := client.Read(context.Background(), "missing", "log.md")
		assert.ErrorIs(t, err, shared.ErrGistRequest)
		te, ok := IsToolError(err)
		require.True(t, ok)
		assert.Equal(t, "HTTP 404", te.Stderr)
	})

	t.Run("Create without a URL", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: "done"}}
		client := NewGHGistClient("gh", runner)
		client.TempDir = t.TempDir()

		_, err := client.Create(context.Background(), "log.md", "d", "c", false)
		assert.ErrorIs(t, err, shared.ErrGistRequest)
		assert.NotContains(t, runner.Calls()[0].Args, "--public")
	})
}

func TestAPIGistClient(t *testing.T) {
	newServer := func(t *testing.T, handler http.HandlerFunc) *APIGistClient {
		t.Helper()
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		return NewAPIGistClient(context.Background(), server.URL, "ghp_test")
	}

	t.Run("Create posts a single-file gist", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/gists", r.URL.Path)
			assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))

			var payload gistPayload
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload)) {
				return
			}
			assert.Equal(t, "desc", payload.Description)
			if assert.NotNil(t, payload.Public) {
				assert.True(t, *payload.Public)
			}
			assert.Equal(t, "hello", payload.Files["log.md"].Content)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(gistResponse{ID: "g1"})
		})

		id, err := client.Create(context.Background(), "log.md", "desc", "hello", true)
		require.NoError(t, err)
		assert.Equal(t, "g1", id)
	})

	t.Run("Read returns file content", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/gists/g1", r.URL.Path)
			json.NewEncoder(w).Encode(gistResponse{ID: "g1", Files: map[string]gistFile{"log.md": {Content: "body"}}})
		})

		content, err := client.Read(context.Background(), "g1", "log.md")
		require.NoError(t, err)
		assert.Equal(t, "body", content)

		_, err = client.Read(context.Background(), "g1", "other.md")
		assert.ErrorIs(t, err, shared.ErrGistRequest)
	})

	t.Run("Read follows raw_url for truncated files", func(t *testing.T) {
		var rawURL string
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/raw/log.md" {
				io.WriteString(w, "full body")
				return
			}
			json.NewEncoder(w).Encode(gistResponse{Files: map[string]gistFile{
				"log.md": {Content: "trunc", Truncated: true, RawURL: rawURL},
			}})
		})
		rawURL = client.baseURL + "/raw/log.md"

		content, err := client.Read(context.Background(), "g1", "log.md")
		require.NoError(t, err)
		assert.Equal(t, "full body", content)
	})

	t.Run("Update patches", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/gists/g1", r.URL.Path)
			w.Write([]byte(`{}`))
		})
		assert.NoError(t, client.Update(context.Background(), "g1", "log.md", "x"))
	})

	t.Run("API errors carry the message", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		})

		err := client.Update(context.Background(), "g1", "log.md", "x")
		assert.ErrorIs(t, err, shared.ErrGistRequest)
		assert.Contains(t, err.Error(), "Bad credentials")
		assert.False(t, client.Available(context.Background()))
	})

	t.Run("Available requires a token", func(t *testing.T) {
		client := NewAPIGistClient(context.Background(), "http://127.0.0.1:0", "")
		assert.False(t, client.Available(context.Background()))
	})
}
