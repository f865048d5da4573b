package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/desertthunder/focus/internal/shared"
)

const defaultGHPath = "gh"

// GistURL returns the browser location of a gist.
func GistURL(id string) string {
	return "https://gist.github.com/" + id
}

// GHGistClient implements [GistClient] with the gh CLI.
type GHGistClient struct {
	Path    string
	Runner  shared.CommandRunner
	TempDir string
}

// NewGHGistClient creates a gh-backed client that stages files in the OS temp dir.
func NewGHGistClient(path string, runner shared.CommandRunner) *GHGistClient {
	if path == "" {
		path = defaultGHPath
	}
	if runner == nil {
		runner = shared.ExecRunner{}
	}
	return &GHGistClient{Path: path, Runner: runner, TempDir: os.TempDir()}
}

// Name returns the client name.
func (g *GHGistClient) Name() string {
	return "gh"
}

// Available reports whether gh is installed and authenticated.
func (g *GHGistClient) Available(ctx context.Context) bool {
	if _, err := shared.LookPath(g.Path); err != nil {
		return false
	}
	_, _, err := g.Runner.Run(ctx, g.Path, "auth", "status")
	return err == nil
}

// Create uploads content as filename and returns the new gist id parsed from the printed URL.
func (g *GHGistClient) Create(ctx context.Context, filename, description, content string, public bool) (string, error) {
	file, cleanup, err := g.stage(filename, content)
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{"gist", "create", file, "--desc", description}
	if public {
		args = append(args, "--public")
	}

	stdout, err := g.run(ctx, "create", args...)
	if err != nil {
		return "", err
	}

	id := gistIDFromOutput(string(stdout))
	if id == "" {
		return "", fmt.Errorf("%w: gh printed no gist url", shared.ErrGistRequest)
	}
	return id, nil
}

// Read returns the raw content of filename.
func (g *GHGistClient) Read(ctx context.Context, id, filename string) (string, error) {
	stdout, err := g.run(ctx, id, "gist", "view", id, "--filename", filename, "--raw")
	if err != nil {
		return "", err
	}
	return string(stdout), nil
}

// Update replaces the content of filename.
func (g *GHGistClient) Update(ctx context.Context, id, filename, content string) error {
	file, cleanup, err := g.stage(filename, content)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = g.run(ctx, id, "gist", "edit", id, "--filename", filename, file)
	return err
}

func (g *GHGistClient) run(ctx context.Context, target string, args ...string) ([]byte, error) {
	stdout, stderr, err := g.Runner.Run(ctx, g.Path, args...)
	if err != nil {
		return nil, &ToolError{
			Tool:   "gh",
			Target: target,
			Err:    fmt.Errorf("%w: %v", shared.ErrGistRequest, err),
			Stderr: firstLine(stderr),
		}
	}
	return stdout, nil
}

// stage writes content to <TempDir>/focus-<uuid>/<filename> so gh sees the right file name.
func (g *GHGistClient) stage(filename, content string) (string, func(), error) {
	dir := filepath.Join(g.TempDir, "focus-"+shared.GenerateID())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	file := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	return file, cleanup, nil
}

// gistIDFromOutput takes the last path segment of the last URL gh printed.
func gistIDFromOutput(out string) string {
	lines := strings.Fields(strings.TrimSpace(out))
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "https://") {
			return path.Base(strings.TrimRight(lines[i], "/"))
		}
	}
	return ""
}
