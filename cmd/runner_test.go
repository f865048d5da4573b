package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/repositories"
	"github.com/desertthunder/focus/internal/services"
	"github.com/desertthunder/focus/internal/shared"
	tu "github.com/desertthunder/focus/internal/testing"
)

const (
	fireshipID = "UCsBjURrPoezykLs9EqgamOA"
	theoID     = "UCbRP3c757lWg9M-U7TyEkXA"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>Fireship</title>
  <entry>
    <id>yt:video:vid1</id>
    <yt:videoId>vid1</yt:videoId>
    <title>Rust in 100 Seconds</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=vid1"/>
    <published>2024-03-01T12:00:00+00:00</published>
  </entry>
  <entry>
    <id>yt:video:vid2</id>
    <yt:videoId>vid2</yt:videoId>
    <title>Terminal shortcuts #shorts</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=vid2"/>
    <published>2024-02-28T12:00:00+00:00</published>
  </entry>
</feed>`

// testApp is a runner wired to a temp config whose storage lives in the test directory.
type testApp struct {
	runner  *Runner
	output  *bytes.Buffer
	exec    *tu.FakeRunner
	dir     string
	config  string
	catalog string
	history string
}

func newTestApp(t *testing.T, extraConfig string) *testApp {
	t.Helper()

	dir := t.TempDir()
	app := &testApp{
		output:  &bytes.Buffer{},
		exec:    &tu.FakeRunner{Default: tu.RunResult{Err: errors.New("exit status 1")}},
		dir:     dir,
		config:  filepath.Join(dir, "config.toml"),
		catalog: filepath.Join(dir, "catalog.json"),
		history: filepath.Join(dir, "watch_history.json"),
	}

	content := fmt.Sprintf("[storage]\ncatalog_path = %q\nhistory_path = %q\n\n[log]\nfile = %q\n\n[player]\npath = %q\n%s",
		app.catalog, app.history, filepath.Join(dir, "focus.log"), filepath.Join(dir, "missing-player"), extraConfig)
	tu.MustWriteFile(t, app.config, content)

	app.runner = NewRunner(RunnerOpts{
		Logger: shared.NewLogger(io.Discard),
		Output: app.output,
		Exec:   app.exec,
	})
	return app
}

func (a *testApp) run(args ...string) error {
	full := append([]string{"focus", "--config", a.config}, args...)
	return rootCommand(a.runner).Run(context.Background(), full)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			exec := &tu.FakeRunner{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Exec:       exec,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.exec != exec {
				t.Error("expected exec to be set")
			}
			if runner.engine == nil || runner.resolver == nil || runner.catalog == nil || runner.history == nil {
				t.Error("expected components to be wired")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if _, ok := runner.exec.(shared.ExecRunner); !ok {
				t.Errorf("expected exec to default to ExecRunner, got %T", runner.exec)
			}
			if runner.engine.Workers() != shared.MaxWorkers {
				t.Errorf("expected %d workers, got %d", shared.MaxWorkers, runner.engine.Workers())
			}
		})

		t.Run("gist client follows token", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, ok := runner.gist.(*services.GHGistClient); !ok {
				t.Errorf("expected gh client without token, got %T", runner.gist)
			}

			config := shared.DefaultConfig()
			config.Gist.Token = "ghp_test"
			runner = NewRunner(RunnerOpts{Config: config})
			if _, ok := runner.gist.(*services.APIGistClient); !ok {
				t.Errorf("expected api client with token, got %T", runner.gist)
			}
		})

		t.Run("ytdlp follows config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Tools.YtdlpPath = "/opt/bin/yt-dlp"
			config.Fetch.FallbackEntries = 4

			runner := NewRunner(RunnerOpts{Config: config})
			if runner.ytdlp.Path != "/opt/bin/yt-dlp" {
				t.Errorf("expected configured path, got %s", runner.ytdlp.Path)
			}
			if runner.ytdlp.Limit != 4 {
				t.Errorf("expected limit 4, got %d", runner.ytdlp.Limit)
			}
		})
	})

	t.Run("SetLogger keeps level", func(t *testing.T) {
		logger := shared.NewLogger(io.Discard)
		logger.SetLevel(log.DebugLevel)
		runner := NewRunner(RunnerOpts{Logger: logger})

		replacement := shared.NewLogger(io.Discard)
		runner.SetLogger(replacement)

		if runner.logger != replacement {
			t.Error("expected logger to be replaced")
		}
		if replacement.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", replacement.GetLevel())
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "channels", "categories", "fetch", "history"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads config file", func(t *testing.T) {
		app := newTestApp(t, "\n[fetch]\nworkers = 4\n")

		if err := app.run("--stats"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if app.runner.config.Storage.CatalogPath != app.catalog {
			t.Errorf("expected catalog path from config, got %s", app.runner.config.Storage.CatalogPath)
		}
		if app.runner.engine.Workers() != 4 {
			t.Errorf("expected 4 workers, got %d", app.runner.engine.Workers())
		}
	})

	t.Run("invalid config fails", func(t *testing.T) {
		app := newTestApp(t, "\n[fetch]\nrate_limit = -1.0\n")

		if err := app.run("--stats"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	for _, flag := range []string{"--verbose", "-v"} {
		t.Run("verbose enables debug with "+flag, func(t *testing.T) {
			app := newTestApp(t, "")

			if err := app.run(flag, "--stats"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if app.runner.logger.GetLevel() != log.DebugLevel {
				t.Errorf("expected debug level, got %v", app.runner.logger.GetLevel())
			}
			out := app.output.String()
			if !strings.Contains(out, "No videos watched yet") {
				t.Errorf("expected dashboard output, got %q", out)
			}
			if strings.Contains(out, "version") {
				t.Errorf("expected no version output, got %q", out)
			}
		})
	}
}

func TestStats(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		app := newTestApp(t, "")

		if err := app.run("--stats"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := app.output.String()
		if !strings.Contains(out, "YouTube Focus Mode") || !strings.Contains(out, "No videos watched yet") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("with history", func(t *testing.T) {
		app := newTestApp(t, "")
		history := repositories.NewHistoryRepository(app.history, shared.NewLogger(io.Discard))
		for _, id := range []string{"a", "b"} {
			if err := history.LogWatch("Video "+id, "Fireship", id, "coding"); err != nil {
				t.Fatalf("failed to seed history: %v", err)
			}
		}

		if err := app.run("--stats"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := app.output.String()
		for _, want := range []string{"Videos Watched", "30m", "coding", "Video b"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output: %s", want, out)
			}
		}
	})
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output, Exec: &tu.FakeRunner{}})
	path := filepath.Join(dir, "config.toml")

	if err := rootCommand(runner).Run(context.Background(), []string{"focus", "--config", path, "setup"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, path)
	tu.AssertFileExists(t, filepath.Join(dir, "catalog.json"))
	if !strings.Contains(output.String(), "3 categories") {
		t.Errorf("expected default categories in output, got %s", output.String())
	}
}

func TestChannelsCommands(t *testing.T) {
	t.Run("add by id normalizes category", func(t *testing.T) {
		app := newTestApp(t, "")

		if err := app.run("channels", "add", "--category", "Data Science", "--input", fireshipID, "--name", "Fireship"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		channels, err := repositories.NewCatalogRepository(app.catalog, nil).Channels("data_science")
		if err != nil {
			t.Fatalf("failed to read catalog: %v", err)
		}
		if len(channels) != 1 || channels[0].ID != fireshipID || channels[0].Name != "Fireship" {
			t.Errorf("unexpected channels: %+v", channels)
		}
		if len(app.exec.Calls()) != 0 {
			t.Error("expected literal id to skip yt-dlp")
		}
	})

	t.Run("add by handle resolves with yt-dlp", func(t *testing.T) {
		app := newTestApp(t, "")
		app.exec.Handler = func(name string, args []string) tu.RunResult {
			return tu.RunResult{Stdout: fmt.Sprintf(`{"id":"vid1","title":"x","channel_id":%q}`+"\n", fireshipID)}
		}

		if err := app.run("channels", "add", "--category", "coding", "--input", "@fireship"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(app.output.String(), "Added fireship") {
			t.Errorf("expected handle as default name, got %s", app.output.String())
		}

		calls := app.exec.Calls()
		if len(calls) != 1 || calls[0].Name != "yt-dlp" {
			t.Fatalf("expected one yt-dlp call, got %+v", calls)
		}
		if last := calls[0].Args[len(calls[0].Args)-1]; last != "https://www.youtube.com/@fireship/videos" {
			t.Errorf("unexpected lookup url %s", last)
		}
	})

	t.Run("add duplicate", func(t *testing.T) {
		app := newTestApp(t, "")
		for range 2 {
			if err := app.run("channels", "add", "--category", "coding", "--input", fireshipID, "--name", "Fireship"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if !strings.Contains(app.output.String(), "already exists in coding") {
			t.Errorf("expected duplicate notice, got %s", app.output.String())
		}
	})

	t.Run("add errors", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want error
		}{
			{"unresolvable handle", []string{"--category", "coding", "--input", "@missing"}, shared.ErrResolution},
			{"id without name", []string{"--category", "coding", "--input", fireshipID}, shared.ErrMissingArgument},
			{"not a handle", []string{"--category", "coding", "--input", "fireship"}, shared.ErrInvalidArgument},
			{"empty category", []string{"--category", "!!", "--input", fireshipID}, shared.ErrInvalidArgument},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				app := newTestApp(t, "")
				args := append([]string{"channels", "add"}, tt.args...)
				if err := app.run(args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("list json", func(t *testing.T) {
		app := newTestApp(t, "")
		if err := app.run("channels", "add", "--category", "coding", "--input", theoID, "--name", "Theo"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		app.output.Reset()

		if err := app.run("channels", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var doc map[string]json.RawMessage
		if err := json.Unmarshal(app.output.Bytes(), &doc); err != nil {
			t.Fatalf("expected JSON output, got %v: %s", err, app.output.String())
		}
		if !strings.Contains(string(doc["coding"]), theoID) {
			t.Errorf("expected channel in coding, got %s", doc["coding"])
		}
	})

	t.Run("list tables", func(t *testing.T) {
		app := newTestApp(t, "")
		if err := app.run("channels", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(app.output.String(), "CODING") {
			t.Errorf("expected category heading, got %s", app.output.String())
		}
	})

	t.Run("remove", func(t *testing.T) {
		app := newTestApp(t, "")
		if err := app.run("channels", "add", "--category", "coding", "--input", theoID, "--name", "Theo"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := app.run("channels", "remove", "--category", "coding", "--id", theoID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := app.run("channels", "remove", "--category", "coding", "--id", theoID); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for missing channel, got %v", err)
		}
	})

	t.Run("remove category", func(t *testing.T) {
		app := newTestApp(t, "")

		if err := app.run("categories", "remove", "--category", "business"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		categories, err := repositories.NewCatalogRepository(app.catalog, nil).Categories()
		if err != nil {
			t.Fatalf("failed to read catalog: %v", err)
		}
		if strings.Join(categories, ",") != "coding,entertainment" {
			t.Errorf("unexpected categories %v", categories)
		}
		if err := app.run("categories", "remove", "--category", "business"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("channel_id") != fireshipID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, testFeed)
	}))
	defer server.Close()

	feedConfig := fmt.Sprintf("\n[fetch]\nfeed_url = %q\n", server.URL+"/feeds/videos.xml?channel_id=%s")

	setup := func(t *testing.T) *testApp {
		app := newTestApp(t, feedConfig)
		if err := app.run("channels", "add", "--category", "coding", "--input", fireshipID, "--name", "Fireship"); err != nil {
			t.Fatalf("failed to add channel: %v", err)
		}
		app.output.Reset()
		return app
	}

	t.Run("plain output hides shorts", func(t *testing.T) {
		app := setup(t)

		if err := app.run("fetch", "--category", "coding"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := app.output.String()
		if !strings.Contains(out, "[Fireship] Rust in 100 Seconds") {
			t.Errorf("expected video in output, got %s", out)
		}
		if strings.Contains(out, "#shorts") {
			t.Errorf("expected shorts to be hidden, got %s", out)
		}
	})

	t.Run("json with all", func(t *testing.T) {
		app := setup(t)

		if err := app.run("fetch", "--category", "coding", "--json", "--all"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got fetchOutput
		if err := json.Unmarshal(app.output.Bytes(), &got); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if got.Category != "coding" || len(got.Videos) != 2 || len(got.Warnings) != 0 {
			t.Errorf("unexpected result %+v", got)
		}
		if got.Videos[0].VideoID != "vid1" || got.Videos[0].ChannelName != "Fireship" {
			t.Errorf("unexpected first video %+v", got.Videos[0])
		}
		if len(app.exec.Calls()) != 0 {
			t.Error("expected no fallback calls when the feed succeeds")
		}
	})

	t.Run("failed channel warns", func(t *testing.T) {
		app := newTestApp(t, feedConfig)
		if err := app.run("channels", "add", "--category", "coding", "--input", theoID, "--name", "Theo"); err != nil {
			t.Fatalf("failed to add channel: %v", err)
		}
		app.output.Reset()

		if err := app.run("fetch", "--category", "coding"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := app.output.String()
		if !strings.Contains(out, "Theo:") || !strings.Contains(out, "No recent videos found") {
			t.Errorf("expected warning for Theo, got %s", out)
		}
		if len(app.exec.Calls()) != 1 {
			t.Errorf("expected exactly one fallback call, got %d", len(app.exec.Calls()))
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		app := newTestApp(t, feedConfig)
		if err := app.run("fetch", "--category", "nope"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestHistory(t *testing.T) {
	seed := func(t *testing.T, app *testApp) {
		history := repositories.NewHistoryRepository(app.history, shared.NewLogger(io.Discard))
		for _, id := range []string{"a", "b", "c"} {
			if err := history.LogWatch("Video "+id, "Fireship", id, "coding"); err != nil {
				t.Fatalf("failed to seed history: %v", err)
			}
		}
	}

	t.Run("json with limit", func(t *testing.T) {
		app := newTestApp(t, "")
		seed(t, app)

		if err := app.run("history", "--json", "--limit", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var entries []map[string]any
		if err := json.Unmarshal(app.output.Bytes(), &entries); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(entries) != 2 || entries[0]["title"] != "Video b" {
			t.Errorf("expected last two entries, got %+v", entries)
		}
	})

	t.Run("csv export to file", func(t *testing.T) {
		app := newTestApp(t, "")
		seed(t, app)
		path := filepath.Join(app.dir, "history.csv")

		if err := app.run("history", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "Video c") {
			t.Errorf("expected entries in export, got %s", content)
		}
		if !strings.Contains(app.output.String(), "Exported 3 entries") {
			t.Errorf("unexpected output %s", app.output.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		app := newTestApp(t, "")
		if err := app.run("history", "--format", "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExitCode(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", fmt.Errorf("menu: %w", shared.ErrInterrupted), 0},
		{"cancelled", context.Canceled, 0},
		{"failure", shared.ErrInvalidConfig, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err, logger); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
