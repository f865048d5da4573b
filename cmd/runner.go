package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/repositories"
	"github.com/desertthunder/focus/internal/services"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/desertthunder/focus/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	exec       shared.CommandRunner
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer

	catalog  *repositories.CatalogRepository
	history  *repositories.HistoryRepository
	engine   *tasks.VideoEngine
	resolver *services.Resolver
	ytdlp    *services.YtDlp
	gist     services.GistClient
	player   shared.Player
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Exec       shared.CommandRunner
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Exec == nil {
		opts.Exec = shared.ExecRunner{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Fetch.Timeout()}
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		exec:       opts.Exec,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
	}
	r.wire()
	return r
}

// wire builds the stores, clients and engine from the current config and logger.
func (r *Runner) wire() {
	cfg := r.config

	r.catalog = repositories.NewCatalogRepository(cfg.Storage.CatalogPath, r.logger)
	r.history = repositories.NewHistoryRepository(cfg.Storage.HistoryPath, r.logger)

	r.ytdlp = services.NewYtDlp(r.exec)
	if cfg.Tools.YtdlpPath != "" {
		r.ytdlp.Path = cfg.Tools.YtdlpPath
	}
	r.ytdlp.Timeout = cfg.Fetch.Timeout()
	r.ytdlp.Limit = cfg.Fetch.FallbackEntries

	feed := services.NewFeedClient(
		services.WithFeedHTTPClient(r.httpClient),
		services.WithFeedURL(cfg.Fetch.FeedURL),
		services.WithFeedLimit(cfg.Fetch.FeedEntries),
	)

	r.engine = tasks.NewVideoEngine(feed, r.ytdlp, r.logger, tasks.EngineOpts{
		Workers:   cfg.Fetch.Workers,
		RateLimit: cfg.Fetch.RateLimit,
	})
	r.resolver = services.NewResolver(r.ytdlp, r.logger)

	if cfg.Gist.Token != "" {
		r.gist = services.NewAPIGistClient(context.Background(), cfg.Gist.APIURL, cfg.Gist.Token)
	} else {
		r.gist = services.NewGHGistClient(cfg.Tools.GHPath, r.exec)
	}

	r.player = shared.DetectPlayer(cfg.Player.Path)
	r.player.Runner = r.exec
}

// SetLogger replaces the logger, keeping its level, and rebuilds the components that hold it.
func (r *Runner) SetLogger(logger *log.Logger) {
	logger.SetLevel(r.logger.GetLevel())
	r.logger = logger
	r.wire()
}

// Load reads the config named by --config and applies --verbose. It runs before every command.
//
// A missing config file falls back to the built-in defaults.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	r.wire()
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, channelsCommand, categoriesCommand, fetchCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
