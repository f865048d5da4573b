package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/repositories"
	"github.com/desertthunder/focus/internal/services"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/desertthunder/focus/internal/tasks"
	"github.com/desertthunder/focus/internal/ui"
)

const goodbye = "Stay focused! Goodbye. 👋"

// errExit unwinds nested menus when the user picks "Exit App".
var errExit = fmt.Errorf("exit requested")

// Prompter is the set of interactions the session needs from the terminal.
type Prompter interface {
	Select(title string, options []ui.Option) (int, error)
	Input(prompt, placeholder string) (string, error)
	Confirm(prompt string) (bool, error)
	Pause(message string) error
	Progress(title string, work func(progress chan<- tasks.ProgressUpdate)) error
	Println(s string)
}

// Fetcher retrieves recent videos for a set of channels.
type Fetcher interface {
	FetchAll(ctx context.Context, channels []models.Channel, progress chan<- tasks.ProgressUpdate) *tasks.FetchResult
}

// ChannelResolver turns handles and URLs into channel ids.
type ChannelResolver interface {
	Resolve(ctx context.Context, input string) (string, bool)
}

// Capabilities are detected once at startup.
type Capabilities struct {
	Gist   bool
	Player shared.Player
}

// Options carry the configuration values the session reads.
type Options struct {
	FilterShorts    bool
	GistFilename    string
	GistDescription string
	GistPublic      bool
}

// OptionsFromConfig extracts session options from the application config.
func OptionsFromConfig(cfg *shared.Config) Options {
	return Options{
		FilterShorts:    cfg.Fetch.FilterShorts,
		GistFilename:    cfg.Gist.Filename,
		GistDescription: cfg.Gist.Description,
		GistPublic:      cfg.Gist.Public,
	}
}

// Deps are the collaborators of a [Session].
type Deps struct {
	Prompter Prompter
	Catalog  *repositories.CatalogRepository
	History  *repositories.HistoryRepository
	Engine   Fetcher
	Resolver ChannelResolver
	Gist     services.GistClient
	Logger   *log.Logger
}

// Session runs the interactive menus.
type Session struct {
	prompt   Prompter
	catalog  *repositories.CatalogRepository
	history  *repositories.HistoryRepository
	engine   Fetcher
	resolver ChannelResolver
	gist     services.GistClient
	logger   *log.Logger
	caps     Capabilities
	opts     Options
	openURL  func(url string) error
}

// New creates a Session.
func New(deps Deps, caps Capabilities, opts Options) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{
		prompt:   deps.Prompter,
		catalog:  deps.Catalog,
		history:  deps.History,
		engine:   deps.Engine,
		resolver: deps.Resolver,
		gist:     deps.Gist,
		logger:   shared.WithLogger(logger, "component", "session"),
		caps:     caps,
		opts:     opts,
		openURL:  shared.OpenBrowser,
	}
}

type menuAction int

const (
	actionCategory menuAction = iota
	actionStats
	actionLearningLog
	actionChannels
	actionOpenChannel
	actionAddChannel
	actionRemoveChannel
	actionRemoveCategory
	actionExit
)

type menuEntry struct {
	option   ui.Option
	action   menuAction
	category string
}

func (s *Session) mainMenu(categories []string) []menuEntry {
	entries := make([]menuEntry, 0, len(categories)+9)
	for _, cat := range categories {
		entries = append(entries, menuEntry{option: ui.Option{Label: cat}, action: actionCategory, category: cat})
	}

	tools := []menuEntry{{option: ui.Option{Label: "📊 View Stats"}, action: actionStats}}
	if s.caps.Gist {
		tools = append(tools, menuEntry{option: ui.Option{Label: "📺 View Learning Log"}, action: actionLearningLog})
	}
	tools = append(tools,
		menuEntry{option: ui.Option{Label: "👀 View Channels"}, action: actionChannels},
		menuEntry{option: ui.Option{Label: "🔎 Open Channel"}, action: actionOpenChannel},
		menuEntry{option: ui.Option{Label: "+ Add New Channel"}, action: actionAddChannel},
		menuEntry{option: ui.Option{Label: "🗑️  Remove Channel"}, action: actionRemoveChannel},
		menuEntry{option: ui.Option{Label: "🗑️  Remove Category"}, action: actionRemoveCategory},
		menuEntry{option: ui.Option{Label: "Exit"}, action: actionExit},
	)
	return append(entries, tools...)
}

func options(entries []menuEntry) []ui.Option {
	opts := make([]ui.Option, len(entries))
	for i, e := range entries {
		opts[i] = e.option
	}
	return opts
}

// Welcome prints the banner, the dashboard and capability notices.
func (s *Session) Welcome() {
	s.prompt.Println(ui.Banner())
	s.ShowDashboard()

	if !s.caps.Gist {
		s.prompt.Println(ui.WarningPanel("⚠️  GitHub gist sync not available. 'Save to Learning Log' is disabled."))
	}
	if !s.caps.Player.AdFree() {
		s.prompt.Println(ui.NoPlayerNotice())
	}
}

// ShowDashboard prints the watch statistics.
func (s *Session) ShowDashboard() {
	stats, err := s.history.Stats()
	if err != nil {
		s.logger.Error("could not load stats", "err", err)
		s.prompt.Println(ui.ErrorPanel("❌ Could not load watch history"))
		return
	}
	s.prompt.Println(ui.Dashboard(stats))
}

// Run shows the main menu until the user exits.
//
// It returns [shared.ErrInterrupted] when the user presses ctrl+c.
func (s *Session) Run(ctx context.Context) error {
	s.Welcome()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		categories, err := s.catalog.Categories()
		if err != nil {
			return err
		}

		entries := s.mainMenu(categories)
		idx, err := s.prompt.Select("📚 Your Learning Categories", options(entries))
		if isBack(err) {
			continue
		}
		if err != nil {
			return err
		}

		entry := entries[idx]
		err = s.dispatch(ctx, entry)
		switch {
		case errors.Is(err, errExit):
			s.prompt.Println(ui.Error(goodbye))
			return nil
		case err != nil:
			return err
		}
	}
}

func (s *Session) dispatch(ctx context.Context, entry menuEntry) error {
	var err error
	switch entry.action {
	case actionExit:
		return errExit
	case actionCategory:
		return s.BrowseCategory(ctx, entry.category)
	case actionStats:
		s.ShowDashboard()
	case actionLearningLog:
		err = s.ViewLearningLog(ctx)
	case actionChannels:
		err = s.ViewChannels()
	case actionOpenChannel:
		err = s.OpenChannel()
	case actionAddChannel:
		err = s.AddChannel(ctx)
	case actionRemoveChannel:
		err = s.RemoveChannel()
	case actionRemoveCategory:
		err = s.RemoveCategory()
	}
	switch {
	case isBack(err):
		return nil
	case err != nil:
		return err
	}
	return s.pause()
}

func (s *Session) pause() error {
	if err := s.prompt.Pause("Press Enter to continue..."); !isBack(err) {
		return err
	}
	return nil
}

// ViewChannels prints every category with its channels.
func (s *Session) ViewChannels() error {
	catalog, err := s.catalog.Load()
	if err != nil {
		return err
	}
	s.prompt.Println(ui.Channels(catalog))
	return nil
}

// chooseCategory asks for one of the existing categories. ErrBack means the user chose "Back".
func (s *Session) chooseCategory(title string, extra ...string) (string, error) {
	categories, err := s.catalog.Categories()
	if err != nil {
		return "", err
	}
	if len(categories) == 0 && len(extra) == 0 {
		s.prompt.Println(ui.Warning("No categories found."))
		return "", ui.ErrBack
	}

	labels := append(append(append([]string{}, categories...), extra...), "Back")
	opts := make([]ui.Option, len(labels))
	for i, l := range labels {
		opts[i] = ui.Option{Label: l}
	}

	idx, err := s.prompt.Select(title, opts)
	if err != nil {
		return "", err
	}
	if idx == len(labels)-1 {
		return "", ui.ErrBack
	}
	return labels[idx], nil
}

// chooseChannel asks for a channel of category. ErrBack means the user chose "Back".
func (s *Session) chooseChannel(title, category string, label func(models.Channel) string) (models.Channel, error) {
	channels, err := s.catalog.Channels(category)
	if err != nil {
		return models.Channel{}, err
	}
	if len(channels) == 0 {
		s.prompt.Println(ui.Warning("No channels in this category yet."))
		return models.Channel{}, ui.ErrBack
	}

	opts := make([]ui.Option, 0, len(channels)+1)
	for _, ch := range channels {
		opts = append(opts, ui.Option{Label: label(ch)})
	}
	opts = append(opts, ui.Option{Label: "Back"})

	idx, err := s.prompt.Select(title, opts)
	if err != nil {
		return models.Channel{}, err
	}
	if idx == len(channels) {
		return models.Channel{}, ui.ErrBack
	}
	return channels[idx], nil
}
