package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/focus/internal/shared"
)

// ErrBack is returned when the user leaves a prompt with esc.
var ErrBack = fmt.Errorf("back")

const (
	defaultListWidth = 72
	maxListHeight    = 24
)

// outcome is shared by all prompt models to report how the program ended.
type outcome int

const (
	pending outcome = iota
	answered
	cancelled
	interrupted
)

func (o outcome) err() error {
	switch o {
	case cancelled:
		return ErrBack
	case interrupted:
		return shared.ErrInterrupted
	default:
		return nil
	}
}

// selectModel picks one [Option] from a filterable list.
type selectModel struct {
	list    list.Model
	keys    keyMap
	state   outcome
	chosen  int
	maxRows int
}

func newSelectModel(title string, options []Option) selectModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = hasHints(options)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(colorAccent).BorderForeground(colorAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(colorDim).BorderForeground(colorAccent)

	rows := delegate.Height() + delegate.Spacing()
	height := min(len(options)*rows+6, maxListHeight)

	l := list.New(toItems(options), delegate, defaultListWidth, height)
	l.Title = title
	l.Styles.Title = styles.heading
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(options) > 8)
	l.DisableQuitKeybindings()

	return selectModel{list: l, keys: newKeyMap(), chosen: -1, maxRows: height}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(min(msg.Width, defaultListWidth), min(msg.Height-1, m.maxRows))
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.state = interrupted
			return m, tea.Quit
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.back):
			if m.list.FilterState() == list.FilterApplied {
				m.list.ResetFilter()
				return m, nil
			}
			m.state = cancelled
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			item, ok := m.list.SelectedItem().(choiceItem)
			if !ok {
				return m, nil
			}
			m.chosen = item.index
			m.state = answered
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.state != pending {
		return ""
	}
	return m.list.View()
}

// inputModel reads one line of text.
type inputModel struct {
	prompt string
	input  textinput.Model
	keys   keyMap
	state  outcome
}

func newInputModel(prompt, placeholder string) inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.PromptStyle = NewStyle(colorAccent)
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()
	return inputModel{prompt: prompt, input: ti, keys: newKeyMap()}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.state = interrupted
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.state = cancelled
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			m.state = answered
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.state != pending {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n", styles.heading.Render(m.prompt), m.input.View(), styles.help.Render("enter to submit • esc to go back"))
}

// Value returns the trimmed text entered so far.
func (m inputModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// confirmModel asks a yes/no question. Enter accepts the default (no).
type confirmModel struct {
	prompt string
	keys   keyMap
	help   help.Model
	state  outcome
	yes    bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{prompt: prompt, keys: newKeyMap(), help: help.New()}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.quit):
		m.state = interrupted
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.yes):
		m.yes = true
		m.state = answered
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.no), key.Matches(keyMsg, m.keys.enter), key.Matches(keyMsg, m.keys.back):
		m.yes = false
		m.state = answered
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.state != pending {
		return ""
	}
	return fmt.Sprintf("%s %s\n%s\n", styles.warn.Render(m.prompt), styles.help.Render("[y/N]"),
		m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit}))
}

// pauseModel waits for enter.
type pauseModel struct {
	message string
	keys    keyMap
	state   outcome
}

func (m pauseModel) Init() tea.Cmd {
	return nil
}

func (m pauseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.quit):
		m.state = interrupted
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.enter), key.Matches(keyMsg, m.keys.back):
		m.state = answered
		return m, tea.Quit
	}
	return m, nil
}

func (m pauseModel) View() string {
	if m.state != pending {
		return ""
	}
	return styles.help.Render(m.message) + "\n"
}
