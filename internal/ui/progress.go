package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/focus/internal/tasks"
)

const maxProgressLines = 8

// progressModel renders a spinner and the latest per-channel status lines
// while a background job sends [tasks.ProgressUpdate] values.
type progressModel struct {
	title   string
	spinner spinner.Model
	updates <-chan tasks.ProgressUpdate
	keys    keyMap
	current tasks.ProgressUpdate
	lines   []string
	state   outcome
}

func newProgressModel(title string, updates <-chan tasks.ProgressUpdate) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = NewStyle(colorAccent)
	return progressModel{title: title, spinner: s, updates: updates, keys: newKeyMap()}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForProgress(m.updates))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.state = interrupted
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			update := msg.data.(tasks.ProgressUpdate)
			m.current = update
			if update.Phase == tasks.FetchChannel {
				m.lines = append(m.lines, update.Message)
				if len(m.lines) > maxProgressLines {
					m.lines = m.lines[len(m.lines)-maxProgressLines:]
				}
			}
			return m, waitForProgress(m.updates)
		case MsgWorkComplete:
			m.state = answered
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.state != pending {
		return ""
	}

	var b strings.Builder
	header := m.title
	if m.current.Message != "" && m.current.Phase != tasks.FetchChannel {
		header = m.current.Message
	}
	fmt.Fprintf(&b, "%s %s", m.spinner.View(), styles.info.Render(header))
	if m.current.Total > 0 {
		fmt.Fprintf(&b, " %s", styles.help.Render(fmt.Sprintf("(%d/%d)", m.current.Step, m.current.Total)))
	}
	b.WriteString("\n")
	for _, line := range m.lines {
		b.WriteString("  " + colorizeStatus(line) + "\n")
	}
	return b.String()
}

// waitForProgress returns a command that reads the next update from the channel.
func waitForProgress(updates <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return workCompleteMsg()
		}
		return progressUpdateMsg(update)
	}
}

func colorizeStatus(line string) string {
	switch {
	case strings.Contains(line, "✓"):
		return styles.ok.Render(line)
	case strings.Contains(line, "✗"):
		return styles.err.Render(line)
	default:
		return styles.warn.Render(line)
	}
}
