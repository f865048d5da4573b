package ui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/focus/internal/tasks"
)

// progressBuffer sizes the update channel handed to background work.
const progressBuffer = 64

// Terminal runs each prompt as its own bubbletea program on the given streams.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a Terminal. Nil streams default to stdin and stdout.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{in: in, out: out}
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out))
	return p.Run()
}

// Select shows options and returns the index of the chosen one.
func (t *Terminal) Select(title string, options []Option) (int, error) {
	if len(options) == 0 {
		return -1, ErrBack
	}
	final, err := t.run(newSelectModel(title, options))
	if err != nil {
		return -1, err
	}
	m := final.(selectModel)
	if err := m.state.err(); err != nil {
		return -1, err
	}
	return m.chosen, nil
}

// Input reads one trimmed line of text.
func (t *Terminal) Input(prompt, placeholder string) (string, error) {
	final, err := t.run(newInputModel(prompt, placeholder))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if err := m.state.err(); err != nil {
		return "", err
	}
	return m.Value(), nil
}

// Confirm asks a yes/no question defaulting to no.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	final, err := t.run(newConfirmModel(prompt))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if err := m.state.err(); err != nil {
		return false, err
	}
	return m.yes, nil
}

// Pause waits for enter.
func (t *Terminal) Pause(message string) error {
	if message == "" {
		message = "Press Enter to continue..."
	}
	final, err := t.run(pauseModel{message: message, keys: newKeyMap()})
	if err != nil {
		return err
	}
	return final.(pauseModel).state.err()
}

// Progress runs work in the background and renders its updates until it returns.
func (t *Terminal) Progress(title string, work func(progress chan<- tasks.ProgressUpdate)) error {
	updates := make(chan tasks.ProgressUpdate, progressBuffer)
	go func() {
		defer close(updates)
		work(updates)
	}()

	final, err := t.run(newProgressModel(title, updates))
	if err != nil {
		return err
	}
	return final.(progressModel).state.err()
}

// Println writes a line of already rendered output.
func (t *Terminal) Println(s string) {
	fmt.Fprintln(t.out, s)
}
