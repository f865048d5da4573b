package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var _ list.DefaultItem = choiceItem{}

// Option is one entry of a [Terminal.Select] prompt.
type Option struct {
	Label string
	Hint  string // shown under the label
}

// choiceItem wraps an [Option] and its position to implement [list.Item].
type choiceItem struct {
	option Option
	index  int
}

func (i choiceItem) FilterValue() string { return i.option.Label }
func (i choiceItem) Title() string       { return i.option.Label }
func (i choiceItem) Description() string { return i.option.Hint }

func toItems(options []Option) []list.Item {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = choiceItem{option: opt, index: i}
	}
	return items
}

func hasHints(options []Option) bool {
	for _, opt := range options {
		if opt.Hint != "" {
			return true
		}
	}
	return false
}
