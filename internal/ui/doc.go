// Package ui implements the interactive terminal prompts and views using bubbletea's Elm architecture.
//
// Each prompt is a short-lived bubbletea program that returns one answer:
//  1. [Terminal.Select] : pick one of several options from a filterable list
//  2. [Terminal.Input] : read a line of text
//  3. [Terminal.Confirm] : yes or no
//  4. [Terminal.Pause] : wait for enter
//  5. [Terminal.Progress] : show a spinner and per-channel status while work runs
//
// Every model implements bubbletea's standard Init/Update/View pattern. Pressing ctrl+c returns
// [shared.ErrInterrupted]; esc returns [ErrBack] where going back makes sense.
//
// Static views (banner, dashboard, channel tables, panels) are plain strings rendered with lipgloss and lipgloss/table.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n) with contextual help displayed via charmbracelet/bubbles/help.
package ui
