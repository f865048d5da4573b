package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	colorAccent  = lipgloss.Color("#7D56F4")
	colorOK      = lipgloss.Color("#04B575")
	colorErr     = lipgloss.Color("#FF5F87")
	colorWarn    = lipgloss.Color("#FFA500")
	colorDim     = lipgloss.Color("#626262")
	colorInfo    = lipgloss.Color("#00BFFF")
	colorHeading = lipgloss.Color("#FF79C6")
)

var styles = NewPalette(colorAccent, colorOK, colorErr, colorWarn, colorDim)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	info    lipgloss.Style
	heading lipgloss.Style
}

func NewPalette(t, s, e, w, h lipgloss.Color) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		info:    NewBold(colorInfo),
		heading: NewBold(colorHeading),
	}
}

func NewStyle(fg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg)
}

func NewBold(fg lipgloss.Color) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg lipgloss.Color) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Success renders s in the success color.
func Success(s string) string { return styles.ok.Render(s) }

// Warning renders s in the warning color.
func Warning(s string) string { return styles.warn.Render(s) }

// Error renders s in the error color.
func Error(s string) string { return styles.err.Render(s) }

// Info renders s in the info color.
func Info(s string) string { return styles.info.Render(s) }

// Dim renders s as secondary text.
func Dim(s string) string { return styles.help.Render(s) }
