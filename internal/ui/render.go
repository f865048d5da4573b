package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/focus/internal/formatter"
	"github.com/desertthunder/focus/internal/models"
)

const (
	recentRows       = 5
	recentTitleWidth = 35
	detailTitleWidth = 60
)

// Panel draws body inside a rounded border with an optional title line.
func Panel(title, body string, border lipgloss.Color) string {
	content := body
	if title != "" {
		content = NewBold(border).Render(title) + "\n\n" + body
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Render(content)
}

// SuccessPanel renders an untitled panel in the success color.
func SuccessPanel(body string) string { return Panel("", styles.ok.Render(body), colorOK) }

func WarningPanel(body string) string { return Panel("", styles.warn.Render(body), colorWarn) }

func ErrorPanel(body string) string { return Panel("", styles.err.Render(body), colorErr) }

// Banner is printed when the interactive session starts.
func Banner() string {
	body := lipgloss.NewStyle().Bold(true).Render("🎯 YouTube Focus Mode") + "\n" +
		NewStyle(colorInfo).Render("Curated • Intentional • Focused")
	return Panel("", body, colorInfo)
}

func newTable(headers ...string) *table.Table {
	headerStyle := styles.heading.Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(NewStyle(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorInfo)
			}
			return cellStyle
		})
}

// Dashboard renders the watch statistics: totals, category breakdown and recent videos.
func Dashboard(stats *models.Stats) string {
	if stats == nil || stats.TotalVideos == 0 {
		return Panel("📊 Your Dashboard", styles.help.Render("📽️  No videos watched yet\n\nStart watching to build your learning dashboard!"), colorInfo)
	}

	label := NewBold(colorWarn).Width(22)
	value := lipgloss.NewStyle().Bold(true)
	rows := []string{
		label.Render("🎥 Videos Watched") + value.Render(strconv.Itoa(stats.TotalVideos)),
		label.Render("⏱️  Focus Time (est)") + value.Render(stats.TotalTime),
	}
	if top, ok := stats.TopCategory(); ok {
		rows = append(rows, label.Render("🔥 Top Focus")+Info(top.Category)+fmt.Sprintf(" (%d)", top.Count))
	}

	breakdown := newTable("Category", "Videos")
	for _, c := range stats.Categories {
		breakdown.Row(c.Category, strconv.Itoa(c.Count))
	}

	recent := newTable("Category", "Video Title")
	for _, e := range latest(stats.Recent, recentRows) {
		cat := e.Category
		if cat == "" {
			cat = "?"
		}
		recent.Row(cat, formatter.Truncate(e.Title, recentTitleWidth))
	}

	return strings.Join([]string{
		Panel("📊 Your Progress", strings.Join(rows, "\n"), colorOK),
		styles.info.Render("Category Breakdown"),
		breakdown.Render(),
		styles.info.Render("Recent Learning"),
		recent.Render(),
	}, "\n")
}

// latest returns up to n entries, newest first.
func latest(entries []models.WatchEntry, n int) []models.WatchEntry {
	start := max(len(entries)-n, 0)
	out := make([]models.WatchEntry, 0, len(entries)-start)
	for i := len(entries) - 1; i >= start; i-- {
		out = append(out, entries[i])
	}
	return out
}

// Channels renders one table per category.
func Channels(catalog *models.Catalog) string {
	if catalog == nil || len(catalog.Categories) == 0 {
		return WarningPanel("⚠️  No categories found.")
	}

	var sections []string
	for _, cat := range catalog.Categories {
		heading := styles.info.Render(strings.ToUpper(cat.Name))
		if len(cat.Channels) == 0 {
			sections = append(sections, heading+"\n"+Dim("  (empty)"))
			continue
		}
		t := newTable("Channel Name", "Channel ID")
		for _, ch := range cat.Channels {
			t.Row(ch.Name, formatter.ShortID(ch.ID))
		}
		sections = append(sections, heading+"\n"+t.Render())
	}
	return strings.Join(sections, "\n\n")
}

// VideoDetails renders the channel, title and publish date of a video.
func VideoDetails(v models.Video) string {
	label := NewStyle(colorDim).Width(14)
	body := strings.Join([]string{
		label.Render("📺 Channel:") + v.ChannelName,
		label.Render("🎯 Title:") + formatter.Truncate(v.Title, detailTitleWidth),
		label.Render("📅 Published:") + v.PublishedDate(),
	}, "\n")
	return Panel("Video Details", body, colorOK)
}

// LearningLog renders checklist entries with their completion marks.
func LearningLog(entries []models.LogEntry) string {
	if len(entries) == 0 {
		return WarningPanel("📝 Your Learning Log is empty.")
	}
	lines := make([]string, 0, len(entries)+2)
	for i, e := range entries {
		mark := styles.help.Render("[ ]")
		if e.Completed {
			mark = styles.ok.Render("[x]")
		}
		lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1, mark, e.Title))
	}
	lines = append(lines, "", Dim(fmt.Sprintf("%d of %d completed", formatter.CompletedCount(entries), len(entries))))
	return Panel("📝 Learning Log", strings.Join(lines, "\n"), colorAccent)
}

// NoPlayerNotice explains how to enable ad-free playback when only the browser is available.
func NoPlayerNotice() string {
	body := strings.Join([]string{
		styles.warn.Render("To enable ad-free video playback:"),
		"",
		lipgloss.NewStyle().Bold(true).Render("Option 1: Install MPV (Recommended)"),
		styles.ok.Render("https://mpv.io/installation/"),
		"",
		lipgloss.NewStyle().Bold(true).Render("Option 2: Install VLC"),
		styles.ok.Render("https://www.videolan.org/vlc/"),
		"",
		Dim("Or set [player] path in config.toml."),
	}, "\n")
	return Panel("🎯 Setup Required for Ad-Free Mode", body, colorWarn)
}

// NoticePanel is a titled panel in the success color.
func NoticePanel(title, body string) string {
	return Panel(title, body, colorOK)
}
