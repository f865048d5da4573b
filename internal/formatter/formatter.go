// package formatter renders watch history, videos and the Learning Log as text, markdown, CSV and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
)

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// VideoLabel is the one-line description of a video used in lists.
func VideoLabel(v models.Video) string {
	return fmt.Sprintf("[%s] %s", v.ChannelName, Truncate(v.Title, 50))
}

// ShortID abbreviates a channel id for tables.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

// ExportHistoryCSV converts watch entries to CSV with columns: Timestamp, Category, Channel, Title, Video ID
func ExportHistoryCSV(entries []models.WatchEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Timestamp", "Category", "Channel", "Title", "Video ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{e.Timestamp, e.Category, e.Channel, e.Title, e.VideoID}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportHistoryMarkdown renders watch entries grouped as a markdown list, newest first.
func ExportHistoryMarkdown(entries []models.WatchEntry, stats *models.Stats) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Watch History\n\n")
	if stats != nil {
		buf.WriteString(fmt.Sprintf("**Videos Watched**: %d\n", stats.TotalVideos))
		buf.WriteString(fmt.Sprintf("**Focus Time (est)**: %s\n", stats.TotalTime))
		if top, ok := stats.TopCategory(); ok {
			buf.WriteString(fmt.Sprintf("**Top Focus**: %s (%d)\n", top.Category, top.Count))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Videos\n\n")
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		buf.WriteString(fmt.Sprintf("- %s [%s] **%s** (%s) - [Watch](%s)\n",
			e.Date(), categoryOrUnknown(e.Category), e.Title, e.Channel, models.WatchURL(e.VideoID)))
	}

	return buf.Bytes(), nil
}

// ExportHistoryText renders watch entries as plain text, newest first.
func ExportHistoryText(entries []models.WatchEntry) ([]byte, error) {
	var buf bytes.Buffer
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		buf.WriteString(fmt.Sprintf("%s  %-15s  %s (%s)\n", e.Date(), categoryOrUnknown(e.Category), e.Title, e.Channel))
	}
	return buf.Bytes(), nil
}

// ExportHistory renders entries in format: json, csv, markdown, or txt (default).
func ExportHistory(entries []models.WatchEntry, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return shared.MarshalJSON(entries, true)
	case "csv":
		return ExportHistoryCSV(entries)
	case "markdown", "md":
		return ExportHistoryMarkdown(entries, models.ComputeStats(entries))
	case "txt", "text", "":
		return ExportHistoryText(entries)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteHistoryExport renders entries and writes them to path.
func WriteHistoryExport(entries []models.WatchEntry, format, path string) error {
	data, err := ExportHistory(entries, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func categoryOrUnknown(c string) string {
	if c == "" {
		return "?"
	}
	return c
}
