package formatter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/focus/internal/models"
)

// LearningLogHeader opens every Learning Log document.
const LearningLogHeader = "# My Intentional Learning Log 🧠\n\n"

var logLinePattern = regexp.MustCompile(`^- \[([ x])\] \*\*(.+?)\*\* - \[Watch\]\((.+?)\)$`)

// LogLine renders an unchecked checklist line, including the trailing newline.
func LogLine(title, link string) string {
	return fmt.Sprintf("- [ ] **%s** - [Watch](%s)\n", title, link)
}

// NewLearningLog returns a fresh document holding one entry.
func NewLearningLog(title, link string) string {
	return LearningLogHeader + LogLine(title, link)
}

// AppendLogEntry adds an entry to existing content, inserting a newline when the content lacks one.
func AppendLogEntry(content, title, link string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + LogLine(title, link)
}

// ParseLearningLog extracts checklist entries in document order. Other lines are ignored.
func ParseLearningLog(content string) []models.LogEntry {
	var entries []models.LogEntry
	for _, line := range splitLines(content) {
		if e, ok := parseLogLine(line); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// ToggleLogEntry flips the completion mark of the index-th entry and returns the new content.
//
// Only that line changes; identical titles elsewhere are left alone.
func ToggleLogEntry(content string, index int) (string, bool) {
	lines := strings.Split(content, "\n")
	n := 0
	for i, line := range lines {
		e, ok := parseLogLine(strings.TrimRight(line, "\r"))
		if !ok {
			continue
		}
		if n == index {
			mark := "[x]"
			if e.Completed {
				mark = "[ ]"
			}
			lines[i] = "- " + mark + line[len("- [ ]"):]
			return strings.Join(lines, "\n"), true
		}
		n++
	}
	return content, false
}

// CompletedCount returns how many entries are checked.
func CompletedCount(entries []models.LogEntry) int {
	n := 0
	for _, e := range entries {
		if e.Completed {
			n++
		}
	}
	return n
}

func parseLogLine(line string) (models.LogEntry, bool) {
	m := logLinePattern.FindStringSubmatch(line)
	if m == nil {
		return models.LogEntry{}, false
	}
	return models.LogEntry{
		Title:     m[2],
		URL:       m[3],
		VideoID:   videoIDFromURL(m[3]),
		Completed: m[1] == "x",
	}, true
}

func videoIDFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
