package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MinutesPerVideo is the focus time credited for each watched video.
const MinutesPerVideo = 15

// RecentLimit bounds [Stats.Recent].
const RecentLimit = 10

// WatchEntry records a watched video. Entries are append-only and chronological.
type WatchEntry struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	VideoID   string `json:"video_id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

// Date returns the date portion of the entry timestamp.
func (e WatchEntry) Date() string {
	date, _, _ := strings.Cut(e.Timestamp, "T")
	return date
}

// CategoryCount pairs a category with the number of videos watched in it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes the watch history for the dashboard.
type Stats struct {
	TotalVideos int             `json:"total_videos"`
	TotalTime   string          `json:"total_time"`
	Categories  []CategoryCount `json:"categories"` // sorted by count, descending
	Recent      []WatchEntry    `json:"recent"`     // oldest first
}

// TopCategory returns the most watched category.
func (s *Stats) TopCategory() (CategoryCount, bool) {
	if len(s.Categories) == 0 {
		return CategoryCount{}, false
	}
	return s.Categories[0], true
}

// ComputeStats derives dashboard figures from a chronological history.
func ComputeStats(entries []WatchEntry) *Stats {
	counts := map[string]int{}
	order := []string{}
	for _, e := range entries {
		cat := e.Category
		if cat == "" {
			cat = "?"
		}
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}

	categories := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		categories = append(categories, CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Count > categories[j].Count
	})

	recent := entries
	if len(recent) > RecentLimit {
		recent = recent[len(recent)-RecentLimit:]
	}

	return &Stats{
		TotalVideos: len(entries),
		TotalTime:   FormatFocusTime(time.Duration(len(entries)*MinutesPerVideo) * time.Minute),
		Categories:  categories,
		Recent:      append([]WatchEntry(nil), recent...),
	}
}

// FormatFocusTime renders a duration as "Xh Ym" or "Ym".
func FormatFocusTime(d time.Duration) string {
	minutes := int(d.Minutes())
	hours := minutes / 60
	minutes %= 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// LogEntry is one checklist line of the Learning Log.
type LogEntry struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	VideoID   string `json:"video_id,omitempty"`
	Completed bool   `json:"completed"`
}
