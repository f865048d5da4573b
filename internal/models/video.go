package models

import "strings"

// Video is a recent upload produced by one retrieval cycle. It is never persisted except when logged.
type Video struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	ChannelName string `json:"channel"`
	Published   string `json:"published"` // raw feed timestamp or yt-dlp upload_date
	VideoID     string `json:"video_id"`
}

// WatchURL returns the canonical watch link for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// IsShort reports whether a title looks like short-form content.
//
// The check is a substring heuristic and over-matches: "Shortcuts in VSCode" is treated as a short.
func IsShort(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "#shorts") || strings.Contains(lower, "short")
}

// FilterShorts drops videos whose titles match [IsShort].
func FilterShorts(videos []Video) []Video {
	kept := make([]Video, 0, len(videos))
	for _, v := range videos {
		if !IsShort(v.Title) {
			kept = append(kept, v)
		}
	}
	return kept
}

// PublishedDate trims a published timestamp to its date portion for display.
func (v Video) PublishedDate() string {
	if len(v.Published) > 10 {
		return v.Published[:10]
	}
	return v.Published
}
