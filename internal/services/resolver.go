package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
)

const handlePrefix = "@"

// Resolver turns user-supplied channel references into channel ids.
type Resolver struct {
	lookup ChannelLookup
	logger *log.Logger
}

// NewResolver creates a resolver backed by lookup.
func NewResolver(lookup ChannelLookup, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{lookup: lookup, logger: shared.WithLogger(logger, "component", "resolver")}
}

// Resolve returns the channel id for a handle, URL or literal id.
//
// Failures are logged at warn and reported as ("", false). No retries are made.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if models.IsValidChannelID(input) {
		return input, true
	}

	target := LookupURL(input)
	r.logger.Debug("resolving channel", "input", input, "url", target)

	id, err := r.lookup.LookupChannelID(ctx, target)
	if err != nil {
		r.logger.Warn("could not resolve channel", "input", input, "err", err)
		return "", false
	}
	return id, true
}

// LookupURL builds the page queried for input.
//
// URLs containing an @handle path segment are reduced to the handle so that "@fireship" and
// "https://www.youtube.com/@fireship" produce the same lookup. Other URLs are returned unchanged.
func LookupURL(input string) string {
	input = strings.TrimSpace(input)
	if isURL(input) {
		if handle, ok := HandleFromURL(input); ok {
			return ChannelVideosURL(handle)
		}
		return input
	}
	return ChannelVideosURL(input)
}

// HandleFromURL extracts the "@handle" path segment of a channel URL.
func HandleFromURL(raw string) (string, bool) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if strings.HasPrefix(seg, handlePrefix) && len(seg) > 1 {
			return seg, true
		}
	}
	return "", false
}

func isURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.Contains(lower, "youtube.com/") ||
		strings.Contains(lower, "youtu.be/")
}
