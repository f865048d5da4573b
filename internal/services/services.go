package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/focus/internal/models"
)

// VideoFetcher retrieves recent uploads for a channel.
//
// Both the feed client and the yt-dlp fallback implement it.
type VideoFetcher interface {
	FetchVideos(ctx context.Context, ch models.Channel) ([]models.Video, error)
}

// ChannelLookup resolves a channel page URL to a channel id using yt-dlp metadata.
type ChannelLookup interface {
	LookupChannelID(ctx context.Context, url string) (string, error)
}

// GistClient creates, reads and updates a single-file gist.
type GistClient interface {
	// Create uploads a new gist and returns its id.
	Create(ctx context.Context, filename, description, content string, public bool) (string, error)

	// Read returns the content of filename in gist id.
	Read(ctx context.Context, id, filename string) (string, error)

	// Update replaces the content of filename in gist id.
	Update(ctx context.Context, id, filename, content string) error

	// Available reports whether the client can reach GitHub with credentials.
	Available(ctx context.Context) bool

	// Name returns the client name (e.g., "gh", "api")
	Name() string
}

// ToolError carries the context of a failed external call.
type ToolError struct {
	Tool   string
	Target string
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, e.Target, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// IsToolError reports whether err is a [*ToolError] and returns it.
func IsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
