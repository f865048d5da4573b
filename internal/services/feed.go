package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultFeedURL is the public Atom feed of a channel's uploads.
	DefaultFeedURL     = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"
	defaultFeedEntries = 3
	defaultFeedTimeout = 15 * time.Second
	feedUserAgent      = "focus/1.0 (+https://github.com/desertthunder/focus)"
)

// FeedClient fetches recent uploads from the channel RSS feed.
type FeedClient struct {
	httpClient *http.Client
	urlFormat  string
	limit      int
}

// FeedOption configures a [FeedClient].
type FeedOption func(*FeedClient)

// WithFeedHTTPClient replaces the HTTP client.
func WithFeedHTTPClient(c *http.Client) FeedOption {
	return func(f *FeedClient) { f.httpClient = c }
}

// WithFeedURL sets the feed URL format. It must contain a single %s for the channel id.
func WithFeedURL(format string) FeedOption {
	return func(f *FeedClient) {
		if format != "" {
			f.urlFormat = format
		}
	}
}

// WithFeedLimit caps the number of entries taken from a feed.
func WithFeedLimit(n int) FeedOption {
	return func(f *FeedClient) {
		if n > 0 {
			f.limit = n
		}
	}
}

// NewFeedClient creates a feed client with a 15 second request timeout and a limit of 3 entries.
func NewFeedClient(opts ...FeedOption) *FeedClient {
	f := &FeedClient{
		httpClient: &http.Client{Timeout: defaultFeedTimeout},
		urlFormat:  DefaultFeedURL,
		limit:      defaultFeedEntries,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FeedURL returns the feed location for a channel id.
func (f *FeedClient) FeedURL(channelID string) string {
	return fmt.Sprintf(f.urlFormat, url.QueryEscape(channelID))
}

// FetchVideos requests and parses the feed for ch.
//
// An empty feed returns [shared.ErrFeedEmpty] so callers can fall back.
func (f *FeedClient) FetchVideos(ctx context.Context, ch models.Channel) ([]models.Video, error) {
	if !models.IsValidChannelID(ch.ID) {
		return nil, fmt.Errorf("%w: invalid channel id %q", shared.ErrFeedFetch, ch.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.FeedURL(ch.ID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrFeedFetch, err)
	}
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %w: %v", shared.ErrFeedFetch, shared.ErrToolTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrFeedFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", shared.ErrFeedFetch, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", shared.ErrFeedFetch, shared.ErrMalformedOutput, err)
	}

	videos := make([]models.Video, 0, f.limit)
	for _, item := range feed.Items {
		if len(videos) == f.limit {
			break
		}
		videos = append(videos, itemToVideo(item, ch.Name))
	}

	if len(videos) == 0 {
		return nil, shared.ErrFeedEmpty
	}
	return videos, nil
}

func itemToVideo(item *gofeed.Item, channelName string) models.Video {
	v := models.Video{
		Title:       item.Title,
		Link:        item.Link,
		ChannelName: channelName,
		Published:   item.Published,
		VideoID:     feedVideoID(item),
	}
	if v.Link == "" && v.VideoID != "" {
		v.Link = models.WatchURL(v.VideoID)
	}
	return v
}

// feedVideoID reads the yt:videoId extension, falling back to the v query parameter of the link.
func feedVideoID(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		if ids := yt["videoId"]; len(ids) > 0 && ids[0].Value != "" {
			return ids[0].Value
		}
	}

	u, err := url.Parse(item.Link)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
