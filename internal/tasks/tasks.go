package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/services"
	"github.com/desertthunder/focus/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Source records which step produced a channel's videos.
type Source int

const (
	SourceNone Source = iota
	SourceFeed
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceFeed:
		return "rss"
	case SourceFallback:
		return "yt-dlp"
	default:
		return "none"
	}
}

// ChannelResult is the terminal state of one channel task.
type ChannelResult struct {
	Channel     models.Channel
	Source      Source
	Videos      []models.Video
	FeedErr     error // why the primary produced nothing; nil when it succeeded
	FallbackErr error // nil when the fallback succeeded or never ran
}

// Succeeded reports whether the channel produced at least one video.
func (r ChannelResult) Succeeded() bool {
	return len(r.Videos) > 0
}

// Err returns the error that left the channel empty, if any.
func (r ChannelResult) Err() error {
	if r.Succeeded() {
		return nil
	}
	return r.FallbackErr
}

// Warning describes a failed channel for display, or "" when nothing failed.
func (r ChannelResult) Warning() string {
	err := r.Err()
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", r.Channel.Name, DescribeError(err))
}

// FetchResult contains the merged videos and the per-channel outcomes of one retrieval cycle.
type FetchResult struct {
	Videos   []models.Video
	Channels []ChannelResult
}

// Warnings lists the failed channels in completion order.
func (r *FetchResult) Warnings() []string {
	var out []string
	for _, ch := range r.Channels {
		if w := ch.Warning(); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// DescribeError names the cause of a retrieval failure.
func DescribeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, shared.ErrToolTimeout):
		return "timed out"
	case errors.Is(err, shared.ErrToolNotInstalled):
		return "yt-dlp is not installed"
	case errors.Is(err, shared.ErrContentUnavailable):
		return "private, removed or blocked"
	case errors.Is(err, shared.ErrMalformedOutput):
		return "could not parse output"
	case errors.Is(err, shared.ErrFeedEmpty):
		return "feed has no entries"
	case errors.Is(err, shared.ErrToolFailed):
		if te, ok := services.IsToolError(err); ok && te.Stderr != "" {
			return te.Tool + " failed: " + te.Stderr
		}
		return err.Error()
	default:
		return err.Error()
	}
}

// EngineOpts configures a [VideoEngine].
type EngineOpts struct {
	Workers   int     // Concurrent channel tasks (default and cap: 10)
	RateLimit float64 // Feed requests per second; 0 disables pacing
}

// VideoEngine fetches recent uploads for a set of channels.
type VideoEngine struct {
	primary  services.VideoFetcher
	fallback services.VideoFetcher
	workers  int
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewVideoEngine creates an engine that tries primary first and fallback second.
func NewVideoEngine(primary, fallback services.VideoFetcher, logger *log.Logger, opts EngineOpts) *VideoEngine {
	if opts.Workers <= 0 || opts.Workers > shared.MaxWorkers {
		opts.Workers = shared.MaxWorkers
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	e := &VideoEngine{
		primary:  primary,
		fallback: fallback,
		workers:  opts.Workers,
		logger:   shared.WithLogger(logger, "component", "engine"),
	}
	if opts.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return e
}

// Workers returns the pool size.
func (e *VideoEngine) Workers() int {
	return e.workers
}

// sendProgress sends a progress update through the channel without blocking.
func (e *VideoEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchAll runs one task per channel and blocks until every task reaches a terminal state.
//
// Videos are merged in completion order. The call never fails; per-channel errors are in [FetchResult.Channels].
func (e *VideoEngine) FetchAll(ctx context.Context, channels []models.Channel, progress chan<- ProgressUpdate) *FetchResult {
	total := len(channels)
	result := &FetchResult{
		Videos:   []models.Video{},
		Channels: make([]ChannelResult, 0, total),
	}

	e.sendProgress(progress, fetchStartedUpdate(total))
	if total == 0 {
		e.sendProgress(progress, fetchCompletedUpdate(0, result))
		return result
	}

	results := make(chan ChannelResult, total)
	collected := make(chan struct{})

	go func() {
		defer close(collected)
		completed := 0
		for res := range results {
			completed++
			result.Channels = append(result.Channels, res)
			result.Videos = append(result.Videos, res.Videos...)
			e.sendProgress(progress, channelFetchedUpdate(completed, total, res))
		}
	}()

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, ch := range channels {
		g.Go(func() error {
			results <- e.fetchChannel(ctx, ch)
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-collected

	e.logger.Debug("fetch complete", "channels", total, "videos", len(result.Videos), "failed", len(result.Warnings()))
	e.sendProgress(progress, fetchCompletedUpdate(total, result))
	return result
}

// fetchChannel drives a single channel through primary, fallback and terminal states.
func (e *VideoEngine) fetchChannel(ctx context.Context, ch models.Channel) (res ChannelResult) {
	res.Channel = ch

	defer func() {
		if r := recover(); r != nil {
			res.Source = SourceNone
			res.Videos = nil
			res.FallbackErr = fmt.Errorf("panic while fetching: %v", r)
			e.logger.Warn("channel task panicked", "channel", ch.Name, "err", res.FallbackErr)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.FeedErr = err
		res.FallbackErr = err
		return res
	}

	videos, err := e.primaryFetch(ctx, ch)
	if err == nil && len(videos) > 0 {
		res.Source = SourceFeed
		res.Videos = videos
		return res
	}
	if err == nil {
		err = shared.ErrFeedEmpty
	}
	res.FeedErr = err
	e.logger.Debug("feed produced nothing, trying yt-dlp", "channel", ch.Name, "err", err)

	videos, err = e.fallback.FetchVideos(ctx, ch)
	if err != nil {
		res.FallbackErr = fmt.Errorf("%w: %w", shared.ErrFallback, err)
		e.logger.Warn("could not fetch videos", "channel", ch.Name, "cause", DescribeError(err), "err", err)
		return res
	}
	if len(videos) > 0 {
		res.Source = SourceFallback
		res.Videos = videos
	}
	return res
}

func (e *VideoEngine) primaryFetch(ctx context.Context, ch models.Channel) ([]models.Video, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrFeedFetch, err)
		}
	}
	return e.primary.FetchVideos(ctx, ch)
}
