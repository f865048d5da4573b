package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/focus/internal/formatter"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/tasks"
	"github.com/desertthunder/focus/internal/ui"
)

// BrowseCategory fetches the category's recent videos and lets the user pick and act on them.
//
// Videos are fetched once per visit. The returned error is [errExit] when the user leaves the app
// from the video list.
func (s *Session) BrowseCategory(ctx context.Context, category string) error {
	channels, err := s.catalog.Channels(category)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		s.prompt.Println(ui.WarningPanel("📭 No channels in this category yet\n\nSelect '+ Add New Channel' to get started"))
		return s.pause()
	}

	videos, err := s.fetch(ctx, channels)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		s.prompt.Println(ui.WarningPanel("⚠️  No recent videos found."))
		return s.pause()
	}
	if s.opts.FilterShorts {
		videos = models.FilterShorts(videos)
		if len(videos) == 0 {
			s.prompt.Println(ui.WarningPanel("⚠️  No full-length videos found (only Shorts)."))
			return s.pause()
		}
	}

	opts := make([]ui.Option, 0, len(videos)+2)
	for _, v := range videos {
		opts = append(opts, ui.Option{Label: formatter.VideoLabel(v), Hint: v.PublishedDate()})
	}
	goBack, exitApp := len(videos), len(videos)+1
	opts = append(opts, ui.Option{Label: "🔙 Go Back"}, ui.Option{Label: "❌ Exit App"})

	title := fmt.Sprintf("📺 %s • select a video to watch", strings.ToUpper(category))
	for {
		idx, err := s.prompt.Select(title, opts)
		switch {
		case errors.Is(err, ui.ErrBack):
			return nil
		case err != nil:
			return err
		case idx == goBack:
			return nil
		case idx == exitApp:
			return errExit
		}

		video := videos[idx]
		s.prompt.Println(ui.VideoDetails(video))
		if err := s.videoActions(ctx, category, video); err != nil {
			return err
		}
	}
}

// fetch runs the engine behind a progress display and prints per-channel warnings.
func (s *Session) fetch(ctx context.Context, channels []models.Channel) ([]models.Video, error) {
	var result *tasks.FetchResult
	err := s.prompt.Progress("Fetching latest videos...", func(progress chan<- tasks.ProgressUpdate) {
		result = s.engine.FetchAll(ctx, channels, progress)
	})
	if err != nil {
		return nil, err
	}

	for _, warning := range result.Warnings() {
		s.prompt.Println(ui.Warning("⚠️  " + warning))
	}
	s.logger.Info("fetched videos", "channels", len(channels), "videos", len(result.Videos))
	return result.Videos, nil
}

// videoActions loops over the actions for a selected video until the user goes back.
func (s *Session) videoActions(ctx context.Context, category string, video models.Video) error {
	type action int
	const (
		stream action = iota
		save
		back
	)

	actions := []action{stream}
	opts := []ui.Option{{Label: "📺 Stream (Watch Now)"}}
	if s.caps.Gist {
		actions = append(actions, save)
		opts = append(opts, ui.Option{Label: "💾 Save to Learning Log"})
	}
	actions = append(actions, back)
	opts = append(opts, ui.Option{Label: "🔙 Back to Videos"})

	for {
		idx, err := s.prompt.Select("What would you like to do?", opts)
		if errors.Is(err, ui.ErrBack) {
			return nil
		}
		if err != nil {
			return err
		}

		switch actions[idx] {
		case back:
			return nil
		case stream:
			s.Stream(ctx, category, video)
		case save:
			if err := s.SaveToLearningLog(ctx, video.Title, videoURL(video)); err != nil {
				s.logger.Error("could not save to learning log", "video", video.VideoID, "err", err)
				s.prompt.Println(ui.ErrorPanel("❌ Failed to save to the Learning Log: " + err.Error()))
			}
		}
		if err := s.pause(); err != nil {
			return err
		}
	}
}

// Stream logs the watch and then plays the video, blocking until the player exits.
func (s *Session) Stream(ctx context.Context, category string, video models.Video) {
	s.prompt.Println(ui.NoticePanel("🚀 Launching Video", formatter.VideoLabel(video)+"\n\n"+ui.Dim("Close the player when done.")))

	if err := s.history.LogWatch(video.Title, video.ChannelName, video.VideoID, category); err != nil {
		s.logger.Error("could not log watch", "video", video.VideoID, "err", err)
		s.prompt.Println(ui.Warning("⚠️  Could not record this video in your history"))
	}

	if err := s.caps.Player.Play(ctx, videoURL(video)); err != nil {
		s.logger.Error("playback failed", "player", s.caps.Player.Name(), "err", err)
		s.prompt.Println(ui.ErrorPanel("❌ Playback failed: " + err.Error()))
		return
	}
	s.prompt.Println(ui.SuccessPanel("✓ Video watched and logged to your history!"))
}

func videoURL(v models.Video) string {
	if v.Link != "" {
		return v.Link
	}
	return models.WatchURL(v.VideoID)
}
