package session

import (
	"context"
	"fmt"

	"github.com/desertthunder/focus/internal/formatter"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/services"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/desertthunder/focus/internal/ui"
)

const logTitleWidth = 60

// SaveToLearningLog appends a video to the Learning Log gist, creating the gist on first use.
func (s *Session) SaveToLearningLog(ctx context.Context, title, url string) error {
	if !s.caps.Gist || s.gist == nil {
		return shared.ErrGistUnavailable
	}

	gistID, err := s.catalog.GistID()
	if err != nil {
		return err
	}

	s.prompt.Println(ui.Info("🐱 Syncing with GitHub..."))
	filename := s.opts.GistFilename

	if gistID == "" {
		content := formatter.NewLearningLog(title, url)
		id, err := s.gist.Create(ctx, filename, s.opts.GistDescription, content, s.opts.GistPublic)
		if err != nil {
			return err
		}
		if err := s.catalog.SetGistID(id); err != nil {
			return err
		}
		s.logger.Info("learning log created", "gist", id)
		s.prompt.Println(ui.Success("✅ Created & Saved to Gist ID: " + id))
		return nil
	}

	current, err := s.gist.Read(ctx, gistID, filename)
	if err != nil {
		return err
	}
	if err := s.gist.Update(ctx, gistID, filename, formatter.AppendLogEntry(current, title, url)); err != nil {
		return err
	}
	s.prompt.Println(ui.Success(fmt.Sprintf("✅ Added '%s' to your Learning Log!", title)))
	return nil
}

// ViewLearningLog lists Learning Log entries and lets the user watch or toggle them.
func (s *Session) ViewLearningLog(ctx context.Context) error {
	if !s.caps.Gist || s.gist == nil {
		s.prompt.Println(ui.WarningPanel("⚠️  GitHub gist sync not available. Cannot access Learning Log."))
		return nil
	}

	gistID, err := s.catalog.GistID()
	if err != nil {
		return err
	}
	if gistID == "" {
		s.prompt.Println(ui.WarningPanel("📚 No Learning Log found yet.\n\nSave your first video to create one!"))
		return nil
	}

	filename := s.opts.GistFilename
	content, err := s.gist.Read(ctx, gistID, filename)
	if err != nil {
		s.logger.Error("could not fetch learning log", "gist", gistID, "err", err)
		s.prompt.Println(ui.Error("❌ Failed to fetch Learning Log"))
		return nil
	}

	entries := formatter.ParseLearningLog(content)
	if len(entries) == 0 {
		s.prompt.Println(ui.WarningPanel("Your Learning Log is empty."))
		return nil
	}

	for {
		opts := make([]ui.Option, 0, len(entries)+2)
		for _, e := range entries {
			mark := "○"
			if e.Completed {
				mark = "✓"
			}
			opts = append(opts, ui.Option{Label: mark + " " + formatter.Truncate(e.Title, logTitleWidth)})
		}
		openAll, goBack := len(entries), len(entries)+1
		opts = append(opts, ui.Option{Label: "🌐 Open Full List in Browser"}, ui.Option{Label: "🔙 Go Back"})

		title := fmt.Sprintf("📚 Your Learning Queue (%d/%d completed):", formatter.CompletedCount(entries), len(entries))
		idx, err := s.prompt.Select(title, opts)
		switch {
		case isBack(err):
			return nil
		case err != nil:
			return err
		case idx == goBack:
			return nil
		case idx == openAll:
			if err := s.openURL(services.GistURL(gistID)); err != nil {
				s.prompt.Println(ui.Error("Could not open browser: " + err.Error()))
			} else {
				s.prompt.Println(ui.Success("✓ Opened in browser"))
			}
			if err := s.pause(); err != nil {
				return err
			}
			continue
		}

		updated, err := s.logEntryActions(ctx, gistID, content, idx, entries[idx])
		if err != nil {
			return err
		}
		if updated != content {
			content = updated
			entries = formatter.ParseLearningLog(content)
		}
	}
}

// logEntryActions offers watch and toggle for one entry and returns the possibly updated log content.
func (s *Session) logEntryActions(ctx context.Context, gistID, content string, index int, entry models.LogEntry) (string, error) {
	toggleLabel := "✓ Mark as Complete"
	if entry.Completed {
		toggleLabel = "○ Mark as Incomplete"
	}
	const (
		watch = iota
		toggle
		cancel
	)
	opts := []ui.Option{{Label: "▶️  Watch Now"}, {Label: toggleLabel}, {Label: "🔙 Cancel"}}

	idx, err := s.prompt.Select("📺 "+formatter.Truncate(entry.Title, 50), opts)
	switch {
	case isBack(err):
		return content, nil
	case err != nil:
		return content, err
	}

	switch idx {
	case watch:
		s.watchLogEntry(ctx, entry)
	case toggle:
		updated, ok := formatter.ToggleLogEntry(content, index)
		if !ok {
			s.prompt.Println(ui.Error("❌ Entry not found in the Learning Log"))
			break
		}
		if err := s.gist.Update(ctx, gistID, s.opts.GistFilename, updated); err != nil {
			s.logger.Error("could not update learning log", "gist", gistID, "err", err)
			s.prompt.Println(ui.Error("❌ Failed to update: " + err.Error()))
			break
		}
		s.prompt.Println(ui.Success("✓ Updated!"))
		content = updated
	case cancel:
		return content, nil
	}

	return content, s.pause()
}

func (s *Session) watchLogEntry(ctx context.Context, entry models.LogEntry) {
	if entry.VideoID == "" {
		if err := s.openURL(entry.URL); err != nil {
			s.prompt.Println(ui.Error("Could not open browser: " + err.Error()))
		}
		return
	}

	s.prompt.Println(ui.Warning("🎬 " + entry.Title))
	if err := s.caps.Player.Play(ctx, models.WatchURL(entry.VideoID)); err != nil {
		s.logger.Error("playback failed", "player", s.caps.Player.Name(), "err", err)
		s.prompt.Println(ui.ErrorPanel("❌ Playback failed: " + err.Error()))
		return
	}
	s.prompt.Println(ui.Success("✓ Playback finished"))
}
