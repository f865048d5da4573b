package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/tasks"
	"github.com/desertthunder/focus/internal/ui"
)

const newCategoryLabel = "+ New Category"

// AddChannel walks through picking a category and adding a channel by handle, URL or id.
func (s *Session) AddChannel(ctx context.Context) error {
	category, err := s.chooseCategory("Which category?", newCategoryLabel)
	if err != nil {
		return err
	}

	if category == newCategoryLabel {
		raw, err := s.prompt.Input("New category name (e.g., data science):", "")
		if err != nil {
			return err
		}
		category = models.NormalizeCategoryName(raw)
		if category == "" {
			s.prompt.Println(ui.Error("Invalid category name. Try again with letters or numbers."))
			return nil
		}
	}

	input, err := s.prompt.Input("Channel handle (e.g., @Fireship), URL, or Channel ID (UC...):", "@handle")
	if err != nil {
		return err
	}
	if !models.IsHandleOrURL(input) {
		s.prompt.Println(ui.Error("Please enter a handle (@...), full URL, or Channel ID (UC...)."))
		return nil
	}

	id, err := s.channelID(ctx, strings.TrimSpace(input))
	if err != nil || id == "" {
		return err
	}

	name, err := s.prompt.Input("Enter a display name for this channel:", "")
	if err != nil {
		return err
	}
	if name == "" {
		s.prompt.Println(ui.ErrorPanel("❌ Channel name cannot be empty"))
		return nil
	}

	added, err := s.catalog.AddChannel(category, name, id)
	switch {
	case err != nil:
		s.logger.Error("could not add channel", "category", category, "id", id, "err", err)
		s.prompt.Println(ui.ErrorPanel("❌ Could not add channel: " + err.Error()))
	case added:
		s.logger.Info("channel added", "category", category, "name", name, "id", id)
		s.prompt.Println(ui.SuccessPanel(fmt.Sprintf("✓ Added %s to %s", name, category)))
	default:
		s.prompt.Println(ui.WarningPanel(fmt.Sprintf("⚠️  Channel already exists in %s", category)))
	}
	return nil
}

// channelID validates a literal id or resolves a handle or URL, offering manual entry when
// resolution fails. An empty id with a nil error means the flow was abandoned.
func (s *Session) channelID(ctx context.Context, input string) (string, error) {
	if strings.HasPrefix(input, "UC") {
		if !models.IsValidChannelID(input) {
			s.prompt.Println(ui.Error("Invalid channel ID. It should start with UC and be at least 22 chars."))
			return "", nil
		}
		return input, nil
	}

	var (
		id string
		ok bool
	)
	err := s.prompt.Progress("Resolving "+input+"...", func(chan<- tasks.ProgressUpdate) {
		id, ok = s.resolver.Resolve(ctx, input)
	})
	if err != nil {
		return "", err
	}
	if ok {
		s.prompt.Println(ui.Success("✓ Found ID " + id))
		return id, nil
	}

	s.prompt.Println(ui.WarningPanel("⚠️  Resolution failed. Try entering the Channel ID manually."))
	manual, err := s.prompt.Confirm("Enter Channel ID manually (UC...)?")
	if err != nil || !manual {
		return "", err
	}

	id, err = s.prompt.Input("Channel ID (e.g., UCsBjURrPoezykLs9EqgamOA):", "UC...")
	if err != nil {
		return "", err
	}
	if !models.IsValidChannelID(id) {
		s.prompt.Println(ui.ErrorPanel("❌ Invalid channel ID. Must start with UC and be 22+ chars."))
		return "", nil
	}
	return id, nil
}

// RemoveChannel removes one channel from a category after confirmation.
func (s *Session) RemoveChannel() error {
	category, err := s.chooseCategory("Choose category to remove from:")
	if err != nil {
		return err
	}
	ch, err := s.chooseChannel("Remove which channel?", category, func(ch models.Channel) string { return ch.Name })
	if err != nil {
		return err
	}

	confirmed, err := s.prompt.Confirm(fmt.Sprintf("Remove '%s' from %s?", ch.Name, category))
	if err != nil || !confirmed {
		return err
	}

	removed, err := s.catalog.RemoveChannel(category, ch.ID)
	if err != nil || !removed {
		s.logger.Error("could not remove channel", "category", category, "id", ch.ID, "err", err)
		s.prompt.Println(ui.Error("Failed to remove channel"))
		return nil
	}
	s.prompt.Println(ui.Success(fmt.Sprintf("✓ Removed %s from %s", ch.Name, category)))
	return nil
}

// RemoveCategory removes a category and all its channels after confirmation.
func (s *Session) RemoveCategory() error {
	category, err := s.chooseCategory("Remove which category?")
	if err != nil {
		return err
	}

	confirmed, err := s.prompt.Confirm(fmt.Sprintf("Are you sure you want to remove '%s' and all its channels?", category))
	if err != nil || !confirmed {
		return err
	}

	removed, err := s.catalog.RemoveCategory(category)
	if err != nil || !removed {
		s.logger.Error("could not remove category", "category", category, "err", err)
		s.prompt.Println(ui.Error("Failed to remove category"))
		return nil
	}
	s.prompt.Println(ui.Success(fmt.Sprintf("✓ Removed category '%s'", category)))
	return nil
}

// OpenChannel opens a chosen channel's page in the browser.
func (s *Session) OpenChannel() error {
	category, err := s.chooseCategory("Choose a category:")
	if err != nil {
		return err
	}
	ch, err := s.chooseChannel("Open which channel?", category, func(ch models.Channel) string {
		return fmt.Sprintf("%s → %s", ch.Name, ch.ID)
	})
	if err != nil {
		return err
	}

	if err := s.openURL(models.ChannelURL(ch.ID)); err != nil {
		s.prompt.Println(ui.Error("Could not open browser: " + err.Error()))
		return nil
	}
	s.prompt.Println(ui.Success("✓ Opened " + ch.Name + " in browser"))
	return nil
}

func isBack(err error) bool {
	return errors.Is(err, ui.ErrBack)
}
