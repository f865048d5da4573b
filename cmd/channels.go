package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/services"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/desertthunder/focus/internal/ui"
	"github.com/urfave/cli/v3"
)

// ChannelsList prints the catalog as tables or JSON.
func (r *Runner) ChannelsList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog.Load()
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(catalog, true)
	}
	return r.writePlain("%s\n", ui.Channels(catalog))
}

// ChannelsAdd resolves --input and adds the channel to --category.
func (r *Runner) ChannelsAdd(ctx context.Context, cmd *cli.Command) error {
	category := models.NormalizeCategoryName(cmd.String("category"))
	if category == "" {
		return fmt.Errorf("%w: category name %q has no usable characters", shared.ErrInvalidArgument, cmd.String("category"))
	}

	input := strings.TrimSpace(cmd.String("input"))
	if !models.IsHandleOrURL(input) {
		return fmt.Errorf("%w: expected a handle (@...), URL, or channel ID (UC...)", shared.ErrInvalidArgument)
	}

	id, ok := r.resolver.Resolve(ctx, input)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrResolution, input)
	}

	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		name = defaultChannelName(input)
	}
	if name == "" {
		return fmt.Errorf("%w: --name is required when adding by channel ID", shared.ErrMissingArgument)
	}

	added, err := r.catalog.AddChannel(category, name, id)
	if err != nil {
		return err
	}
	if !added {
		return r.writePlain("Channel %s already exists in %s\n", id, category)
	}
	r.logger.Info("channel added", "category", category, "name", name, "id", id)
	return r.writePlain("✓ Added %s (%s) to %s\n", name, id, category)
}

// defaultChannelName derives a display name from a handle or handle URL.
func defaultChannelName(input string) string {
	if strings.HasPrefix(input, "@") {
		return strings.TrimPrefix(input, "@")
	}
	if handle, ok := services.HandleFromURL(input); ok && strings.Contains(input, "/") {
		return strings.TrimPrefix(handle, "@")
	}
	return ""
}

// ChannelsRemove deletes a channel from a category.
func (r *Runner) ChannelsRemove(ctx context.Context, cmd *cli.Command) error {
	category, id := cmd.String("category"), cmd.String("id")
	removed, err := r.catalog.RemoveChannel(category, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: channel %s not found in %s", shared.ErrInvalidArgument, id, category)
	}
	return r.writePlain("✓ Removed %s from %s\n", id, category)
}

// CategoriesRemove deletes a category and all its channels.
func (r *Runner) CategoriesRemove(ctx context.Context, cmd *cli.Command) error {
	category := cmd.String("category")
	removed, err := r.catalog.RemoveCategory(category)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: category %q not found", shared.ErrInvalidArgument, category)
	}
	return r.writePlain("✓ Removed category '%s'\n", category)
}
