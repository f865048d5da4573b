package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/focus/internal/formatter"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/desertthunder/focus/internal/tasks"
	"github.com/urfave/cli/v3"
)

// fetchOutput is the JSON shape of the fetch command.
type fetchOutput struct {
	Category string         `json:"category"`
	Videos   []models.Video `json:"videos"`
	Warnings []string       `json:"warnings"`
}

// Fetch retrieves the latest videos of a category, logging per-channel progress.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	category := cmd.String("category")

	catalog, err := r.catalog.Load()
	if err != nil {
		return err
	}
	cat, ok := catalog.Category(category)
	if !ok {
		return fmt.Errorf("%w: category %q not found", shared.ErrInvalidArgument, category)
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result := r.engine.FetchAll(ctx, cat.Channels, progress)
	close(progress)
	wg.Wait()

	videos := result.Videos
	if r.config.Fetch.FilterShorts && !cmd.Bool("all") {
		videos = models.FilterShorts(videos)
	}

	warnings := result.Warnings()
	if warnings == nil {
		warnings = []string{}
	}

	if cmd.Bool("json") {
		return r.writeJSON(fetchOutput{Category: category, Videos: videos, Warnings: warnings}, true)
	}

	for _, w := range warnings {
		r.writePlain("⚠️  %s\n", w)
	}
	if len(videos) == 0 {
		return r.writePlain("No recent videos found.\n")
	}
	for _, v := range videos {
		r.writePlain("%s  %s\n    %s\n", v.PublishedDate(), formatter.VideoLabel(v), v.Link)
	}
	return nil
}

// History prints or exports the watch history, newest entries last.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.history.History()
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	format := cmd.String("format")
	if cmd.Bool("json") {
		format = "json"
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteHistoryExport(entries, format, path); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d entries to %s\n", len(entries), path)
	}

	data, err := formatter.ExportHistory(entries, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}
