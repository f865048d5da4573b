package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/focus/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template when missing and creates the default catalog.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Info("config file already exists", "path", path)
	} else {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		r.config = config
		r.wire()
	}

	catalog, err := r.catalog.Load()
	if err != nil {
		return err
	}

	r.writePlain("✓ Config: %s\n", path)
	r.writePlain("✓ Catalog: %s (%d categories)\n", r.catalog.Path(), len(catalog.Categories))

	if !r.ytdlp.Installed() {
		r.writePlainln("⚠️  yt-dlp not found. Install it for the fallback listing and handle resolution:")
		r.writePlain("   https://github.com/yt-dlp/yt-dlp#installation\n")
	}
	if !r.player.AdFree() {
		r.writePlainln("⚠️  No mpv or vlc found. Videos will open in the browser.")
	}
	if r.gist != nil && !r.gist.Available(ctx) {
		r.writePlainln("⚠️  %s is not authenticated. Learning Log sync is disabled.", r.gist.Name())
	}
	return nil
}
