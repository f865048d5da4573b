package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/focus/internal/session"
	"github.com/desertthunder/focus/internal/shared"
	"github.com/desertthunder/focus/internal/ui"
	"github.com/urfave/cli/v3"
)

// Interactive launches the menu-driven session. With --stats it prints the dashboard instead.
func (r *Runner) Interactive(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("stats") {
		return r.Stats(ctx, cmd)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	return r.session(ctx, ui.NewTerminal(r.input, r.output)).Run(ctx)
}

// Stats prints the banner and the watch dashboard.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.history.Stats()
	if err != nil {
		return err
	}
	return r.writePlain("%s\n%s\n", ui.Banner(), ui.Dashboard(stats))
}

func (r *Runner) session(ctx context.Context, prompter session.Prompter) *session.Session {
	caps := session.Capabilities{
		Gist:   r.gist != nil && r.gist.Available(ctx),
		Player: r.player,
	}
	r.logger.Debug("capabilities", "gist", caps.Gist, "player", caps.Player.Name())

	return session.New(session.Deps{
		Prompter: prompter,
		Catalog:  r.catalog,
		History:  r.history,
		Engine:   r.engine,
		Resolver: r.resolver,
		Gist:     r.gist,
		Logger:   r.logger,
	}, caps, session.OptionsFromConfig(r.config))
}
