// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootCommand starts the interactive session, or prints the dashboard with --stats.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "focus",
		Usage: "Curated, intentional YouTube from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Show dashboard & statistics and exit",
			},
		},
		Before:   r.Load,
		Action:   r.Interactive,
		Commands: r.register(),
	}
}

// setupCommand writes the example configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and the catalog with default categories",
		Action: r.Setup,
	}
}

// channelsCommand manages the channel catalog without the interactive menus.
func channelsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "channels",
		Aliases: []string{"ch"},
		Usage:   "Manage curated channels",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List channels by category",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ChannelsList,
			},
			{
				Name:  "add",
				Usage: "Add a channel by handle, URL or channel ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Category to add the channel to (created when missing)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Handle (@name), channel URL, or channel ID (UC...)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name (defaults to the handle)",
					},
				},
				Action: r.ChannelsAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a channel from a category",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Category to remove from",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Channel ID",
						Required: true,
					},
				},
				Action: r.ChannelsRemove,
			},
		},
	}
}

// categoriesCommand manages categories.
func categoriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Manage categories",
		Commands: []*cli.Command{
			{
				Name:  "remove",
				Usage: "Remove a category and all its channels",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Category to remove",
						Required: true,
					},
				},
				Action: r.CategoriesRemove,
			},
		},
	}
}

// fetchCommand runs the retrieval engine for one category.
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the latest videos of a category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "category",
				Usage:    "Category to fetch",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include videos that look like Shorts",
			},
		},
		Action: r.Fetch,
	}
}

// historyCommand prints or exports the watch history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show or export the watch history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: txt, json, csv, markdown",
				Value:   "txt",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show only the most recent entries (0 for all)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the export to a file instead of stdout",
			},
		},
		Action: r.History,
	}
}
