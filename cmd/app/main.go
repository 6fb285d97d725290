package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notegenius/internal"
	pkgconfig "github.com/starford/notegenius/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func dictate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return cli.Exit("dictate: note id is required", 2)
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	n, err := internal.Dictate(ctx, id, os.Stdin, opts...)
	if err != nil {
		return fmt.Errorf("dictate: %w", err)
	}
	fmt.Fprintf(os.Stdout, "appended %d chunk(s) to %s\n", n, id)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "notegenius",
		Usage:   "Markdown notes with checklists, edit history, and an AI assistant",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:      "dictate",
				Usage:     "Append stdin lines to a note as dictation chunks",
				ArgsUsage: "<id>",
				Action:    dictate,
			},
			{
				Name:      "stats",
				Usage:     "Print text statistics of a Markdown file",
				ArgsUsage: "<file>",
				Action:    statsCommand,
			},
			{
				Name:      "tasks",
				Usage:     "List, or toggle, the checklist items of a Markdown file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "toggle",
						Usage: "Flip the task at this zero-based index and save the file",
						Value: -1,
					},
				},
				Action: tasksCommand,
			},
			{
				Name:      "show",
				Usage:     "Render a Markdown file for the terminal",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "width",
						Usage: "Word wrap width (default: terminal width)",
					},
				},
				Action: showCommand,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
