package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/commands"
	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/core/styles"
	"github.com/colonyops/dmview/internal/dmview"
	"github.com/colonyops/dmview/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() dmview.BuildInfo {
	v, c, d := version, commit, date

	// ldflags aren't set for `go install module@version`; Go records the
	// module version and VCS metadata in the binary instead.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	return dmview.BuildInfo{Version: v, Commit: c, Date: d}
}

func build() string {
	b := buildInfo()

	short := b.Commit
	if len(short) > 7 {
		short = short[:7]
	}

	return fmt.Sprintf("%s (%s) %s", b.Version, short, b.Date)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		dmApp     = &dmview.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "dmview",
		Usage:     "Browse and preview S1000D Data Modules",
		UsageText: "dmview [global options] command [command options]",
		Description: `dmview browses the Data Modules held by a CSDB backend and renders them as
readable manuals, with applicability filtering by label selection.

Run 'dmview' with no arguments to open the interactive browser.
Run 'dmview preview <path>' to render a single Data Module.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("DMVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/dmview.log)",
				Sources:     cli.EnvVars("DMVIEW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("DMVIEW_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("DMVIEW_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "api",
				Usage:       "CSDB backend base URL (overrides api.base_url)",
				Sources:     cli.EnvVars("DMVIEW_API"),
				Destination: &flags.APIBaseURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "dmview.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.APIBaseURL != "" {
				cfg.API.BaseURL = flags.APIBaseURL
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			a, err := dmview.NewApp(cfg, buildInfo())
			if err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*dmApp = *a

			log.Debug().
				Str("api", cfg.API.BaseURL).
				Str("version", version).
				Msg("dmview started")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, dmApp)

	app = tuiCmd.Register(app)
	app = commands.NewLsCmd(flags, dmApp).Register(app)
	app = commands.NewPreviewCmd(flags, dmApp).Register(app)
	app = commands.NewRenderCmd(flags, dmApp).Register(app)
	app = commands.NewXMLCmd(flags, dmApp).Register(app)
	app = commands.NewEvalCmd(flags, dmApp).Register(app)
	app = commands.NewResolveCmd(flags, dmApp).Register(app)
	app = commands.NewHealthCmd(flags, dmApp).Register(app)
	app = commands.NewDoctorCmd(flags, dmApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'dmview --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
