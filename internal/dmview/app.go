// Package dmview wires the configured services the commands and the TUI
// share.
package dmview

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/core/preview"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for all dmview operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config       *config.Config
	Client       *csdb.Client
	Orchestrator *browse.Orchestrator
	Renderer     *preview.Renderer
	Build        BuildInfo
}

// NewApp constructs an App from the loaded configuration.
func NewApp(cfg *config.Config, build BuildInfo) (*App, error) {
	client, err := csdb.New(csdb.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		UserAgent:         cfg.API.UserAgent,
		OnlyDMC:           cfg.Catalog.OnlyDMC,
		MediaTTL:          cfg.Media.CacheTTL,
		MediaMaxBytes:     cfg.Media.MaxBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("create csdb client: %w", err)
	}

	return newApp(cfg, client, build), nil
}

func newApp(cfg *config.Config, client *csdb.Client, build BuildInfo) *App {
	logger := logging.Component("browse")

	return &App{
		Config: cfg,
		Client: client,
		Orchestrator: browse.NewOrchestrator(client, browse.WithTrace(func(c browse.Call, t browse.Ticket) {
			traceCall(logger, c, t)
		})),
		Renderer: preview.NewRenderer(preview.WithResourceBase(client.BaseURL())),
		Build:    build,
	}
}

func traceCall(l zerolog.Logger, c browse.Call, t browse.Ticket) {
	l.Trace().Stringer("call", c).Str("dm_path", t.Row).Msg("issuing backend call")
}
