// Package config handles configuration loading and validation for dmview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in action names for keybindings.
const (
	ActionToggleRow   = "toggle-row"
	ActionToggleXML   = "toggle-xml"
	ActionLoadXML     = "load-xml"
	ActionCopyXML     = "copy-xml"
	ActionSearch      = "search"
	ActionLabels      = "labels"
	ActionResolve     = "resolve"
	ActionClearFilter = "clear-filter"
	ActionReload      = "reload"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"enter": {Action: ActionToggleRow, Help: "open/close"},
	"x":     {Action: ActionToggleXML, Help: "xml"},
	"L":     {Action: ActionLoadXML, Help: "load xml"},
	"y":     {Action: ActionCopyXML, Help: "copy xml"},
	"/":     {Action: ActionSearch, Help: "search"},
	"l":     {Action: ActionLabels, Help: "labels"},
	"f":     {Action: ActionResolve, Help: "filter"},
	"c":     {Action: ActionClearFilter, Help: "clear filter"},
	"r":     {Action: ActionReload, Help: "reload"},
}

// Config holds the application configuration.
type Config struct {
	API           APIConfig             `yaml:"api"`
	Catalog       CatalogConfig         `yaml:"catalog"`
	Applicability ApplicabilityConfig   `yaml:"applicability"`
	Media         MediaConfig           `yaml:"media"`
	TUI           TUIConfig             `yaml:"tui"`
	Keybindings   map[string]Keybinding `yaml:"keybindings"`
	DataDir       string                `yaml:"-"` // set by caller, not from config file
}

// APIConfig configures the CSDB backend connection.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	UserAgent         string        `yaml:"user_agent"`
}

// CatalogConfig configures which Data Modules are listed.
type CatalogConfig struct {
	OnlyDMC bool `yaml:"only_dmc"` // list DMC- files only
}

// ApplicabilityConfig configures applicability filtering.
type ApplicabilityConfig struct {
	DefaultLabels string `yaml:"default_labels"` // comma separated
}

// MediaConfig configures fetching of figures and logos.
type MediaConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// TUIConfig configures the terminal UI.
type TUIConfig struct {
	Theme    string `yaml:"theme"`
	WordWrap int    `yaml:"word_wrap"`
}

// Keybinding maps a key to a built-in TUI action.
type Keybinding struct {
	Action string `yaml:"action"` // built-in action name
	Help   string `yaml:"help"`   // help text shown in TUI
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
			UserAgent:         "dmview",
		},
		Catalog: CatalogConfig{
			OnlyDMC: true,
		},
		Applicability: ApplicabilityConfig{
			DefaultLabels: "Mountain bicycle, Brook trekker Mk9",
		},
		Media: MediaConfig{
			CacheTTL: 10 * time.Minute,
			MaxBytes: 8 << 20,
		},
		TUI: TUIConfig{
			Theme:    "tokyo-night",
			WordWrap: 100,
		},
		Keybindings: map[string]Keybinding{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.Burst == 0 {
		c.API.Burst = defaults.API.Burst
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaults.API.UserAgent
	}
	if c.Media.CacheTTL == 0 {
		c.Media.CacheTTL = defaults.Media.CacheTTL
	}
	if c.Media.MaxBytes == 0 {
		c.Media.MaxBytes = defaults.Media.MaxBytes
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.WordWrap == 0 {
		c.TUI.WordWrap = defaults.TUI.WordWrap
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range user {
		result[k] = v
	}

	return result
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}

	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second cannot be negative")
	}

	if c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1")
	}

	if c.Media.MaxBytes < 0 {
		return fmt.Errorf("media.max_bytes cannot be negative")
	}

	if c.TUI.WordWrap < 0 {
		return fmt.Errorf("tui.word_wrap cannot be negative")
	}

	for key, kb := range c.Keybindings {
		if kb.Action == "" {
			return fmt.Errorf("keybinding %q must have an action", key)
		}
		if !isValidAction(kb.Action) {
			return fmt.Errorf("keybinding %q has invalid action %q", key, kb.Action)
		}
	}

	return nil
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "dmview.log")
}

// KeysFor returns the keys bound to action, sorted.
func (c *Config) KeysFor(action string) []string {
	var keys []string
	for k, kb := range c.Keybindings {
		if kb.Action == action {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func isValidAction(action string) bool {
	switch action {
	case ActionToggleRow, ActionToggleXML, ActionLoadXML, ActionCopyXML,
		ActionSearch, ActionLabels, ActionResolve, ActionClearFilter, ActionReload:
		return true
	default:
		return false
	}
}
