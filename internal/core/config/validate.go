package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/colonyops/dmview/internal/core/styles"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// the backend URL, theme name and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("api.base_url", c.API.BaseURL, isHTTPURL),
		criterio.Run("tui.theme", c.TUI.Theme, isKnownTheme),
		c.validateKeybindings(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if strings.TrimSpace(c.Applicability.DefaultLabels) == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Applicability",
			Item:     "default_labels",
			Message:  "no default labels; resolve will send an empty selection",
		})
	}

	if c.API.RequestsPerSecond == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "API",
			Item:     "requests_per_second",
			Message:  "client-side rate limiting is disabled",
		})
	}

	for _, action := range []string{ActionToggleRow, ActionResolve, ActionClearFilter} {
		if len(c.KeysFor(action)) == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Keybindings",
				Item:     action,
				Message:  "action has no key bound",
			})
		}
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isHTTPURL validates that raw is an absolute http(s) URL.
func isHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func isKnownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

// validateKeybindings checks that no key is bound to an empty key string.
func (c *Config) validateKeybindings() error {
	var errs criterio.FieldErrorsBuilder
	for key := range c.Keybindings {
		if strings.TrimSpace(key) == "" {
			errs = errs.Append("keybindings", fmt.Errorf("empty key"))
		}
	}
	return errs.ToError()
}
