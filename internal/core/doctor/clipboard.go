package doctor

import (
	"context"

	"github.com/atotto/clipboard"
)

// clipboardUnsupported reports whether no clipboard utility was found.
// Package-level variable to allow test overrides.
var clipboardUnsupported = func() bool { return clipboard.Unsupported }

// ClipboardCheck verifies that copying XML to the clipboard can work.
type ClipboardCheck struct{}

// NewClipboardCheck creates a new clipboard check.
func NewClipboardCheck() *ClipboardCheck {
	return &ClipboardCheck{}
}

func (c *ClipboardCheck) Name() string {
	return "Environment"
}

func (c *ClipboardCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if clipboardUnsupported() {
		result.add("clipboard", StatusWarn, "no clipboard utility found (install xclip, xsel or wl-clipboard to copy XML)")
	} else {
		result.add("clipboard", StatusPass, "")
	}

	return result
}
