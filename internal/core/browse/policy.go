package browse

import (
	"errors"
	"fmt"

	"github.com/colonyops/dmview/internal/core/csdb"
)

// Call identifies a backend request kind.
type Call int

const (
	CallCatalog Call = iota
	CallPreview
	CallEval
	CallRawXML
	CallResolve
	CallMedia
)

func (c Call) String() string {
	switch c {
	case CallCatalog:
		return "catalog"
	case CallPreview:
		return "preview"
	case CallEval:
		return "eval"
	case CallRawXML:
		return "raw-xml"
	case CallResolve:
		return "resolve"
	case CallMedia:
		return "media"
	}
	return "unknown"
}

// FailurePolicy decides what a failed call shows the user.
type FailurePolicy int

const (
	// Surface shows a short error next to the affected panel.
	Surface FailurePolicy = iota
	// Absorb leaves the affected slot in its placeholder state without a
	// visible error.
	Absorb
)

// Policies is the failure policy of every call kind. Applicability and media
// are enrichments and never show errors.
var Policies = map[Call]FailurePolicy{
	CallCatalog: Surface,
	CallPreview: Surface,
	CallEval:    Absorb,
	CallRawXML:  Surface,
	CallResolve: Surface,
	CallMedia:   Absorb,
}

var failureTitles = map[Call]string{
	CallCatalog: "Failed to load DMs",
	CallPreview: "Failed to load preview",
	CallRawXML:  "Failed to load XML",
	CallResolve: "Applicability resolve failed",
}

// FailureMessage returns the user-visible message for err on call, or "" when
// the call's policy absorbs failures.
func FailureMessage(call Call, err error) string {
	if err == nil || Policies[call] == Absorb {
		return ""
	}

	detail := err.Error()
	var apiErr *csdb.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		detail = apiErr.Detail
	}

	title, ok := failureTitles[call]
	if !ok {
		title = call.String() + " failed"
	}
	return fmt.Sprintf("%s: %s", title, detail)
}
