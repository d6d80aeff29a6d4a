package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/dmview/internal/core/csdb"
)

// Backend is the part of the CSDB client the backend check calls.
type Backend interface {
	BaseURL() string
	Health(ctx context.Context) (*csdb.Health, error)
	ListDocuments(ctx context.Context) ([]csdb.DocumentSummary, error)
	Resolve(ctx context.Context, labels []string) (*csdb.ResolveResult, error)
}

// BackendCheck verifies the backend answers health, catalog and resolve
// requests.
type BackendCheck struct {
	backend Backend
	labels  []string
}

// NewBackendCheck creates a backend check that resolves labels.
func NewBackendCheck(b Backend, labels []string) *BackendCheck {
	return &BackendCheck{backend: b, labels: labels}
}

func (c *BackendCheck) Name() string {
	return "Backend"
}

func (c *BackendCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	h, err := c.backend.Health(ctx)
	if err != nil {
		result.add("health", StatusFail, fmt.Sprintf("%s: %v", c.backend.BaseURL(), err))
		// Nothing else will answer either.
		return result
	}
	if h.Status != "ok" {
		result.add("health", StatusWarn, fmt.Sprintf("%s reports %q", c.backend.BaseURL(), h.Status))
	} else {
		result.add("health", StatusPass, c.backend.BaseURL())
	}

	docs, err := c.backend.ListDocuments(ctx)
	switch {
	case err != nil:
		result.add("catalog", StatusFail, err.Error())
	case len(docs) == 0:
		result.add("catalog", StatusWarn, "no Data Modules listed")
	default:
		result.add("catalog", StatusPass, fmt.Sprintf("%d Data Modules", len(docs)))
	}

	res, err := c.backend.Resolve(ctx, c.labels)
	switch {
	case err != nil:
		result.add("resolve", StatusFail, err.Error())
	default:
		result.add("resolve", StatusPass, fmt.Sprintf("%d applicable, %d excluded", res.ApplicableCount, res.ExcludedCount))
	}

	return result
}
