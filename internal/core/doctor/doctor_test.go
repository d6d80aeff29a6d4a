package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/core/csdb"
)

type fakeBackend struct {
	health    *csdb.Health
	healthErr error
	docs      []csdb.DocumentSummary
	listErr   error
	resolved  *csdb.ResolveResult
	labels    []string
}

func (f *fakeBackend) BaseURL() string { return "http://csdb.test" }

func (f *fakeBackend) Health(context.Context) (*csdb.Health, error) {
	return f.health, f.healthErr
}

func (f *fakeBackend) ListDocuments(context.Context) ([]csdb.DocumentSummary, error) {
	return f.docs, f.listErr
}

func (f *fakeBackend) Resolve(_ context.Context, labels []string) (*csdb.ResolveResult, error) {
	f.labels = labels
	return f.resolved, nil
}

type staticCheck struct {
	name  string
	items []CheckItem
}

func (s staticCheck) Name() string { return s.name }

func (s staticCheck) Run(context.Context) Result {
	return Result{Name: s.name, Items: s.items}
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn}}},
		staticCheck{name: "b", items: []CheckItem{{Status: StatusFail}, {Status: StatusPass}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestBackendCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		b := &fakeBackend{
			health:   &csdb.Health{Status: "ok"},
			docs:     []csdb.DocumentSummary{{Path: "a"}, {Path: "b"}},
			resolved: &csdb.ResolveResult{ApplicableCount: 1, ExcludedCount: 1},
		}

		result := NewBackendCheck(b, []string{"Mk9"}).Run(context.Background())

		require.Len(t, result.Items, 3)
		for _, item := range result.Items {
			assert.Equal(t, StatusPass, item.Status, item.Label)
		}
		assert.Equal(t, "2 Data Modules", result.Items[1].Detail)
		assert.Equal(t, "1 applicable, 1 excluded", result.Items[2].Detail)
		assert.Equal(t, []string{"Mk9"}, b.labels)
	})

	t.Run("unreachable stops early", func(t *testing.T) {
		b := &fakeBackend{healthErr: errors.New("connection refused")}

		result := NewBackendCheck(b, nil).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
		assert.Contains(t, result.Items[0].Detail, "connection refused")
	})

	t.Run("empty catalog warns", func(t *testing.T) {
		b := &fakeBackend{
			health:   &csdb.Health{Status: "degraded"},
			resolved: &csdb.ResolveResult{},
		}

		result := NewBackendCheck(b, nil).Run(context.Background())

		require.Len(t, result.Items, 3)
		assert.Equal(t, StatusWarn, result.Items[0].Status)
		assert.Equal(t, StatusWarn, result.Items[1].Status)
	})
}

func TestConfigCheck(t *testing.T) {
	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		result := NewConfigCheck(cfg, "").Run(context.Background())

		require.NotEmpty(t, result.Items)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})

	t.Run("field errors and warnings", func(t *testing.T) {
		bad := *cfg
		bad.TUI.Theme = "no-such-theme"
		bad.Applicability.DefaultLabels = ""

		result := NewConfigCheck(&bad, "").Run(context.Background())

		_, warned, failed := Summary([]Result{result})
		assert.Equal(t, 1, failed)
		assert.GreaterOrEqual(t, warned, 1)
		assert.Equal(t, "tui.theme", result.Items[0].Label)
	})
}

func TestClipboardCheck(t *testing.T) {
	orig := clipboardUnsupported
	t.Cleanup(func() { clipboardUnsupported = orig })

	clipboardUnsupported = func() bool { return true }
	result := NewClipboardCheck().Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)

	clipboardUnsupported = func() bool { return false }
	result = NewClipboardCheck().Run(context.Background())
	assert.Equal(t, StatusPass, result.Items[0].Status)
}
