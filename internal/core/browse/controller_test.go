package browse

import (
	"errors"
	"testing"

	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T) *Controller {
	t.Helper()
	c := NewController("Mountain bicycle")
	c.BeginCatalog()
	c.ApplyCatalog(CatalogOutcome{Items: catalog})
	return c
}

func procedureModel(t *testing.T) *preview.Model {
	t.Helper()
	m, err := preview.Decode([]byte(`{"kind":"procedure","steps":["Remove wheel"]}`))
	require.NoError(t, err)
	return m
}

func TestController_SelectRow(t *testing.T) {
	t.Run("expands with reset slots", func(t *testing.T) {
		c := loaded(t)

		tk, ok := c.SelectRow("p1")
		require.True(t, ok)
		assert.Equal(t, "p1", tk.Row)
		assert.False(t, tk.IsZero())

		e, ok := c.Expanded()
		require.True(t, ok)
		assert.Equal(t, "p1", e.Row())
		assert.Nil(t, e.Preview)
		assert.Equal(t, LoadPending, e.PreviewState)
		assert.Equal(t, LoadPending, e.EvalState)
		assert.False(t, e.RawXMLVisible)
	})

	t.Run("selecting the expanded row collapses", func(t *testing.T) {
		c := loaded(t)
		c.SelectRow("p1")

		_, ok := c.SelectRow("p1")
		assert.False(t, ok)
		_, expanded := c.Expanded()
		assert.False(t, expanded)
	})

	t.Run("selecting twice returns to the start state", func(t *testing.T) {
		c := loaded(t)
		c.SelectRow("p1")
		c.SelectRow("p1")
		c.SelectRow("p1")
		c.SelectRow("p1")

		_, expanded := c.Expanded()
		assert.False(t, expanded)
	})

	t.Run("new row discards previous data", func(t *testing.T) {
		c := loaded(t)
		t1, _ := c.SelectRow("p1")
		c.ApplyPreview(PreviewOutcome{Ticket: t1, Model: procedureModel(t)})
		c.ApplyEval(EvalOutcome{Ticket: t1, Result: &csdb.EvalResult{Applies: true}})
		c.ToggleRawXML()

		t2, ok := c.SelectRow("p2")
		require.True(t, ok)
		assert.NotEqual(t, t1, t2)

		e, _ := c.Expanded()
		assert.Equal(t, "p2", e.Row())
		assert.Nil(t, e.Preview)
		assert.Nil(t, e.Eval)
		assert.False(t, e.RawXMLVisible)
		assert.Empty(t, e.RawXML)
	})
}

func TestController_StaleResultsAreDropped(t *testing.T) {
	t.Run("response for a different row", func(t *testing.T) {
		c := loaded(t)
		t1, _ := c.SelectRow("p1")
		c.SelectRow("p2")

		_, applied := c.ApplyPreview(PreviewOutcome{Ticket: t1, Model: procedureModel(t)})
		assert.False(t, applied)
		assert.False(t, c.ApplyEval(EvalOutcome{Ticket: t1, Result: &csdb.EvalResult{}}))

		e, _ := c.Expanded()
		assert.Nil(t, e.Preview)
		assert.Equal(t, LoadPending, e.PreviewState)
	})

	t.Run("response for a collapsed row", func(t *testing.T) {
		c := loaded(t)
		t1, _ := c.SelectRow("p1")
		c.SelectRow("p1")

		_, applied := c.ApplyPreview(PreviewOutcome{Ticket: t1, Model: procedureModel(t)})
		assert.False(t, applied)
		_, expanded := c.Expanded()
		assert.False(t, expanded)
	})

	t.Run("response for an earlier expansion of the same row", func(t *testing.T) {
		c := loaded(t)
		t1, _ := c.SelectRow("p1")
		c.SelectRow("p1")
		t2, _ := c.SelectRow("p1")
		require.Equal(t, t1.Row, t2.Row)

		_, applied := c.ApplyPreview(PreviewOutcome{Ticket: t1, Model: procedureModel(t)})
		assert.False(t, applied)

		_, applied = c.ApplyPreview(PreviewOutcome{Ticket: t2, Model: procedureModel(t)})
		assert.True(t, applied)
	})

	t.Run("superseded resolve", func(t *testing.T) {
		c := loaded(t)
		seq1, _ := c.BeginResolve()
		seq2, _ := c.BeginResolve()

		assert.False(t, c.ApplyResolve(ResolveOutcome{Seq: seq1, Result: &csdb.ResolveResult{
			Applicable: []csdb.DocumentRef{{Path: "data/DMC-FRAME-00.XML"}},
		}}))
		assert.False(t, c.Filtering())

		assert.True(t, c.ApplyResolve(ResolveOutcome{Seq: seq2, Result: &csdb.ResolveResult{
			Applicable: []csdb.DocumentRef{{Path: "data/DMC-WHEEL-00.XML"}},
		}}))
		assert.Equal(t, []string{"data/DMC-WHEEL-00.XML"}, paths(c.Visible()))
	})
}

func TestController_EvalFailureIsAbsorbed(t *testing.T) {
	c := loaded(t)
	tk, _ := c.SelectRow("p1")

	_, applied := c.ApplyPreview(PreviewOutcome{Ticket: tk, Model: procedureModel(t)})
	require.True(t, applied)
	require.True(t, c.ApplyEval(EvalOutcome{Ticket: tk, Err: errors.New("500 internal")}))

	e, _ := c.Expanded()
	assert.Equal(t, LoadDone, e.PreviewState)
	assert.Empty(t, e.PreviewErr)
	assert.Equal(t, LoadFailed, e.EvalState)
	assert.Equal(t, "Applicability: unknown", EvalLine(e))

	v, ok := preview.Render(e.Preview).(preview.ProcedureView)
	require.True(t, ok)
	assert.Equal(t, []string{"Remove wheel"}, v.Steps)
}

func TestController_PreviewFailureKeepsEval(t *testing.T) {
	c := loaded(t)
	tk, _ := c.SelectRow("p1")

	c.ApplyEval(EvalOutcome{Ticket: tk, Result: &csdb.EvalResult{Applies: true, ReasonKind: "applic"}})
	c.ApplyPreview(PreviewOutcome{Ticket: tk, Err: &csdb.APIError{Status: 404, Detail: "DM not found"}})

	e, _ := c.Expanded()
	assert.Equal(t, LoadFailed, e.PreviewState)
	assert.Equal(t, "Failed to load preview: DM not found", e.PreviewErr)
	assert.Equal(t, "Applicability: Applies ✅ (applic)", EvalLine(e))
}

func TestController_RawXML(t *testing.T) {
	t.Run("toggle does not fetch", func(t *testing.T) {
		c := loaded(t)
		assert.False(t, c.ToggleRawXML())

		c.SelectRow("p1")
		require.True(t, c.ToggleRawXML())

		e, _ := c.Expanded()
		assert.True(t, e.RawXMLVisible)
		assert.Equal(t, LoadIdle, e.RawXMLState)
		assert.Empty(t, e.RawXML)
	})

	t.Run("load requires visibility", func(t *testing.T) {
		c := loaded(t)
		c.SelectRow("p1")

		_, ok := c.RequestRawXML()
		assert.False(t, ok)

		c.ToggleRawXML()
		tk, ok := c.RequestRawXML()
		require.True(t, ok)

		e, _ := c.Expanded()
		assert.Equal(t, LoadingText, e.RawXML)
		assert.Equal(t, LoadPending, e.RawXMLState)

		_, again := c.RequestRawXML()
		assert.False(t, again, "no second fetch while one is in flight")

		require.True(t, c.ApplyRawXML(RawXMLOutcome{Ticket: tk, Markup: &csdb.RawMarkup{XML: "<dmodule/>"}}))
		e, _ = c.Expanded()
		assert.Equal(t, "<dmodule/>", e.RawXML)
		assert.Equal(t, LoadDone, e.RawXMLState)
	})

	t.Run("failure surfaces", func(t *testing.T) {
		c := loaded(t)
		c.SelectRow("p1")
		c.ToggleRawXML()
		tk, _ := c.RequestRawXML()

		c.ApplyRawXML(RawXMLOutcome{Ticket: tk, Err: errors.New("connection refused")})
		e, _ := c.Expanded()
		assert.Equal(t, LoadFailed, e.RawXMLState)
		assert.Equal(t, "Failed to load XML: connection refused", e.RawXMLErr)
		assert.Empty(t, e.RawXML)
	})
}

func TestController_Media(t *testing.T) {
	c := loaded(t)
	tk, _ := c.SelectRow("p1")

	m, err := preview.Decode([]byte(`{"kind":"description","blocks":[{"type":"figure","urn":"ICN-1"},{"type":"figure","urn":"ICN-2"}]}`))
	require.NoError(t, err)

	urns, applied := c.ApplyPreview(PreviewOutcome{Ticket: tk, Model: m})
	require.True(t, applied)
	assert.Equal(t, []string{"ICN-1", "ICN-2"}, urns)

	before, _ := c.Expanded()

	assert.True(t, c.ApplyMedia(MediaOutcome{Ticket: tk, URN: "ICN-1", Resource: &csdb.Resource{Data: []byte("png"), ContentType: "image/png"}}))
	assert.True(t, c.ApplyMedia(MediaOutcome{Ticket: tk, URN: "ICN-2", Err: csdb.ErrUnsupportedMedia}))
	assert.False(t, c.ApplyMedia(MediaOutcome{Ticket: tk, URN: "ICN-9"}))

	e, _ := c.Expanded()
	assert.Equal(t, preview.MediaLoaded, e.Media["ICN-1"].State)
	assert.Equal(t, 3, e.Media["ICN-1"].Size)
	assert.Equal(t, preview.MediaFailed, e.Media["ICN-2"].State)

	assert.Equal(t, preview.MediaPending, before.Media["ICN-1"].State, "earlier records are not mutated")
}

func TestController_Resolve(t *testing.T) {
	t.Run("success replaces filter and collapses", func(t *testing.T) {
		c := loaded(t)
		c.SelectRow("data/DMC-BRAKE-00.XML")

		seq, labels := c.BeginResolve()
		assert.Equal(t, []string{"Mountain bicycle"}, labels)

		c.ApplyResolve(ResolveOutcome{Seq: seq, Result: &csdb.ResolveResult{
			ApplicableCount: 1,
			Applicable:      []csdb.DocumentRef{{Path: "data/DMC-FRAME-00.XML"}},
		}})

		_, expanded := c.Expanded()
		assert.False(t, expanded)
		assert.True(t, c.Filtering())
		assert.Equal(t, "Showing 1 of 4 DMs (applicability filter ON)", c.Summary())
	})

	t.Run("empty applicable set means no filter", func(t *testing.T) {
		c := loaded(t)
		seq, _ := c.BeginResolve()
		c.ApplyResolve(ResolveOutcome{Seq: seq, Result: &csdb.ResolveResult{}})

		assert.False(t, c.Filtering())
		assert.Equal(t, "Showing 4 of 4 DMs", c.Summary())
	})

	t.Run("failure keeps filter and expansion", func(t *testing.T) {
		c := loaded(t)
		seq, _ := c.BeginResolve()
		c.ApplyResolve(ResolveOutcome{Seq: seq, Result: &csdb.ResolveResult{
			Applicable: []csdb.DocumentRef{{Path: "data/DMC-FRAME-00.XML"}},
		}})
		c.SelectRow("data/DMC-FRAME-00.XML")

		seq, _ = c.BeginResolve()
		c.ApplyResolve(ResolveOutcome{Seq: seq, Err: errors.New("timeout")})

		state, msg, _ := c.ResolveState()
		assert.Equal(t, LoadFailed, state)
		assert.Equal(t, "Applicability resolve failed: timeout", msg)
		assert.True(t, c.Filtering())
		assert.True(t, c.IsExpanded("data/DMC-FRAME-00.XML"))
	})

	t.Run("clear filter collapses and supersedes", func(t *testing.T) {
		c := loaded(t)
		seq, _ := c.BeginResolve()
		c.SelectRow("data/DMC-BRAKE-00.XML")
		c.ClearFilter()

		_, expanded := c.Expanded()
		assert.False(t, expanded)
		assert.False(t, c.ApplyResolve(ResolveOutcome{Seq: seq, Result: &csdb.ResolveResult{
			Applicable: []csdb.DocumentRef{{Path: "data/DMC-FRAME-00.XML"}},
		}}))
		assert.False(t, c.Filtering())
	})
}

func TestController_Catalog(t *testing.T) {
	t.Run("failure leaves catalog empty and filtering works", func(t *testing.T) {
		c := NewController("")
		c.BeginCatalog()
		c.ApplyCatalog(CatalogOutcome{Err: errors.New("dial tcp: connection refused")})

		state, msg := c.CatalogState()
		assert.Equal(t, LoadFailed, state)
		assert.Equal(t, "Failed to load DMs: dial tcp: connection refused", msg)

		c.SetQuery("brake")
		assert.Empty(t, c.Visible())
		_, ok := c.Current()
		assert.False(t, ok)
	})

	t.Run("cursor stays within visible rows", func(t *testing.T) {
		c := loaded(t)
		c.MoveDown()
		c.MoveDown()
		c.MoveDown()
		c.MoveDown()
		assert.Equal(t, 3, c.Cursor())

		c.SetQuery("wheel")
		assert.Equal(t, 0, c.Cursor())
		cur, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, "DMC-WHEEL-00", cur.DMCode)

		c.MoveUp()
		assert.Equal(t, 0, c.Cursor())
	})
}

func TestController_ReexpandMatchesFreshExpand(t *testing.T) {
	c := loaded(t)
	t1, ok := c.SelectRow("p1")
	require.True(t, ok)

	m, err := preview.Decode([]byte(`{"kind":"description","blocks":[{"type":"figure","urn":"ICN-1"},{"type":"figure","urn":"ICN-2"}]}`))
	require.NoError(t, err)

	_, applied := c.ApplyPreview(PreviewOutcome{Ticket: t1, Model: m})
	require.True(t, applied)
	require.True(t, c.ApplyEval(EvalOutcome{Ticket: t1, Result: &csdb.EvalResult{Applies: true}}))
	require.True(t, c.ToggleRawXML())
	_, ok = c.RequestRawXML()
	require.True(t, ok)
	require.True(t, c.ApplyRawXML(RawXMLOutcome{Ticket: t1, Markup: &csdb.RawMarkup{XML: "<dmodule/>"}}))
	require.True(t, c.ApplyMedia(MediaOutcome{Ticket: t1, URN: "ICN-1", Resource: &csdb.Resource{Data: []byte("png")}}))
	require.True(t, c.ApplyMedia(MediaOutcome{Ticket: t1, URN: "ICN-2", Err: csdb.ErrTooLarge}))

	_, ok = c.SelectRow("p1")
	require.False(t, ok, "selecting the expanded row collapses it")

	t2, ok := c.SelectRow("p1")
	require.True(t, ok)
	assert.NotEqual(t, t1, t2)

	fresh := loaded(t)
	tf, _ := fresh.SelectRow("p1")

	got, _ := c.Expanded()
	want, _ := fresh.Expanded()
	assert.Equal(t, t2, got.Ticket)
	assert.Equal(t, tf, want.Ticket)

	got.Ticket, want.Ticket = Ticket{}, Ticket{}
	assert.Equal(t, want, got)

	_, applied = c.ApplyPreview(PreviewOutcome{Ticket: t1, Model: m})
	assert.False(t, applied)
	assert.False(t, c.ApplyEval(EvalOutcome{Ticket: t1, Result: &csdb.EvalResult{}}))
	assert.False(t, c.ApplyMedia(MediaOutcome{Ticket: t1, URN: "ICN-1"}))

	after, _ := c.Expanded()
	after.Ticket = Ticket{}
	assert.Equal(t, want, after, "late results of the first expansion are dropped")
}

func TestController_Apply(t *testing.T) {
	c := NewController("")
	_, ok := c.Apply(CatalogOutcome{Items: catalog})
	assert.True(t, ok)

	tk, _ := c.SelectRow("p1")
	_, ok = c.Apply(EvalOutcome{Ticket: tk, Result: &csdb.EvalResult{}})
	assert.True(t, ok)

	_, ok = c.Apply(EvalOutcome{Ticket: Ticket{Row: "p1"}})
	assert.False(t, ok)
}

func TestFailureMessage(t *testing.T) {
	assert.Empty(t, FailureMessage(CallEval, errors.New("x")))
	assert.Empty(t, FailureMessage(CallMedia, errors.New("x")))
	assert.Empty(t, FailureMessage(CallPreview, nil))
	assert.Equal(t, "Failed to load preview: x", FailureMessage(CallPreview, errors.New("x")))
}
