// Package browse owns the browsing state of the catalog: text and
// applicability filtering, the single expanded row and everything fetched for
// it, and the orchestration of the backend calls that feed it.
package browse

import (
	"fmt"
	"strings"

	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/core/preview"
)

// Controller is the selection state machine. At most one row is expanded at a
// time; results addressed to any other expansion are dropped. It is not safe
// for concurrent use and is meant to be owned by a single event loop.
type Controller struct {
	items        []csdb.DocumentSummary
	catalogState LoadState
	catalogErr   string

	query  string
	labels string

	applicable   map[string]struct{} // nil means no applicability filter
	resolveSeq   uint64
	resolveState LoadState
	resolveErr   string
	resolved     *csdb.ResolveResult

	cursor   int
	expanded *Expansion // nil means no row is expanded
}

// NewController creates a Controller with the given initial label text.
func NewController(labels string) *Controller {
	return &Controller{labels: labels}
}

// BeginCatalog marks the catalog as loading.
func (c *Controller) BeginCatalog() {
	c.catalogState = LoadPending
	c.catalogErr = ""
}

// CatalogState returns the catalog load state and its error message, if any.
func (c *Controller) CatalogState() (LoadState, string) {
	return c.catalogState, c.catalogErr
}

// Items returns the full catalog.
func (c *Controller) Items() []csdb.DocumentSummary {
	return c.items
}

// Query returns the search text.
func (c *Controller) Query() string {
	return c.query
}

// SetQuery sets the search text and keeps the cursor within the visible rows.
func (c *Controller) SetQuery(q string) {
	c.query = q
	c.clampCursor()
}

// Labels returns the label text.
func (c *Controller) Labels() string {
	return c.labels
}

// SetLabels sets the label text used by later evaluations and resolves.
func (c *Controller) SetLabels(s string) {
	c.labels = s
}

// SelectedLabels returns the parsed labels.
func (c *Controller) SelectedLabels() []string {
	return ParseLabels(c.labels)
}

// Filtering reports whether an applicability filter is active.
func (c *Controller) Filtering() bool {
	return c.applicable != nil
}

// Visible returns the rows that pass the search and applicability filters.
func (c *Controller) Visible() []csdb.DocumentSummary {
	return Filter(c.items, c.query, c.applicable)
}

// Counts returns the number of visible rows and the catalog size.
func (c *Controller) Counts() (shown, total int) {
	return len(c.Visible()), len(c.items)
}

// Summary is the catalog header line.
func (c *Controller) Summary() string {
	shown, total := c.Counts()
	s := fmt.Sprintf("Showing %d of %d DMs", shown, total)
	if c.Filtering() {
		s += " (applicability filter ON)"
	}
	return s
}

// ResolveState returns the state of the latest resolve, its error message and
// its result.
func (c *Controller) ResolveState() (LoadState, string, *csdb.ResolveResult) {
	return c.resolveState, c.resolveErr, c.resolved
}

// Cursor returns the index of the highlighted visible row.
func (c *Controller) Cursor() int {
	return c.cursor
}

// MoveUp moves the cursor one row up.
func (c *Controller) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (c *Controller) MoveDown() {
	if c.cursor < len(c.Visible())-1 {
		c.cursor++
	}
}

// Current returns the highlighted row.
func (c *Controller) Current() (csdb.DocumentSummary, bool) {
	visible := c.Visible()
	if c.cursor < 0 || c.cursor >= len(visible) {
		return csdb.DocumentSummary{}, false
	}
	return visible[c.cursor], true
}

func (c *Controller) clampCursor() {
	n := len(c.Visible())
	switch {
	case n == 0:
		c.cursor = 0
	case c.cursor >= n:
		c.cursor = n - 1
	}
}

// Expanded returns the expanded row's record.
func (c *Controller) Expanded() (Expansion, bool) {
	if c.expanded == nil {
		return Expansion{}, false
	}
	return *c.expanded, true
}

// IsExpanded reports whether path is the expanded row.
func (c *Controller) IsExpanded(path string) bool {
	return c.expanded != nil && c.expanded.Ticket.Row == path
}

// SelectRow toggles path. Selecting the expanded row collapses it and returns
// false. Selecting any other row expands it with every slot reset and returns
// the ticket its preview and eval fetches must be issued with.
func (c *Controller) SelectRow(path string) (Ticket, bool) {
	if c.IsExpanded(path) {
		c.expanded = nil
		return Ticket{}, false
	}

	t := newTicket(path)
	c.expanded = &Expansion{
		Ticket:       t,
		PreviewState: LoadPending,
		EvalState:    LoadPending,
	}
	return t, true
}

// Collapse clears the expansion.
func (c *Controller) Collapse() {
	c.expanded = nil
}

// ToggleRawXML flips raw XML visibility of the expanded row. It never fetches.
func (c *Controller) ToggleRawXML() bool {
	if c.expanded == nil {
		return false
	}
	c.expanded = c.expanded.with(func(e *Expansion) {
		e.RawXMLVisible = !e.RawXMLVisible
	})
	return true
}

// RequestRawXML marks the raw XML slot as loading and returns the ticket to
// fetch it with. It refuses when nothing is expanded, the raw XML is hidden or
// a fetch is already in flight.
func (c *Controller) RequestRawXML() (Ticket, bool) {
	if c.expanded == nil || !c.expanded.RawXMLVisible || c.expanded.RawXMLState == LoadPending {
		return Ticket{}, false
	}
	c.expanded = c.expanded.with(func(e *Expansion) {
		e.RawXMLState = LoadPending
		e.RawXML = LoadingText
		e.RawXMLErr = ""
	})
	return c.expanded.Ticket, true
}

func (c *Controller) current(t Ticket) bool {
	return c.expanded != nil && c.expanded.Ticket == t
}

// ApplyCatalog stores a catalog fetch result. A failure leaves the catalog
// empty.
func (c *Controller) ApplyCatalog(o CatalogOutcome) {
	if o.Err != nil {
		c.items = nil
		c.catalogState = LoadFailed
		c.catalogErr = FailureMessage(CallCatalog, o.Err)
	} else {
		c.items = o.Items
		c.catalogState = LoadDone
		c.catalogErr = ""
	}
	c.clampCursor()
}

// ApplyPreview stores a preview result. It returns the media resources the
// preview refers to, which are marked pending, and whether the result applied.
func (c *Controller) ApplyPreview(o PreviewOutcome) ([]string, bool) {
	if !c.current(o.Ticket) {
		return nil, false
	}

	if o.Err != nil {
		c.expanded = c.expanded.with(func(e *Expansion) {
			e.Preview = nil
			e.PreviewState = LoadFailed
			e.PreviewErr = FailureMessage(CallPreview, o.Err)
		})
		return nil, true
	}

	urns := preview.MediaRefs(o.Model)
	c.expanded = c.expanded.with(func(e *Expansion) {
		e.Preview = o.Model
		e.PreviewState = LoadDone
		e.PreviewErr = ""
		if len(urns) > 0 {
			e.Media = make(map[string]preview.Media, len(urns))
			for _, urn := range urns {
				e.Media[urn] = preview.Media{State: preview.MediaPending}
			}
		}
	})
	return urns, true
}

// ApplyEval stores an applicability result. Failures are absorbed: the slot
// stays without a verdict and no message is recorded.
func (c *Controller) ApplyEval(o EvalOutcome) bool {
	if !c.current(o.Ticket) {
		return false
	}
	c.expanded = c.expanded.with(func(e *Expansion) {
		if o.Err != nil {
			e.Eval = nil
			e.EvalState = LoadFailed
			return
		}
		e.Eval = o.Result
		e.EvalState = LoadDone
	})
	return true
}

// ApplyRawXML stores a raw XML result.
func (c *Controller) ApplyRawXML(o RawXMLOutcome) bool {
	if !c.current(o.Ticket) {
		return false
	}
	c.expanded = c.expanded.with(func(e *Expansion) {
		if o.Err != nil {
			e.RawXML = ""
			e.RawXMLState = LoadFailed
			e.RawXMLErr = FailureMessage(CallRawXML, o.Err)
			return
		}
		e.RawXML = ""
		if o.Markup != nil {
			e.RawXML = o.Markup.XML
		}
		e.RawXMLState = LoadDone
		e.RawXMLErr = ""
	})
	return true
}

// ApplyMedia stores the result of one resource fetch. Failure only affects the
// resource's own slot.
func (c *Controller) ApplyMedia(o MediaOutcome) bool {
	if !c.current(o.Ticket) {
		return false
	}
	if _, ok := c.expanded.Media[o.URN]; !ok {
		return false
	}
	c.expanded = c.expanded.with(func(e *Expansion) {
		e.Media[o.URN] = MediaStatus(o)
	})
	return true
}

// BeginResolve starts a resolve for the current labels. Only the result
// carrying the returned sequence number will be applied.
func (c *Controller) BeginResolve() (uint64, []string) {
	c.resolveSeq++
	c.resolveState = LoadPending
	c.resolveErr = ""
	return c.resolveSeq, c.SelectedLabels()
}

// ApplyResolve stores a resolve result. On success the applicable set is
// replaced, or dropped when the backend returned no applicable documents, and
// the expanded row is collapsed. A failed resolve keeps the previous filter
// and expansion.
func (c *Controller) ApplyResolve(o ResolveOutcome) bool {
	if o.Seq != c.resolveSeq {
		return false
	}

	if o.Err != nil {
		c.resolveState = LoadFailed
		c.resolveErr = FailureMessage(CallResolve, o.Err)
		return true
	}

	c.resolveState = LoadDone
	c.resolveErr = ""
	c.resolved = o.Result

	var set map[string]struct{}
	if o.Result != nil && len(o.Result.Applicable) > 0 {
		set = make(map[string]struct{}, len(o.Result.Applicable))
		for _, d := range o.Result.Applicable {
			set[d.Path] = struct{}{}
		}
	}
	c.applicable = set
	c.expanded = nil
	c.clampCursor()
	return true
}

// ClearFilter drops the applicable set and collapses the expanded row.
// In-flight resolves are superseded.
func (c *Controller) ClearFilter() {
	c.resolveSeq++
	c.resolveState = LoadIdle
	c.resolveErr = ""
	c.resolved = nil
	c.applicable = nil
	c.expanded = nil
	c.clampCursor()
}

// Apply dispatches an outcome to its Apply method. It returns the media
// resources to fetch next and whether the outcome changed state.
func (c *Controller) Apply(o Outcome) ([]string, bool) {
	switch o := o.(type) {
	case CatalogOutcome:
		c.ApplyCatalog(o)
		return nil, true
	case PreviewOutcome:
		return c.ApplyPreview(o)
	case EvalOutcome:
		return nil, c.ApplyEval(o)
	case RawXMLOutcome:
		return nil, c.ApplyRawXML(o)
	case ResolveOutcome:
		return nil, c.ApplyResolve(o)
	case MediaOutcome:
		return nil, c.ApplyMedia(o)
	}
	return nil, false
}

// EvalLine describes the applicability verdict of the expanded row.
func EvalLine(e Expansion) string {
	switch e.EvalState {
	case LoadPending:
		return "Applicability: checking…"
	case LoadDone:
		if e.Eval == nil {
			break
		}
		verdict := "Does not apply ❌"
		if e.Eval.Applies {
			verdict = "Applies ✅"
		}
		var parts []string
		if e.Eval.ReasonKind != "" {
			parts = append(parts, e.Eval.ReasonKind)
		}
		if e.Eval.ReasonGroupID != "" {
			parts = append(parts, "group "+e.Eval.ReasonGroupID)
		}
		if e.Eval.ACTDMCode != "" {
			parts = append(parts, "ACT "+e.Eval.ACTDMCode)
		}
		if len(parts) > 0 {
			verdict += " (" + strings.Join(parts, ", ") + ")"
		}
		return "Applicability: " + verdict
	case LoadIdle, LoadFailed:
	}
	return "Applicability: unknown"
}
