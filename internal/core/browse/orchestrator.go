package browse

import (
	"context"

	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Backend is the CSDB surface the orchestrator needs. *csdb.Client implements it.
type Backend interface {
	ListDocuments(ctx context.Context) ([]csdb.DocumentSummary, error)
	Preview(ctx context.Context, path string) (*preview.Model, error)
	Evaluate(ctx context.Context, path string, labels []string) (*csdb.EvalResult, error)
	RawMarkup(ctx context.Context, path string) (*csdb.RawMarkup, error)
	Resolve(ctx context.Context, labels []string) (*csdb.ResolveResult, error)
	Resource(ctx context.Context, urn string) (*csdb.Resource, error)
}

// Outcome is the settled result of one backend call. Errors are carried as
// values; they never abort sibling calls.
type Outcome interface {
	isOutcome()
}

type CatalogOutcome struct {
	Items []csdb.DocumentSummary
	Err   error
}

type PreviewOutcome struct {
	Ticket Ticket
	Model  *preview.Model
	Err    error
}

type EvalOutcome struct {
	Ticket Ticket
	Result *csdb.EvalResult
	Err    error
}

type RawXMLOutcome struct {
	Ticket Ticket
	Markup *csdb.RawMarkup
	Err    error
}

type ResolveOutcome struct {
	Seq    uint64
	Labels []string
	Result *csdb.ResolveResult
	Err    error
}

type MediaOutcome struct {
	Ticket   Ticket
	URN      string
	Resource *csdb.Resource
	Err      error
}

func (CatalogOutcome) isOutcome() {}
func (PreviewOutcome) isOutcome() {}
func (EvalOutcome) isOutcome()    {}
func (RawXMLOutcome) isOutcome()  {}
func (ResolveOutcome) isOutcome() {}
func (MediaOutcome) isOutcome()   {}

// mediaConcurrency bounds parallel resource fetches for one preview.
const mediaConcurrency = 4

// Orchestrator issues backend calls and settles each into an Outcome. It holds
// no selection state; results are applied by Controller.Apply.
type Orchestrator struct {
	backend Backend
	trace   func(Call, Ticket)
	log     zerolog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTrace registers fn to be called synchronously just before each
// expansion call is issued.
func WithTrace(fn func(Call, Ticket)) OrchestratorOption {
	return func(o *Orchestrator) {
		o.trace = fn
	}
}

// NewOrchestrator creates an Orchestrator over backend.
func NewOrchestrator(backend Backend, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		backend: backend,
		trace:   func(Call, Ticket) {},
		log:     logging.Component("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadCatalog fetches the catalog.
func (o *Orchestrator) LoadCatalog(ctx context.Context) CatalogOutcome {
	items, err := o.backend.ListDocuments(ctx)
	o.logFailure(ctx, CallCatalog, err)
	return CatalogOutcome{Items: items, Err: err}
}

// Expand fetches the preview and the applicability verdict of t's row. The
// preview request is issued first; the two then run concurrently and each
// outcome is delivered as soon as it settles. The channel is closed once both
// have been delivered.
func (o *Orchestrator) Expand(ctx context.Context, t Ticket, labels []string) <-chan Outcome {
	out := make(chan Outcome, 2)
	ctx = logging.WithDMPath(ctx, t.Row)
	issued := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		o.trace(CallPreview, t)
		close(issued)

		m, err := o.backend.Preview(ctx, t.Row)
		o.logFailure(ctx, CallPreview, err)
		out <- PreviewOutcome{Ticket: t, Model: m, Err: err}
		return nil
	})
	g.Go(func() error {
		<-issued
		o.trace(CallEval, t)

		res, err := o.backend.Evaluate(ctx, t.Row, labels)
		o.logFailure(ctx, CallEval, err)
		out <- EvalOutcome{Ticket: t, Result: res, Err: err}
		return nil
	})

	go func() {
		_ = g.Wait()
		close(out)
	}()

	return out
}

// LoadRawXML fetches the raw XML of t's row.
func (o *Orchestrator) LoadRawXML(ctx context.Context, t Ticket) RawXMLOutcome {
	ctx = logging.WithDMPath(ctx, t.Row)
	o.trace(CallRawXML, t)

	markup, err := o.backend.RawMarkup(ctx, t.Row)
	o.logFailure(ctx, CallRawXML, err)
	return RawXMLOutcome{Ticket: t, Markup: markup, Err: err}
}

// Resolve computes the applicable set for labels. seq is echoed back so the
// controller can drop superseded results.
func (o *Orchestrator) Resolve(ctx context.Context, seq uint64, labels []string) ResolveOutcome {
	res, err := o.backend.Resolve(ctx, labels)
	o.logFailure(ctx, CallResolve, err)
	return ResolveOutcome{Seq: seq, Labels: labels, Result: res, Err: err}
}

// FetchMedia fetches the given resources with bounded concurrency. The channel
// receives one outcome per URN and is closed when all have settled.
func (o *Orchestrator) FetchMedia(ctx context.Context, t Ticket, urns []string) <-chan Outcome {
	out := make(chan Outcome, len(urns))
	ctx = logging.WithDMPath(ctx, t.Row)

	var g errgroup.Group
	g.SetLimit(mediaConcurrency)

	go func() {
		for _, urn := range urns {
			g.Go(func() error {
				res, err := o.backend.Resource(ctx, urn)
				o.logFailure(ctx, CallMedia, err)
				out <- MediaOutcome{Ticket: t, URN: urn, Resource: res, Err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(out)
	}()

	return out
}

func (o *Orchestrator) logFailure(ctx context.Context, call Call, err error) {
	if err == nil {
		return
	}
	ev := o.log.Warn()
	if Policies[call] == Absorb {
		ev = o.log.Debug()
	}
	ev.Ctx(ctx).Err(err).Stringer("call", call).Msg("backend call failed")
}
