package browse

import (
	"maps"

	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/google/uuid"
)

// LoadingText occupies the raw XML slot while a fetch is in flight.
const LoadingText = "Loading…"

// Ticket addresses the results of one row expansion. Expanding the same row
// twice yields distinct tickets.
type Ticket struct {
	Row string
	ID  uuid.UUID
}

func newTicket(row string) Ticket {
	return Ticket{Row: row, ID: uuid.New()}
}

// IsZero reports whether t is the zero ticket.
func (t Ticket) IsZero() bool {
	return t.ID == uuid.Nil
}

// LoadState is the lifecycle of one fetched slot.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadPending
	LoadDone
	LoadFailed
)

// Expansion is everything attached to the expanded row. It is never mutated
// in place; every transition stores a new record.
type Expansion struct {
	Ticket Ticket

	Preview      *preview.Model
	PreviewState LoadState
	PreviewErr   string

	Eval      *csdb.EvalResult
	EvalState LoadState

	RawXMLVisible bool
	RawXML        string
	RawXMLState   LoadState
	RawXMLErr     string

	Media map[string]preview.Media
}

// Row returns the path of the expanded row.
func (e Expansion) Row() string {
	return e.Ticket.Row
}

// MediaLookup exposes the media states for markdown rendering.
func (e Expansion) MediaLookup() preview.MediaLookup {
	return func(urn string) (preview.Media, bool) {
		m, ok := e.Media[urn]
		return m, ok
	}
}

// with copies e, applies fn to the copy and returns it. The media map is
// cloned so earlier records stay unchanged.
func (e Expansion) with(fn func(*Expansion)) *Expansion {
	next := e
	next.Media = maps.Clone(e.Media)
	fn(&next)
	return &next
}

// MediaStatus is the figure slot state a resource fetch settles into.
func MediaStatus(o MediaOutcome) preview.Media {
	if o.Err != nil || o.Resource == nil {
		return preview.Media{State: preview.MediaFailed, Err: o.Err}
	}
	return preview.Media{
		State:       preview.MediaLoaded,
		Size:        len(o.Resource.Data),
		ContentType: o.Resource.ContentType,
	}
}
