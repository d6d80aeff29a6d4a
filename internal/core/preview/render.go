package preview

import (
	"net/url"
	"strings"
)

// Renderer turns preview models into views. The zero value is usable: text
// is passed through as sent and resource links are relative to the backend
// root.
type Renderer struct {
	resourceBase string
	stripMarkup  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithResourceBase sets the backend base URL used to derive resource links.
func WithResourceBase(base string) Option {
	return func(r *Renderer) {
		r.resourceBase = base
	}
}

// WithStripMarkup removes HTML markup from text fields and collapses
// whitespace. Angle-bracketed element names such as <para> are markup to
// this option, so it is off by default.
func WithStripMarkup() Option {
	return func(r *Renderer) {
		r.stripMarkup = true
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = &Renderer{}

// Render renders m with the default renderer.
func Render(m *Model) View {
	return defaultRenderer.Render(m)
}

// Render dispatches on the model kind. A nil model yields NothingSelectedView;
// missing or unrecognized kinds yield UnknownKindView.
func (r *Renderer) Render(m *Model) View {
	if m == nil {
		return NothingSelectedView{}
	}

	switch m.Kind {
	case KindProcedure:
		if m.Procedure != nil {
			return r.procedure(m.Procedure)
		}
	case KindDescription:
		if m.Description != nil {
			return r.description(m.Description)
		}
	case KindFrontMatter:
		if m.FrontMatter != nil {
			return r.frontMatter(m, m.FrontMatter)
		}
	case KindACT:
		if m.ACT != nil {
			return r.act(m.ACT)
		}
	case KindBREX:
		if m.BREX != nil {
			return r.brex(m.BREX)
		}
	case KindUnknown:
	}

	return UnknownKindView{RawKind: NormalizeKind(m.RawKind)}
}

func (r *Renderer) procedure(p *Procedure) ProcedureView {
	return ProcedureView{
		Warnings: r.texts(p.Warnings),
		Cautions: r.texts(p.Cautions),
		Notes:    r.texts(p.Notes),
		Steps:    nonNil(r.texts(p.Steps)),
	}
}

// ResourceURL derives the fetch URL of a resource identifier. The identifier
// is query-escaped verbatim so distinct identifiers never share a URL. An
// empty identifier yields an empty URL.
func ResourceURL(base, urn string) string {
	if urn == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/icn?" + url.Values{"urn": {urn}}.Encode()
}

func (r *Renderer) resourceURL(urn string) string {
	return ResourceURL(r.resourceBase, urn)
}

func (r *Renderer) text(s string) string {
	if !r.stripMarkup {
		return s
	}
	return sanitizeText(s)
}

func (r *Renderer) texts(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = r.text(s)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
