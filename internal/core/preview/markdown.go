package preview

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MediaState tracks the fetch of one referenced resource.
type MediaState int

const (
	MediaPending MediaState = iota
	MediaLoaded
	MediaFailed
)

// Media is what is known about a referenced resource.
type Media struct {
	State       MediaState
	Size        int
	ContentType string
	Err         error
}

// MediaLookup reports the fetch state of a resource. A nil lookup treats every
// resource as not yet fetched and shows its link.
type MediaLookup func(urn string) (Media, bool)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func esc(s string) string {
	return mdEscaper.Replace(s)
}

// codeSpan wraps s in an inline code span whose backtick fence is longer than
// any backtick run inside s.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}

	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

// Markdown formats a rendered view as a markdown document headed by the
// model's identity. m may be nil when nothing is selected.
func Markdown(m *Model, v View, media MediaLookup) string {
	w := &mdWriter{media: media}

	if m != nil {
		title := m.DMCode
		if title == "" {
			title = m.Path
		}
		w.linef("# %s", esc(orPlaceholder(title, PlaceholderDash)))
		if m.DMTitle != "" {
			w.linef("_%s_", esc(m.DMTitle))
		}
		w.blank()
		w.linef("Type: **%s**", esc(m.Kind.Label()))
		w.blank()
	}

	w.view(v)
	return strings.TrimRight(w.String(), "\n") + "\n"
}

type mdWriter struct {
	strings.Builder
	media MediaLookup
}

func (w *mdWriter) linef(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *mdWriter) blank() {
	w.WriteByte('\n')
}

func (w *mdWriter) bullets(items []string) {
	for _, it := range items {
		w.linef("- %s", esc(it))
	}
	w.blank()
}

func (w *mdWriter) section(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.linef("## %s", title)
	w.blank()
	w.bullets(items)
}

func (w *mdWriter) view(v View) {
	switch v := v.(type) {
	case nil, NothingSelectedView:
		w.linef("_%s_", MsgNothingSelected)
	case UnknownKindView:
		w.linef("_%s_", MsgNoRenderer)
		w.blank()
		w.linef("Kind: %s", codeSpan(orPlaceholder(v.RawKind, PlaceholderDash)))
	case ProcedureView:
		w.procedure(v)
	case DescriptionView:
		for _, b := range v.Blocks {
			w.block(b)
		}
	case FrontMatterView:
		w.frontMatter(v)
	case ACTView:
		w.act(v)
	case BREXView:
		w.brex(v)
	}
}

func (w *mdWriter) procedure(v ProcedureView) {
	w.section("Warnings", v.Warnings)
	w.section("Cautions", v.Cautions)
	w.section("Notes", v.Notes)

	w.linef("## Steps")
	w.blank()
	if len(v.Steps) == 0 {
		w.linef("_No steps listed._")
		w.blank()
		return
	}
	for i, s := range v.Steps {
		w.linef("%d. %s", i+1, esc(s))
	}
	w.blank()
}

func (w *mdWriter) block(b BlockView) {
	switch b := b.(type) {
	case HeadingView:
		w.linef("## %s", esc(b.Text))
		w.blank()
	case ParagraphView:
		w.linef("%s", esc(b.Text))
		w.blank()
	case BulletView:
		w.linef("- %s", esc(b.Text))
		w.blank()
	case FigureView:
		w.linef("**%s**", esc(b.Title))
		w.blank()
		w.image(b.Title, b.URN, b.ImageURL)
	}
}

// image writes the media line of a figure or logo. A failed fetch replaces
// only the image with a caption; surrounding text is left alone.
func (w *mdWriter) image(alt, urn, url string) {
	if urn == "" {
		return
	}
	w.linef("`%s`", urn)
	w.blank()

	var (
		m  Media
		ok bool
	)
	if w.media != nil {
		m, ok = w.media(urn)
	}

	switch {
	case ok && m.State == MediaFailed:
		w.linef("_%s_", MsgFigureUnavailable)
	case ok && m.State == MediaPending:
		w.linef("_Loading image…_")
	case ok && m.State == MediaLoaded:
		w.linef("![%s](%s) (%s, %s)", esc(alt), url, orPlaceholder(m.ContentType, "unknown type"), humanize.Bytes(uint64(m.Size)))
	default:
		w.linef("![%s](%s)", esc(alt), url)
	}
	w.blank()
}

func (w *mdWriter) frontMatter(v FrontMatterView) {
	switch {
	case v.TitlePage != nil:
		tp := v.TitlePage
		w.linef("## %s", esc(tp.Title))
		w.blank()
		if tp.ShortTitle != "" {
			w.linef("_%s_", esc(tp.ShortTitle))
			w.blank()
		}
		if tp.ProductIntroName != "" {
			w.linef("%s", esc(tp.ProductIntroName))
			w.blank()
		}
		if len(tp.Models) > 0 {
			w.linef("**Models**")
			w.blank()
			w.bullets(tp.Models)
		}
		if tp.LogoURN != "" {
			w.linef("**Publisher logo**")
			w.blank()
			w.image("publisher logo", tp.LogoURN, tp.LogoURL)
		}
	case len(v.Lists) > 0:
		for _, l := range v.Lists {
			w.linef("## %s", esc(l.Title))
			w.blank()
			w.linef("Front matter type: `%s`", l.FrontMatterType)
			w.blank()
			w.linef("| Entry | Issue date | Reference |")
			w.linef("| --- | --- | --- |")
			if len(l.Entries) == 0 {
				w.linef("| _%s_ | | |", MsgNoEntries)
			}
			for _, e := range l.Entries {
				w.linef("| %s | %s | %s |", esc(e.Heading), esc(orPlaceholder(e.IssueDate, PlaceholderDash)), esc(orPlaceholder(e.Href, PlaceholderDash)))
			}
			w.blank()
		}
	default:
		w.linef("_%s_", MsgNoFrontMatter)
	}
}

func (w *mdWriter) act(v ACTView) {
	if len(v.Attributes) == 0 {
		w.linef("_%s_", MsgNoAttributes)
		return
	}
	for _, a := range v.Attributes {
		w.linef("### %s", esc(a.Name))
		w.blank()
		w.linef("- ID: `%s`", a.ID)
		w.linef("- Display name: %s", esc(a.DisplayName))
		w.linef("- Description: %s", esc(a.Descr))
		if len(a.Values) > 0 {
			vals := make([]string, len(a.Values))
			for i, val := range a.Values {
				vals[i] = "`" + val + "`"
			}
			w.linef("- Values: %s", strings.Join(vals, " "))
		} else {
			w.linef("- Values: %s", PlaceholderDash)
		}
		w.blank()
	}
}

func (w *mdWriter) brex(v BREXView) {
	if v.Intro.Title != "" {
		w.linef("## %s", esc(v.Intro.Title))
		w.blank()
	}
	for _, p := range v.Intro.Paras {
		w.linef("%s", esc(p))
		w.blank()
	}
	if len(v.Intro.Bullets) > 0 {
		w.bullets(v.Intro.Bullets)
	}

	w.linef("## Context rules (%d)", v.TotalContextRules)
	w.blank()
	if v.CapNotice != "" {
		w.linef("_%s_", v.CapNotice)
		w.blank()
	}
	if len(v.ContextRules) == 0 {
		w.linef("_%s_", MsgNoContextRules)
		w.blank()
	}
	for _, r := range v.ContextRules {
		w.rule(r)
	}

	w.section("Non-context rules", v.NonContextRules)
}

func (w *mdWriter) rule(r RuleCard) {
	w.linef("### %s", esc(r.ObjectUse))
	w.blank()
	if r.ObjectPath != "" {
		w.linef("%s", codeSpan(r.ObjectPath))
		w.blank()
	}
	if len(r.Pills) > 0 {
		w.linef("%s", pills(r.Pills))
		w.blank()
	}
	w.reasons(r.Reasons)
	for _, v := range r.Values {
		line := pills(v.Pills)
		if v.Text != "" {
			line += " " + esc(v.Text)
		}
		w.linef("- %s", line)
		for _, rc := range v.Reasons {
			w.linef("  - %s", reasonLine(rc))
		}
	}
	if len(r.Values) > 0 {
		w.blank()
	}
}

func (w *mdWriter) reasons(cards []ReasonCard) {
	if len(cards) == 0 {
		return
	}
	w.linef("**Reasons for update**")
	w.blank()
	for _, rc := range cards {
		w.linef("- %s", reasonLine(rc))
	}
	w.blank()
}

func reasonLine(rc ReasonCard) string {
	if rc.Missing {
		return fmt.Sprintf("%s: _%s_", codeSpan(rc.ID), MsgNoReasonText)
	}
	texts := make([]string, len(rc.Texts))
	for i, t := range rc.Texts {
		texts[i] = esc(t)
	}
	return fmt.Sprintf("%s: %s", codeSpan(rc.ID), strings.Join(texts, " / "))
}

func pills(ps []string) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = codeSpan(p)
	}
	return strings.Join(out, " ")
}
