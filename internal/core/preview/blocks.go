package preview

import "strings"

func (r *Renderer) description(d *Description) DescriptionView {
	return DescriptionView{Blocks: r.blocks(d.Blocks)}
}

// blocks renders description blocks in order. Blocks of unknown type are
// skipped.
func (r *Renderer) blocks(in []Block) []BlockView {
	out := make([]BlockView, 0, len(in))
	for _, b := range in {
		switch strings.ToLower(strings.TrimSpace(b.Type)) {
		case BlockHeading:
			out = append(out, HeadingView{Text: r.text(b.Text)})
		case BlockParagraph, BlockPara:
			out = append(out, ParagraphView{Text: r.text(b.Text)})
		case BlockBullet:
			out = append(out, BulletView{Text: r.text(b.Text)})
		case BlockFigure:
			out = append(out, r.figure(b))
		}
	}
	return out
}

func (r *Renderer) figure(b Block) FigureView {
	return FigureView{
		Title:    orPlaceholder(r.text(b.Title), PlaceholderFigure),
		URN:      b.URN,
		ImageURL: r.resourceURL(b.URN),
	}
}

// MediaRefs returns the resource identifiers a model refers to, in document
// order and without repeats.
func MediaRefs(m *Model) []string {
	if m == nil {
		return nil
	}

	var refs []string
	seen := make(map[string]bool)
	add := func(urn string) {
		if urn == "" || seen[urn] {
			return
		}
		seen[urn] = true
		refs = append(refs, urn)
	}

	switch m.Kind {
	case KindDescription:
		if m.Description != nil {
			for _, b := range m.Description.Blocks {
				if strings.EqualFold(strings.TrimSpace(b.Type), BlockFigure) {
					add(b.URN)
				}
			}
		}
	case KindFrontMatter:
		if m.FrontMatter != nil {
			if tp, ok := m.FrontMatter.TitlePage(); ok {
				add(tp.PublisherLogoURN)
			}
		}
	case KindUnknown, KindProcedure, KindACT, KindBREX:
	}

	return refs
}
