package preview

import "strings"

// FrontMatterClass is the sub-variant of a front-matter block.
type FrontMatterClass int

const (
	FrontMatterOther FrontMatterClass = iota
	FrontMatterTitlePage
	FrontMatterList
)

// Class classifies the block by its type tag, or by the fields it carries when
// the tag is empty.
func (b FrontMatterBlock) Class() FrontMatterClass {
	switch strings.ReplaceAll(NormalizeKind(b.Type), "-", "_") {
	case "title_page", "titlepage":
		return FrontMatterTitlePage
	case "list", "frontmatterlist", "front_matter_list":
		return FrontMatterList
	case "":
		switch {
		case b.PMTitle != "" || b.ShortPMTitle != "" || b.ProductIntroName != "" ||
			len(b.Models) > 0 || b.PublisherLogoURN != "":
			return FrontMatterTitlePage
		case b.FrontMatterType != "" || len(b.Entries) > 0:
			return FrontMatterList
		}
	}
	return FrontMatterOther
}

// TitlePage returns the first title-page block.
func (fm *FrontMatter) TitlePage() (FrontMatterBlock, bool) {
	for _, b := range fm.Blocks {
		if b.Class() == FrontMatterTitlePage {
			return b, true
		}
	}
	return FrontMatterBlock{}, false
}

// Lists returns every list block in order.
func (fm *FrontMatter) Lists() []FrontMatterBlock {
	var lists []FrontMatterBlock
	for _, b := range fm.Blocks {
		if b.Class() == FrontMatterList {
			lists = append(lists, b)
		}
	}
	return lists
}

// frontMatter renders the title page when present, else every list block,
// else the explicit empty state.
func (r *Renderer) frontMatter(m *Model, fm *FrontMatter) FrontMatterView {
	if tp, ok := fm.TitlePage(); ok {
		return FrontMatterView{TitlePage: r.titlePage(m, tp)}
	}

	lists := fm.Lists()
	if len(lists) == 0 {
		return FrontMatterView{Empty: true}
	}

	views := make([]FrontMatterListView, 0, len(lists))
	for _, b := range lists {
		views = append(views, r.frontMatterList(m, b))
	}
	return FrontMatterView{Lists: views}
}

func (r *Renderer) titlePage(m *Model, b FrontMatterBlock) *TitlePageView {
	title := r.text(b.PMTitle)
	if title == "" {
		title = r.text(m.DMTitle)
	}
	return &TitlePageView{
		Title:            orPlaceholder(title, PlaceholderDash),
		ShortTitle:       r.text(b.ShortPMTitle),
		ProductIntroName: r.text(b.ProductIntroName),
		Models:           r.texts(b.Models),
		LogoURN:          b.PublisherLogoURN,
		LogoURL:          r.resourceURL(b.PublisherLogoURN),
	}
}

func (r *Renderer) frontMatterList(m *Model, b FrontMatterBlock) FrontMatterListView {
	view := FrontMatterListView{
		FrontMatterType: orPlaceholder(b.FrontMatterType, PlaceholderDash),
		Title:           orPlaceholder(r.text(m.DMTitle), PlaceholderListTitle),
		Entries:         make([]EntryView, 0, len(b.Entries)),
	}

	for _, e := range b.Entries {
		heading := orPlaceholder(r.text(e.TechName), PlaceholderDash)
		if info := r.text(e.InfoName); info != "" {
			heading += " — " + info
		}
		view.Entries = append(view.Entries, EntryView{
			Heading:   heading,
			IssueDate: e.IssueDate,
			Href:      e.Href,
		})
	}

	return view
}
