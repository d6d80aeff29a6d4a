package preview

// Placeholder and notice texts used by the views.
const (
	MsgNothingSelected   = "Select a DM to preview."
	MsgNoRenderer        = "No preview renderer for this type yet."
	MsgNoFrontMatter     = "No front-matter content found."
	MsgNoEntries         = "No entries found."
	MsgNoAttributes      = "No product attributes found in this ACT."
	MsgNoReasonText      = "No text found for this ID."
	MsgNoContextRules    = "No context rules found."
	MsgFigureUnavailable = "If the image doesn't display, it may be CGM (not renderable here)."

	PlaceholderDash        = "—"
	PlaceholderFigure      = "(figure)"
	PlaceholderName        = "(unnamed attribute)"
	PlaceholderDisplayName = "(no display name)"
	PlaceholderDescr       = "(no description)"
	PlaceholderObjectUse   = "(no objectUse)"
	PlaceholderListTitle   = "List"
)

// MaxContextRules caps how many BREX context rules a view shows.
const MaxContextRules = 200

// View is the rendered form of a preview. The set of implementations is
// closed: NothingSelectedView, UnknownKindView and one view per Kind.
type View interface {
	isView()
}

// NothingSelectedView is shown before any document has been loaded.
type NothingSelectedView struct{}

// UnknownKindView is the fallback for missing or unrecognized kinds.
type UnknownKindView struct {
	RawKind string
}

// ProcedureView renders a procedure. Warnings, Cautions and Notes are shown
// only when non-empty; Steps is always shown.
type ProcedureView struct {
	Warnings []string
	Cautions []string
	Notes    []string
	Steps    []string
}

// DescriptionView renders a description as an ordered block sequence.
type DescriptionView struct {
	Blocks []BlockView
}

// BlockView is one rendered description block.
type BlockView interface {
	isBlock()
}

type HeadingView struct{ Text string }

type ParagraphView struct{ Text string }

type BulletView struct{ Text string }

// FigureView keeps its title and identifier even when the image cannot be
// fetched. ImageURL is empty when the figure has no URN.
type FigureView struct {
	Title    string
	URN      string
	ImageURL string
}

// FrontMatterView shows a title page, or the list tables, or the empty state.
type FrontMatterView struct {
	TitlePage *TitlePageView
	Lists     []FrontMatterListView
	Empty     bool
}

// TitlePageView is the rendered front-matter title page.
type TitlePageView struct {
	Title            string
	ShortTitle       string
	ProductIntroName string
	Models           []string
	LogoURN          string
	LogoURL          string
}

// FrontMatterListView is one titled table of front-matter entries.
type FrontMatterListView struct {
	FrontMatterType string
	Title           string
	Entries         []EntryView
}

// EntryView is a rendered list entry.
type EntryView struct {
	Heading   string
	IssueDate string
	Href      string
}

// ACTView lists one card per product attribute.
type ACTView struct {
	Attributes []AttributeCard
}

// AttributeCard always carries every slot; missing fields hold placeholders.
type AttributeCard struct {
	ID          string
	Name        string
	DisplayName string
	Descr       string
	Values      []string
}

// BREXView renders the business rules.
type BREXView struct {
	Intro             IntroView
	TotalContextRules int
	ContextRules      []RuleCard
	CapNotice         string
	NonContextRules   []string
}

// IntroView is the optional BREX introduction.
type IntroView struct {
	Title   string
	Paras   []string
	Bullets []string
}

// RuleCard is a rendered context rule.
type RuleCard struct {
	ObjectUse  string
	ObjectPath string
	Pills      []string
	Values     []ValueRow
	Reasons    []ReasonCard
}

// ValueRow is a rendered allowed value of a rule.
type ValueRow struct {
	Pills   []string
	Text    string
	Reasons []ReasonCard
}

// ReasonCard is one resolved reason-for-update reference.
type ReasonCard struct {
	ID      string
	Texts   []string
	Missing bool
}

func (NothingSelectedView) isView() {}
func (UnknownKindView) isView()     {}
func (ProcedureView) isView()       {}
func (DescriptionView) isView()     {}
func (FrontMatterView) isView()     {}
func (ACTView) isView()             {}
func (BREXView) isView()            {}

func (HeadingView) isBlock()   {}
func (ParagraphView) isBlock() {}
func (BulletView) isBlock()    {}
func (FigureView) isBlock()    {}
