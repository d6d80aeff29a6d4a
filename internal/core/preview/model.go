// Package preview holds the structured description of a Data Module as produced
// by the CSDB backend and renders it into kind-specific views.
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Kind identifies which document variant a preview describes.
type Kind int

const (
	KindUnknown Kind = iota
	KindProcedure
	KindDescription
	KindFrontMatter
	KindACT
	KindBREX
)

var kindsByTag = map[string]Kind{
	"procedure":           KindProcedure,
	"description":         KindDescription,
	"frontmatter":         KindFrontMatter,
	"appliccrossreftable": KindACT,
	"brex":                KindBREX,
}

// NormalizeKind trims and lower-cases a backend kind tag.
func NormalizeKind(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseKind maps a backend kind tag onto a Kind. Missing or unrecognized tags
// map to KindUnknown.
func ParseKind(raw string) Kind {
	if k, ok := kindsByTag[NormalizeKind(raw)]; ok {
		return k
	}
	return KindUnknown
}

// String returns the normalized backend tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindProcedure:
		return "procedure"
	case KindDescription:
		return "description"
	case KindFrontMatter:
		return "frontmatter"
	case KindACT:
		return "appliccrossreftable"
	case KindBREX:
		return "brex"
	case KindUnknown:
		return "unknown"
	}
	return "unknown"
}

// Label returns the human readable name shown in view headers.
func (k Kind) Label() string {
	switch k {
	case KindProcedure:
		return "Procedure"
	case KindDescription:
		return "Description"
	case KindFrontMatter:
		return "Front matter"
	case KindACT:
		return "Applicability Cross-Reference Table (ACT)"
	case KindBREX:
		return "BREX (Business rules)"
	case KindUnknown:
		return "Unknown"
	}
	return "Unknown"
}

// Model is a parsed Data Module preview. Exactly one payload pointer is set,
// matching Kind; all are nil for KindUnknown. A Model is never mutated after
// decoding.
type Model struct {
	Kind    Kind
	RawKind string // tag as received, before normalization

	Path    string
	DMCode  string
	DMTitle string

	Procedure   *Procedure
	Description *Description
	FrontMatter *FrontMatter
	ACT         *ACT
	BREX        *BREX
}

// Procedure is the payload of a procedural Data Module.
type Procedure struct {
	Warnings []string `json:"warnings"`
	Cautions []string `json:"cautions"`
	Notes    []string `json:"notes"`
	Steps    []string `json:"steps"`
}

// Block types recognized in description payloads.
const (
	BlockHeading   = "heading"
	BlockParagraph = "paragraph"
	BlockPara      = "para" // emitted by older backends
	BlockBullet    = "bullet"
	BlockFigure    = "figure"
)

// Block is one content block of a description payload.
type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Title string `json:"title"`
	URN   string `json:"urn"`
}

// Description is the payload of a descriptive Data Module.
type Description struct {
	Blocks []Block `json:"blocks"`
}

// FrontMatter is the payload of a front-matter Data Module. Title-page and
// list blocks may coexist in Blocks.
type FrontMatter struct {
	Blocks []FrontMatterBlock `json:"blocks"`
}

// FrontMatterBlock carries either title-page fields or list fields. Which one
// applies is decided by Class.
type FrontMatterBlock struct {
	Type string `json:"type"`

	ProductIntroName string   `json:"product_intro_name"`
	PMTitle          string   `json:"pm_title"`
	ShortPMTitle     string   `json:"short_pm_title"`
	Models           []string `json:"models"`
	PublisherLogoURN string   `json:"publisher_logo_urn"`

	FrontMatterType string  `json:"frontMatterType"`
	Entries         []Entry `json:"entries"`
}

// Entry is one row of a front-matter list.
type Entry struct {
	TechName  string `json:"techName"`
	InfoName  string `json:"infoName"`
	IssueDate string `json:"issueDate"`
	Href      string `json:"href"`
}

// ACT is the payload of an applicability cross-reference table.
type ACT struct {
	ProductAttributes []Attribute `json:"product_attributes"`
}

// Attribute is a product attribute declared by an ACT.
type Attribute struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Descr       string   `json:"descr"`
	Values      []string `json:"values"`
}

// BREX is the payload of a business-rules Data Module.
type BREX struct {
	Intro           Intro               `json:"intro"`
	ContextRules    []Rule              `json:"context_rules"`
	NonContextRules []string            `json:"non_context_rules"`
	ReasonForUpdate map[string][]string `json:"reason_for_update"`
}

// Intro is the introductory section of a BREX.
type Intro struct {
	Title   string   `json:"title"`
	Paras   []string `json:"paras"`
	Bullets []string `json:"bullets"`
}

// Rule is a context rule of a BREX.
type Rule struct {
	ObjectUse             string  `json:"objectUse"`
	ObjectPath            string  `json:"objectPath"`
	AllowedObjectFlag     string  `json:"allowedObjectFlag"`
	ChangeMark            string  `json:"changeMark"`
	ChangeType            string  `json:"changeType"`
	ReasonForUpdateRefIDs string  `json:"reasonForUpdateRefIds"`
	Values                []Value `json:"values"`
}

// Value is an allowed object value of a context rule.
type Value struct {
	ValueAllowed          string `json:"valueAllowed"`
	ValueForm             string `json:"valueForm"`
	ValueTailoring        string `json:"valueTailoring"`
	ChangeMark            string `json:"changeMark"`
	ChangeType            string `json:"changeType"`
	Text                  string `json:"text"`
	ReasonForUpdateRefIDs string `json:"reasonForUpdateRefIds"`
}

// legacyFrontMatter is the flat front-matter shape keyed by "variant".
type legacyFrontMatter struct {
	FrontMatterBlock
	Variant string            `json:"variant"`
	Blocks  []FrontMatterBlock `json:"blocks"`
}

// Decode parses a preview document. Only a document that is not a JSON object
// is an error; unknown kinds and malformed payload fields degrade to empty
// values.
func Decode(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UnmarshalJSON decodes the discriminant first and then only the payload
// fields that belong to it.
func (m *Model) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode preview object: %w", err)
	}
	if fields == nil {
		return errors.New("decode preview object: not a JSON object")
	}

	*m = Model{
		Path:    field[string](fields, "path"),
		DMCode:  field[string](fields, "dmCode"),
		DMTitle: field[string](fields, "dmTitle"),
	}

	raw, ok := fields["kind"]
	if !ok {
		raw = fields["dm_type_guess"]
	}
	if len(raw) > 0 {
		m.RawKind = decodeRaw[string]("kind", raw)
	}
	m.Kind = ParseKind(m.RawKind)

	switch m.Kind {
	case KindProcedure:
		m.Procedure = &Procedure{
			Warnings: field[[]string](fields, "warnings"),
			Cautions: field[[]string](fields, "cautions"),
			Notes:    field[[]string](fields, "notes"),
			Steps:    field[[]string](fields, "steps"),
		}
	case KindDescription:
		m.Description = &Description{Blocks: field[[]Block](fields, "blocks")}
	case KindFrontMatter:
		m.FrontMatter = decodeFrontMatter(fields)
	case KindACT:
		m.ACT = &ACT{ProductAttributes: field[[]Attribute](fields, "product_attributes")}
	case KindBREX:
		m.BREX = &BREX{
			Intro:           field[Intro](fields, "intro"),
			ContextRules:    field[[]Rule](fields, "context_rules"),
			NonContextRules: field[[]string](fields, "non_context_rules"),
			ReasonForUpdate: field[map[string][]string](fields, "reason_for_update"),
		}
	case KindUnknown:
	}

	return nil
}

// decodeFrontMatter accepts top-level blocks, blocks nested under
// "frontmatter", and the flat "frontmatter.variant" shape.
func decodeFrontMatter(fields map[string]json.RawMessage) *FrontMatter {
	fm := &FrontMatter{Blocks: field[[]FrontMatterBlock](fields, "blocks")}

	legacy := field[legacyFrontMatter](fields, "frontmatter")
	fm.Blocks = append(fm.Blocks, legacy.Blocks...)
	if variant := NormalizeKind(legacy.Variant); variant != "" {
		block := legacy.FrontMatterBlock
		block.Type = variant
		fm.Blocks = append(fm.Blocks, block)
	}

	return fm
}

func field[T any](fields map[string]json.RawMessage, key string) T {
	raw, ok := fields[key]
	if !ok || len(raw) == 0 {
		var zero T
		return zero
	}
	return decodeRaw[T](key, raw)
}

func decodeRaw[T any](key string, raw json.RawMessage) T {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Debug().Err(err).Str("field", key).Msg("preview field has unexpected shape")
		var zero T
		return zero
	}
	return v
}
