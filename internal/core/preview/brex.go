package preview

import (
	"fmt"
	"strings"
)

// ResolveReasons expands a whitespace-separated reference list into one card
// per token, in token order. Tokens with no text in table are marked Missing.
// Repeated tokens produce repeated cards.
func ResolveReasons(refIDs string, table map[string][]string) []ReasonCard {
	ids := strings.Fields(refIDs)
	if len(ids) == 0 {
		return nil
	}

	cards := make([]ReasonCard, 0, len(ids))
	for _, id := range ids {
		texts := table[id]
		cards = append(cards, ReasonCard{
			ID:      id,
			Texts:   texts,
			Missing: len(texts) == 0,
		})
	}
	return cards
}

// reasons resolves refIDs and passes each reason text through r.text.
func (r *Renderer) reasons(refIDs string, table map[string][]string) []ReasonCard {
	cards := ResolveReasons(refIDs, table)
	for i := range cards {
		cards[i].Texts = r.texts(cards[i].Texts)
	}
	return cards
}

func (r *Renderer) brex(b *BREX) BREXView {
	view := BREXView{
		Intro: IntroView{
			Title:   r.text(b.Intro.Title),
			Paras:   r.texts(b.Intro.Paras),
			Bullets: r.texts(b.Intro.Bullets),
		},
		TotalContextRules: len(b.ContextRules),
		NonContextRules:   r.texts(b.NonContextRules),
	}

	rules := b.ContextRules
	if len(rules) > MaxContextRules {
		rules = rules[:MaxContextRules]
		view.CapNotice = fmt.Sprintf("Showing first %d of %d context rules.", MaxContextRules, len(b.ContextRules))
	}

	view.ContextRules = make([]RuleCard, 0, len(rules))
	for _, rule := range rules {
		view.ContextRules = append(view.ContextRules, r.rule(rule, b.ReasonForUpdate))
	}

	return view
}

func (r *Renderer) rule(rule Rule, reasons map[string][]string) RuleCard {
	card := RuleCard{
		ObjectUse:  orPlaceholder(r.text(rule.ObjectUse), PlaceholderObjectUse),
		ObjectPath: rule.ObjectPath,
		Pills:      rulePills(rule),
		Reasons:    r.reasons(rule.ReasonForUpdateRefIDs, reasons),
	}

	for _, v := range rule.Values {
		card.Values = append(card.Values, ValueRow{
			Pills:   valuePills(v),
			Text:    r.text(v.Text),
			Reasons: r.reasons(v.ReasonForUpdateRefIDs, reasons),
		})
	}

	return card
}

func rulePills(rule Rule) []string {
	var pills []string
	if rule.AllowedObjectFlag != "" {
		pills = append(pills, "flag "+rule.AllowedObjectFlag)
	}
	if rule.ChangeMark != "" {
		pills = append(pills, "mark "+rule.ChangeMark)
	}
	if rule.ChangeType != "" {
		pills = append(pills, rule.ChangeType)
	}
	return pills
}

func valuePills(v Value) []string {
	pills := []string{orPlaceholder(v.ValueAllowed, PlaceholderDash)}
	if v.ValueForm != "" {
		pills = append(pills, v.ValueForm)
	}
	if v.ValueTailoring != "" {
		pills = append(pills, v.ValueTailoring)
	}
	if v.ChangeMark != "" {
		pills = append(pills, "mark "+v.ChangeMark)
	}
	if v.ChangeType != "" {
		pills = append(pills, v.ChangeType)
	}
	return pills
}
