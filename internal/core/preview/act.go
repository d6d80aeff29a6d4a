package preview

// act renders one card per attribute in payload order. Every card slot is
// filled so cards line up regardless of how complete the attribute is.
func (r *Renderer) act(a *ACT) ACTView {
	cards := make([]AttributeCard, 0, len(a.ProductAttributes))
	for _, attr := range a.ProductAttributes {
		cards = append(cards, AttributeCard{
			ID:          orPlaceholder(attr.ID, PlaceholderDash),
			Name:        orPlaceholder(r.text(attr.Name), PlaceholderName),
			DisplayName: orPlaceholder(r.text(attr.DisplayName), PlaceholderDisplayName),
			Descr:       orPlaceholder(r.text(attr.Descr), PlaceholderDescr),
			Values:      nonNil(r.texts(attr.Values)),
		})
	}
	return ACTView{Attributes: cards}
}
