package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconDocument  = "\U000F0219" // 󰈙
	IconXML       = "\U000F05C0" // 󰗀
	IconFilter    = "\U000F0232" // 󰈲
	IconApplic    = ""
	IconCheck     = ""
	IconCross     = ""
	IconExpanded  = "▾"
	IconCollapsed = "▸"
)
