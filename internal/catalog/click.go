package catalog

// ClickAction is what a click on a record should do
type ClickAction int

const (
	ClickNoop ClickAction = iota
	ClickOpenDetail
	ClickAddToCompare
)

func (a ClickAction) String() string {
	switch a {
	case ClickOpenDetail:
		return "open-detail"
	case ClickAddToCompare:
		return "add-to-compare"
	default:
		return "noop"
	}
}

// ClassifyClick maps a click to an action. A modified click adds to the
// compare set when it has room and does nothing otherwise; a plain click opens the detail view.
func ClassifyClick(modifierHeld, canAddMore bool) ClickAction {
	switch {
	case !modifierHeld:
		return ClickOpenDetail
	case canAddMore:
		return ClickAddToCompare
	default:
		return ClickNoop
	}
}
