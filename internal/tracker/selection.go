package tracker

// Selection describes how much of a page is selected.
type Selection string

const (
	SelectionNone    Selection = "none"
	SelectionPartial Selection = "partial"
	SelectionAll     Selection = "all"
)

// SelectionOf reports the selection state of pageIDs. An empty page is
// always none.
func SelectionOf(selected map[string]bool, pageIDs []string) Selection {
	if len(pageIDs) == 0 {
		return SelectionNone
	}
	n := 0
	for _, id := range pageIDs {
		if selected[id] {
			n++
		}
	}
	switch n {
	case 0:
		return SelectionNone
	case len(pageIDs):
		return SelectionAll
	default:
		return SelectionPartial
	}
}

// SelectionState reports the selection state of the current page.
func (r Reducer) SelectionState(s State) Selection {
	return SelectionOf(s.Selected, r.View(s).PageIDs())
}
