package selection

// Change summarizes the ledger writes made by one event.
type Change struct {
	Included []int `json:"included"`
	Excluded []int `json:"excluded"`
}

// Reconcile applies a "these rows are checked now" event for the visible page.
//
// The widget reports only the full checked set, so deselections are derived
// by diffing against the page's prior effective state:
//
//  1. every checked id is included
//  2. every page id that was selected before the event and is no longer
//     checked is excluded
//  3. ids outside pageIDs are never touched
//
// Checked ids that are not on the page are ignored. Callers that build
// checked from untrusted input rely on this.
func Reconcile(l *Ledger, pageIDs []int, checked []int) Change {
	onPage := make(map[int]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		onPage[id] = struct{}{}
	}

	// Prior state is captured before any write so step 2 sees the ledger as
	// it was when the widget last rendered.
	wasSelected := make(map[int]bool, len(pageIDs))
	for _, id := range pageIDs {
		wasSelected[id] = l.IsSelected(id)
	}

	now := make(map[int]struct{}, len(checked))
	var change Change
	for _, id := range checked {
		if _, ok := onPage[id]; !ok {
			continue
		}
		if _, dup := now[id]; dup {
			continue
		}
		now[id] = struct{}{}
		if !l.IsSelected(id) {
			change.Included = append(change.Included, id)
		}
		l.Include(id)
	}

	for _, id := range pageIDs {
		if _, still := now[id]; still {
			continue
		}
		if wasSelected[id] {
			l.Exclude(id)
			change.Excluded = append(change.Excluded, id)
		}
	}

	return change
}
