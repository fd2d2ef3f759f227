// Package selection tracks which catalog items a user has selected across
// pages without holding any page's rows.
//
// The Ledger is a minimal edit log: two id sets, included and excluded, with
// last-write-wins per id. An id is effectively selected when it is included
// and not excluded. Ids the user never touched are in neither set and read as
// unselected.
//
// The Ledger is not safe for concurrent use. The owning session serializes
// access the same way a browser event loop would.
package selection

import "sort"

// State is the per-id position in the selection state machine.
type State int

const (
	Unseen State = iota
	Included
	Excluded
)

func (s State) String() string {
	switch s {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "unseen"
	}
}

// Ledger holds the included and excluded id sets for one session.
type Ledger struct {
	included map[int]struct{}
	excluded map[int]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		included: make(map[int]struct{}),
		excluded: make(map[int]struct{}),
	}
}

// IsSelected reports the effective selection state of id.
func (l *Ledger) IsSelected(id int) bool {
	_, in := l.included[id]
	_, out := l.excluded[id]
	return in && !out
}

// State returns where id sits in the Unseen/Included/Excluded machine.
func (l *Ledger) State(id int) State {
	if _, ok := l.excluded[id]; ok {
		return Excluded
	}
	if _, ok := l.included[id]; ok {
		return Included
	}
	return Unseen
}

// Include marks id as affirmatively selected.
func (l *Ledger) Include(id int) {
	l.included[id] = struct{}{}
	delete(l.excluded, id)
}

// Exclude marks id as affirmatively deselected.
func (l *Ledger) Exclude(id int) {
	l.excluded[id] = struct{}{}
	delete(l.included, id)
}

// CountEffective returns how many distinct candidate ids are effectively selected.
func (l *Ledger) CountEffective(candidates []int) int {
	seen := make(map[int]struct{}, len(candidates))
	n := 0
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if l.IsSelected(id) {
			n++
		}
	}
	return n
}

// TotalSelected returns |included \ excluded| over the whole ledger.
//
// This counts only ids the user has interacted with; items on pages never
// visited are unknown and not counted.
func (l *Ledger) TotalSelected() int {
	n := 0
	for id := range l.included {
		if _, out := l.excluded[id]; !out {
			n++
		}
	}
	return n
}

// Clear forgets every recorded interaction.
func (l *Ledger) Clear() {
	l.included = make(map[int]struct{})
	l.excluded = make(map[int]struct{})
}

// Snapshot is a sorted copy of the ledger's sets.
type Snapshot struct {
	Included []int `json:"included"`
	Excluded []int `json:"excluded"`
}

// Snapshot returns sorted copies of both sets.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Included: sortedKeys(l.included),
		Excluded: sortedKeys(l.excluded),
	}
}

// TotalSelected returns the number of ids included and not excluded.
func (s Snapshot) TotalSelected() int {
	excluded := make(map[int]struct{}, len(s.Excluded))
	for _, id := range s.Excluded {
		excluded[id] = struct{}{}
	}
	n := 0
	for _, id := range s.Included {
		if _, out := excluded[id]; !out {
			n++
		}
	}
	return n
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
