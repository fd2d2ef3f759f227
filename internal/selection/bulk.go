package selection

import "fmt"

// ValidationError reports user input outside its allowed bounds. It is
// returned to the input surface and never reaches the ledger.
type ValidationError struct {
	Field  string
	Value  int
	Min    int
	Max    int // ignored when less than Min
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("invalid %s: %d (%s)", e.Field, e.Value, e.Reason)
	case e.Max >= e.Min:
		return fmt.Sprintf("invalid %s: %d must be between %d and %d", e.Field, e.Value, e.Min, e.Max)
	default:
		return fmt.Sprintf("invalid %s: %d must be at least %d", e.Field, e.Value, e.Min)
	}
}

// SelectAll includes every id on the page.
func SelectAll(l *Ledger, pageIDs []int) {
	for _, id := range pageIDs {
		l.Include(id)
	}
}

// DeselectAll excludes every id on the page.
func DeselectAll(l *Ledger, pageIDs []int) {
	for _, id := range pageIDs {
		l.Exclude(id)
	}
}

// ValidateCount checks n against the custom-count bounds [1, available].
func ValidateCount(n, available int) error {
	if available < 1 {
		return &ValidationError{Field: "row count", Value: n, Min: 1, Reason: "no rows available on this page"}
	}
	if n < 1 || n > available {
		return &ValidationError{Field: "row count", Value: n, Min: 1, Max: available}
	}
	return nil
}

// SelectFirstN walks the page in display order and includes ids until n have
// been included. Ids already excluded are skipped without consuming the count;
// this never force-includes an explicit deselection.
//
// n must be within [1, len(pageIDs)]. It returns the number of ids included,
// which is less than n only when the page runs out of eligible ids.
func SelectFirstN(l *Ledger, pageIDs []int, n int) (int, error) {
	if err := ValidateCount(n, len(pageIDs)); err != nil {
		return 0, err
	}

	remaining := min(n, len(pageIDs))
	selected := 0
	for _, id := range pageIDs {
		if remaining == 0 {
			break
		}
		if l.State(id) == Excluded {
			continue
		}
		l.Include(id)
		selected++
		remaining--
	}
	return selected, nil
}
