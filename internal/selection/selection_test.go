package selection

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDisjoint(t *testing.T, l *Ledger) {
	t.Helper()
	for id := range l.included {
		_, both := l.excluded[id]
		assert.False(t, both, "id %d is in both sets", id)
	}
}

func TestLedger_LastWriteWins(t *testing.T) {
	l := NewLedger()
	l.Include(1)
	l.Exclude(1)
	assert.False(t, l.IsSelected(1))
	assert.Equal(t, Excluded, l.State(1))

	l = NewLedger()
	l.Exclude(1)
	l.Include(1)
	assert.True(t, l.IsSelected(1))
	assert.Equal(t, Included, l.State(1))
}

func TestLedger_Idempotent(t *testing.T) {
	once := NewLedger()
	once.Include(5)
	twice := NewLedger()
	twice.Include(5)
	twice.Include(5)
	assert.Equal(t, once.Snapshot(), twice.Snapshot())

	once = NewLedger()
	once.Exclude(5)
	twice = NewLedger()
	twice.Exclude(5)
	twice.Exclude(5)
	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestLedger_UnseenIsUnselected(t *testing.T) {
	l := NewLedger()
	assert.False(t, l.IsSelected(42))
	assert.Equal(t, Unseen, l.State(42))
	assert.Equal(t, "unseen", l.State(42).String())
}

func TestLedger_CountEffective(t *testing.T) {
	l := NewLedger()
	l.Include(1)
	l.Include(2)
	l.Exclude(3)
	l.Include(9)

	assert.Equal(t, 2, l.CountEffective([]int{1, 2, 3, 4}))
	assert.Equal(t, 1, l.CountEffective([]int{1, 1, 1}))
	assert.Equal(t, 0, l.CountEffective(nil))
	assert.Equal(t, 3, l.TotalSelected())
}

func TestLedger_Clear(t *testing.T) {
	l := NewLedger()
	l.Include(1)
	l.Exclude(2)
	l.Clear()
	assert.Equal(t, 0, l.TotalSelected())
	assert.Equal(t, Unseen, l.State(2))
}

func TestLedger_DisjointUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := NewLedger()
	page := []int{1, 2, 3, 4, 5, 6}

	for i := 0; i < 2000; i++ {
		id := rng.Intn(20)
		switch rng.Intn(6) {
		case 0:
			l.Include(id)
		case 1:
			l.Exclude(id)
		case 2:
			SelectAll(l, page)
		case 3:
			DeselectAll(l, page)
		case 4:
			_, _ = SelectFirstN(l, page, 1+rng.Intn(len(page)))
		case 5:
			checked := []int{}
			for _, p := range page {
				if rng.Intn(2) == 0 {
					checked = append(checked, p)
				}
			}
			Reconcile(l, page, checked)
		}
		assertDisjoint(t, l)
	}
}

func TestReconcile_FirstPageCheck(t *testing.T) {
	l := NewLedger()
	change := Reconcile(l, []int{1, 2, 3}, []int{1, 3})

	assert.True(t, l.IsSelected(1))
	assert.False(t, l.IsSelected(2))
	assert.True(t, l.IsSelected(3))
	assert.Equal(t, []int{1, 3}, change.Included)
	assert.Empty(t, change.Excluded)
	// 2 was never selected, so it stays unseen rather than excluded.
	assert.Equal(t, Unseen, l.State(2))
}

func TestReconcile_UncheckRecordsExclusion(t *testing.T) {
	l := NewLedger()
	Reconcile(l, []int{1, 2, 3}, []int{1, 2, 3})
	change := Reconcile(l, []int{1, 2, 3}, []int{2})

	assert.Equal(t, Excluded, l.State(1))
	assert.Equal(t, Included, l.State(2))
	assert.Equal(t, Excluded, l.State(3))
	assert.Equal(t, []int{1, 3}, change.Excluded)
	assert.Empty(t, change.Included)
}

func TestReconcile_PageScoped(t *testing.T) {
	l := NewLedger()
	l.Include(10)
	l.Exclude(11)
	l.Include(4)

	Reconcile(l, []int{1, 2, 3}, []int{})
	Reconcile(l, []int{1, 2, 3}, []int{1, 4, 11})

	assert.True(t, l.IsSelected(10))
	assert.Equal(t, Excluded, l.State(11), "off-page checked id must be ignored")
	assert.True(t, l.IsSelected(4))
	assert.True(t, l.IsSelected(1))
}

func TestReconcile_CrossPagePersistence(t *testing.T) {
	l := NewLedger()
	page1 := []int{1, 2, 3}
	page2 := []int{4, 5, 6}

	Reconcile(l, page1, []int{1, 3})
	Reconcile(l, page2, []int{4})

	var visible []int
	for _, id := range page1 {
		if l.IsSelected(id) {
			visible = append(visible, id)
		}
	}
	assert.Equal(t, []int{1, 3}, visible)
	assert.True(t, l.IsSelected(4))
	assert.Equal(t, 3, l.TotalSelected())
	assert.Equal(t, 2, l.CountEffective(page1))
}

func TestSelectFirstN_AllUnseen(t *testing.T) {
	l := NewLedger()
	page := []int{1, 2, 3, 4, 5}

	n, err := SelectFirstN(l, page, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, id := range []int{1, 2, 3} {
		assert.Equal(t, Included, l.State(id))
	}
	for _, id := range []int{4, 5} {
		assert.Equal(t, Unseen, l.State(id))
	}
}

func TestSelectFirstN_SkipsExcluded(t *testing.T) {
	l := NewLedger()
	l.Exclude(1)
	page := []int{1, 2, 3, 4, 5}

	n, err := SelectFirstN(l, page, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, Excluded, l.State(1))
	for _, id := range []int{2, 3, 4} {
		assert.Equal(t, Included, l.State(id))
	}
	assert.Equal(t, Unseen, l.State(5))
}

func TestSelectFirstN_ShortfallWhenExcludedExhaustPage(t *testing.T) {
	l := NewLedger()
	l.Exclude(1)
	l.Exclude(2)

	n, err := SelectFirstN(l, []int{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSelectFirstN_Validation(t *testing.T) {
	tests := []struct {
		name string
		n    int
		page []int
	}{
		{"zero", 0, []int{1, 2}},
		{"negative", -3, []int{1, 2}},
		{"above page length", 3, []int{1, 2}},
		{"empty page", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger()
			n, err := SelectFirstN(l, tt.page, tt.n)
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, 0, n)
			assert.Equal(t, 0, l.TotalSelected())
			assert.Empty(t, l.Snapshot().Excluded)
		})
	}
}

func TestDeselectThenSelectAll(t *testing.T) {
	l := NewLedger()
	page := []int{1, 2, 3}
	SelectAll(l, page)
	DeselectAll(l, page)
	for _, id := range page {
		assert.Equal(t, Excluded, l.State(id))
	}

	SelectAll(l, page)
	snap := l.Snapshot()
	assert.Equal(t, page, snap.Included)
	assert.Empty(t, snap.Excluded)
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateCount(20, 12)
	require.Error(t, err)
	assert.Equal(t, "invalid row count: 20 must be between 1 and 12", err.Error())

	err = ValidateCount(1, 0)
	assert.Equal(t, "invalid row count: 1 (no rows available on this page)", err.Error())

	page := &ValidationError{Field: "page", Value: 0, Min: 1}
	assert.Equal(t, "invalid page: 0 must be at least 1", page.Error())
	assert.NoError(t, ValidateCount(12, 12))
}
