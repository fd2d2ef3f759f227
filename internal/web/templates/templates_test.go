package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLinks(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  []int
	}{
		{"nothing loaded", 0, 0, nil},
		{"single page", 1, 1, []int{1}},
		{"fewer pages than window", 2, 3, []int{1, 2, 3}},
		{"start", 1, 10, []int{1, 2, 3, 4, 5}},
		{"middle", 5, 10, []int{3, 4, 5, 6, 7}},
		{"end", 10, 10, []int{6, 7, 8, 9, 10}},
		{"near end", 9, 10, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageLinks(core.View{Page: tt.page, TotalPages: tt.total})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestViewer_RendersRowsAndCounts(t *testing.T) {
	v := core.View{
		Page:           1,
		TotalPages:     2,
		TotalRecords:   13,
		PageSize:       12,
		SelectedOnPage: 1,
		TotalSelected:  4,
		Rows: []core.Row{
			{Item: catalog.Item{ID: 7, Title: "Nighthawks <1942>"}, Selected: true},
			{Item: catalog.Item{ID: 8, Title: "American Gothic"}},
		},
		Notifications: []core.Notification{{Severity: core.SeverityInfo, Summary: "Selection Updated", Detail: "Selected 1 row(s)"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Viewer(v).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, "Selected on this page: <strong>1</strong> / 2")
	assert.Contains(t, out, "Nighthawks &lt;1942&gt;")
	assert.Contains(t, out, "Showing 1 to 2 of 13 artworks (Page 1 of 2)")
	assert.Contains(t, out, "Selected 1 row(s)")
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("Page not found", "Pick another page", "VAL002").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Page not found")
	assert.Contains(t, buf.String(), "VAL002")
}

func TestViewer_PageCheckboxFollowsAllSelected(t *testing.T) {
	rows := []core.Row{
		{Item: catalog.Item{ID: 1, Title: "A"}, Selected: true},
		{Item: catalog.Item{ID: 2, Title: "B"}, Selected: true},
	}

	var buf bytes.Buffer
	require.NoError(t, Viewer(core.View{Page: 1, TotalPages: 1, Rows: rows, SelectedOnPage: 2}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `aria-label="Select all rows on this page" checked`)
	assert.Contains(t, buf.String(), `hx-post="/deselect-all"`)

	buf.Reset()
	require.NoError(t, Viewer(core.View{Page: 1, TotalPages: 1, Rows: rows, SelectedOnPage: 1}).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), `aria-label="Select all rows on this page" checked`)
	assert.Contains(t, buf.String(), `hx-post="/select-all"`)
}
