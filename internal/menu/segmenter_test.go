package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crawlbite/menuscan/pkg/types"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		wantItems     []types.MenuItem
		wantAnomalies types.SegmentAnomalies
	}{
		{
			name:  "name description price",
			lines: []string{"Grilled Chicken", "Served with rice", "120 L.E"},
			wantItems: []types.MenuItem{
				{Name: "Grilled Chicken", Description: " Served with rice", Price: "120 L.E"},
			},
		},
		{
			name:          "orphan price yields nothing",
			lines:         []string{"150 L.E"},
			wantItems:     nil,
			wantAnomalies: types.SegmentAnomalies{OrphanPrices: 1},
		},
		{
			name:  "two fragments before price extend the description",
			lines: []string{"Soup", "Salad", "40 L.E"},
			wantItems: []types.MenuItem{
				{Name: "Soup", Description: " Salad", Price: "40 L.E"},
			},
		},
		{
			name:  "multiple items in one panel",
			lines: []string{"Soup", "60 L.E", "Pasta", "creamy sauce", "90 L.E"},
			wantItems: []types.MenuItem{
				{Name: "Soup", Price: "60 L.E"},
				{Name: "Pasta", Description: " creamy sauce", Price: "90 L.E"},
			},
		},
		{
			name:  "price prefix form",
			lines: []string{"Koshary", "Price: 45 LE"},
			wantItems: []types.MenuItem{
				{Name: "Koshary", Price: "45 L.E"},
			},
		},
		{
			name:  "noise tokens are skipped",
			lines: []string{"price", "Molokhia", "le", "35 L.E"},
			wantItems: []types.MenuItem{
				{Name: "Molokhia", Price: "35 L.E"},
			},
		},
		{
			name:  "description spanning several lines",
			lines: []string{"Mixed Grill", "kofta", "shish tawook", "ribs", "220 L.E"},
			wantItems: []types.MenuItem{
				{Name: "Mixed Grill", Description: " kofta shish tawook ribs", Price: "220 L.E"},
			},
		},
		{
			name:          "name without price is discarded",
			lines:         []string{"Dessert of the day"},
			wantItems:     nil,
			wantAnomalies: types.SegmentAnomalies{IncompleteItems: 1},
		},
		{
			name:          "trailing name after completed item is discarded",
			lines:         []string{"Soup", "60 L.E", "Chef special"},
			wantItems:     []types.MenuItem{{Name: "Soup", Price: "60 L.E"}},
			wantAnomalies: types.SegmentAnomalies{IncompleteItems: 1},
		},
		{
			name:          "consecutive orphan prices each counted",
			lines:         []string{"10 L.E", "20 L.E"},
			wantItems:     nil,
			wantAnomalies: types.SegmentAnomalies{OrphanPrices: 2},
		},
		{
			name:      "empty input",
			lines:     nil,
			wantItems: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, anomalies := Segment(tt.lines)
			assert.Equal(t, tt.wantItems, items)
			assert.Equal(t, tt.wantAnomalies, anomalies)
		})
	}
}

// Every emitted item must carry both a name and a price, whatever the input.
func TestSegmentNeverEmitsPartialItems(t *testing.T) {
	inputs := [][]string{
		{"", "le", "100 L.E"},
		{"A", "B", "C"},
		{"30 L.E", "Name", "price", "40 L.E", "Tail"},
		{"price", "l.e", "le"},
	}

	for _, lines := range inputs {
		items, _ := Segment(lines)
		for _, item := range items {
			require.NotEmpty(t, item.Name)
			require.NotEmpty(t, item.Price)
		}
	}
}
