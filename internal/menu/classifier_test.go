package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crawlbite/menuscan/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantKind   types.LineKind
		wantAmount string
	}{
		{
			name:       "price with prefix",
			line:       "Price: 85 LE",
			wantKind:   types.LinePrice,
			wantAmount: "85",
		},
		{
			name:       "price without prefix",
			line:       "120 L.E",
			wantKind:   types.LinePrice,
			wantAmount: "120",
		},
		{
			name:       "price embedded in longer line",
			line:       "Family size 250 L.E. per tray",
			wantKind:   types.LinePrice,
			wantAmount: "250",
		},
		{
			name:       "price with dotted currency and spacing",
			line:       "Price : 99 l.e.",
			wantKind:   types.LinePrice,
			wantAmount: "99",
		},
		{
			name:     "noise token le",
			line:     "le",
			wantKind: types.LineNoise,
		},
		{
			name:     "noise token price uppercase",
			line:     "PRICE",
			wantKind: types.LineNoise,
		},
		{
			name:     "noise token l.e",
			line:     "L.E",
			wantKind: types.LineNoise,
		},
		{
			name:     "plain name line",
			line:     "Grilled Chicken",
			wantKind: types.LineFragment,
		},
		{
			name:     "description line",
			line:     "Served with rice and salad",
			wantKind: types.LineFragment,
		},
		{
			name:     "digits without currency marker",
			line:     "120",
			wantKind: types.LineFragment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, tt.line, got.Text)
		})
	}
}

func TestClassifyGeneralPatternWinsAmount(t *testing.T) {
	// Both patterns match a bare price line; the general pattern's digit
	// group supplies the amount.
	got := Classify("40 LE.")
	assert.Equal(t, types.LinePrice, got.Kind)
	assert.Equal(t, "40", got.Amount)
}
