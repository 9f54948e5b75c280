package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvResultRendererImpl_RenderResult(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name: "RenderResult with values",
			result: Result{
				Mode:     ModeDay,
				Quantity: 2,
				Expenses: []float64{10.5, 11},
				Incomes:  []float64{0, 1.25},
			},
			want: "Step,Expense,Income\n1,10.50,0.00\n2,11.00,1.25\n",
		},
		{
			name:   "RenderResult with empty result",
			result: Result{Mode: ModeMonth},
			want:   "Step,Expense,Income\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCsvResultRenderer()
			got, err := r.RenderResult(tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
