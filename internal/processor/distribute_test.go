package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/processor"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
		method model.AllocationMethod
		manual []float64
		want   []float64
	}{
		{
			name:   "value proportional",
			totals: []float64{100, 200, 300},
			method: model.AllocationValue,
			want:   []float64{0.1667, 0.3333, 0.5},
		},
		{
			name:   "weight proportional",
			totals: []float64{1, 3},
			method: model.AllocationWeight,
			want:   []float64{0.25, 0.75},
		},
		{
			name:   "zero sum",
			totals: []float64{0, 0},
			method: model.AllocationValue,
			want:   []float64{0, 0},
		},
		{
			name:   "zero sum quantity",
			totals: []float64{0, 0},
			method: model.AllocationQuantity,
			want:   []float64{0, 0},
		},
		{
			name:   "manual verbatim",
			totals: []float64{100, 200},
			method: model.AllocationManual,
			manual: []float64{0.9, 0.3, 7},
			want:   []float64{0.9, 0.3, 7},
		},
		{
			name:   "manual without splits falls back to proportional",
			totals: []float64{100, 300},
			method: model.AllocationManual,
			want:   []float64{0.25, 0.75},
		},
		{
			name:   "empty",
			totals: []float64{},
			method: model.AllocationValue,
			want:   []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := processor.Distribute(tt.totals, tt.method, tt.manual)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-4, "share %d", i)
			}
		})
	}
}

func TestDistribute_SharesSumToOne(t *testing.T) {
	shares := processor.Distribute([]float64{13, 7, 29, 51}, model.AllocationValue, nil)
	sum := 0.0
	for _, s := range shares {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestDistribute_ManualIsCopied(t *testing.T) {
	manual := []float64{0.5, 0.5}
	got := processor.Distribute(nil, model.AllocationManual, manual)
	got[0] = 1
	assert.Equal(t, 0.5, manual[0])
}

func TestDistribute_ManualIgnoredForOtherMethods(t *testing.T) {
	got := processor.Distribute([]float64{1, 1}, model.AllocationValue, []float64{0.9, 0.1})
	assert.Equal(t, []float64{0.5, 0.5}, got)
}

func BenchmarkDistribute(b *testing.B) {
	totals := []float64{100, 200, 300, 400, 500}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processor.Distribute(totals, model.AllocationValue, nil)
	}
}
