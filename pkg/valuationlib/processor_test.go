package valuationlib_test

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rezonia/customs-valuator/pkg/valuationlib"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr(f float64) *float64 { return &f }

func cifPayload(itot float64) valuationlib.DeclarationPayload {
	return valuationlib.DeclarationPayload{
		Incoterm: valuationlib.IncotermCIF,
		Valuation: map[string]*float64{
			"ITOT": ptr(itot),
			"OFT":  ptr(100),
		},
	}
}

func TestNewDefaultProcessor(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()
	require.NotNil(t, proc)
}

func TestDefaultOptions(t *testing.T) {
	opts := valuationlib.DefaultOptions()

	assert.Equal(t, 0.0025, opts.InsuranceFactor)
	assert.Equal(t, runtime.GOMAXPROCS(0), opts.Concurrency)
	assert.Nil(t, opts.Logger)
}

func TestProcessorValidate(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()

	result := proc.Validate(valuationlib.Invoice{
		Incoterm:      valuationlib.IncotermCIF,
		GoodsValueAUD: 1000,
		Elements: map[valuationlib.Element]float64{
			valuationlib.ElementOverseasFreight:   50,
			valuationlib.ElementOverseasInsurance: 20,
		},
	})

	assert.True(t, result.Valid)
	require.NotNil(t, result.CustomsValueAUD)
	assert.Equal(t, 930.0, *result.CustomsValueAUD)
}

func TestProcessorComputeFobCif(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()

	got := proc.ComputeFobCif(valuationlib.Invoice{
		Incoterm:      valuationlib.IncotermFOB,
		GoodsValueAUD: 1000,
		Elements: map[valuationlib.Element]float64{
			valuationlib.ElementOverseasFreight:   50,
			valuationlib.ElementOverseasInsurance: 20,
		},
	})

	assert.Equal(t, valuationlib.FobCifResult{FOB: 1000, CIF: 1070}, got)
}

func TestProcessorProcess(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()

	result := proc.Process(cifPayload(10000))

	assert.True(t, result.Valid)
	require.NotNil(t, result.CustomsValueAUD)
	assert.Equal(t, 9875.0, *result.CustomsValueAUD)
}

func TestProcessorInsuranceFactor(t *testing.T) {
	opts := valuationlib.DefaultOptions()
	opts.InsuranceFactor = 0.01
	proc := valuationlib.NewProcessor(opts)

	result := proc.Process(cifPayload(10000))

	require.NotNil(t, result.CustomsValueAUD)
	assert.Equal(t, 9800.0, *result.CustomsValueAUD)
}

func TestProcessorInsuranceFactorDefault(t *testing.T) {
	tests := []struct {
		name    string
		opts    valuationlib.Options
		payload func() valuationlib.DeclarationPayload
		want    float64
	}{
		{
			name:    "zero options",
			opts:    valuationlib.Options{},
			payload: func() valuationlib.DeclarationPayload { return cifPayload(10000) },
			want:    9875,
		},
		{
			name:    "concurrency only",
			opts:    valuationlib.Options{Concurrency: 2},
			payload: func() valuationlib.DeclarationPayload { return cifPayload(10000) },
			want:    9875,
		},
		{
			name: "payload factor of zero",
			opts: valuationlib.Options{Concurrency: 2},
			payload: func() valuationlib.DeclarationPayload {
				p := cifPayload(10000)
				p.K = ptr(0)
				return p
			},
			want: 9900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valuationlib.NewProcessor(tt.opts).Process(tt.payload())

			require.True(t, result.Valid, result.Errors)
			assert.Equal(t, tt.want, *result.CustomsValueAUD)
		})
	}
}

func TestProcessorDeclare(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()
	payload := cifPayload(10000)
	payload.Lines = []valuationlib.DeclarationLine{
		{ID: "A", ITOT: 6000, DutyRate: 5},
		{ID: "B", ITOT: 4000},
	}

	decl := proc.Declare(payload)

	require.True(t, decl.Result.Valid)
	require.Len(t, decl.Lines, 2)
	assert.Equal(t, 5925.0, decl.Lines[0].CustomsValueAUD)
	assert.Equal(t, 296.25, decl.Lines[0].DutyAUD)
	assert.Equal(t, 3950.0, decl.Lines[1].CustomsValueAUD)
}

func TestProcessBatch(t *testing.T) {
	opts := valuationlib.DefaultOptions()
	opts.Concurrency = 3
	proc := valuationlib.NewProcessor(opts)

	payloads := make([]valuationlib.DeclarationPayload, 20)
	for i := range payloads {
		payloads[i] = cifPayload(float64(1000 * (i + 1)))
	}
	// One invalid payload in the middle
	payloads[7] = valuationlib.DeclarationPayload{
		Incoterm:  valuationlib.IncotermCIF,
		Valuation: map[string]*float64{"ITOT": ptr(1000)},
	}

	decls, err := proc.ProcessBatch(context.Background(), payloads)
	require.NoError(t, err)
	require.Len(t, decls, len(payloads))

	for i, decl := range decls {
		t.Run(fmt.Sprintf("payload %d", i), func(t *testing.T) {
			if i == 7 {
				assert.False(t, decl.Result.Valid)
				assert.Contains(t, decl.Result.Errors, "OFT is mandatory for Incoterm CIF")
				return
			}
			require.True(t, decl.Result.Valid)
			expected := proc.Process(payloads[i])
			assert.Equal(t, *expected.CustomsValueAUD, *decl.Result.CustomsValueAUD)
		})
	}
}

func TestProcessBatch_Empty(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()

	decls, err := proc.ProcessBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestProcessBatch_Cancelled(t *testing.T) {
	proc := valuationlib.NewDefaultProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decls, err := proc.ProcessBatch(ctx, []valuationlib.DeclarationPayload{cifPayload(1000), cifPayload(2000)})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, decls)
}

func BenchmarkProcessBatch(b *testing.B) {
	proc := valuationlib.NewDefaultProcessor()
	payloads := make([]valuationlib.DeclarationPayload, 100)
	for i := range payloads {
		payloads[i] = cifPayload(float64(1000 + i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.ProcessBatch(context.Background(), payloads)
	}
}
