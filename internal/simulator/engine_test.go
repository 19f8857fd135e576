package simulator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// --- mocks ---

type mockProvider struct {
	series map[string]domain.PriceSeries
	err    error
	mu     sync.Mutex
	calls  map[string]int
}

func newMockProvider(series map[string]domain.PriceSeries) *mockProvider {
	return &mockProvider{series: series, calls: make(map[string]int)}
}

func (m *mockProvider) FetchDailySeries(_ context.Context, symbol string, _, _ time.Time) (domain.PriceSeries, error) {
	m.mu.Lock()
	m.calls[symbol]++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.series[symbol], nil
}

func (m *mockProvider) callCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// --- helpers ---

// flatSeries genera un punto a precio constante el día 1 de cada mes.
func flatSeries(price float64, from time.Time, months int) domain.PriceSeries {
	series := make(domain.PriceSeries, 0, months)
	for i := 0; i < months; i++ {
		series = append(series, domain.PricePoint{Date: addMonths(from, i), Close: price})
	}
	return series
}

func makeRequest(allocations ...domain.Allocation) domain.SimulationRequest {
	return domain.SimulationRequest{
		Allocations:       allocations,
		StartDate:         date(2020, time.January, 1),
		EndDate:           date(2020, time.March, 1),
		MonthlyInvestment: 100,
	}
}

// --- tests ---

func TestSimulate_FlatPriceSingleIndex(t *testing.T) {
	// Precio constante P: cada mes se compran A/P acciones que al final
	// valen A. N meses → valor final N*A, retorno 0, drawdown 0.
	start := date(2020, time.January, 1)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"^GSPC": flatSeries(10, start, 3),
	})
	engine := New(provider, 0)

	result, err := engine.Simulate(context.Background(),
		makeRequest(domain.Allocation{Symbol: "^GSPC", Percentage: 100}))
	require.NoError(t, err)
	require.Len(t, result.Timeline, 3)
	assert.NotEmpty(t, result.RunID)

	first := result.Timeline[0]
	assert.Equal(t, start, first.Date)
	assert.InDelta(t, 100, first.Invested, 0.0001)
	assert.InDelta(t, 100, first.Value, 0.0001)
	assert.InDelta(t, 0, first.Return, 0.0001)

	last := result.Timeline[2]
	assert.InDelta(t, 300, last.Invested, 0.0001)
	assert.InDelta(t, 300, last.Value, 0.0001)

	assert.InDelta(t, 300, result.Summary.TotalInvested, 0.0001)
	assert.InDelta(t, 300, result.Summary.FinalValue, 0.0001)
	assert.Zero(t, result.Summary.TotalReturn)
	assert.Zero(t, result.Summary.CAGR) // ratio 1 a cualquier potencia sigue siendo 1
	assert.Zero(t, result.Summary.MaxDrawdown)

	perf := result.ByIndex["^GSPC"]
	assert.InDelta(t, 300, perf.Invested, 0.0001)
	assert.InDelta(t, 30, perf.Shares, 0.0001)
	assert.InDelta(t, 300, perf.Value, 0.0001)
}

func TestSimulate_TwoIndexPortfolio(t *testing.T) {
	// 60/40 con A plano a 10 y B plano a 20: mes 1 compra 6 acciones de A
	// y 2 de B → valor 60 + 40 = 100 por cada 100 aportados.
	start := date(2020, time.January, 1)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"A": flatSeries(10, start, 3),
		"B": flatSeries(20, start, 3),
	})
	engine := New(provider, 0)

	result, err := engine.Simulate(context.Background(),
		makeRequest(
			domain.Allocation{Symbol: "A", Percentage: 60},
			domain.Allocation{Symbol: "B", Percentage: 40},
		))
	require.NoError(t, err)
	require.Len(t, result.Timeline, 3)

	assert.InDelta(t, 100, result.Timeline[0].Invested, 0.0001)
	assert.InDelta(t, 100, result.Timeline[0].Value, 0.0001)
	assert.Zero(t, result.Timeline[0].Return)

	assert.InDelta(t, 300, result.Summary.TotalInvested, 0.0001)
	assert.InDelta(t, 300, result.Summary.FinalValue, 0.0001)
	assert.Zero(t, result.Summary.TotalReturn)
	assert.Zero(t, result.Summary.MaxDrawdown)

	assert.InDelta(t, 180, result.ByIndex["A"].Invested, 0.0001)
	assert.InDelta(t, 18, result.ByIndex["A"].Shares, 0.0001)
	assert.InDelta(t, 120, result.ByIndex["B"].Invested, 0.0001)
	assert.InDelta(t, 6, result.ByIndex["B"].Shares, 0.0001)
}

func TestSimulate_StartEqualsEnd(t *testing.T) {
	start := date(2020, time.June, 15)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"^GSPC": {{Date: date(2020, time.June, 1), Close: 10}},
	})
	engine := New(provider, 0)

	req := makeRequest(domain.Allocation{Symbol: "^GSPC", Percentage: 100})
	req.StartDate = start
	req.EndDate = start

	result, err := engine.Simulate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Timeline, 1)
	assert.Equal(t, date(2020, time.June, 1), result.Timeline[0].Date)
	assert.InDelta(t, 100, result.Timeline[0].Invested, 0.0001)
}

func TestSimulate_InitialLumpSum(t *testing.T) {
	start := date(2020, time.January, 1)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"^GSPC": flatSeries(10, start, 3),
	})
	engine := New(provider, 0)

	req := makeRequest(domain.Allocation{Symbol: "^GSPC", Percentage: 100})
	req.InitialInvestment = 1000

	result, err := engine.Simulate(context.Background(), req)
	require.NoError(t, err)

	// 1000 de lump sum + 3 × 100 mensuales, todo a precio 10
	assert.InDelta(t, 1300, result.Summary.TotalInvested, 0.0001)
	assert.InDelta(t, 1300, result.Summary.FinalValue, 0.0001)
	assert.InDelta(t, 130, result.ByIndex["^GSPC"].Shares, 0.0001)
	assert.InDelta(t, 1100, result.Timeline[0].Invested, 0.0001)
}

func TestSimulate_MissingPricesAsymmetry(t *testing.T) {
	// Caso límite conocido y deliberado: un instrumento sin precios aporta
	// la parte de la aportación al totalInvested (la intención cuenta) pero
	// nada al valor. El return% sale negativo aunque A no haya caído.
	start := date(2020, time.January, 1)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"A": flatSeries(10, start, 3),
		"B": {}, // recién listado: sin histórico en el rango
	})
	engine := New(provider, 0)

	result, err := engine.Simulate(context.Background(),
		makeRequest(
			domain.Allocation{Symbol: "A", Percentage: 60},
			domain.Allocation{Symbol: "B", Percentage: 40},
		))
	require.NoError(t, err)

	first := result.Timeline[0]
	assert.InDelta(t, 100, first.Invested, 0.0001) // aportación completa
	assert.InDelta(t, 60, first.Value, 0.0001)     // solo A tiene precio
	assert.InDelta(t, -40, first.Return, 0.0001)

	perf := result.ByIndex["B"]
	assert.Zero(t, perf.Invested)
	assert.Zero(t, perf.Shares)
	assert.Zero(t, perf.Value)
}

func TestSimulate_ProviderFailureAborts(t *testing.T) {
	provider := newMockProvider(nil)
	provider.err = fmt.Errorf("upstream down: %w", domain.ErrDataUnavailable)
	engine := New(provider, 0)

	result, err := engine.Simulate(context.Background(),
		makeRequest(domain.Allocation{Symbol: "^GSPC", Percentage: 100}))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.Nil(t, result) // nunca un resultado parcial
}

func TestSimulate_ValidationBeforeAnyFetch(t *testing.T) {
	provider := newMockProvider(nil)
	engine := New(provider, 0)

	req := makeRequest(domain.Allocation{Symbol: "^GSPC", Percentage: 50})
	_, err := engine.Simulate(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)
	assert.Zero(t, provider.callCount("^GSPC"))
}

func TestSimulate_DuplicateSymbolFetchedOnce(t *testing.T) {
	start := date(2020, time.January, 1)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"^GSPC": flatSeries(10, start, 3),
	})
	engine := New(provider, 0)

	result, err := engine.Simulate(context.Background(),
		makeRequest(
			domain.Allocation{Symbol: "^GSPC", Percentage: 50},
			domain.Allocation{Symbol: "^GSPC", Percentage: 50},
		))
	require.NoError(t, err)

	assert.Equal(t, 1, provider.callCount("^GSPC"))
	assert.InDelta(t, 300, result.ByIndex["^GSPC"].Invested, 0.0001)
}

func TestSimulate_DrawdownThroughCrash(t *testing.T) {
	// Precio 10, 20, 5: el valor de la cartera sube y luego se hunde por
	// debajo del pico → drawdown > 0.
	start := date(2020, time.January, 1)
	provider := newMockProvider(map[string]domain.PriceSeries{
		"^GSPC": {
			{Date: addMonths(start, 0), Close: 10},
			{Date: addMonths(start, 1), Close: 20},
			{Date: addMonths(start, 2), Close: 5},
		},
	})
	engine := New(provider, 0)

	result, err := engine.Simulate(context.Background(),
		makeRequest(domain.Allocation{Symbol: "^GSPC", Percentage: 100}))
	require.NoError(t, err)

	// Mes 2: 10+5=15 acciones a 20 → 300. Mes 3: 15+20=35 acciones a 5 → 175.
	assert.InDelta(t, 300, result.Timeline[1].Value, 0.0001)
	assert.InDelta(t, 175, result.Timeline[2].Value, 0.0001)
	assert.InDelta(t, (300-175)/300*100, result.Summary.MaxDrawdown, 0.0001)
	assert.Negative(t, result.Summary.TotalReturn)
}
