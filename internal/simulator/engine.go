package simulator

// engine.go — motor de simulación DCA.
//
// Una simulación es un cómputo síncrono y autocontenido: valida la petición,
// obtiene las series de precios (en paralelo por símbolo, el único paso con
// I/O), y recorre los meses en orden estricto acumulando posiciones. Todo el
// estado intermedio (holdings, timeline) muere con la llamada.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/dcasim/internal/domain"
	"github.com/alejandrodnm/dcasim/internal/ports"
)

const defaultFetchWorkers = 4

// Engine ejecuta simulaciones DCA contra un proveedor de series de precios.
// Es seguro usarlo desde varias goroutines: cada Simulate es independiente.
type Engine struct {
	provider ports.SeriesProvider
	workers  int
}

// New crea un Engine. Si workers <= 0 usa defaultFetchWorkers para el fetch
// paralelo de series.
func New(provider ports.SeriesProvider, workers int) *Engine {
	if workers <= 0 {
		workers = defaultFetchWorkers
	}
	return &Engine{provider: provider, workers: workers}
}

// holding acumula la posición de un instrumento durante la simulación.
// Se muta una vez por evento de aportación y se lee al final.
type holding struct {
	shares   float64
	invested float64
}

// Simulate ejecuta una simulación completa y devuelve el resultado, o un
// error de validación / datos. Nunca devuelve un resultado parcial: si
// falla el fetch de cualquier símbolo, la simulación entera aborta.
func (e *Engine) Simulate(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	start := time.Now()
	slog.Debug("simulation starting",
		"run_id", runID,
		"allocations", len(req.Allocations),
		"from", req.StartDate.Format("2006-01-02"),
		"to", req.EndDate.Format("2006-01-02"),
	)

	series, err := e.fetchAll(ctx, req.Symbols(), req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	holdings := make(map[string]*holding, len(req.Allocations))
	for _, a := range req.Allocations {
		holdings[a.Symbol] = &holding{}
	}

	// totalInvested arranca con el lump sum completo aunque alguna compra
	// inicial no encuentre precio: las aportaciones se contabilizan por
	// intención, no por compra realizada. Ver nota de asimetría más abajo.
	totalInvested := req.InitialInvestment
	current := startOfMonth(req.StartDate)

	if req.InitialInvestment > 0 {
		buy(req.Allocations, holdings, series, current, req.InitialInvestment)
	}

	var timeline []domain.TimelinePoint
	for !current.After(req.EndDate) {
		buy(req.Allocations, holdings, series, current, req.MonthlyInvestment)

		// La aportación mensual completa cuenta como invertida aunque algún
		// instrumento no tuviera precio este mes, mientras que el valor solo
		// refleja los instrumentos con precio. Asimetría deliberada: afecta
		// al return% con series con huecos y se mantiene tal cual.
		totalInvested += req.MonthlyInvestment

		value := portfolioValue(req.Allocations, holdings, series, current)

		var ret float64
		if totalInvested > 0 {
			ret = (value - totalInvested) / totalInvested * 100
		}

		timeline = append(timeline, domain.TimelinePoint{
			Date:     current,
			Invested: totalInvested,
			Value:    value,
			Return:   ret,
		})

		current = addMonths(current, 1)
	}

	result := &domain.SimulationResult{
		RunID:    runID,
		Summary:  summarize(timeline, totalInvested, req.StartDate, req.EndDate),
		Timeline: timeline,
		ByIndex:  performanceByIndex(req.Allocations, holdings, series, req.EndDate),
	}

	slog.Info("simulation complete",
		"run_id", runID,
		"months", len(timeline),
		"total_invested", result.Summary.TotalInvested,
		"final_value", result.Summary.FinalValue,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// buy ejecuta un evento de aportación: reparte amount entre las allocations
// y compra al precio más cercano a date. Sin precio → la aportación de ese
// instrumento se pierde en silencio (ni shares ni invested), no se difiere.
func buy(
	allocations []domain.Allocation,
	holdings map[string]*holding,
	series map[string]domain.PriceSeries,
	date time.Time,
	amount float64,
) {
	for _, a := range allocations {
		slice := amount * a.Percentage / 100
		price, ok := series[a.Symbol].ClosestPrice(date)
		if !ok {
			continue
		}
		h := holdings[a.Symbol]
		h.shares += slice / price
		h.invested += slice
	}
}

// portfolioValue valora todas las posiciones al precio más cercano a date.
// Instrumentos sin precio ese mes aportan 0 al valor.
func portfolioValue(
	allocations []domain.Allocation,
	holdings map[string]*holding,
	series map[string]domain.PriceSeries,
	date time.Time,
) float64 {
	var value float64
	for _, a := range allocations {
		price, ok := series[a.Symbol].ClosestPrice(date)
		if !ok {
			continue
		}
		value += holdings[a.Symbol].shares * price
	}
	return value
}

// performanceByIndex construye el desglose final por símbolo, valorando
// cada posición al precio más cercano a end.
func performanceByIndex(
	allocations []domain.Allocation,
	holdings map[string]*holding,
	series map[string]domain.PriceSeries,
	end time.Time,
) map[string]domain.IndexPerformance {
	byIndex := make(map[string]domain.IndexPerformance, len(allocations))
	for _, a := range allocations {
		h := holdings[a.Symbol]
		var value float64
		if price, ok := series[a.Symbol].ClosestPrice(end); ok {
			value = h.shares * price
		}
		byIndex[a.Symbol] = domain.IndexPerformance{
			Invested: h.invested,
			Value:    value,
			Shares:   h.shares,
		}
	}
	return byIndex
}

// fetchAll obtiene la serie de cada símbolo en paralelo con un worker pool
// acotado. El primer error aborta el conjunto: sin serie no hay simulación.
func (e *Engine) fetchAll(ctx context.Context, symbols []string, from, to time.Time) (map[string]domain.PriceSeries, error) {
	type result struct {
		symbol string
		series domain.PriceSeries
		err    error
	}

	workCh := make(chan string, len(symbols))
	resultCh := make(chan result, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range workCh {
				series, err := e.provider.FetchDailySeries(ctx, symbol, from, to)
				resultCh <- result{symbol: symbol, series: series, err: err}
			}
		}()
	}

	for _, symbol := range symbols {
		workCh <- symbol
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	series := make(map[string]domain.PriceSeries, len(symbols))
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("simulator.fetchAll: %s: %w", r.symbol, r.err)
			}
			continue
		}
		series[r.symbol] = r.series
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return series, nil
}
