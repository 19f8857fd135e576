package domain

import (
	"fmt"
	"math"
	"time"
)

// allocationTolerance es la desviación absoluta permitida sobre el 100%.
const allocationTolerance = 0.01

// Allocation es el porcentaje fijo de cada aportación dirigido a un índice.
type Allocation struct {
	Symbol     string  `json:"symbol"`
	Percentage float64 `json:"percentage"`
}

// SimulationRequest describe una simulación DCA completa: cartera, rango de
// fechas y aportaciones. Inmutable durante la simulación.
type SimulationRequest struct {
	Allocations       []Allocation
	StartDate         time.Time
	EndDate           time.Time
	MonthlyInvestment float64
	InitialInvestment float64 // aportación inicial opcional, 0 = sin lump sum
}

// Validate comprueba los invariantes de la petición antes de cualquier
// cómputo o fetch. Devuelve el primer error encontrado, en el orden:
// allocations → rango de fechas → importe mensual.
func (r SimulationRequest) Validate() error {
	if len(r.Allocations) == 0 {
		return fmt.Errorf("validate: no allocations: %w", ErrInvalidAllocation)
	}

	var total float64
	for _, a := range r.Allocations {
		total += a.Percentage
	}
	if math.Abs(total-100) > allocationTolerance {
		return fmt.Errorf("validate: percentages sum to %.2f: %w", total, ErrInvalidAllocation)
	}

	if r.StartDate.After(r.EndDate) {
		return fmt.Errorf("validate: start %s after end %s: %w",
			r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), ErrInvalidDateRange)
	}

	if r.MonthlyInvestment <= 0 {
		return fmt.Errorf("validate: monthly investment %.2f: %w", r.MonthlyInvestment, ErrInvalidAmount)
	}

	return nil
}

// Symbols devuelve los símbolos distintos de la cartera, en orden de
// aparición. Si un símbolo se repite en allocations, aparece una sola vez:
// su serie de precios se obtiene una vez y se comparte.
func (r SimulationRequest) Symbols() []string {
	seen := make(map[string]bool, len(r.Allocations))
	symbols := make([]string, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		if !seen[a.Symbol] {
			seen[a.Symbol] = true
			symbols = append(symbols, a.Symbol)
		}
	}
	return symbols
}
