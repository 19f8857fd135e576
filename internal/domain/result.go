package domain

import "time"

// TimelinePoint es un punto de la evolución mensual de la cartera.
// La secuencia es append-only y estrictamente cronológica.
type TimelinePoint struct {
	Date     time.Time `json:"date"`
	Invested float64   `json:"invested"` // total aportado hasta la fecha (incluye aportaciones sin precio)
	Value    float64   `json:"value"`    // valor de mercado de las posiciones con precio
	Return   float64   `json:"return"`   // (value - invested) / invested * 100
}

// Summary son las métricas agregadas de la simulación, derivadas por
// completo del timeline y de las posiciones finales.
type Summary struct {
	TotalInvested float64 `json:"totalInvested"`
	FinalValue    float64 `json:"finalValue"`
	TotalReturn   float64 `json:"totalReturn"` // %
	CAGR          float64 `json:"cagr"`        // % anual compuesto
	MaxDrawdown   float64 `json:"maxDrawdown"` // % pico-a-valle, nunca negativo
}

// IndexPerformance es el desglose final por índice.
type IndexPerformance struct {
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
	Shares   float64 `json:"shares"`
}

// SimulationResult es el resultado completo de una simulación. No tiene
// ciclo de vida propio: se construye una vez y no se persiste.
type SimulationResult struct {
	RunID    string                      `json:"runId"`
	Summary  Summary                     `json:"summary"`
	Timeline []TimelinePoint             `json:"timeline"`
	ByIndex  map[string]IndexPerformance `json:"byIndex"`
}
