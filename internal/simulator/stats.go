package simulator

import (
	"math"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

const daysPerYear = 365.25

// summarize deriva las métricas agregadas del timeline completo.
// totalInvested llega por separado porque con timeline vacío (rango que
// colapsa a cero pasos) sigue pudiendo ser > 0 por el lump sum inicial.
func summarize(timeline []domain.TimelinePoint, totalInvested float64, start, end time.Time) domain.Summary {
	var finalValue float64
	if len(timeline) > 0 {
		finalValue = timeline[len(timeline)-1].Value
	}

	var totalReturn float64
	if totalInvested > 0 {
		totalReturn = (finalValue - totalInvested) / totalInvested * 100
	}

	years := end.Sub(start).Hours() / 24 / daysPerYear

	return domain.Summary{
		TotalInvested: totalInvested,
		FinalValue:    finalValue,
		TotalReturn:   totalReturn,
		CAGR:          cagr(totalInvested, finalValue, years),
		MaxDrawdown:   maxDrawdown(timeline),
	}
}

// cagr devuelve la tasa anual compuesta en %. Devuelve 0 si el periodo no
// es positivo o si no hay capital invertido (evita dividir por cero y
// elevar una base inválida a potencia fraccionaria).
func cagr(totalInvested, finalValue, years float64) float64 {
	if years <= 0 || totalInvested <= 0 {
		return 0
	}
	return (math.Pow(finalValue/totalInvested, 1/years) - 1) * 100
}

// maxDrawdown devuelve la mayor caída pico-a-valle del valor de la cartera
// en %, recorriendo el timeline en orden cronológico. Nunca negativo; 0 si
// el valor nunca cae por debajo de un pico anterior.
func maxDrawdown(timeline []domain.TimelinePoint) float64 {
	var worst, peak float64
	for _, point := range timeline {
		if point.Value > peak {
			peak = point.Value
		}
		if peak > 0 {
			if dd := (peak - point.Value) / peak * 100; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
