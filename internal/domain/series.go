package domain

import "time"

// PricePoint es un cierre diario de un instrumento. Close siempre > 0:
// los nulls y ceros del upstream se filtran en el adapter.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries es la serie histórica de cierres de un instrumento, ordenada
// por fecha ascendente. Puede tener huecos (festivos, datos faltantes).
type PriceSeries []PricePoint

// ClosestPrice devuelve el cierre cuyo día está a mínima distancia absoluta
// de target. Empates se resuelven por primera aparición en la serie
// (estable y determinista). Devuelve ok=false si la serie está vacía:
// el caller debe tratarlo como aportación perdida, no como error.
func (s PriceSeries) ClosestPrice(target time.Time) (price float64, ok bool) {
	if len(s) == 0 {
		return 0, false
	}

	closest := s[0]
	minDiff := absDuration(target.Sub(s[0].Date))
	for _, p := range s[1:] {
		diff := absDuration(target.Sub(p.Date))
		if diff < minDiff {
			minDiff = diff
			closest = p
		}
	}
	return closest.Close, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
