package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

func timelineWithValues(values ...float64) []domain.TimelinePoint {
	points := make([]domain.TimelinePoint, len(values))
	for i, v := range values {
		points[i] = domain.TimelinePoint{
			Date:  date(2020, time.January, 1).AddDate(0, i, 0),
			Value: v,
		}
	}
	return points
}

func TestCAGR_DoublingOverFiveYears(t *testing.T) {
	// 1000 → 2000 en 5 años: (2^(1/5) - 1) * 100 ≈ 14.87%
	assert.InDelta(t, 14.87, cagr(1000, 2000, 5), 0.01)
}

func TestCAGR_Guards(t *testing.T) {
	assert.Zero(t, cagr(1000, 2000, 0))  // periodo no positivo
	assert.Zero(t, cagr(1000, 2000, -1)) // rango invertido jamás llega aquí, pero el guard existe
	assert.Zero(t, cagr(0, 2000, 5))     // sin capital: evitar división por cero
}

func TestCAGR_TotalLoss(t *testing.T) {
	// Valor final 0: base 0 elevada a potencia fraccionaria es 0 → -100%
	assert.InDelta(t, -100, cagr(1000, 0, 5), 0.0001)
}

func TestMaxDrawdown_StrictlyRising(t *testing.T) {
	assert.Zero(t, maxDrawdown(timelineWithValues(100, 150, 200, 300)))
}

func TestMaxDrawdown_FlatValues(t *testing.T) {
	assert.Zero(t, maxDrawdown(timelineWithValues(100, 100, 100)))
}

func TestMaxDrawdown_PeakToTrough(t *testing.T) {
	// Pico 200; caídas: 25% (150), 10% (180), 40% (120). El máximo
	// observado es 40, no la caída final.
	assert.InDelta(t, 40, maxDrawdown(timelineWithValues(100, 200, 150, 180, 120)), 0.0001)
}

func TestMaxDrawdown_RecoveryDoesNotReset(t *testing.T) {
	// Nuevo pico tras la caída: el drawdown histórico se conserva.
	assert.InDelta(t, 50, maxDrawdown(timelineWithValues(200, 100, 400, 380)), 0.0001)
}

func TestMaxDrawdown_Empty(t *testing.T) {
	assert.Zero(t, maxDrawdown(nil))
}

func TestSummarize_EmptyTimeline(t *testing.T) {
	start := date(2020, time.January, 1)
	s := summarize(nil, 0, start, start)

	assert.Zero(t, s.TotalInvested)
	assert.Zero(t, s.FinalValue)
	assert.Zero(t, s.TotalReturn)
	assert.Zero(t, s.CAGR)
	assert.Zero(t, s.MaxDrawdown)
}

func TestSummarize_FinalValueFromLastPoint(t *testing.T) {
	timeline := timelineWithValues(100, 250, 220)
	s := summarize(timeline, 200, date(2020, time.January, 1), date(2020, time.March, 1))

	assert.InDelta(t, 220, s.FinalValue, 0.0001)
	assert.InDelta(t, 10, s.TotalReturn, 0.0001) // (220-200)/200*100
	assert.Positive(t, s.CAGR)
	assert.InDelta(t, 12, s.MaxDrawdown, 0.0001) // 250 → 220
}
