package domain

import "errors"

// Errores centinela del simulador. Se envuelven con contexto en el punto
// donde se detectan y se comparan con errors.Is en las capas superiores.
var (
	// ErrInvalidAllocation indica que los porcentajes no suman 100 (±0.01)
	// o que no hay allocations en la petición.
	ErrInvalidAllocation = errors.New("invalid allocation: percentages must sum to 100")

	// ErrInvalidDateRange indica que la fecha de inicio es posterior a la de fin.
	ErrInvalidDateRange = errors.New("invalid date range: start date must not be after end date")

	// ErrInvalidAmount indica una aportación mensual no positiva.
	ErrInvalidAmount = errors.New("invalid amount: monthly investment must be greater than 0")

	// ErrDataUnavailable indica que no se pudo obtener la serie de precios
	// de algún instrumento. Aborta la simulación completa.
	ErrDataUnavailable = errors.New("historical price data unavailable")
)
