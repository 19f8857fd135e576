package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// SeriesCache guarda series de precios ya obtenidas, con clave exacta
// (symbol, from, to). Solo garantiza consistencia dentro de una misma
// ejecución; la frescura la controla la retención configurada.
type SeriesCache interface {
	// Get devuelve la serie cacheada y ok=true si existe una entrada para
	// la clave exacta. Un miss no es un error.
	Get(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, bool, error)

	// Put guarda (o reemplaza) la serie para la clave dada.
	Put(ctx context.Context, symbol string, from, to time.Time, series domain.PriceSeries) error

	// Close cierra el almacenamiento subyacente limpiamente.
	Close() error
}
