package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// SeriesProvider obtiene la serie histórica de cierres diarios de un
// instrumento. Es el único contrato entre el motor y la obtención de datos.
type SeriesProvider interface {
	// FetchDailySeries devuelve los cierres diarios del símbolo en el rango
	// [from, to], ordenados por fecha. Si el upstream no devuelve una serie
	// usable, falla con un error que envuelve domain.ErrDataUnavailable.
	FetchDailySeries(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, error)
}
