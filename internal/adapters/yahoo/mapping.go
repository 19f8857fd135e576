package yahoo

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// mapChartResponse convierte la respuesta del chart API a una PriceSeries
// ordenada por fecha. Los cierres null (días sin dato) se descartan; una
// serie vacía tras el filtrado es un error: no hay nada que simular.
func mapChartResponse(resp chartResponse) (domain.PriceSeries, error) {
	if len(resp.Chart.Error) > 0 && string(resp.Chart.Error) != "null" {
		return nil, fmt.Errorf("upstream error payload: %s", resp.Chart.Error)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty result")
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("missing timestamps or quotes")
	}

	closes := result.Indicators.Quote[0].Close
	series := make(domain.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		series = append(series, domain.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no usable closes in series")
	}
	return series, nil
}
