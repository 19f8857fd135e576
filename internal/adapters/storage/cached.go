package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
	"github.com/alejandrodnm/dcasim/internal/ports"
)

// CachedProvider envuelve un SeriesProvider con un SeriesCache. Los fallos
// de caché degradan a fetch directo y se loguean: la caché existe por
// rendimiento, nunca por corrección — una simulación jamás falla por ella.
type CachedProvider struct {
	provider ports.SeriesProvider
	cache    ports.SeriesCache
}

// NewCachedProvider crea el wrapper. provider es obligatorio; con cache nil
// se comporta como el provider desnudo.
func NewCachedProvider(provider ports.SeriesProvider, cache ports.SeriesCache) *CachedProvider {
	return &CachedProvider{provider: provider, cache: cache}
}

// FetchDailySeries consulta primero la caché y solo va al upstream en miss.
// El resultado de un fetch exitoso se guarda para la siguiente ejecución.
func (p *CachedProvider) FetchDailySeries(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, error) {
	if p.cache != nil {
		series, ok, err := p.cache.Get(ctx, symbol, from, to)
		if err != nil {
			slog.Warn("series cache read failed, fetching upstream", "symbol", symbol, "err", err)
		} else if ok {
			slog.Debug("series cache hit", "symbol", symbol, "points", len(series))
			return series, nil
		}
	}

	series, err := p.provider.FetchDailySeries(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, symbol, from, to, series); err != nil {
			slog.Warn("series cache write failed", "symbol", symbol, "err", err)
		}
	}
	return series, nil
}
