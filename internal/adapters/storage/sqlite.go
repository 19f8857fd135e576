package storage

// sqlite.go — caché persistente de series de precios.
//
// Estrategia:
//   - `series`: una fila por clave exacta (symbol, period_start, period_end),
//     con fetched_at para la retención.
//   - `points`: los cierres diarios de cada serie.
//   - Hot map en memoria delante de SQLite: dentro de un mismo proceso las
//     relecturas de la misma clave no tocan disco.
//   - Prune al abrir: entradas con fetched_at más viejo que la retención se
//     eliminan, así una ejecución nueva refresca datos razonablemente.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Las fechas se guardan como epoch seconds: el roundtrip es exacto y no
-- depende del formato de DATETIME del driver.
CREATE TABLE IF NOT EXISTS series (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol       TEXT    NOT NULL,
    period_start INTEGER NOT NULL,
    period_end   INTEGER NOT NULL,
    fetched_at   INTEGER NOT NULL,
    UNIQUE(symbol, period_start, period_end)
);

CREATE TABLE IF NOT EXISTS points (
    series_id INTEGER NOT NULL REFERENCES series(id) ON DELETE CASCADE,
    date      INTEGER NOT NULL,
    close     REAL    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_series_fetched ON series(fetched_at);
CREATE INDEX IF NOT EXISTS idx_points_series  ON points(series_id, date);
`

const defaultRetention = 7 * 24 * time.Hour

// SQLiteCache implementa ports.SeriesCache usando SQLite (pure Go, sin CGo).
type SQLiteCache struct {
	db        *sql.DB
	retention time.Duration
	hot       map[string]domain.PriceSeries // clave exacta → serie, solo este proceso
	mu        sync.Mutex
}

// NewSQLiteCache abre (o crea) la base de datos en la ruta dada, aplica el
// schema y elimina entradas más viejas que retention. Con retention <= 0
// usa el default de 7 días.
func NewSQLiteCache(path string, retention time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteCache: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;" + schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteCache: apply schema: %w", err)
	}

	if retention <= 0 {
		retention = defaultRetention
	}
	c := &SQLiteCache{
		db:        db,
		retention: retention,
		hot:       make(map[string]domain.PriceSeries),
	}
	c.pruneOld(context.Background())
	return c, nil
}

// Get devuelve la serie cacheada para la clave exacta, primero del hot map
// y después de SQLite. Un miss devuelve ok=false sin error.
func (c *SQLiteCache) Get(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, bool, error) {
	key := cacheKey(symbol, from, to)

	c.mu.Lock()
	if series, ok := c.hot[key]; ok {
		c.mu.Unlock()
		return series, true, nil
	}
	c.mu.Unlock()

	var id int64
	err := c.db.QueryRowContext(ctx,
		`SELECT id FROM series WHERE symbol = ? AND period_start = ? AND period_end = ?`,
		symbol, from.Unix(), to.Unix(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage.Get: lookup %s: %w", symbol, err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT date, close FROM points WHERE series_id = ? ORDER BY date ASC`, id)
	if err != nil {
		return nil, false, fmt.Errorf("storage.Get: points %s: %w", symbol, err)
	}
	defer rows.Close()

	var series domain.PriceSeries
	for rows.Next() {
		var unix int64
		var close float64
		if err := rows.Scan(&unix, &close); err != nil {
			return nil, false, fmt.Errorf("storage.Get: scan row: %w", err)
		}
		series = append(series, domain.PricePoint{Date: time.Unix(unix, 0).UTC(), Close: close})
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.hot[key] = series
	c.mu.Unlock()
	return series, true, nil
}

// Put guarda (o reemplaza) la serie para la clave dada, en una transacción:
// upsert de la fila series + delete/insert de sus points.
func (c *SQLiteCache) Put(ctx context.Context, symbol string, from, to time.Time, series domain.PriceSeries) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Put: begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO series (symbol, period_start, period_end, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, period_start, period_end) DO UPDATE SET
			fetched_at = excluded.fetched_at
		RETURNING id
	`, symbol, from.Unix(), to.Unix(), time.Now().Unix()).Scan(&id)
	if err != nil {
		return fmt.Errorf("storage.Put: upsert series %s: %w", symbol, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM points WHERE series_id = ?`, id); err != nil {
		return fmt.Errorf("storage.Put: clear points %s: %w", symbol, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (series_id, date, close) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.Put: prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range series {
		if _, err := stmt.ExecContext(ctx, id, p.Date.Unix(), p.Close); err != nil {
			return fmt.Errorf("storage.Put: insert point %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Put: commit: %w", err)
	}

	c.mu.Lock()
	c.hot[cacheKey(symbol, from, to)] = series
	c.mu.Unlock()
	return nil
}

// Close cierra la conexión a la base de datos.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// pruneOld elimina series más viejas que la retención para que cada
// arranque trabaje con datos razonablemente frescos.
func (c *SQLiteCache) pruneOld(ctx context.Context) {
	cutoff := time.Now().Add(-c.retention).Unix()
	c.db.ExecContext(ctx, `DELETE FROM points WHERE series_id IN (SELECT id FROM series WHERE fetched_at < ?)`, cutoff)
	c.db.ExecContext(ctx, `DELETE FROM series WHERE fetched_at < ?`, cutoff)
}

// cacheKey construye la clave exacta (symbol, from, to) del hot map.
func cacheKey(symbol string, from, to time.Time) string {
	return fmt.Sprintf("%s_%d_%d", symbol, from.Unix(), to.Unix())
}
