package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/dcasim/internal/adapters/yahoo"
	"github.com/alejandrodnm/dcasim/internal/domain"
)

func newTestClient(srv *httptest.Server) *yahoo.Client {
	// Rate limit alto: los tests no deben esperar al limiter.
	return yahoo.NewClient(srv.URL, 5*time.Second, 1000)
}

func fetchRange() (time.Time, time.Time) {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
}

func TestFetchDailySeries_Success(t *testing.T) {
	data, err := os.ReadFile("testdata/chart_gspc.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	from, to := fetchRange()
	series, err := newTestClient(srv).FetchDailySeries(context.Background(), "^GSPC", from, to)

	require.NoError(t, err)
	// El fixture trae 4 timestamps con un close null → 3 puntos usables
	require.Len(t, series, 3)
	assert.InDelta(t, 3257.85, series[0].Close, 0.001)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.InDelta(t, 3237.18, series[2].Close, 0.001)
}

func TestFetchDailySeries_UpstreamErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	from, to := fetchRange()
	_, err := newTestClient(srv).FetchDailySeries(context.Background(), "BOGUS", from, to)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestFetchDailySeries_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	from, to := fetchRange()
	_, err := newTestClient(srv).FetchDailySeries(context.Background(), "^GSPC", from, to)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestFetchDailySeries_AllClosesNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1577923200,1578009600],"indicators":{"quote":[{"close":[null,null]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	from, to := fetchRange()
	_, err := newTestClient(srv).FetchDailySeries(context.Background(), "^GSPC", from, to)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestFetchDailySeries_ClientErrorIsTerminal(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	from, to := fetchRange()
	_, err := newTestClient(srv).FetchDailySeries(context.Background(), "^GSPC", from, to)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.Equal(t, int32(1), hits.Load()) // los 4xx no se reintentan
}

func TestFetchDailySeries_RetriesServerErrors(t *testing.T) {
	data, err := os.ReadFile("testdata/chart_gspc.json")
	require.NoError(t, err)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	from, to := fetchRange()
	series, err := newTestClient(srv).FetchDailySeries(context.Background(), "^GSPC", from, to)

	require.NoError(t, err)
	assert.Len(t, series, 3)
	assert.Equal(t, int32(2), hits.Load())
}
