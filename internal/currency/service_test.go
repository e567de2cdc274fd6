package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/config"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, quoteURL string, ttl time.Duration) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := New(Params{
		Cfg: config.Config{
			QuoteURL:     quoteURL,
			QuoteTimeout: 2 * time.Second,
			RateCacheKey: "cbr_usd_rub",
			RateCacheTTL: ttl,
		},
		Redis: client,
		Log:   zap.NewNop(),
	})
	return svc, mr
}

func quoteServer(t *testing.T, body string, status int, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const cbrBody = `{"Valute":{"USD":{"Value":92.5123}}}`

func TestRateFetchesOnMissAndCaches(t *testing.T) {
	var calls atomic.Int64
	srv := quoteServer(t, cbrBody, http.StatusOK, &calls)
	svc, mr := newTestService(t, srv.URL, time.Hour)

	rate, err := svc.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "92.5123", rate.String())
	assert.Equal(t, int64(1), calls.Load())

	// Within TTL: served from cache, zero external calls.
	rate, err = svc.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "92.5123", rate.String())
	assert.Equal(t, int64(1), calls.Load())

	cached, err := mr.Get("cbr_usd_rub")
	require.NoError(t, err)
	assert.Equal(t, "92.5123", cached)
}

func TestRateRefetchesAfterTTLExpiry(t *testing.T) {
	var calls atomic.Int64
	srv := quoteServer(t, cbrBody, http.StatusOK, &calls)
	svc, mr := newTestService(t, srv.URL, time.Minute)

	_, err := svc.Rate(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	mr.FastForward(2 * time.Minute)

	_, err = svc.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestRateMalformedBodyIsUnavailable(t *testing.T) {
	var calls atomic.Int64
	srv := quoteServer(t, `{"Valute":{}}`, http.StatusOK, &calls)
	svc, _ := newTestService(t, srv.URL, time.Hour)

	_, err := svc.Rate(context.Background())
	assert.True(t, errors.Is(err, ErrRateUnavailable))
}

func TestRateUpstreamErrorIsUnavailable(t *testing.T) {
	var calls atomic.Int64
	srv := quoteServer(t, "oops", http.StatusBadGateway, &calls)
	svc, _ := newTestService(t, srv.URL, time.Hour)

	_, err := svc.Rate(context.Background())
	assert.True(t, errors.Is(err, ErrRateUnavailable))
}

func TestRateUnreachableSourceIsUnavailable(t *testing.T) {
	svc, _ := newTestService(t, "http://127.0.0.1:1", time.Hour)

	_, err := svc.Rate(context.Background())
	assert.True(t, errors.Is(err, ErrRateUnavailable))
}
