package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iliazhigalev/zhigalev-delivery-club/internal/config"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrRateUnavailable reports that the external quote source could not provide
// a usable rate. Callers must not price anything when they receive it; there
// is deliberately no fallback constant.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Service returns the current USD->RUB conversion rate.
type Service interface {
	Rate(ctx context.Context) (decimal.Decimal, error)
}

type Params struct {
	fx.In

	Cfg   config.Config
	Redis *redis.Client
	Log   *zap.Logger
}

type service struct {
	redis    *redis.Client
	http     *http.Client
	log      *zap.Logger
	quoteURL string
	cacheKey string
	cacheTTL time.Duration
}

func New(p Params) Service {
	return &service{
		redis:    p.Redis,
		http:     &http.Client{Timeout: p.Cfg.QuoteTimeout},
		log:      p.Log.Named("currency.service"),
		quoteURL: p.Cfg.QuoteURL,
		cacheKey: p.Cfg.RateCacheKey,
		cacheTTL: p.Cfg.RateCacheTTL,
	}
}

// Rate reads through the redis cache: an unexpired cached value is returned
// without touching the quote source; otherwise the source is fetched and the
// result stored with the configured TTL. Concurrent misses may each fetch;
// the TTL bounds external call frequency.
func (s *service) Rate(ctx context.Context) (decimal.Decimal, error) {
	cached, err := s.redis.Get(ctx, s.cacheKey).Result()
	if err == nil {
		rate, perr := decimal.NewFromString(cached)
		if perr == nil {
			return rate, nil
		}
		s.log.Warn("ignoring malformed cached rate", zap.String("value", cached))
	} else if !errors.Is(err, redis.Nil) {
		// Cache store failures degrade to a remote fetch.
		s.log.Warn("rate cache read failed", zap.Error(err))
	}

	rate, err := s.fetch(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := s.redis.Set(ctx, s.cacheKey, rate.String(), s.cacheTTL).Err(); err != nil {
		s.log.Warn("rate cache write failed", zap.Error(err))
	}
	s.log.Info("fetched fresh usd rate", zap.String("rate", rate.String()))
	return rate, nil
}

type quoteResponse struct {
	Valute struct {
		USD struct {
			Value json.Number `json:"Value"`
		} `json:"USD"`
	} `json:"Valute"`
}

func (s *service) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.quoteURL, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("%w: quote source returned status %d", ErrRateUnavailable, resp.StatusCode)
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: decode quote body: %v", ErrRateUnavailable, err)
	}

	raw := payload.Valute.USD.Value.String()
	rate, err := decimal.NewFromString(raw)
	if err != nil || !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid usd value %q", ErrRateUnavailable, raw)
	}
	return rate, nil
}

var Module = fx.Module("currency.service",
	fx.Provide(New),
)
