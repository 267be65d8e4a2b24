package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TharHtet236401/cyber-security/internal/infra"
	"github.com/avast/retry-go/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Geocoder резолвит страну в координаты центроида через внешний сервис.
// Нужен только когда датасет без колонок Latitude/Longitude.
// Внешний вызов обернут в цепочку надежности: rate limit → circuit breaker →
// retry, результаты кэшируются в Redis навсегда (центроиды не меняются).
type Geocoder struct {
	baseURL string
	client  *http.Client
	rdb     *redis.Client // nil — кэш выключен
	logger  *zap.Logger

	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewGeocoder(baseURL string, timeout time.Duration, rdb *redis.Client, logger *zap.Logger) *Geocoder {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "geocoder",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	// Публичные геокодеры жестко лимитируют: 1 rps с небольшим бёрстом
	limiter := rate.NewLimiter(rate.Limit(1), 3)

	return &Geocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		rdb:     rdb,
		logger:  logger.Named("geocoder"),
		cb:      cb,
		limiter: limiter,
	}
}

type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Resolve возвращает центроид страны. Имя должно быть уже нормализовано
// (NormalizeCountry) под конвенцию сервиса.
func (g *Geocoder) Resolve(ctx context.Context, country string) (lat, lon float64, err error) {
	// 1. Кэш
	if g.rdb != nil {
		if cached, err := g.rdb.HGet(ctx, infra.RedisKeyGeoCache, country).Result(); err == nil {
			if lat, lon, ok := parseCachedPoint(cached); ok {
				return lat, lon, nil
			}
		}
	}

	// 2. Rate Limiter
	if err := g.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("geocoder: rate limit: %w", err)
	}

	// 3. Circuit Breaker + Retry
	result, err := g.cb.Execute(func() (interface{}, error) {
		var resp geocodeResponse

		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
		)
		retryErr := r.Do(func() error {
			return g.fetch(ctx, country, &resp)
		})
		return resp, retryErr
	})
	if err != nil {
		return 0, 0, err
	}

	resp := result.(geocodeResponse)

	// 4. Пишем в кэш, ошибка кэша не фатальна
	if g.rdb != nil {
		point := strconv.FormatFloat(resp.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(resp.Lon, 'f', -1, 64)
		if err := g.rdb.HSet(ctx, infra.RedisKeyGeoCache, country, point).Err(); err != nil {
			g.logger.Warn("geo cache write failed", zap.String("country", country), zap.Error(err))
		}
	}

	return resp.Lat, resp.Lon, nil
}

func (g *Geocoder) fetch(ctx context.Context, country string, out *geocodeResponse) error {
	u := fmt.Sprintf("%s?country=%s", g.baseURL, url.QueryEscape(country))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder: status %d for %q", resp.StatusCode, country)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseCachedPoint(s string) (lat, lon float64, ok bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lon, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
