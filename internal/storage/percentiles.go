// internal/storage/percentiles.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/models"
)

// PercentileStore serves price percentile references from the
// listing_price_stats table (refreshed out-of-band from the historical
// price distribution), with a Redis cache in front. A total miss returns
// ErrCodePriceStatsUnavailable so callers derive percentiles from the
// in-request pool instead.
type PercentileStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewPercentileStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *PercentileStore {
	return &PercentileStore{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "percentile-store"}),
	}
}

const priceStatsQuery = `
	SELECT p5, p25, p95
	FROM listing_price_stats
	WHERE city = $1`

type cachedRefs struct {
	P5  float64  `json:"p5"`
	P25 *float64 `json:"p25,omitempty"`
	P95 float64  `json:"p95"`
}

// PriceRefs returns the reference percentiles for a city, cache-aside.
func (s *PercentileStore) PriceRefs(ctx context.Context, city string) (models.PriceRefs, error) {
	cacheKey := "price:stats:" + city

	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedRefs
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return models.PriceRefs{P5: cached.P5, P25: cached.P25, P95: cached.P95}, nil
			}
		}
	}

	var (
		p5, p95 float64
		p25     sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, priceStatsQuery, city).Scan(&p5, &p25, &p95)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PriceRefs{}, stderrors.NewPriceStatsUnavailableError(city, nil)
	}
	if err != nil {
		return models.PriceRefs{}, stderrors.NewPriceStatsUnavailableError(city, err)
	}

	refs := models.PriceRefs{P5: p5, P95: p95}
	cached := cachedRefs{P5: p5, P95: p95}
	if p25.Valid {
		v := p25.Float64
		refs.P25 = &v
		cached.P25 = &v
	}

	if s.redis != nil {
		data, _ := json.Marshal(cached)
		if err := s.redis.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
			s.logger.WithError(err).Debug("price stats cache write failed", nil)
		}
	}

	return refs, nil
}
