// internal/storage/listings.go
package storage

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/models"
)

// ListingStore reads rankable parking spaces from PostgreSQL. The query
// enforces the candidate source contract: only rows with a non-null
// position, non-negative price, and available = TRUE are returned.
type ListingStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewListingStore(db *sql.DB, log logger.Logger) *ListingStore {
	return &ListingStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "listing-store"}),
	}
}

const availableCandidatesQuery = `
	SELECT id, lat, lng, hourly_price, neighborhood, city, rating, amenities
	FROM parking_spaces
	WHERE available = TRUE
	  AND lat IS NOT NULL
	  AND lng IS NOT NULL
	  AND hourly_price >= 0
	  AND ($1 = '' OR city = $1)`

// AvailableCandidates returns the candidate pool for one search. Rows are
// read fresh per request; the pool is a snapshot, never mutated.
func (s *ListingStore) AvailableCandidates(ctx context.Context, city string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, availableCandidatesQuery, city)
	if err != nil {
		return nil, stderrors.NewCandidateQueryFailedError(err)
	}
	defer rows.Close()

	var pool []models.Candidate
	for rows.Next() {
		var (
			c        models.Candidate
			lat, lng float64
			rating   sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &lat, &lng, &c.HourlyPrice, &c.Neighborhood, &c.City, &rating, pq.Array(&c.Amenities)); err != nil {
			s.logger.WithError(err).Warn("skipping unreadable listing row", nil)
			continue
		}
		c.Position = &models.Position{Lat: lat, Lng: lng}
		c.Rating = rating.Float64
		c.Available = true
		pool = append(pool, c)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewCandidateQueryFailedError(err)
	}

	return pool, nil
}
