// internal/smartmatch/recommend/controller.go
package recommend

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/models"
	"smartmatch/internal/smartmatch/engine"
	"smartmatch/internal/smartmatch/scoring"
)

// CandidateSource yields the pool of rankable listings: available, priced,
// and positioned. City narrows the pool when the caller supplies one.
type CandidateSource interface {
	AvailableCandidates(ctx context.Context, city string) ([]models.Candidate, error)
}

// PriceRefSource yields precomputed price percentiles for a city.
// Implementations return stderrors.ErrCodePriceStatsUnavailable when the
// materialized statistics are missing; the controller then derives
// percentiles from the pool itself.
type PriceRefSource interface {
	PriceRefs(ctx context.Context, city string) (models.PriceRefs, error)
}

// Defaults carries the tunables applied when a search omits them.
type Defaults struct {
	PriceWeight    float64
	DistanceWeight float64
	MaxResults     int
}

// State is the observable controller state consumed by the presentation
// layer. Data is never nil once a fetch has completed: an empty result set
// is an empty list, not an error.
type State struct {
	IsLoading bool
	Data      []models.RankedItem
	Err       error
	Degraded  bool
	RequestID string
}

// Controller is the UI-facing entry point of the recommendation flow. It
// validates inputs, assembles the RankRequest, drives the engine, and
// holds the latest result. FetchRecommendations is re-entrant: a newer
// call supersedes an older in-flight one for state purposes
// (last-write-wins); the older computation is not cancelled, its result is
// simply discarded when it lands late.
type Controller struct {
	engine     *engine.Engine
	candidates CandidateSource
	priceRefs  PriceRefSource
	defaults   Defaults
	logger     logger.Logger

	mu    sync.Mutex
	seq   uint64
	state State
}

func NewController(eng *engine.Engine, candidates CandidateSource, priceRefs PriceRefSource, defaults Defaults, log logger.Logger) *Controller {
	return &Controller{
		engine:     eng,
		candidates: candidates,
		priceRefs:  priceRefs,
		defaults:   defaults,
		logger:     log.WithFields(map[string]interface{}{"component": "recommend-controller"}),
		state:      State{Data: []models.RankedItem{}},
	}
}

// FetchRecommendations runs one search end to end and returns the ranked
// items. Input errors stop the flow; every downstream failure degrades to
// a best-effort local ranking so the caller always gets some ordering.
func (c *Controller) FetchRecommendations(ctx context.Context, params models.SearchParams) ([]models.RankedItem, error) {
	if err := validateParams(params); err != nil {
		c.commit(c.begin(), State{Data: []models.RankedItem{}, Err: err})
		return nil, err
	}

	seq := c.begin()
	requestID := uuid.NewString()
	log := c.logger.WithFields(map[string]interface{}{"requestId": requestID})

	pool, err := c.candidates.AvailableCandidates(ctx, params.City)
	if err != nil {
		stdErr := stderrors.NewCandidateQueryFailedError(err)
		log.WithError(err).Error("candidate pool fetch failed", nil)
		c.commit(seq, State{Data: []models.RankedItem{}, Err: stdErr, RequestID: requestID})
		return nil, stdErr
	}

	req := c.buildRequest(ctx, params, pool, log)
	outcome := c.engine.Rank(ctx, req, pool)

	log.Info("recommendations computed", map[string]interface{}{
		"poolSize": len(pool),
		"returned": len(outcome.Items),
		"source":   outcome.Source,
		"degraded": outcome.Degraded,
	})

	c.commit(seq, State{
		Data:      outcome.Items,
		Degraded:  outcome.Degraded,
		RequestID: requestID,
	})
	return outcome.Items, nil
}

// ClearRecommendations resets the controller to its idle empty state.
func (c *Controller) ClearRecommendations() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = State{Data: []models.RankedItem{}}
}

// State returns a snapshot of the observable state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// begin marks a new in-flight fetch and returns its sequence number.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state.IsLoading = true
	return c.seq
}

// commit stores the result unless a newer fetch has superseded this one.
func (c *Controller) commit(seq uint64, next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.state = next
}

// buildRequest assembles the per-search RankRequest. Percentile
// resolution order: caller-supplied price range, then the precomputed
// statistics store, then empirical quantiles over the pool itself.
func (c *Controller) buildRequest(ctx context.Context, params models.SearchParams, pool []models.Candidate, log logger.Logger) *models.RankRequest {
	req := &models.RankRequest{
		Origin:           models.Position{Lat: *params.Lat, Lng: *params.Lng},
		RadiusKm:         params.RadiusKm,
		PriceWeight:      c.defaults.PriceWeight,
		DistanceWeight:   c.defaults.DistanceWeight,
		DesiredAmenities: params.DesiredAmenities,
		MaxResults:       c.defaults.MaxResults,
	}
	if params.PriceWeight != nil {
		req.PriceWeight = *params.PriceWeight
	}
	if params.DistanceWeight != nil {
		req.DistanceWeight = *params.DistanceWeight
	}
	if params.MaxResults > 0 {
		req.MaxResults = params.MaxResults
	}

	if params.PriceMax > params.PriceMin {
		req.PriceRefs = models.PriceRefs{P5: params.PriceMin, P95: params.PriceMax}
		return req
	}

	if c.priceRefs != nil {
		if refs, err := c.priceRefs.PriceRefs(ctx, params.City); err == nil {
			req.PriceRefs = refs
			return req
		} else {
			log.WithError(err).Debug("price statistics unavailable, deriving from pool", nil)
		}
	}

	prices := make([]float64, 0, len(pool))
	for _, cand := range pool {
		if cand.Position != nil && cand.HourlyPrice >= 0 {
			prices = append(prices, cand.HourlyPrice)
		}
	}
	req.PriceRefs = scoring.PoolRefs(prices)
	return req
}

func validateParams(params models.SearchParams) error {
	if params.Lat == nil || params.Lng == nil {
		return stderrors.NewMissingOriginError()
	}
	lat, lng := *params.Lat, *params.Lng
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return stderrors.NewInvalidOriginError(lat, lng)
	}
	if params.RadiusKm <= 0 {
		return stderrors.NewInvalidRadiusError(params.RadiusKm)
	}
	if params.PriceWeight != nil && (*params.PriceWeight < 0 || *params.PriceWeight > 1) {
		return stderrors.NewInvalidWeightError("peso_preco", *params.PriceWeight)
	}
	if params.DistanceWeight != nil && (*params.DistanceWeight < 0 || *params.DistanceWeight > 1) {
		return stderrors.NewInvalidWeightError("peso_dist", *params.DistanceWeight)
	}
	return nil
}
