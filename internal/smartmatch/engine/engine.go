// internal/smartmatch/engine/engine.go
package engine

import (
	"context"
	"time"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/common/metrics"
	"smartmatch/internal/common/observability"
	"smartmatch/internal/models"
	"smartmatch/internal/smartmatch/ranking"
)

const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// RemoteRanker is the remote scoring boundary. Configured reports whether
// an endpoint is set at all; Rank performs a single bounded attempt.
type RemoteRanker interface {
	Configured() bool
	Rank(ctx context.Context, req *models.RankRequest, pool []models.Candidate) ([]models.RankedItem, error)
}

// Outcome is the Result-style return of an orchestrated ranking. Degraded
// marks that the remote path was skipped or failed and the items come from
// the local formulas; it is informational, never an error.
type Outcome struct {
	Items    []models.RankedItem
	Source   string
	Degraded bool
	Reason   string
}

// Engine orchestrates remote scoring with a deterministic local fallback.
// Both paths are deterministic for fixed inputs, so calling Rank twice
// with the same request and pool yields identical outcomes.
type Engine struct {
	remote RemoteRanker
	obs    *observability.Observability
	logger logger.Logger
}

func New(remote RemoteRanker, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		remote: remote,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "ranking-engine"}),
	}
}

// Rank delegates to the remote ranking service when one is configured and
// silently degrades to the local computation on absence, error, timeout,
// a malformed response, or an empty result over a non-empty pool.
// Degradation is never surfaced as a blocking failure.
func (e *Engine) Rank(ctx context.Context, req *models.RankRequest, pool []models.Candidate) Outcome {
	metrics.CandidatesRanked.Observe(float64(len(pool)))

	if e.remote != nil && e.remote.Configured() {
		start := time.Now()
		spanCtx, end := e.obs.StartSpan(ctx, "smartmatch.remote-rank")
		items, err := e.remote.Rank(spanCtx, req, pool)
		end()
		if err == nil {
			// An empty list over a non-empty pool means the remote dropped
			// every candidate; the local formulas still owe the caller an
			// ordering.
			if len(items) == 0 && len(pool) > 0 {
				metrics.RankFallbacksTotal.WithLabelValues("empty_response").Inc()
				e.logger.Warn("remote ranking returned no items for a non-empty pool, degrading to local scoring", nil)
				return e.rankLocal(ctx, req, pool, "empty_response")
			}
			e.record(ctx, SourceRemote, time.Since(start))
			return Outcome{Items: items, Source: SourceRemote}
		}

		reason := fallbackReason(err)
		metrics.RankFallbacksTotal.WithLabelValues(reason).Inc()
		e.logger.WithError(err).Warn("remote ranking degraded to local scoring", map[string]interface{}{
			"reason": reason,
		})
		return e.rankLocal(ctx, req, pool, reason)
	}

	return e.rankLocal(ctx, req, pool, "not_configured")
}

func (e *Engine) rankLocal(ctx context.Context, req *models.RankRequest, pool []models.Candidate, reason string) Outcome {
	start := time.Now()
	_, end := e.obs.StartSpan(ctx, "smartmatch.local-rank")
	items := ranking.Rank(req, pool)
	end()
	e.record(ctx, SourceLocal, time.Since(start))

	return Outcome{
		Items:    items,
		Source:   SourceLocal,
		Degraded: reason != "not_configured",
		Reason:   reason,
	}
}

func (e *Engine) record(ctx context.Context, source string, elapsed time.Duration) {
	metrics.RankRequestsTotal.WithLabelValues(source).Inc()
	metrics.RankDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	e.obs.RecordRankProcessed(ctx, source)
	e.obs.RecordRankDuration(ctx, elapsed, source)
}

func fallbackReason(err error) string {
	if stdErr, ok := err.(*stderrors.StandardError); ok {
		switch stdErr.Code {
		case stderrors.ErrCodeRemoteRankingTimeout:
			return "timeout"
		case stderrors.ErrCodeRemoteRankingBadStatus:
			return "bad_status"
		case stderrors.ErrCodeRemoteRankingMalformed:
			return "malformed"
		}
	}
	return "unreachable"
}
