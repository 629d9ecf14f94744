// internal/smartmatch/remote/client.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/http"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/models"
)

// Wire payload of the remote ranking service. Field names are the service
// contract and must not change.
type rankPayload struct {
	UserLat          float64            `json:"user_lat"`
	UserLng          float64            `json:"user_lng"`
	RadiusKm         float64            `json:"radius_km"`
	PriceWeight      float64            `json:"peso_preco"`
	DistanceWeight   float64            `json:"peso_dist"`
	P5               float64            `json:"p5"`
	P95              float64            `json:"p95"`
	P25              *float64           `json:"p25,omitempty"`
	DesiredAmenities []string           `json:"recursos_desejados"`
	Candidates       []payloadCandidate `json:"candidates"`
}

type payloadCandidate struct {
	ID           string   `json:"id"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	HourlyPrice  float64  `json:"preco_hora"`
	Neighborhood string   `json:"bairro"`
	City         string   `json:"cidade"`
	Rating       float64  `json:"rating"`
	Amenities    []string `json:"recursos"`
}

type rankResponse struct {
	Items []models.RankedItem `json:"items"`
}

// responseSchema rejects responses lacking `items` as a list or items
// missing the required fields. Anything failing here degrades to the local
// ranking.
const responseSchema = `{
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "dist_km", "preco_hora", "score"],
				"properties": {
					"id": {"type": "string"},
					"dist_km": {"type": "number"},
					"preco_hora": {"type": "number"},
					"score": {"type": "number"},
					"badges": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// Client calls the remote ranking service. One attempt per request, no
// retries: worst-case latency stays bounded by the timeout instead of
// compounding.
type Client struct {
	baseURL       string
	timeout       time.Duration
	latencyBudget time.Duration
	httpClient    *http.Client
	schema        *gojsonschema.Schema
	logger        logger.Logger
}

func NewClient(baseURL string, timeout, latencyBudget time.Duration, log logger.Logger) *Client {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		// Static schema; only reachable if the constant above is edited badly.
		panic(fmt.Sprintf("remote: invalid response schema: %v", err))
	}
	return &Client{
		baseURL:       baseURL,
		timeout:       timeout,
		latencyBudget: latencyBudget,
		httpClient:    http.NewClient(timeout),
		schema:        schema,
		logger:        log.WithFields(map[string]interface{}{"component": "remote-ranking"}),
	}
}

// Configured reports whether a remote endpoint is set at all.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Rank posts the request to the remote service and parses the ranked item
// list. Every failure mode (unreachable, timeout, non-2xx, malformed
// body) returns a StandardError for the orchestrator to absorb.
func (c *Client) Rank(ctx context.Context, req *models.RankRequest, pool []models.Candidate) ([]models.RankedItem, error) {
	payload := buildPayload(req, pool)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, stderrors.NewRemoteRankingMalformedError(fmt.Sprintf("marshal request: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := nethttp.NewRequest(nethttp.MethodPost, c.baseURL+"/rank", bytes.NewReader(body))
	if err != nil {
		return nil, stderrors.NewRemoteRankingUnreachableError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, elapsed, err := c.httpClient.DoWithContext(ctx, httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewRemoteRankingTimeoutError(c.timeout)
		}
		return nil, stderrors.NewRemoteRankingUnreachableError(err)
	}
	defer resp.Body.Close()

	if elapsed > c.latencyBudget {
		c.logger.Warn("remote ranking exceeded latency budget", map[string]interface{}{
			"elapsedMs": elapsed.Milliseconds(),
			"budgetMs":  c.latencyBudget.Milliseconds(),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, stderrors.NewRemoteRankingBadStatusError(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stderrors.NewRemoteRankingUnreachableError(err)
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, stderrors.NewRemoteRankingMalformedError(fmt.Sprintf("validate response: %v", err))
	}
	if !result.Valid() {
		return nil, stderrors.NewRemoteRankingMalformedError(fmt.Sprintf("%v", result.Errors()))
	}

	var parsed rankResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, stderrors.NewRemoteRankingMalformedError(fmt.Sprintf("decode response: %v", err))
	}

	if parsed.Items == nil {
		parsed.Items = []models.RankedItem{}
	}
	return parsed.Items, nil
}

func buildPayload(req *models.RankRequest, pool []models.Candidate) rankPayload {
	candidates := make([]payloadCandidate, 0, len(pool))
	for _, c := range pool {
		if c.Position == nil {
			continue
		}
		candidates = append(candidates, payloadCandidate{
			ID:           c.ID,
			Lat:          c.Position.Lat,
			Lng:          c.Position.Lng,
			HourlyPrice:  c.HourlyPrice,
			Neighborhood: c.Neighborhood,
			City:         c.City,
			Rating:       c.Rating,
			Amenities:    c.Amenities,
		})
	}

	return rankPayload{
		UserLat:          req.Origin.Lat,
		UserLng:          req.Origin.Lng,
		RadiusKm:         req.RadiusKm,
		PriceWeight:      req.PriceWeight,
		DistanceWeight:   req.DistanceWeight,
		P5:               req.PriceRefs.P5,
		P95:              req.PriceRefs.P95,
		P25:              req.PriceRefs.P25,
		DesiredAmenities: req.DesiredAmenities,
		Candidates:       candidates,
	}
}
