// internal/smartmatch/remote/client_test.go
package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/models"
)

func testRequest() *models.RankRequest {
	p25 := 12.0
	return &models.RankRequest{
		Origin:           models.Position{Lat: -23.5505, Lng: -46.6333},
		RadiusKm:         5,
		PriceWeight:      0.5,
		DistanceWeight:   0.5,
		PriceRefs:        models.PriceRefs{P5: 10, P25: &p25, P95: 30},
		DesiredAmenities: []string{"covered"},
		MaxResults:       20,
	}
}

func testPool() []models.Candidate {
	return []models.Candidate{
		{
			ID:           "spot-1",
			Position:     &models.Position{Lat: -23.5415, Lng: -46.6333},
			HourlyPrice:  10,
			Neighborhood: "Centro",
			City:         "São Paulo",
			Rating:       4.5,
			Amenities:    []string{"covered"},
		},
		{ID: "no-position", Position: nil, HourlyPrice: 3},
	}
}

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(url, timeout, timeout/2, logger.NewNoOpLogger())
}

func TestClient_Configured(t *testing.T) {
	assert.False(t, newTestClient("", time.Second).Configured())
	assert.True(t, newTestClient("http://localhost:9999", time.Second).Configured())
}

func TestClient_Rank_Success(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"spot-1","dist_km":1.0,"preco_hora":10,"score":0.1,"badges":["near you"]}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Second)
	items, err := client.Rank(context.Background(), testRequest(), testPool())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "spot-1", items[0].ID)
	assert.Equal(t, 0.1, items[0].Score)

	// The wire contract field names are fixed.
	assert.Equal(t, -23.5505, received["user_lat"])
	assert.Equal(t, -46.6333, received["user_lng"])
	assert.Equal(t, 5.0, received["radius_km"])
	assert.Equal(t, 0.5, received["peso_preco"])
	assert.Equal(t, 0.5, received["peso_dist"])
	assert.Equal(t, 10.0, received["p5"])
	assert.Equal(t, 12.0, received["p25"])
	assert.Equal(t, 30.0, received["p95"])
	assert.Equal(t, []interface{}{"covered"}, received["recursos_desejados"])

	candidates, ok := received["candidates"].([]interface{})
	require.True(t, ok)
	// Candidates without a position are excluded from the payload.
	require.Len(t, candidates, 1)
	first := candidates[0].(map[string]interface{})
	assert.Equal(t, "spot-1", first["id"])
	assert.Equal(t, 10.0, first["preco_hora"])
	assert.Equal(t, "Centro", first["bairro"])
	assert.Equal(t, "São Paulo", first["cidade"])
	assert.Equal(t, 4.5, first["rating"])
}

func TestClient_Rank_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Second)
	_, err := client.Rank(context.Background(), testRequest(), testPool())

	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeRemoteRankingBadStatus, stdErr.Code)
}

func TestClient_Rank_MissingItemsList(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no items field", `{"result":"ok"}`},
		{"items not a list", `{"items":"nope"}`},
		{"item missing required fields", `{"items":[{"id":"x"}]}`},
		{"not json", `garbage`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, time.Second)
			_, err := client.Rank(context.Background(), testRequest(), testPool())

			require.Error(t, err)
			stdErr, ok := err.(*stderrors.StandardError)
			require.True(t, ok)
			assert.Equal(t, stderrors.ErrCodeRemoteRankingMalformed, stdErr.Code)
		})
	}
}

func TestClient_Rank_EmptyItemsPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	// An empty list is a well-formed wire response; whether it counts as a
	// usable ranking is the orchestrator's call, not the transport's.
	client := newTestClient(server.URL, time.Second)
	items, err := client.Rank(context.Background(), testRequest(), testPool())

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_Rank_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := client.Rank(context.Background(), testRequest(), testPool())
	elapsed := time.Since(start)

	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeRemoteRankingTimeout, stdErr.Code)
	assert.Less(t, elapsed, 400*time.Millisecond, "timeout must bound the attempt")
}

func TestClient_Rank_Unreachable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := client.Rank(context.Background(), testRequest(), testPool())

	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeRemoteRankingUnreachable, stdErr.Code)
}
