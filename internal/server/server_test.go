package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-analyzer/internal/strategy"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	table := strategy.NewTable(strategy.Database{
		"BTN_vs_BB": {
			"100bb": {
				"AKs": {Action: strategy.ActionRaise, Frequency: 1.0, EV: 2.3},
			},
		},
	})
	return New(DefaultConfig(), table, logger, nil)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthEndpoint(t *testing.T) {
	handler := testServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["strategy_loaded"])
}

func TestEquityEndpoint(t *testing.T) {
	handler := testServer(t).Routes()
	seed := int64(42)

	rec := postJSON(t, handler, "/api/equity", equityRequest{
		HeroHand:    []string{"As", "Ah"},
		VillainHand: []string{"Ks", "Kh"},
		Iterations:  5000,
		Seed:        &seed,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp equityResponse
	decode(t, rec, &resp)
	assert.InDelta(t, 0.82, resp.HeroEquity, 0.04)
	assert.Equal(t, 5000, resp.Iterations)
	assert.Equal(t, resp.Iterations, resp.HeroWins+resp.VillainWins+resp.Ties)
	assert.False(t, resp.Exhaustive)
}

func TestEquityEndpointExhaustiveRiver(t *testing.T) {
	handler := testServer(t).Routes()

	rec := postJSON(t, handler, "/api/equity", equityRequest{
		HeroHand:    []string{"As", "Ah"},
		VillainHand: []string{"Ks", "Kh"},
		Board:       []string{"Ac", "Kd", "Kc", "2h", "3d"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp equityResponse
	decode(t, rec, &resp)
	assert.True(t, resp.Exhaustive)
	assert.Equal(t, 1, resp.Iterations)
	assert.Equal(t, 1, resp.VillainWins)
}

func TestEquityEndpointValidation(t *testing.T) {
	handler := testServer(t).Routes()

	tests := []struct {
		name string
		req  equityRequest
	}{
		{"bad card", equityRequest{HeroHand: []string{"Zz", "Ah"}, VillainHand: []string{"Ks", "Kh"}}},
		{"one hero card", equityRequest{HeroHand: []string{"As"}, VillainHand: []string{"Ks", "Kh"}}},
		{"duplicate card", equityRequest{HeroHand: []string{"As", "Ah"}, VillainHand: []string{"As", "Kh"}}},
		{"iterations above cap", equityRequest{HeroHand: []string{"As", "Ah"}, VillainHand: []string{"Ks", "Kh"}, Iterations: 200000}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/equity", tc.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			decode(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPreflopEquityEndpoint(t *testing.T) {
	handler := testServer(t).Routes()
	seed := int64(7)

	rec := postJSON(t, handler, "/api/equity/preflop", preflopRequest{
		HeroCards:    []string{"Ah", "Kh"},
		VillainCards: []string{"Qc", "Qd"},
		Iterations:   5000,
		Seed:         &seed,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "Ace-King suited", body["hero_hand_name"])
	assert.Equal(t, "Pocket Queens", body["villain_hand_name"])
	equity := body["hero_equity"].(float64)
	assert.Greater(t, equity, 0.40)
	assert.Less(t, equity, 0.52)
}

func TestCompareEndpoint(t *testing.T) {
	handler := testServer(t).Routes()

	rec := postJSON(t, handler, "/api/compare", compareRequest{
		HeroHand:    []string{"As", "Ah"},
		VillainHand: []string{"Ks", "Kh"},
		Board:       []string{"Ac", "Kd", "Kc", "2h", "3d"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "villain", body["winner"])
	assert.Equal(t, "Villain wins with Four of a Kind", body["description"])

	// Board must be complete for a fixed comparison.
	rec = postJSON(t, handler, "/api/compare", compareRequest{
		HeroHand:    []string{"As", "Ah"},
		VillainHand: []string{"Ks", "Kh"},
		Board:       []string{"Ac", "Kd", "Kc"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeSpotEndpoint(t *testing.T) {
	handler := testServer(t).Routes()

	rec := postJSON(t, handler, "/api/analyze-spot", analyzeSpotRequest{
		HeroPosition:    "BTN",
		VillainPosition: "BB",
		Stack:           100,
		Cards:           []string{"Ah", "Kh"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis strategy.SpotAnalysis
	decode(t, rec, &analysis)
	assert.Equal(t, "AKs", analysis.Hand)
	assert.Equal(t, "BTN_vs_BB", analysis.Scenario)
	assert.True(t, analysis.FoundInTable)
	assert.Equal(t, strategy.ActionRaise, analysis.Suggestion.Action)

	rec = postJSON(t, handler, "/api/analyze-spot", analyzeSpotRequest{
		HeroPosition:    "LJ",
		VillainPosition: "BB",
		Stack:           100,
		Cards:           []string{"Ah", "Kh"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarioEndpoints(t *testing.T) {
	handler := testServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/analyze-spot/scenarios", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Scenarios []string `json:"scenarios"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"BTN_vs_BB"}, body.Scenarios)

	req = httptest.NewRequest(http.MethodGet, "/api/analyze-spot/stacks/BTN_vs_BB", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/analyze-spot/stacks/HJ_vs_BB", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEquityStream(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/equity"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	seed := int64(42)
	require.NoError(t, conn.WriteJSON(equityRequest{
		HeroHand:    []string{"As", "Ah"},
		VillainHand: []string{"Ks", "Kh"},
		Iterations:  5000,
		Seed:        &seed,
	}))

	sawProgress := false
	for {
		var frame streamFrame
		require.NoError(t, conn.ReadJSON(&frame))

		switch frame.Type {
		case "progress":
			sawProgress = true
			assert.Less(t, frame.Completed, frame.Total)
		case "result":
			assert.Equal(t, 5000, frame.Completed)
			assert.Equal(t, frame.Completed, frame.HeroWins+frame.VillainWins+frame.Ties)
			assert.InDelta(t, 0.82, frame.HeroEquity, 0.04)
			assert.True(t, sawProgress, "long run should emit progress frames")
			return
		default:
			t.Fatalf("unexpected frame type %q (error %q)", frame.Type, frame.Error)
		}
	}
}

func TestEquityStreamIdleClientTimeout(t *testing.T) {
	mockClock := quartz.NewMock(t)
	trap := mockClock.Trap().AfterFunc()
	defer trap.Close()

	logger := log.NewWithOptions(io.Discard, log.Options{})
	server := New(DefaultConfig(), strategy.NewTable(strategy.Database{}), logger, mockClock)
	srv := httptest.NewServer(server.Routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/equity"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Wait for the handler to arm its request timer, then run it out
	// without ever sending a request.
	call := trap.MustWait(ctx)
	call.MustRelease(ctx)
	mockClock.Advance(streamRequestTimeout).MustWait(ctx)

	var frame streamFrame
	require.Error(t, conn.ReadJSON(&frame), "idle client should be dropped")
}

func TestEquityStreamRejectsBadRequest(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/equity"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(equityRequest{
		HeroHand:    []string{"Zz", "Ah"},
		VillainHand: []string{"Ks", "Kh"},
	}))

	var frame streamFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.NotEmpty(t, frame.Error)
}
