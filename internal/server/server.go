// Package server exposes the hand analyzer over HTTP and WebSocket:
// equity simulation, fixed-board winner determination and preflop
// strategy lookups.
package server

import (
	"context"
	"encoding/json"
	"errors"
	rand "math/rand/v2"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-analyzer/internal/equity"
	"github.com/lox/holdem-analyzer/internal/randutil"
	"github.com/lox/holdem-analyzer/internal/strategy"
	"github.com/lox/holdem-analyzer/poker"
)

// Server routes analyzer requests to the simulation core and the strategy
// table.
type Server struct {
	cfg      *Config
	table    *strategy.Table
	logger   *log.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader
}

// New assembles a server. A nil clock gets the real one; tests inject a
// mock to drive stream cadence.
func New(cfg *Config, table *strategy.Table, logger *log.Logger, clock quartz.Clock) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Server{
		cfg:    cfg,
		table:  table,
		logger: logger.WithPrefix("server"),
		clock:  clock,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Routes builds the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/equity", s.handleEquity)
		r.Post("/equity/preflop", s.handlePreflopEquity)
		r.Post("/compare", s.handleCompare)
		r.Post("/analyze-spot", s.handleAnalyzeSpot)
		r.Get("/analyze-spot/scenarios", s.handleScenarios)
		r.Get("/analyze-spot/stacks/{scenario}", s.handleStacks)
	})

	r.Get("/ws/equity", s.handleEquityStream)

	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting analyzer server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"strategy_loaded": !s.table.Empty(),
		"max_iterations":  s.cfg.Server.MaxIterations,
	})
}

type equityRequest struct {
	HeroHand    []string `json:"hero_hand"`
	VillainHand []string `json:"villain_hand"`
	Board       []string `json:"board"`
	Iterations  int      `json:"iterations"`
	Seed        *int64   `json:"seed,omitempty"`
}

type equityResponse struct {
	HeroEquity    float64  `json:"hero_equity"`
	VillainEquity float64  `json:"villain_equity"`
	TiePercentage float64  `json:"tie_percentage"`
	HeroWins      int      `json:"hero_wins"`
	VillainWins   int      `json:"villain_wins"`
	Ties          int      `json:"ties"`
	Iterations    int      `json:"iterations"`
	Exhaustive    bool     `json:"exhaustive"`
	HeroHand      []string `json:"hero_hand"`
	VillainHand   []string `json:"villain_hand"`
	Board         []string `json:"board"`
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	var req equityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.runEquity(w, req)
}

type preflopRequest struct {
	HeroCards    []string `json:"hero_cards"`
	VillainCards []string `json:"villain_cards"`
	Iterations   int      `json:"iterations"`
	Seed         *int64   `json:"seed,omitempty"`
}

// handlePreflopEquity is the board-free variant; the response adds spoken
// hand names.
func (s *Server) handlePreflopEquity(w http.ResponseWriter, r *http.Request) {
	var req preflopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	hero, villain, _, iterations, rng, err := s.parseEquityInput(req.HeroCards, req.VillainCards, nil, req.Iterations, req.Seed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := equity.Simulate(hero, villain, nil, iterations, rng)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"hero_equity":       result.HeroEquity(),
		"villain_equity":    result.VillainEquity(),
		"tie_percentage":    result.TieRate(),
		"iterations":        result.Iterations,
		"hero_hand_name":    poker.HoleName(hero[0], hero[1]),
		"villain_hand_name": poker.HoleName(villain[0], villain[1]),
	})
}

func (s *Server) runEquity(w http.ResponseWriter, req equityRequest) {
	hero, villain, board, iterations, rng, err := s.parseEquityInput(req.HeroHand, req.VillainHand, req.Board, req.Iterations, req.Seed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := equity.Simulate(hero, villain, board, iterations, rng)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, equityResponse{
		HeroEquity:    result.HeroEquity(),
		VillainEquity: result.VillainEquity(),
		TiePercentage: result.TieRate(),
		HeroWins:      result.HeroWins,
		VillainWins:   result.VillainWins,
		Ties:          result.Ties,
		Iterations:    result.Iterations,
		Exhaustive:    result.Exhaustive,
		HeroHand:      req.HeroHand,
		VillainHand:   req.VillainHand,
		Board:         req.Board,
	})
}

type compareRequest struct {
	HeroHand    []string `json:"hero_hand"`
	VillainHand []string `json:"villain_hand"`
	Board       []string `json:"board"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	hero, err := parseCardList(req.HeroHand)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	villain, err := parseCardList(req.VillainHand)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	board, err := parseCardList(req.Board)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	evaluation, err := poker.Compare(hero, villain, board)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, evaluation)
}

type analyzeSpotRequest struct {
	HeroPosition    string   `json:"hero_position"`
	VillainPosition string   `json:"villain_position"`
	Stack           int      `json:"stack"`
	Cards           []string `json:"cards"`
}

func (s *Server) handleAnalyzeSpot(w http.ResponseWriter, r *http.Request) {
	var req analyzeSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	heroPos, err := strategy.ParsePosition(req.HeroPosition)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	villainPos, err := strategy.ParsePosition(req.VillainPosition)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	cards, err := parseCardList(req.Cards)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	analysis, err := s.table.AnalyzeSpot(heroPos, villainPos, req.Stack, cards)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": s.table.Scenarios(),
	})
}

func (s *Server) handleStacks(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")
	stacks := s.table.Stacks(scenario)
	if len(stacks) == 0 {
		s.writeError(w, http.StatusNotFound, errors.New("unknown scenario"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"scenario": scenario,
		"stacks":   stacks,
	})
}

// parseEquityInput validates and converts raw request fields. A zero
// iteration count picks up the configured default; the cap comes from
// config rather than the simulator's absolute maximum.
func (s *Server) parseEquityInput(heroRaw, villainRaw, boardRaw []string, iterations int, seed *int64) ([]poker.Card, []poker.Card, []poker.Card, int, *rand.Rand, error) {
	hero, err := parseCardList(heroRaw)
	if err != nil {
		return nil, nil, nil, 0, nil, err
	}
	villain, err := parseCardList(villainRaw)
	if err != nil {
		return nil, nil, nil, 0, nil, err
	}
	board, err := parseCardList(boardRaw)
	if err != nil {
		return nil, nil, nil, 0, nil, err
	}

	if iterations == 0 {
		iterations = s.cfg.Server.DefaultIterations
	}
	if iterations > s.cfg.Server.MaxIterations {
		return nil, nil, nil, 0, nil, equity.ErrInvalidIterations
	}

	var rng *rand.Rand
	if seed != nil {
		rng = randutil.New(*seed)
	} else {
		rng = randutil.New(time.Now().UnixNano())
	}
	return hero, villain, board, iterations, rng, nil
}

func parseCardList(raw []string) ([]poker.Card, error) {
	cards := make([]poker.Card, 0, len(raw))
	for _, s := range raw {
		card, err := poker.ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// statusFor maps validation sentinels to 400; anything else is a server
// fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, poker.ErrCardFormat),
		errors.Is(err, poker.ErrInvalidHandSize),
		errors.Is(err, poker.ErrDuplicateCard),
		errors.Is(err, poker.ErrInsufficientCards),
		errors.Is(err, poker.ErrCardNotFound),
		errors.Is(err, equity.ErrInvalidIterations),
		errors.Is(err, strategy.ErrInvalidPosition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
