package server

import (
	"net/http"
	"time"

	"github.com/lox/holdem-analyzer/internal/equity"
)

// streamRequestTimeout bounds how long a client may sit on an open socket
// before sending its request frame.
const streamRequestTimeout = 30 * time.Second

// streamFrame is one message on the equity stream. Progress frames carry a
// running estimate; the result frame carries final counts.
type streamFrame struct {
	Type          string  `json:"type"` // progress, result, error
	Completed     int     `json:"completed,omitempty"`
	Total         int     `json:"total,omitempty"`
	HeroEquity    float64 `json:"hero_equity"`
	VillainEquity float64 `json:"villain_equity"`
	TiePercentage float64 `json:"tie_percentage"`
	HeroWins      int     `json:"hero_wins,omitempty"`
	VillainWins   int     `json:"villain_wins,omitempty"`
	Ties          int     `json:"ties,omitempty"`
	Exhaustive    bool    `json:"exhaustive,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// handleEquityStream upgrades the connection, reads a single equity
// request and streams the simulation back in batches so long runs report
// progress instead of going quiet.
func (s *Server) handleEquityStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// Drop clients that never send their request.
	timer := s.clock.AfterFunc(streamRequestTimeout, func() {
		conn.Close()
	})

	var req equityRequest
	if err := conn.ReadJSON(&req); err != nil {
		timer.Stop()
		s.logger.Debug("Stream request read failed", "error", err)
		return
	}
	timer.Stop()

	hero, villain, board, iterations, rng, err := s.parseEquityInput(req.HeroHand, req.VillainHand, req.Board, req.Iterations, req.Seed)
	if err != nil {
		_ = conn.WriteJSON(streamFrame{Type: "error", Error: err.Error()})
		return
	}

	// Exhaustive boards resolve in one exact pass; nothing to stream.
	if 5-len(board) <= 2 {
		result, err := equity.Simulate(hero, villain, board, iterations, rng)
		if err != nil {
			_ = conn.WriteJSON(streamFrame{Type: "error", Error: err.Error()})
			return
		}
		_ = conn.WriteJSON(resultFrame(result, result.Iterations))
		return
	}

	batch := s.cfg.Server.StreamBatch
	if batch < equity.MinIterations {
		batch = equity.MinIterations
	}

	var total equity.Result
	remaining := iterations
	for remaining > 0 {
		n := batch
		if remaining < batch+equity.MinIterations {
			n = remaining
		}

		partial, err := equity.Simulate(hero, villain, board, n, rng)
		if err != nil {
			_ = conn.WriteJSON(streamFrame{Type: "error", Error: err.Error()})
			return
		}
		total.HeroWins += partial.HeroWins
		total.VillainWins += partial.VillainWins
		total.Ties += partial.Ties
		total.Iterations += partial.Iterations
		remaining -= n

		if remaining > 0 {
			if err := conn.WriteJSON(streamFrame{
				Type:          "progress",
				Completed:     total.Iterations,
				Total:         iterations,
				HeroEquity:    total.HeroEquity(),
				VillainEquity: total.VillainEquity(),
				TiePercentage: total.TieRate(),
			}); err != nil {
				s.logger.Debug("Stream client went away", "error", err)
				return
			}
		}
	}

	if err := conn.WriteJSON(resultFrame(total, iterations)); err != nil {
		s.logger.Debug("Stream result write failed", "error", err)
	}
}

func resultFrame(result equity.Result, total int) streamFrame {
	return streamFrame{
		Type:          "result",
		Completed:     result.Iterations,
		Total:         total,
		HeroEquity:    result.HeroEquity(),
		VillainEquity: result.VillainEquity(),
		TiePercentage: result.TieRate(),
		HeroWins:      result.HeroWins,
		VillainWins:   result.VillainWins,
		Ties:          result.Ties,
		Exhaustive:    result.Exhaustive,
	}
}
