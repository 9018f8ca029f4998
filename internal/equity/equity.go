// Package equity estimates heads-up win probabilities by Monte Carlo
// simulation over unseen board cards, switching to exhaustive enumeration
// when few enough cards remain for it to be exact.
package equity

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-analyzer/internal/randutil"
	"github.com/lox/holdem-analyzer/poker"
)

const (
	// MinIterations and MaxIterations bound the accepted iteration count.
	MinIterations = 100
	MaxIterations = 100000

	// Simulations below this size run sequentially; goroutine fan-out
	// costs more than it saves for small sample counts.
	parallelThreshold = 2000

	maxWorkers = 8
)

// ErrInvalidIterations reports an iteration count outside
// [MinIterations, MaxIterations].
var ErrInvalidIterations = errors.New("iteration count out of range")

// Result holds the outcome counts of one simulation. Exactly one of the
// three counters is incremented per evaluated board, so the counts always
// sum to Iterations.
type Result struct {
	HeroWins    int  `json:"hero_wins"`
	VillainWins int  `json:"villain_wins"`
	Ties        int  `json:"ties"`
	Iterations  int  `json:"iterations"`
	Exhaustive  bool `json:"exhaustive"`
}

// HeroEquity returns the hero's share of the pot in expectation, counting
// ties as half a win.
func (r Result) HeroEquity() float64 {
	if r.Iterations == 0 {
		return 0
	}
	return (float64(r.HeroWins) + float64(r.Ties)/2) / float64(r.Iterations)
}

// VillainEquity returns the villain's share, counting ties as half a win.
func (r Result) VillainEquity() float64 {
	if r.Iterations == 0 {
		return 0
	}
	return (float64(r.VillainWins) + float64(r.Ties)/2) / float64(r.Iterations)
}

// TieRate returns the fraction of evaluated boards that split the pot.
func (r Result) TieRate() float64 {
	if r.Iterations == 0 {
		return 0
	}
	return float64(r.Ties) / float64(r.Iterations)
}

type counts struct {
	heroWins    int
	villainWins int
	ties        int
}

// Simulate estimates hero equity against villain over the unseen portion of
// the board. Both players hold exactly two known cards; the board may carry
// zero to five cards. All inputs are validated before any sampling happens.
//
// With two or fewer board cards left to come the remaining boards are
// enumerated exhaustively and the result is exact; Result.Exhaustive is set
// and Result.Iterations reports the number of enumerated boards instead of
// the requested count.
func Simulate(hero, villain, board []poker.Card, iterations int, rng *rand.Rand) (Result, error) {
	if len(hero) != 2 {
		return Result{}, fmt.Errorf("hero needs exactly 2 hole cards, got %d: %w",
			len(hero), poker.ErrInvalidHandSize)
	}
	if len(villain) != 2 {
		return Result{}, fmt.Errorf("villain needs exactly 2 hole cards, got %d: %w",
			len(villain), poker.ErrInvalidHandSize)
	}
	if len(board) > 5 {
		return Result{}, fmt.Errorf("board holds at most 5 cards, got %d: %w",
			len(board), poker.ErrInvalidHandSize)
	}
	if iterations < MinIterations || iterations > MaxIterations {
		return Result{}, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrInvalidIterations, iterations, MinIterations, MaxIterations)
	}

	dead := poker.Hand(0)
	for _, c := range [][]poker.Card{hero, villain, board} {
		for _, card := range c {
			if dead.HasCard(card) {
				return Result{}, fmt.Errorf("%s appears twice: %w",
					card, poker.ErrDuplicateCard)
			}
			dead.AddCard(card)
		}
	}

	heroBase := poker.NewHand(hero...) | poker.NewHand(board...)
	villainBase := poker.NewHand(villain...) | poker.NewHand(board...)
	pool := unseenCards(dead)
	need := 5 - len(board)

	if need <= 2 {
		return enumerate(heroBase, villainBase, pool, need), nil
	}

	var c counts
	if iterations >= parallelThreshold {
		c = sampleParallel(heroBase, villainBase, pool, need, iterations, rng)
	} else {
		c = sample(heroBase, villainBase, pool, need, iterations, rng)
	}

	return Result{
		HeroWins:    c.heroWins,
		VillainWins: c.villainWins,
		Ties:        c.ties,
		Iterations:  iterations,
	}, nil
}

// unseenCards lists every card of the 52 not already held or on the board.
func unseenCards(dead poker.Hand) []poker.Card {
	pool := make([]poker.Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := poker.Two; rank <= poker.Ace; rank++ {
			card := poker.NewCard(rank, suit)
			if !dead.HasCard(card) {
				pool = append(pool, card)
			}
		}
	}
	return pool
}

// sample draws the missing board cards without replacement for each
// iteration via a partial Fisher-Yates shuffle over the unseen pool.
func sample(heroBase, villainBase poker.Hand, pool []poker.Card, need, iterations int, rng *rand.Rand) counts {
	deck := make([]poker.Card, len(pool))
	copy(deck, pool)

	var c counts
	for i := 0; i < iterations; i++ {
		drawn := poker.Hand(0)
		for j := 0; j < need; j++ {
			k := j + rng.IntN(len(deck)-j)
			deck[j], deck[k] = deck[k], deck[j]
			drawn.AddCard(deck[j])
		}
		tally(&c, heroBase|drawn, villainBase|drawn)
	}
	return c
}

// sampleParallel partitions the iterations across workers and sums their
// partial counts. Each worker owns a generator forked from the caller's so
// runs stay reproducible for a fixed seed and worker count.
func sampleParallel(heroBase, villainBase poker.Hand, pool []poker.Card, need, iterations int, rng *rand.Rand) counts {
	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}

	share := iterations / workers
	remainder := iterations % workers

	var g errgroup.Group
	partials := make([]counts, workers)
	for w := 0; w < workers; w++ {
		n := share
		if w < remainder {
			n++
		}
		workerRng := randutil.Fork(rng)
		slot := &partials[w]
		g.Go(func() error {
			*slot = sample(heroBase, villainBase, pool, need, n, workerRng)
			return nil
		})
	}
	_ = g.Wait()

	var total counts
	for _, p := range partials {
		total.heroWins += p.heroWins
		total.villainWins += p.villainWins
		total.ties += p.ties
	}
	return total
}

// enumerate walks every completion of the board when at most two cards are
// missing. The returned counts are exact, not estimates.
func enumerate(heroBase, villainBase poker.Hand, pool []poker.Card, need int) Result {
	var c counts
	boards := 0

	switch need {
	case 0:
		tally(&c, heroBase, villainBase)
		boards = 1
	case 1:
		for _, card := range pool {
			drawn := poker.NewHand(card)
			tally(&c, heroBase|drawn, villainBase|drawn)
		}
		boards = len(pool)
	case 2:
		for i := 0; i < len(pool); i++ {
			for j := i + 1; j < len(pool); j++ {
				drawn := poker.NewHand(pool[i], pool[j])
				tally(&c, heroBase|drawn, villainBase|drawn)
				boards++
			}
		}
	}

	return Result{
		HeroWins:    c.heroWins,
		VillainWins: c.villainWins,
		Ties:        c.ties,
		Iterations:  boards,
		Exhaustive:  true,
	}
}

func tally(c *counts, hero, villain poker.Hand) {
	switch poker.CompareHands(poker.EvaluateHand(hero), poker.EvaluateHand(villain)) {
	case 1:
		c.heroWins++
	case -1:
		c.villainWins++
	default:
		c.ties++
	}
}
