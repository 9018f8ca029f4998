package main

import (
	"fmt"
	rand "math/rand/v2"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-analyzer/internal/equity"
	"github.com/lox/holdem-analyzer/internal/randutil"
	"github.com/lox/holdem-analyzer/poker"
)

type OddsCmd struct {
	Hero          string `arg:"" help:"Hero hole cards, e.g. 'AsAh'"`
	Villain       string `arg:"" help:"Villain hole cards, e.g. 'KsKh'"`
	Board         string `short:"b" help:"Community cards (e.g. 'Td7s8h')"`
	Iterations    int    `short:"i" help:"Number of Monte Carlo iterations" default:"10000"`
	Seed          *int64 `help:"Random seed for reproducible results"`
	Possibilities bool   `short:"p" help:"Show hand category probabilities"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func (c *OddsCmd) Run() error {
	hero, err := poker.ParseCards(c.Hero)
	if err != nil {
		return fmt.Errorf("hero hand: %w", err)
	}
	villain, err := poker.ParseCards(c.Villain)
	if err != nil {
		return fmt.Errorf("villain hand: %w", err)
	}
	var board []poker.Card
	if c.Board != "" {
		if board, err = poker.ParseCards(c.Board); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	start := time.Now()
	result, err := equity.Simulate(hero, villain, board, c.Iterations, rng)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if len(board) > 0 {
		fmt.Printf("%s\n%s\n\n", headerStyle.Render("board"), poker.FormatCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"))

	printRow := func(cards []poker.Card, equityPct, winPct, tiePct float64) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			handStyle.Render(poker.FormatCards(cards)),
			winStyle.Render(fmt.Sprintf("%.1f%%", equityPct)),
			winStyle.Render(fmt.Sprintf("%.1f%%", winPct)),
			tieStyle.Render(fmt.Sprintf("%.1f%%", tiePct)))
	}

	total := float64(result.Iterations)
	printRow(hero, result.HeroEquity()*100, float64(result.HeroWins)/total*100, result.TieRate()*100)
	printRow(villain, result.VillainEquity()*100, float64(result.VillainWins)/total*100, result.TieRate()*100)
	w.Flush()

	if c.Possibilities {
		fmt.Println()
		c.printPossibilities(hero, villain, board, rng)
	}

	mode := "simulated"
	if result.Exhaustive {
		mode = "enumerated"
	}
	fmt.Printf("\n%s\n", noteStyle.Render(
		fmt.Sprintf("%d boards %s in %s", result.Iterations, mode, elapsed.Round(time.Millisecond))))
	return nil
}

// printPossibilities samples boards and tallies the final hand category for
// each player.
func (c *OddsCmd) printPossibilities(hero, villain, board []poker.Card, rng *rand.Rand) {
	dead := poker.NewHand(hero...) | poker.NewHand(villain...) | poker.NewHand(board...)
	pool := make([]poker.Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := poker.Two; rank <= poker.Ace; rank++ {
			card := poker.NewCard(rank, suit)
			if !dead.HasCard(card) {
				pool = append(pool, card)
			}
		}
	}

	need := 5 - len(board)
	boardHand := poker.NewHand(board...)
	heroBase := poker.NewHand(hero...) | boardHand
	villainBase := poker.NewHand(villain...) | boardHand

	heroCounts := map[poker.HandType]int{}
	villainCounts := map[poker.HandType]int{}
	samples := 10000
	if need == 0 {
		// Complete board, nothing left to draw.
		samples = 1
	}
	for i := 0; i < samples; i++ {
		drawn := poker.Hand(0)
		for j := 0; j < need; j++ {
			k := j + rng.IntN(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
			drawn.AddCard(pool[j])
		}
		heroCounts[poker.EvaluateHand(heroBase|drawn).Type()]++
		villainCounts[poker.EvaluateHand(villainBase|drawn).Type()]++
	}

	types := make([]poker.HandType, 0, len(heroCounts))
	for t := range heroCounts {
		types = append(types, t)
	}
	for t := range villainCounts {
		if _, ok := heroCounts[t]; !ok {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] > types[j] })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("category"),
		headerStyle.Render(poker.FormatCards(hero)),
		headerStyle.Render(poker.FormatCards(villain)))
	for _, t := range types {
		fmt.Fprintf(w, "%s\t%.1f%%\t%.1f%%\n",
			categoryStyle.Render(t.String()),
			float64(heroCounts[t])/float64(samples)*100,
			float64(villainCounts[t])/float64(samples)*100)
	}
	w.Flush()
}
