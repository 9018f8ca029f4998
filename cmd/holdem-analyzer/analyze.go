package main

import (
	"fmt"

	"github.com/lox/holdem-analyzer/internal/strategy"
	"github.com/lox/holdem-analyzer/poker"
)

type AnalyzeCmd struct {
	Cards           string `arg:"" help:"Hero hole cards, e.g. 'AhKs'"`
	HeroPosition    string `help:"Hero's seat" default:"BTN"`
	VillainPosition string `help:"Villain's seat" default:"BB"`
	Stack           int    `help:"Effective stack in big blinds" default:"100"`
	Table           string `help:"Strategy table JSON path" default:"gto_ranges.json"`
}

func (c *AnalyzeCmd) Run() error {
	cards, err := poker.ParseCards(c.Cards)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	heroPos, err := strategy.ParsePosition(c.HeroPosition)
	if err != nil {
		return err
	}
	villainPos, err := strategy.ParsePosition(c.VillainPosition)
	if err != nil {
		return err
	}

	table, err := strategy.Load(c.Table)
	if err != nil {
		return err
	}

	analysis, err := table.AnalyzeSpot(heroPos, villainPos, c.Stack, cards)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n",
		handStyle.Render(analysis.Hand),
		noteStyle.Render(poker.HoleName(cards[0], cards[1])))
	fmt.Printf("%s %s at %s\n\n",
		headerStyle.Render("scenario"), analysis.Scenario, analysis.Stack)

	s := analysis.Suggestion
	fmt.Printf("%s %s (%.0f%%, EV %+.2fbb)\n",
		headerStyle.Render("action"),
		winStyle.Render(string(s.Action)),
		s.Frequency*100, s.EV)
	if s.AlternativeAction != "" {
		fmt.Printf("%s %s (%.0f%%)\n",
			headerStyle.Render("mixed"),
			tieStyle.Render(string(s.AlternativeAction)),
			s.AlternativeFrequency*100)
	}
	if !analysis.FoundInTable {
		fmt.Printf("\n%s\n", noteStyle.Render("spot not in table, default applied"))
	}
	return nil
}
