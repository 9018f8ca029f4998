package main

import (
	"fmt"

	"github.com/lox/holdem-analyzer/poker"
)

type CompareCmd struct {
	Hero    string `arg:"" help:"Hero hole cards, e.g. 'AsAh'"`
	Villain string `arg:"" help:"Villain hole cards, e.g. 'KsKh'"`
	Board   string `arg:"" help:"Five community cards, e.g. 'AcKdKc2h3d'"`
}

func (c *CompareCmd) Run() error {
	hero, err := poker.ParseCards(c.Hero)
	if err != nil {
		return fmt.Errorf("hero hand: %w", err)
	}
	villain, err := poker.ParseCards(c.Villain)
	if err != nil {
		return fmt.Errorf("villain hand: %w", err)
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	evaluation, err := poker.Compare(hero, villain, board)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n\n", headerStyle.Render("board"), poker.FormatCards(board))
	fmt.Printf("%s  %s (%s)\n",
		handStyle.Render(poker.FormatCards(hero)),
		evaluation.HeroType, noteStyle.Render("hero"))
	fmt.Printf("%s  %s (%s)\n\n",
		handStyle.Render(poker.FormatCards(villain)),
		evaluation.VillainType, noteStyle.Render("villain"))
	fmt.Println(winStyle.Render(evaluation.Description))
	return nil
}
