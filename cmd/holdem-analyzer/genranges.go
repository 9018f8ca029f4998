package main

import (
	"fmt"

	"github.com/lox/holdem-analyzer/internal/strategy"
)

type GenRangesCmd struct {
	Output string `short:"o" help:"Output path for the strategy table" default:"gto_ranges.json"`
}

func (c *GenRangesCmd) Run() error {
	db := strategy.Generate()
	if err := strategy.Save(db, c.Output); err != nil {
		return err
	}

	entries := 0
	for _, stacks := range db {
		for _, hands := range stacks {
			entries += len(hands)
		}
	}
	fmt.Printf("%s %d scenarios, %d entries\n", headerStyle.Render("wrote"), len(db), entries)
	fmt.Println(noteStyle.Render(c.Output))
	return nil
}
