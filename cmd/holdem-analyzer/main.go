package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Odds      OddsCmd          `cmd:"" help:"Estimate heads-up equity by Monte Carlo simulation"`
	Compare   CompareCmd       `cmd:"" help:"Determine the winner on a fixed five-card board"`
	Analyze   AnalyzeCmd       `cmd:"" help:"Look up the preflop strategy for a spot"`
	Serve     ServeCmd         `cmd:"" help:"Run the HTTP/WebSocket analyzer service"`
	GenRanges GenRangesCmd     `cmd:"gen-ranges" help:"Generate the preflop strategy table"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-analyzer"),
		kong.Description("Texas Hold'em equity and preflop strategy analyzer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
