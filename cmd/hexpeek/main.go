package main

import (
	"github.com/alecthomas/kong"

	"github.com/vitaminmoo/hexpeek/internal/cli"
)

func main() {
	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("hexpeek"),
		kong.Description("Classify files as binary or text and inspect them as hex."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&c)
	ctx.FatalIfErrorf(err)
}
