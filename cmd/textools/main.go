package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"maptex/internal/grid"
)

const desc = `Generates, inspects and repairs game-map textures.`

var cli struct {
	Debug bool `help:"Log generator details to stderr." env:"DEBUG"`

	Validate ValidateCmd `cmd:"" help:"Validate and test-generate every preset in a directory."`
	Gen      GenCmd      `cmd:"" help:"Generate a texture from a preset."`
	Viz      VizCmd      `cmd:"" help:"Print a preset or PNG as half-block art."`
	Stats    StatsCmd    `cmd:"" help:"Show size, colours and alpha coverage of a PNG."`
	Finalize FinalizeCmd `cmd:"" help:"Recolour off-palette pixels of a PNG."`
	Warp     WarpCmd     `cmd:"" help:"Map one triangle of a PNG onto another."`
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("textools"),
		kong.Description(desc),
		kong.UsageOnError(),
	)

	if cli.Debug {
		grid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx.FatalIfErrorf(ctx.Run())
}
