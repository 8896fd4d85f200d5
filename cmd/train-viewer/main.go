package main

import (
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/railsight/train-stream/pkg/mapview"
	"github.com/railsight/train-stream/pkg/trainengine"
)

var cli struct {
	Config   string `help:"Path to a YAML config file." type:"path"`
	Feed     string `help:"WebSocket feed URL (overrides config)."`
	Width    int    `help:"Window width." default:"1280"`
	Height   int    `help:"Window height." default:"800"`
	CacheDir string `help:"Directory for the downloaded basemap." default:"data/cache"`
	NoBasemap bool  `help:"Skip the basemap and render on a plain background."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("train-viewer"),
		kong.Description("Real-time train map viewer."),
	)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := trainengine.LoadConfig(cli.Config)
	if err != nil {
		kctx.FatalIfErrorf(err)
	}
	if cli.Feed != "" {
		cfg.FeedURL = cli.Feed
	}

	var basemap *mapview.Basemap
	if !cli.NoBasemap {
		basemap, err = mapview.LoadBasemap(cli.CacheDir)
		if err != nil {
			// The map still works without country outlines.
			log.Printf("Basemap unavailable, continuing without it: %v", err)
		}
	}

	engine := trainengine.NewEngine(cfg, nil)
	feed := trainengine.NewFeedListener(cfg.FeedURL)
	view := mapview.New(cli.Width, cli.Height, cfg, engine, feed, basemap)
	engine.AttachSurface(view)

	go feed.Listen()

	ebiten.SetWindowSize(cli.Width, cli.Height)
	ebiten.SetWindowTitle("Train Real-Time Map Viewer")
	if err := ebiten.RunGame(view); err != nil {
		log.Fatal(err)
	}
}
