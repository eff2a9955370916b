// Command crawl plays the dungeon in a terminal.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"crawler/internal/assets"
	"crawler/internal/config"
	"crawler/internal/game"
	"crawler/internal/save"
	"crawler/internal/sfx/speaker"
	"crawler/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the YAML config (optional)")
	user := flag.String("user", "local", "save slot")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	// The screen owns stdout, so logs go to a file or nowhere.
	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	cat := game.DefaultCatalog()
	if cfg.Content != "" {
		if cat, err = game.LoadCatalog(cfg.Content); err != nil {
			log.Fatal(err)
		}
	}
	engine := game.NewEngine(cat, nil)
	engine.EncounterChance = cfg.Encounter

	saves, err := save.NewJSONStore(cfg.SaveFile())
	if err != nil {
		log.Fatal(err)
	}
	defer saves.Close()

	var player *speaker.Player
	if !*mute {
		player = speaker.New()
		if err := player.Init(); err != nil {
			logger.Printf("sound disabled: %v", err)
			player = nil
		} else {
			defer player.Close()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := &term.Client{
		Engine: engine,
		Screen: screen,
		Loader: assets.Chain{assets.DirLoader{Dir: cfg.AssetsDir}, assets.Generated{}},
		Saves:  saves,
		Sound:  player,
		UserID: *user,
		MapDir: ".",
		Logger: logger,
	}
	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Printf("crawl: %v", err)
	}
}
