package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"crawler/internal/assets"
	"crawler/internal/config"
	"crawler/internal/game"
	"crawler/internal/save"
	"crawler/internal/session"
	"crawler/internal/web"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the YAML config (optional)")
	flag.Parse()

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

	saves, err := openSaves(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer saves.Close()

	srv := &web.Server{
		Engine:    engine,
		Store:     session.NewMemoryStore[*web.Session](),
		Saves:     saves,
		Loader:    assets.Chain{assets.DirLoader{Dir: cfg.AssetsDir}, assets.Generated{}},
		Tmpl:      web.DefaultTemplates(),
		Logger:    log.Default(),
		AssetsDir: cfg.AssetsDir,
		Idle:      cfg.SessionIdle,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Stride:    cfg.Stride,
	}

	go srv.RunSweeper(context.Background(), time.Minute)

	log.Printf("listening on http://localhost%s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Routes()))
}

func openSaves(cfg config.Config) (save.Storage, error) {
	if cfg.DBType == "postgres" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Using PostgreSQL persistence")
		return save.NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	log.Printf("Using JSON persistence at %s", cfg.SaveFile())
	return save.NewJSONStore(cfg.SaveFile())
}
