package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/prior-it/apollo-views/bootstrap"
	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/views"
)

//go:embed views
var embedViews embed.FS

//go:embed locales
var embedLocales embed.FS

type State struct{}

func (State) Close(_ context.Context) {}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Could not access the current working directory: %v\n", err)
	}
	cfg, err := config.Load(os.DirFS(cwd))
	if err != nil {
		log.Fatalf("Could not load the configuration: %v\n", err)
	}

	// Read component files from disk in debug mode so they can be edited while running
	var viewFiles fs.FS
	if cfg.App.Debug {
		viewFiles = os.DirFS(cfg.Views.Dir)
	} else {
		viewFiles, err = fs.Sub(embedViews, "views")
		if err != nil {
			log.Fatalf("Could not open the embedded views: %v\n", err)
		}
	}

	registry := views.NewRegistry(cfg.Views.Dir, cfg.Views.Extension).
		Register("about", About())
	engine := bootstrap.NewViewEngine(cfg, registry, viewFiles)
	// Only used if APP_FALLBACKLANG is set
	engine.Views.Locales = embedLocales

	s := bootstrap.Full(State{}, cfg, engine.Views, nil)
	s.View("/", "index", Home).
		View("/about", "about", nil).
		View("/blog/{slug}", "blog/post", Post)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := engine.Watch(ctx); err != nil {
			slog.Warn("Could not watch the views directory", "error", err)
		}
	}()

	err = s.Start(ctx, nil)
	cancel()
	if err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
