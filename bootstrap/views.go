package bootstrap

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/core"
	"github.com/prior-it/apollo-views/server"
	"github.com/prior-it/apollo-views/views"
)

// ViewEngine bundles the default view engine with the server configuration that uses it.
type ViewEngine struct {
	Views  server.Views
	Engine *views.Engine
	// Cache is nil if component caching is disabled in the config.
	Cache *views.CachedLoader
	cfg   *config.Config
}

// NewViewEngine creates the view engine for the configured views extension.
// Components in registry take precedence over component files in files, either can be nil.
// files should be rooted at the configured views directory.
func NewViewEngine(cfg *config.Config, registry *views.Registry, files fs.FS) *ViewEngine {
	var chain views.Chain
	if registry != nil {
		chain = append(chain, registry)
	}
	if files != nil {
		chain = append(chain, views.NewFileLoader(files, cfg.Views.Dir, cfg.Views.Extension))
	}

	var loader core.Loader = chain
	var cache *views.CachedLoader
	if cfg.Views.Cache {
		cache = views.NewCachedLoader(chain)
		loader = cache
	}

	engine := views.New(loader)
	return &ViewEngine{
		Views: server.Views{
			Dir:       cfg.Views.Dir,
			Extension: cfg.Views.Extension,
			Engines: map[string]views.RenderFunc{
				cfg.Views.Extension: engine.Render,
			},
		},
		Engine: engine,
		Cache:  cache,
		cfg:    cfg,
	}
}

// Watch purges the component cache whenever a file in the views directory changes.
// This only does something in debug mode with both caching and watching enabled, otherwise it
// returns immediately.
func (engine *ViewEngine) Watch(ctx context.Context) error {
	if engine.Cache == nil || !engine.cfg.App.Debug || !engine.cfg.Views.Watch {
		return nil
	}
	return views.Watch(
		ctx,
		engine.cfg.Views.Dir,
		engine.Cache,
		time.Duration(engine.cfg.Views.WatchDelay)*time.Millisecond,
		slog.Default(),
	)
}
