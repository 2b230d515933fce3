package bootstrap

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"github.com/prior-it/apollo-views/components"
	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/server"
)

// Minimal creates a server that renders views with the default middleware stack and the
// process-wide slog logger. Use it for sites that need nothing but views and static files.
//
// middlewares run after the default stack. Static file routes are registered before
// returning, so no middleware can be added to the returned server.
func Minimal[state server.State](
	stt state,
	cfg *config.Config,
	views server.Views,
	staticFS fs.ReadDirFS,
	middlewares ...func(http.Handler) http.Handler,
) *server.Server[state] {
	if cfg == nil {
		panic("bootstrap: a config is required, use config.Load or config.Default")
	}
	s := server.New(stt, cfg, views).
		WithLogger(slog.Default())
	s.AttachDefaultMiddleware()
	detectLanguage(s, cfg, views)

	s.UseStd(middlewares...)

	serveStaticFiles(s, staticFS)

	return s
}

// Full is [Minimal] plus the configured logger, Sentry error reporting (if enabled) and
// disabled response caching in debug mode.
func Full[state server.State](
	stt state,
	cfg *config.Config,
	views server.Views,
	staticFS fs.ReadDirFS,
	middlewares ...func(http.Handler) http.Handler,
) *server.Server[state] {
	if cfg == nil {
		panic("bootstrap: a config is required, use config.Load or config.Default")
	}

	logger := CreateLogger(cfg, os.Stdout)

	s := server.New(stt, cfg, views).
		WithLogger(logger)

	if cfg.Sentry.Enabled {
		initSentry(logger, cfg)
	}

	s.AttachDefaultMiddleware()
	detectLanguage(s, cfg, views)

	if cfg.Sentry.Enabled {
		sentryHandler := sentryhttp.New(sentryhttp.Options{
			Repanic:         true,
			WaitForDelivery: true,
			Timeout:         5 * time.Second, //nolint:mnd
		})
		s.UseStd(sentryHandler.Handle)
	}

	// Edited views and assets must show up on reload
	if cfg.App.Debug {
		s.UseStd(middleware.NoCache)
	}

	s.UseStd(middlewares...)

	serveStaticFiles(s, staticFS)

	return s
}

// detectLanguage passes the request language to views as the "lang" option, if views come
// with language bundles and a fallback language is configured.
func detectLanguage[state server.State](s *server.Server[state], cfg *config.Config, views server.Views) {
	if views.Locales == nil || len(cfg.App.FallbackLang) == 0 {
		return
	}
	s.WithI18n(views.Locales).
		Use(server.DetectLanguage[state])
}

func serveStaticFiles[state server.State](s *server.Server[state], staticFS fs.ReadDirFS) {
	if staticFS != nil {
		s.StaticFiles("/static", "static", staticFS)
	}
	s.StaticFiles(
		components.StaticEndpoint,
		os.Getenv("VIEWS_STATIC_FILES"),
		components.EmbedStatic,
	)
}

// CreateLogger builds the application logger and makes it the default slog logger.
// Plaintext logs are colourised, which makes them convenient during development.
func CreateLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var logger *slog.Logger
	addSource := cfg.Log.Verbose && cfg.App.Debug
	switch cfg.Log.Format {
	case config.LogFormatPlaintext:
		{
			logger = slog.New(tint.NewHandler(w, &tint.Options{
				Level:      cfg.Log.Level.ToSlog(),
				AddSource:  addSource,
				TimeFormat: time.TimeOnly,
			}))
		}
	default:
		{
			logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     cfg.Log.Level.ToSlog(),
				AddSource: addSource,
			}))
		}
	}
	slog.SetDefault(logger)
	return logger
}

func initSentry(logger *slog.Logger, cfg *config.Config) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Debug:            cfg.App.Debug,
		AttachStacktrace: true,
		SampleRate:       cfg.Sentry.SampleRate,
		EnableTracing:    true,
		TracesSampleRate: cfg.Sentry.TracesRate,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			// Static assets are not worth tracing
			if strings.HasPrefix(ctx.Span.Name, "GET "+components.StaticEndpoint) {
				return 0.0
			}
			return cfg.Sentry.TracesRate
		}),
		ProfilesSampleRate: cfg.Sentry.ProfilesRate,
		ServerName:         cfg.App.Name,
		Release:            cfg.App.Version,
		Environment:        string(cfg.App.Env),
	}); err != nil {
		logger.Error("Sentry is enabled but could not be initialised", "error", err)
		return
	}
	logger.Debug("Sentry initialised", "env", cfg.App.Env)
}
