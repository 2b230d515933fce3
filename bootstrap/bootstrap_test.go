package bootstrap_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prior-it/apollo-views/bootstrap"
	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/core"
	"github.com/prior-it/apollo-views/server"
	"github.com/prior-it/apollo-views/tests"
	"github.com/prior-it/apollo-views/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type State struct{}

func (State) Close(_ context.Context) {}

var viewFiles = fstest.MapFS{
	"index.svelte": &fstest.MapFile{
		Data: []byte(`<svelte:head><title>{{ title }}</title></svelte:head><html>%head%</html><style>h1{}</style>`),
	},
}

func TestNewViewEngine(t *testing.T) {
	t.Run("ok: registry takes precedence over files", func(t *testing.T) {
		cfg := config.Default()
		registry := views.NewRegistry(cfg.Views.Dir, cfg.Views.Extension).
			Register("index", tests.StaticComponent("registry", "", ""))
		engine := bootstrap.NewViewEngine(cfg, registry, viewFiles)

		html, err := engine.Engine.Render(context.Background(), "views/index.svelte", nil)
		require.NoError(t, err)
		assert.Equal(t, "registry", html)
	})

	t.Run("ok: component files", func(t *testing.T) {
		cfg := config.Default()
		engine := bootstrap.NewViewEngine(cfg, nil, viewFiles)

		render := engine.Views.Engines[cfg.Views.Extension]
		require.NotNil(t, render)
		html, err := render(context.Background(), "views/index.svelte", core.Options{"title": "T"})
		require.NoError(t, err)
		assert.Equal(t, "<html><title>T</title><style>h1{}</style></html>", html)
		assert.Equal(t, 1, engine.Cache.Len())
	})

	t.Run("ok: caching can be disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Views.Cache = false
		engine := bootstrap.NewViewEngine(cfg, nil, viewFiles)
		assert.Nil(t, engine.Cache)
		assert.NoError(t, engine.Watch(context.Background()), "Watch should return immediately without cache")
	})

	t.Run("err: nothing to load", func(t *testing.T) {
		engine := bootstrap.NewViewEngine(config.Default(), nil, nil)
		_, err := engine.Engine.Render(context.Background(), "views/index.svelte", nil)
		assert.ErrorIs(t, err, core.ErrLoad)
	})
}

func TestViewEngineWatch(t *testing.T) {
	newEngine := func(t *testing.T, debug bool) (*bootstrap.ViewEngine, string) {
		t.Helper()
		dir := t.TempDir()
		file := filepath.Join(dir, "index.svelte")
		require.NoError(t, os.WriteFile(file, []byte("<p>old</p>"), 0o600))

		cfg := config.Default()
		cfg.App.Debug = debug
		cfg.Views.Dir = dir
		cfg.Views.WatchDelay = 10
		return bootstrap.NewViewEngine(cfg, nil, os.DirFS(dir)), file
	}

	t.Run("ok: edited files are rendered in debug mode", func(t *testing.T) {
		engine, file := newEngine(t, true)
		render := engine.Views.Engines["svelte"]

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			done <- engine.Watch(ctx)
		}()

		html, err := render(ctx, file, nil)
		require.NoError(t, err)
		assert.Equal(t, "<p>old</p>", html)

		assert.Eventually(t, func() bool {
			if err := os.WriteFile(file, []byte("<p>new</p>"), 0o600); err != nil {
				return false
			}
			html, err := render(ctx, file, nil)
			return err == nil && html == "<p>new</p>"
		}, 5*time.Second, 50*time.Millisecond)

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("ok: nothing is watched outside debug mode", func(t *testing.T) {
		engine, file := newEngine(t, false)
		require.NoError(t, engine.Watch(context.Background()))

		_, err := engine.Engine.Render(context.Background(), file, nil)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(file, []byte("<p>new</p>"), 0o600))

		html, err := engine.Engine.Render(context.Background(), file, nil)
		require.NoError(t, err)
		assert.Equal(t, "<p>old</p>", html, "cached component should be used")
	})
}

var locales = fstest.MapFS{
	"en.yaml": &fstest.MapFile{Data: []byte("en:\n  hello: \"Hello\"\n")},
	"nl.yaml": &fstest.MapFile{Data: []byte("nl:\n  hello: \"Hallo\"\n")},
}

func TestLanguageDetection(t *testing.T) {
	cfg := config.Default()
	cfg.App.FallbackLang = "en"
	registry := views.NewRegistry(cfg.Views.Dir, cfg.Views.Extension).
		Register("index", core.ComponentFunc(func(_ context.Context, options core.Options) (core.Rendered, error) {
			lang, _ := options.Get("lang").(string)
			return core.Rendered{HTML: `<html lang="` + lang + `"></html>`}, nil
		}))
	engine := bootstrap.NewViewEngine(cfg, registry, nil)
	engine.Views.Locales = locales

	s := bootstrap.Minimal(State{}, cfg, engine.Views, nil)
	s.View("/", "index", nil)

	for _, test := range []struct {
		name           string
		acceptLanguage string
		lang           string
	}{
		{"ok: requested language", "nl", "nl"},
		{"ok: unknown language falls back", "fr", "en"},
		{"ok: no language falls back", "", "en"},
	} {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if len(test.acceptLanguage) > 0 {
				req.Header.Set("Accept-Language", test.acceptLanguage)
			}
			recorder := httptest.NewRecorder()
			s.ServeHTTP(recorder, req)
			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, `<html lang="`+test.lang+`"></html>`, recorder.Body.String())
		})
	}

	t.Run("ok: concurrent requests", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, lang := range []string{"nl", "en", "nl", "fr", "en", "nl", "", "nl"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("Accept-Language", lang)
				recorder := httptest.NewRecorder()
				s.ServeHTTP(recorder, req)
				assert.Equal(t, http.StatusOK, recorder.Code)
			}()
		}
		wg.Wait()
	})
}

func TestMinimal(t *testing.T) {
	cfg := config.Default()
	engine := bootstrap.NewViewEngine(cfg, nil, viewFiles)
	s := bootstrap.Minimal(State{}, cfg, engine.Views, nil)
	s.View("/", "index", func(_ *server.Apollo, _ State) (core.Options, error) {
		return core.Options{"title": "Minimal"}, nil
	})
	require.NoError(t, s.Validate())

	t.Run("ok: views are served", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "<title>Minimal</title>")
	})

	t.Run("ok: embedded static files are served", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/views-static/views.css", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), ".views-error")
	})
}

func TestCreateLogger(t *testing.T) {
	t.Run("ok: json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.Default()
		logger := bootstrap.CreateLogger(cfg, &buf)

		logger.Info("Server listening", "url", cfg.BaseURL())
		assert.Contains(t, buf.String(), `"msg":"Server listening"`)
		assert.Contains(t, buf.String(), `"url":"http://localhost:3000"`)
	})

	t.Run("ok: plaintext", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.Default()
		cfg.Log.Format = config.LogFormatPlaintext
		cfg.Log.Level = config.LogLevelWarn
		logger := bootstrap.CreateLogger(cfg, &buf)

		logger.Info("hidden")
		logger.Warn("Server listening")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "Server listening")
	})
}
