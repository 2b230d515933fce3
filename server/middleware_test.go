package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/server"
	"github.com/stretchr/testify/assert"
)

type State struct{}

func (s State) Close(_ context.Context) {}

func TestContextMiddleware(t *testing.T) {
	t.Run("ok: config is available in the request context", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		s := server.New(State{}, cfg, server.Views{})

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(""))
		called := false
		s.ContextMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			assert.Same(t, cfg, server.Config(r.Context()))
		})).ServeHTTP(recorder, req)
		assert.True(t, called)
	})

	t.Run("ok: no config without the context middleware", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, server.Config(context.Background()))
	})
}

func TestDetectLanguage(t *testing.T) {
	t.Run("ok: skipped without fallback language", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		s := server.New(State{}, cfg, server.Views{})

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "nl")
		apollo := s.NewApollo(recorder, req)

		ctx, err := server.DetectLanguage(apollo, State{})
		assert.NoError(t, err)
		assert.Equal(t, "", server.Language(ctx))
	})
}
