package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/core"
	"github.com/prior-it/apollo-views/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApollo(t *testing.T, target string) *server.Apollo {
	t.Helper()
	s := server.New(State{}, config.Default(), server.Views{})
	return s.NewApollo(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
}

func TestHome(t *testing.T) {
	t.Run("ok: posts are listed in a stable order", func(t *testing.T) {
		t.Parallel()
		for range 10 {
			options, err := Home(newApollo(t, "/"), State{})
			require.NoError(t, err)
			assert.Equal(t, []string{"component-files", "hello-world"}, options["posts"])
		}
	})
}

func TestPost(t *testing.T) {
	t.Run("err: unknown post", func(t *testing.T) {
		t.Parallel()
		_, err := Post(newApollo(t, "/blog/missing"), State{})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
