package server

import (
	"context"
	"net/http"

	"github.com/prior-it/apollo-views/config"
)

type contextKey uint

const (
	ctxConfig contextKey = iota
)

// Config returns the configuration stored by the context middleware, or nil if there is none.
func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ctxConfig).(*config.Config)
	return cfg
}

// ContextMiddleware stores the server configuration in the request context, so views and
// components can access it through [Config].
func (server *Server[state]) ContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxConfig, server.cfg)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
