package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prior-it/apollo-views/components"
	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/core"
	"github.com/prior-it/apollo-views/views"
	"github.com/vearutop/statigz"
)

type (
	ErrorHandler    func(apollo *Apollo, err error)
	NotFoundHandler func(apollo *Apollo)
)

type State interface {
	Close(ctx context.Context)
}

// Views configures how the server renders views.
type Views struct {
	// Dir is the directory that contains the view files. Defaults to the configured views directory.
	Dir string
	// Extension is used for views that are referenced without an extension. Defaults to the
	// configured views extension.
	Extension string
	// Engines maps a file extension (without leading dot) to the engine that renders it.
	Engines map[string]views.RenderFunc
	// Locales holds the language bundles used to pick the "lang" view option.
	// Language detection is only enabled if both Locales and a fallback language are set.
	Locales fs.FS
}

func (v Views) engine(extension string) (views.RenderFunc, bool) {
	engine, ok := v.Engines[strings.TrimPrefix(extension, ".")]
	return engine, ok && engine != nil
}

type Server[state State] struct {
	mux          *chi.Mux
	state        state
	logger       *slog.Logger
	layout       templ.Component
	errorHandler ErrorHandler
	cfg          *config.Config
	views        Views
}

type (
	Handler[state any]    func(apollo *Apollo, state state) error
	Middleware[state any] func(apollo *Apollo, state state) (context.Context, error)
	// DataLoader returns the options a view is rendered with.
	DataLoader[state any] func(apollo *Apollo, state state) (core.Options, error)
)

// New creates a server for state that renders its views with the engines in v.
// Empty fields of v are filled in from cfg.
func New[state State](s state, cfg *config.Config, v Views) *Server[state] {
	if len(v.Dir) == 0 {
		v.Dir = cfg.Views.Dir
	}
	if len(v.Extension) == 0 {
		v.Extension = cfg.Views.Extension
	}
	v.Extension = strings.TrimPrefix(v.Extension, ".")
	engines := make(map[string]views.RenderFunc, len(v.Engines))
	for extension, engine := range v.Engines {
		engines[strings.TrimPrefix(extension, ".")] = engine
	}
	v.Engines = engines

	server := &Server[state]{
		mux:          chi.NewMux(),
		state:        s,
		logger:       slog.Default(),
		layout:       components.DefaultLayout(),
		errorHandler: DefaultErrorHandler,
		cfg:          cfg,
		views:        v,
	}

	server.WithNotFoundHandler(
		func(apollo *Apollo) {
			server.errorHandler(apollo, fmt.Errorf("page %q: %w", apollo.Path(), core.ErrNotFound))
		},
	)

	return server
}

func (server *Server[state]) WithNotFoundHandler(notFoundHandler NotFoundHandler) *Server[state] {
	server.mux.NotFound(server.handle(func(apollo *Apollo, _ state) error {
		notFoundHandler(apollo)
		return nil
	}))
	return server
}

func (server *Server[state]) WithLogger(logger *slog.Logger) *Server[state] {
	server.logger = logger
	return server
}

// Validate checks whether the server can render its default view extension.
func (server *Server[state]) Validate() error {
	if _, ok := server.views.engine(server.views.Extension); !ok {
		return fmt.Errorf("%w: %w %q", core.ErrStartup, core.ErrNoEngine, server.views.Extension)
	}
	return nil
}

func (server *Server[state]) NewApollo(w http.ResponseWriter, r *http.Request) *Apollo {
	return &Apollo{
		Writer:  w,
		Request: r,
		logger:  server.logger,
		layout:  server.layout,
		views:   &server.views,
		IsDebug: server.cfg.App.Debug,
		Cfg:     server.cfg,
	}
}

func (server *Server[state]) handle(handler Handler[state]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apollo := server.NewApollo(w, r)
		if err := handler(apollo, server.state); err != nil {
			server.errorHandler(apollo, err)
		}
		_ = r.Body.Close()
	}
}

// HandlerMiddleware wraps Apollo middleware into a http middleware handler.
// Errors returned by the middleware are passed to the error handler and end the request.
func (server *Server[state]) HandlerMiddleware(
	middleware Middleware[state],
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apollo := server.NewApollo(w, r)
			ctx, err := middleware(apollo, server.state)
			if err != nil {
				server.errorHandler(apollo, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (server *Server[state]) AttachDefaultMiddleware() {
	server.UseStd(
		middleware.RedirectSlashes,
		middleware.Recoverer,
		middleware.RealIP,
		middleware.RequestID,
		HTTPLogger(server.cfg),
		middleware.Timeout(
			time.Duration(server.cfg.App.RequestTimeout)*time.Second,
		),
		server.ContextMiddleware,
	)
}

// Listen binds the configured host and port.
// The returned error matches [core.ErrStartup] if the address cannot be bound.
func (server *Server[state]) Listen(ctx context.Context) (net.Listener, error) {
	host := net.JoinHostPort(server.cfg.App.Host, strconv.FormatUint(uint64(server.cfg.App.Port), 10))
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", host)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot listen on %q: %w", core.ErrStartup, host, err)
	}
	return listener, nil
}

// Start runs the server until ctx is cancelled or the process receives an interrupt.
// If no listener is provided, a new TCP listener will be created on the configured host and port.
// Any error that prevents the server from starting matches [core.ErrStartup].
func (server *Server[state]) Start(ctx context.Context, listener net.Listener) error {
	if err := server.Validate(); err != nil {
		return err
	}
	if listener == nil {
		var err error
		if listener, err = server.Listen(ctx); err != nil {
			return err
		}
	}

	ctxServer, stopSignal := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignal()

	httpServer := &http.Server{
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd
	}

	errorCh := make(chan error, 1)
	go func() {
		err := httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorCh <- err
		}
		close(errorCh)
	}()
	server.logger.Info(
		"Server listening",
		"url", server.cfg.BaseURL(),
		"addr", listener.Addr().String(),
	)

	var errServer error
	select {
	case err := <-errorCh:
		errServer = err
	case <-ctxServer.Done():
		server.logger.Info("Server interrupt received")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(
		context.WithoutCancel(ctx),
		time.Duration(server.cfg.App.ShutdownTimeout)*time.Second,
	)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		server.logger.Warn("Server did not shut down gracefully", "error", err)
	}
	server.Shutdown(ctxShutdown)

	return errServer
}

// Shutdown flushes pending Sentry events and closes the server state.
// Start calls this after the http server has stopped.
func (server *Server[state]) Shutdown(ctx context.Context) {
	sentryTimeout := max(0, time.Duration(server.cfg.App.ShutdownTimeout-1))
	sentry.Flush(sentryTimeout * time.Second)
	server.state.Close(ctx)
}

// ServeHTTP implements [net/http.Handler].
func (server *Server[state]) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	server.mux.ServeHTTP(writer, request)
}

// UseStd appends http middleware to the stack. Middleware runs before routing,
// so it has to be added before any route.
func (server *Server[state]) UseStd(middlewares ...func(http.Handler) http.Handler) *Server[state] {
	server.mux.Use(middlewares...)
	return server
}

// Use appends Apollo middleware to the stack, see [Server.UseStd].
func (server *Server[state]) Use(
	middlewares ...Middleware[state],
) *Server[state] {
	for _, mi := range middlewares {
		server.mux.Use(server.HandlerMiddleware(mi))
	}
	return server
}

// Handle routes every http method on `pattern` to handler.
func (server *Server[state]) Handle(pattern string, handler http.Handler) *Server[state] {
	server.mux.Handle(pattern, handler)
	return server
}

// StaticFiles serves the files of `files` at `pattern`, gzipped once at startup.
// In debug mode with a non-empty dir, files are read from dir on every request instead so
// they can be edited while the server runs. A top-level `static` folder in files is skipped.
//
// Example:
//
//	server.StaticFiles("/assets/", "./static/", assetsFS)
func (server *Server[state]) StaticFiles(pattern string, dir string, files fs.ReadDirFS) {
	var handler http.Handler
	if server.cfg.App.Debug && len(dir) > 0 {
		handler = http.FileServer(http.Dir(dir))
	} else {
		handler = middleware.NoCache(
			statigz.FileServer(files, statigz.EncodeOnInit, statigz.FSPrefix("static")),
		)
	}
	server.Handle(pattern+"*", http.StripPrefix(pattern, handler))
}

// Get routes GET requests on `pattern` to handlerFn.
func (server *Server[state]) Get(
	pattern string,
	handlerFn func(apollo *Apollo, state state) error,
) *Server[state] {
	server.mux.Get(pattern, server.handle(handlerFn))
	return server
}

// View routes GET requests on `pattern` to the view `name`.
// The view is rendered with the options returned by loader, which may be nil.
//
// # Example:
//
//	server.View("/", "index", nil).
//		View("/posts/{slug}", "blog/post", handlers.LoadPost)
func (server *Server[state]) View(
	pattern string,
	name string,
	loader DataLoader[state],
) *Server[state] {
	server.mux.Get(pattern, server.handle(func(apollo *Apollo, stt state) error {
		options := core.Options{}
		if loader != nil {
			var err error
			if options, err = loader(apollo, stt); err != nil {
				return err
			}
		}
		return apollo.View(name, options)
	}))
	return server
}

// Page routes GET requests on `pattern` to a templ component wrapped in the default layout.
func (server *Server[state]) Page(
	pattern string,
	component templ.Component,
) *Server[state] {
	server.mux.Get(pattern, server.handle(func(apollo *Apollo, _ state) error {
		return apollo.RenderPage(component)
	}))
	return server
}
