package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prior-it/apollo-views/core"
)

// RenderFunc renders the view at filePath with the specified options into a full document.
// This is the signature a server expects for every registered template extension.
type RenderFunc func(ctx context.Context, filePath string, options core.Options) (string, error)

// Engine is the default view engine. It loads components through a [core.Loader] and
// assembles their output into a single document.
//
// An Engine has no mutable state of its own and can be shared between goroutines, as long as
// its loader can be.
type Engine struct {
	loader core.Loader
	logger *slog.Logger
}

// New creates a new engine that resolves views using the specified loader.
// The engine logs to the default slog logger unless another one is set with WithLogger.
func New(loader core.Loader) *Engine {
	return &Engine{
		loader: loader,
	}
}

func (engine *Engine) WithLogger(logger *slog.Logger) *Engine {
	engine.logger = logger
	return engine
}

func (engine *Engine) log() *slog.Logger {
	if engine.logger == nil {
		return slog.Default()
	}
	return engine.logger
}

// RenderFunc returns the engine's Render method as a [RenderFunc], so it can be registered
// with a server for a template extension.
func (engine *Engine) RenderFunc() RenderFunc {
	return engine.Render
}

// Render loads the component for filePath, renders it with options and splices its head and
// style into the resulting markup.
//
// Render never panics because of a broken view: a component that cannot be loaded results in
// an error matching [core.ErrLoad], a component that fails or panics while rendering results
// in an error matching [core.ErrRender].
func (engine *Engine) Render(
	ctx context.Context,
	filePath string,
	options core.Options,
) (string, error) {
	start := time.Now()

	component, err := engine.load(filePath)
	if err != nil {
		engine.log().Warn("Could not load view", "path", filePath, "error", err)
		return "", err
	}

	rendered, err := engine.render(ctx, filePath, component, options)
	if err != nil {
		engine.log().Warn("Could not render view", "path", filePath, "error", err)
		return "", err
	}

	head := InjectStyle(rendered.Head, rendered.CSS)
	html := SpliceHead(rendered.HTML, head)

	engine.log().Debug("View rendered", "path", filePath, "duration", time.Since(start))
	return html, nil
}

func (engine *Engine) load(filePath string) (component core.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			component = nil
			err = core.NewLoadError(filePath, fmt.Errorf("loader panicked: %v", r))
		}
	}()

	if engine.loader == nil {
		return nil, core.NewLoadError(filePath, errors.New("no loader configured"))
	}
	component, err = engine.loader.Load(filePath)
	if err != nil {
		if errors.Is(err, core.ErrLoad) {
			return nil, err
		}
		return nil, core.NewLoadError(filePath, err)
	}
	if component == nil {
		return nil, core.NewLoadError(filePath, errors.New("loader returned no component"))
	}
	return component, nil
}

func (engine *Engine) render(
	ctx context.Context,
	filePath string,
	component core.Component,
	options core.Options,
) (rendered core.Rendered, err error) {
	defer func() {
		if r := recover(); r != nil {
			rendered = core.Rendered{}
			err = core.NewRenderError(filePath, fmt.Errorf("component panicked: %v", r))
		}
	}()

	if options == nil {
		options = core.Options{}
	}
	rendered, err = component.Render(ctx, options)
	if err != nil {
		if errors.Is(err, core.ErrRender) {
			return core.Rendered{}, err
		}
		return core.Rendered{}, core.NewRenderError(filePath, err)
	}
	return rendered, nil
}
