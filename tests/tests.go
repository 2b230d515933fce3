package tests

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/a-h/templ"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/prior-it/apollo-views/core"
)

var Faker = gofakeit.New(rand.Uint64())

// ErrComponentFailed is returned by [FailingComponent].
var ErrComponentFailed = errors.New("component failed")

// StaticComponent returns a component that always renders the same output.
// The css code is omitted if css is empty.
func StaticComponent(html string, head string, css string) core.Component {
	return core.ComponentFunc(func(_ context.Context, _ core.Options) (core.Rendered, error) {
		rendered := core.Rendered{HTML: html, Head: head}
		if len(css) > 0 {
			rendered.CSS = &core.CSS{Code: css}
		}
		return rendered, nil
	})
}

// EchoComponent returns a component that renders the "title" option into its head and body.
func EchoComponent() core.Component {
	return core.ComponentFunc(func(_ context.Context, options core.Options) (core.Rendered, error) {
		title, _ := options.Get("title").(string)
		return core.Rendered{
			HTML: "<html><head>%head%</head><body>" + title + "</body></html>",
			Head: "<title>" + title + "</title>",
		}, nil
	})
}

// FailingComponent returns a component that always fails with [ErrComponentFailed].
func FailingComponent() core.Component {
	return core.ComponentFunc(func(_ context.Context, _ core.Options) (core.Rendered, error) {
		return core.Rendered{}, ErrComponentFailed
	})
}

// PanickingComponent returns a component that panics while rendering.
func PanickingComponent() core.Component {
	return core.ComponentFunc(func(_ context.Context, _ core.Options) (core.Rendered, error) {
		panic("component exploded")
	})
}

// FakeOptions returns view options filled with random data.
func FakeOptions() core.Options {
	return core.Options{
		"title":   Faker.Sentence(3),
		"name":    Faker.Name(),
		"email":   Faker.Email(),
		"count":   Faker.IntRange(0, 100),
		"enabled": Faker.Bool(),
	}
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TemplText returns a templ component that writes html as-is.
func TemplText(html string) templ.Component {
	return templ.Raw(html)
}
