package views_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/prior-it/apollo-views/core"
	"github.com/prior-it/apollo-views/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func document(options core.Options) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		name, _ := options.Get("name").(string)
		_, err := io.WriteString(w, "<html><head>%head%</head><body>"+templ.EscapeString(name)+"</body></html>")
		return err
	})
}

func head(options core.Options) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		name, _ := options.Get("name").(string)
		_, err := io.WriteString(w, "<title>"+templ.EscapeString(name)+"</title>")
		return err
	})
}

func TestTempl(t *testing.T) {
	ctx := context.Background()

	t.Run("ok: document, head and style", func(t *testing.T) {
		engine := views.New(views.NewRegistry("views", "svelte").
			Register("index", views.Templ(document, head, "body{margin:0}")))

		html, err := engine.Render(ctx, "views/index.svelte", core.Options{"name": "<Apollo>"})
		require.NoError(t, err)
		assert.Equal(
			t,
			"<html><head><title>&lt;Apollo&gt;</title><style>body{margin:0}</style></head><body>&lt;Apollo&gt;</body></html>",
			html,
		)
	})

	t.Run("ok: head and style are optional", func(t *testing.T) {
		rendered, err := views.Templ(document, nil, "").Render(ctx, core.Options{"name": "x"})
		require.NoError(t, err)
		assert.Empty(t, rendered.Head)
		assert.Nil(t, rendered.CSS)
	})

	t.Run("err: document errors are returned", func(t *testing.T) {
		cause := errors.New("templ failed")
		failing := func(core.Options) templ.Component {
			return templ.ComponentFunc(func(context.Context, io.Writer) error { return cause })
		}
		engine := views.New(views.NewRegistry("views", "svelte").
			Register("index", views.Templ(failing, head, "")))

		_, err := engine.Render(ctx, "views/index.svelte", nil)
		assert.ErrorIs(t, err, core.ErrRender)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("err: missing document", func(t *testing.T) {
		_, err := views.Templ(nil, head, "").Render(ctx, nil)
		assert.Error(t, err)
	})
}
