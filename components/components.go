package components

import (
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

//go:embed static/*
var EmbedStatic embed.FS

// StaticEndpoint is the url at which [EmbedStatic] is served by the bootstrapped servers.
// Applications should import the following file in the HTML header:
//
//	<link href="/views-static/views.css" rel="stylesheet"/>
//
// When developing locally, you can set the VIEWS_STATIC_FILES environment variable to the
// static directory to hot reload these styles.
const StaticEndpoint = "/views-static"

// ErrorPage renders a minimal HTML document for the specified status code and message.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		title := templ.EscapeString(fmt.Sprintf("%d %s", code, http.StatusText(code)))
		_, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="UTF-8"/>`+
			`<title>`+title+`</title>`+
			`<link href="`+StaticEndpoint+`/views.css" rel="stylesheet"/></head>`+
			`<body class="views-error"><h1>`+title+`</h1>`+
			`<pre>`+templ.EscapeString(message)+`</pre></body></html>`)
		return err
	})
}

// DefaultLayout wraps its children in a bare HTML document.
func DefaultLayout() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="UTF-8"/>`+
			`<link href="`+StaticEndpoint+`/views.css" rel="stylesheet"/></head><body>`); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
