package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/httplog/v2"
	"github.com/prior-it/apollo-views/config"
	"github.com/prior-it/apollo-views/core"
)

// Apollo gives handlers access to the current request, its response and the view engines.
type Apollo struct {
	Writer  http.ResponseWriter
	Request *http.Request
	Cfg     *config.Config
	IsDebug bool
	logger  *slog.Logger
	layout  templ.Component
	views   *Views
}

// Error logs msg at error level, args alternate between field names and values like they do
// for [log/slog.Error].
//
// # Example
//
//	apollo.Error("Could not render error page", "error", err)
func (apollo *Apollo) Error(msg string, args ...any) {
	apollo.logger.Error(msg, args...)
}

// Debug logs msg at debug level, see [Apollo.Error].
func (apollo *Apollo) Debug(msg string, args ...any) {
	apollo.logger.Debug(msg, args...)
}

// LogString adds a string field to the request log line.
func (apollo *Apollo) LogString(field string, value string) {
	apollo.LogField(field, slog.StringValue(value))
}

// LogField adds a field to the request log line written by [HTTPLogger].
func (apollo *Apollo) LogField(field string, value slog.Value) {
	httplog.LogEntrySetField(apollo.Context(), field, value)
}

// Context returns the request's context, which is cancelled when the client goes away.
func (apollo *Apollo) Context() context.Context {
	return apollo.Request.Context()
}

// Path returns the full path of the request.
func (apollo *Apollo) Path() string {
	return apollo.Request.URL.Path
}

// GetPath returns the value of the path wildcard `key` in the matched route pattern, or the
// empty string if there is none.
func (apollo *Apollo) GetPath(key string) string {
	return apollo.Request.PathValue(key)
}

// GetHeader returns the first value of the request header.
func (apollo *Apollo) GetHeader(header string) string {
	return apollo.Request.Header.Get(header)
}

// ViewPath returns the file path and the extension of the engine that renders the view `name`.
// Names without a registered extension use the default view extension.
func (apollo *Apollo) ViewPath(name string) (string, string) {
	extension := strings.TrimPrefix(path.Ext(name), ".")
	if _, ok := apollo.views.engine(extension); !ok {
		extension = apollo.views.Extension
		name = name + "." + extension
	}
	return filepath.Join(apollo.views.Dir, filepath.FromSlash(name)), extension
}

// RenderView renders the view `name` with the specified options and returns the resulting
// document. If a fallback language is configured, the active language is available to the
// view as the "lang" option unless options already contain it.
func (apollo *Apollo) RenderView(name string, options core.Options) (string, error) {
	filePath, extension := apollo.ViewPath(name)
	engine, ok := apollo.views.engine(extension)
	if !ok {
		return "", fmt.Errorf("cannot render view %q: %w %q", name, core.ErrNoEngine, extension)
	}

	if len(apollo.Cfg.App.FallbackLang) > 0 && options.Get("lang") == nil {
		options = options.Merge(core.Options{"lang": Language(apollo.Context())})
	}

	apollo.LogString("view", filePath)
	html, err := engine(apollo.Context(), filePath, options)
	if err != nil {
		return "", fmt.Errorf("cannot render view %q: %w", name, err)
	}
	return html, nil
}

// View renders the view `name` with the specified options in the response body.
//
// # Example:
//
//	return apollo.View("blog/post", core.Options{"title": post.Title, "body": post.Body})
func (apollo *Apollo) View(name string, options core.Options) error {
	html, err := apollo.RenderView(name, options)
	if err != nil {
		return err
	}
	apollo.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = io.WriteString(apollo.Writer, html)
	return err
}

// RenderPage renders page in the response body. Regular requests get the page inside the
// default layout, HTMX requests only get the page itself.
func (apollo *Apollo) RenderPage(
	page templ.Component,
) error {
	ctx := apollo.Context()
	comp := page
	if apollo.GetHeader("hx-request") != "true" {
		ctx = templ.WithChildren(ctx, page)
		comp = apollo.layout
	}
	return comp.Render(ctx, apollo.Writer)
}
