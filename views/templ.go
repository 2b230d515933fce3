package views

import (
	"context"
	"errors"
	"strings"

	"github.com/a-h/templ"
	"github.com/prior-it/apollo-views/core"
)

// TemplateFunc builds a templ component for the specified view options.
type TemplateFunc func(options core.Options) templ.Component

// Templ turns templ components into a view component. The document should contain the
// [HeadPlaceholder] where the head will be inserted. Both head and css are optional.
func Templ(document TemplateFunc, head TemplateFunc, css string) core.Component {
	return core.ComponentFunc(func(ctx context.Context, options core.Options) (core.Rendered, error) {
		if document == nil {
			return core.Rendered{}, errors.New("templ view has no document")
		}

		var html strings.Builder
		if err := document(options).Render(ctx, &html); err != nil {
			return core.Rendered{}, err
		}

		var headHTML strings.Builder
		if head != nil {
			if err := head(options).Render(ctx, &headHTML); err != nil {
				return core.Rendered{}, err
			}
		}

		rendered := core.Rendered{
			HTML: html.String(),
			Head: headHTML.String(),
		}
		if len(css) > 0 {
			rendered.CSS = &core.CSS{Code: css}
		}
		return rendered, nil
	})
}
