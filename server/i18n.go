package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/invopop/ctxi18n"
	"github.com/invopop/ctxi18n/i18n"
)

// WithI18n loads the language bundles in locales and makes the configured fallback language
// the default locale. It panics if no fallback language is configured or if locales has no
// bundle for it.
func (server *Server[state]) WithI18n(locales fs.FS) *Server[state] {
	lang := i18n.Code(server.cfg.App.FallbackLang)
	if len(lang) == 0 {
		panic("You need to set a fallbacklang in the project config before calling WithI18n!")
	}
	if err := ctxi18n.LoadWithDefault(locales, lang); err != nil {
		panic(err)
	}
	ctxi18n.DefaultLocale = lang

	return server
}

// DetectLanguage is middleware that picks the request language from the Accept-Language
// header, falling back to the default locale set by [Server.WithI18n].
// It only fails if no bundle is loaded for the fallback language.
func DetectLanguage[state any](apollo *Apollo, _ state) (context.Context, error) {
	if len(apollo.Cfg.App.FallbackLang) == 0 {
		return apollo.Context(), nil
	}

	ctx, err := ctxi18n.WithLocale(apollo.Context(), apollo.GetHeader("Accept-Language"))
	if err != nil {
		if errors.Is(err, ctxi18n.ErrMissingLocale) {
			err = fmt.Errorf(
				"no language bundle found for the fallback language %q: %w",
				apollo.Cfg.App.FallbackLang,
				err,
			)
		}
		return apollo.Context(), err
	}

	apollo.LogField("lang", slog.StringValue(Language(ctx)))
	return ctx, nil
}

// Language returns the code of the active language, or the empty string if no language
// was detected.
func Language(ctx context.Context) string {
	locale := ctxi18n.Locale(ctx)
	if locale == nil {
		return ""
	}
	return string(locale.Code())
}
