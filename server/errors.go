package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/prior-it/apollo-views/components"
	"github.com/prior-it/apollo-views/core"
)

// DefaultErrorHandler turns handler errors into an error response.
// In debug mode, the error message is shown on an HTML error page.
func DefaultErrorHandler(apollo *Apollo, err error) {
	code, msg := func() (int, string) {
		switch {
		// A view that cannot be found is a misconfiguration, not a missing page.
		case errors.Is(err, core.ErrLoad), errors.Is(err, core.ErrRender):
			return http.StatusInternalServerError, "internal server error"
		case errors.Is(err, core.ErrNotFound):
			return http.StatusNotFound, "not found"
		}
		return http.StatusInternalServerError, "internal server error"
	}()

	if code >= http.StatusInternalServerError {
		apollo.Error("Server error", "error", err)
	} else {
		apollo.Debug("Client error", "error", err, "status", code)
	}

	if apollo.IsDebug {
		apollo.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		apollo.Writer.WriteHeader(code)
		if err := components.ErrorPage(code, err.Error()).Render(apollo.Context(), apollo.Writer); err != nil {
			apollo.Error("Could not render error page", "error", err)
		}
		return
	}

	render.Status(apollo.Request, code)
	render.PlainText(apollo.Writer, apollo.Request, msg)
}
