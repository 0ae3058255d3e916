package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
	"github.com/mcoot/backlogbingo/internal/middleware"
)

// Recovery creates panic recovery middleware that answers with a JSON error
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
