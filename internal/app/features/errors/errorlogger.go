// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and renders the matching error page
// so handlers can bail out with one call.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// ServerError logs err and shows a generic failure page. The message
// shown to the user never includes err.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	RenderForbidden(w, r, "Une erreur est survenue. Veuillez réessayer.", "")
}

// BadRequest logs err at warn level and shows an access error page.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Warn(msg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	w.WriteHeader(http.StatusBadRequest)
	RenderForbidden(w, r, "Requête invalide.", "")
}
