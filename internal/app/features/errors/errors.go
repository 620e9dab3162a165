// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and writes the JSON
// error envelope. The logged error is never sent to the client.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

// LogServerError logs at error level and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	apierr.Internal(w, userMsg)
}

// LogReconcile writes a reconcile error with its mapped status, logging the
// wrapped cause. Anything that is not a reconcile error becomes a 500.
func (e *ErrorLogger) LogReconcile(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if apierr.Reconcile(w, err) {
		e.Log.Warn(logMsg, e.fields(r, err)...)
		return
	}
	e.LogServerError(w, r, logMsg, err, "")
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apierr.NotFound(w, "no such endpoint")
}

// MethodNotAllowed is the router's fallback for a known path with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, http.StatusMethodNotAllowed, apierr.Detail{
		Kind:    apierr.KindMethod,
		Message: r.Method + " is not supported here",
	})
}
