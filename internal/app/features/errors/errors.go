// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/inputval"
	"github.com/dalemusser/guildhub/internal/app/system/reqlog"
	"go.uber.org/zap"
)

// ErrorLogger writes JSON error responses and logs the cause with the
// request's context. Users see userMsg; the log gets msg and err.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (el *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if g := authz.GuildID(r); g != "" {
		fs = append(fs, zap.String("guild_id", g))
	}
	if id, _, ok := authz.UserCtx(r); ok {
		fs = append(fs, zap.String("user_id", id))
	}
	return fs
}

// LogServerError logs at error level and answers 500. Nothing is retried;
// the user is asked to try again.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	reqlog.From(r, el.log).Error(msg, el.fields(r, err)...)
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	httpjson.Error(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at info level and answers 400. Validation errors are
// returned field by field.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	reqlog.From(r, el.log).Info(msg, el.fields(r, err)...)

	var verrs *inputval.Errors
	if stderrors.As(err, &verrs) {
		if userMsg == "" {
			userMsg = "Please correct the highlighted fields."
		}
		httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorBody{Error: userMsg, Fields: verrs.Fields})
		return
	}
	if userMsg == "" {
		userMsg = err.Error()
	}
	httpjson.Error(w, http.StatusBadRequest, userMsg)
}

// NotFound answers 404.
func NotFound(w http.ResponseWriter, what string) {
	httpjson.Error(w, http.StatusNotFound, what+" not found")
}

// Conflict answers 409 with msg.
func Conflict(w http.ResponseWriter, msg string) {
	httpjson.Error(w, http.StatusConflict, msg)
}
