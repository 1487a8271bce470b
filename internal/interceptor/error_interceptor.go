package interceptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jt828/perf-metrics/pkg/apperror"
	"github.com/jt828/perf-metrics/pkg/idempotency"
	"github.com/jt828/perf-metrics/pkg/observability"
)

// HandlerFunc is an HTTP handler that reports failures as errors instead of
// writing them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorInterceptor turns a HandlerFunc into an http.HandlerFunc. Application
// errors map to 4xx responses carrying the error text; anything else,
// including a panic, is logged and answered with a bare 500.
func ErrorInterceptor(log observability.Logger) func(HandlerFunc) http.HandlerFunc {
	return func(next HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						observability.String("panic", fmt.Sprintf("%v", rec)),
						observability.String("method", r.Method),
						observability.String("path", r.URL.Path),
					)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			err := next(w, r)
			if err == nil {
				return
			}

			switch {
			case errors.Is(err, apperror.ErrNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, apperror.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, idempotency.ErrRequestTypeMismatch):
				writeError(w, http.StatusConflict, err.Error())
			default:
				log.Error("unhandled error",
					observability.Err(err),
					observability.String("method", r.Method),
					observability.String("path", r.URL.Path),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
