package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"ms-storefront/internal/apperror"
	"ms-storefront/internal/logger"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps err to its HTTP status. Internal causes are logged, never
// returned to the client.
func WriteError(w http.ResponseWriter, l *logger.Logger, category string, err error, fallback string) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError && l != nil {
		l.Error(category, fmt.Sprintf("%s: %v", fallback, err))
	}
	WriteJSON(w, status, ErrorBody{Error: apperror.PublicMessage(err, fallback)})
}

// DecodeJSON reads a JSON request body into dst. Malformed bodies are
// reported as invalid arguments.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.InvalidArgument("request body is required")
		}
		return apperror.InvalidArgument("invalid request body")
	}
	return nil
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.LogAPI(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
