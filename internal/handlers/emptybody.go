package handlers

import (
	"bufio"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const createPath = "/api/shorturl"

// CreateBodyGuard answers a body-less POST /api/shorturl with the usual
// {"error":"invalid url"} reply. huma rejects an empty raw body with a 400
// before the operation runs, so the check has to happen at the router.
// Must be installed on the router before the routes are registered.
func CreateBodyGuard(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != createPath || !emptyBody(r) {
				next.ServeHTTP(w, r)

				return
			}

			logger.Info("invalid url", zap.String("reason", "empty request body"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)

			if err := writeJSON(w, &ErrorBody{Error: msgInvalidURL}); err != nil {
				logger.Warn("failed to write response body", zap.String("path", r.URL.Path), zap.Error(err))
			}
		})
	}
}

// emptyBody reports whether r has no body. A non-empty body stays readable
// from the start.
func emptyBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}

	buffered := bufio.NewReader(r.Body)
	_, err := buffered.Peek(1)

	r.Body = struct {
		io.Reader
		io.Closer
	}{buffered, r.Body}

	return errors.Is(err, io.EOF)
}
