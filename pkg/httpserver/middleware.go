package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// requestIDFromUUID overrides chi's default incrementing-counter request id
// (process-local, resets on restart) with a UUIDv4 in the response header,
// so request ids stay unique across the process restarts a long-running
// scanner deployment inevitably sees.
func requestIDFromUUID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
