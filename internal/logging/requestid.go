// Package logging carries request ids through contexts so that service-level
// log lines can be correlated with the access log of the request that caused them.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
)

type contextKey string

const requestIDKey contextKey = "requestId"

// HeaderRequestID is honored on inbound requests and echoed on responses.
const HeaderRequestID = "X-Request-ID"

// GenerateRequestID creates an 8-character hex request ID.
func GenerateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Prefix returns "[id] " for contexts that carry a request id, "" otherwise.
func Prefix(ctx context.Context) string {
	if id := GetRequestID(ctx); id != "" {
		return "[" + id + "] "
	}
	return ""
}

// Printf logs through the standard logger with the request id prefix.
func Printf(ctx context.Context, format string, args ...any) {
	log.Printf(Prefix(ctx)+format, args...)
}

// Middleware reuses the caller's X-Request-ID or generates one, stores it in
// the request context and echoes it back on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
