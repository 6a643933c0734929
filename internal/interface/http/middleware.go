package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// userHeader carries the authenticated user ID, injected by the upstream
// gateway after it validates the session token.
const userHeader = "X-User-ID"

// requestIDHeader propagates the request ID to clients and logs.
const requestIDHeader = "X-Request-ID"

type middleware func(http.Handler) http.Handler

// chain wraps h with middlewares; the first listed runs outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type userKey struct{}

// requireUser rejects requests without an authenticated user ID and stores
// the ID in the request context.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(userHeader)
		if id == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + userHeader + " header"})
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, shared.UserID(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the authenticated user ID placed by requireUser.
func userFrom(r *http.Request) shared.UserID {
	if id, ok := r.Context().Value(userKey{}).(shared.UserID); ok {
		return id
	}
	return ""
}

// withRequestID assigns a request ID when the gateway did not.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs one structured line per request.
func logRequests(log *logger.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info("request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", rec.status),
				logger.Latency(time.Since(started)),
				logger.String("request_id", w.Header().Get(requestIDHeader)),
			)
		})
	}
}

// recoverPanics converts handler panics into 500s instead of dropped
// connections.
func recoverPanics(log *logger.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("handler panic",
						logger.String("path", r.URL.Path),
						logger.Any("panic", rec),
					)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
