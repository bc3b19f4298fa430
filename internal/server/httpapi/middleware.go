package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/auth"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware verifies the bearer token and stores the actor on the
// request context. Requests without a valid token never reach the handlers.
func AuthMiddleware(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				Unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				Unauthorized(w, "invalid authorization header format")
				return
			}

			actor, err := auth.ActorFromToken(parts[1], jwtSecret)
			if err != nil {
				Unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor returns the authenticated actor, or nil outside the auth
// middleware.
func GetActor(r *http.Request) *auth.Actor {
	actor, ok := r.Context().Value(actorKey).(*auth.Actor)
	if !ok {
		return nil
	}
	return actor
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// LoggerMiddleware logs one structured line per request.
func LoggerMiddleware(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			actorID := "anonymous"
			if actor := GetActor(r); actor != nil {
				actorID = actor.ID
			}

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"duration", time.Since(start).String(),
				"actor", actorID,
			)
		})
	}
}
