package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
)

// Identity headers set by the API gateway in front of this service.
const (
	headerUserID = "X-User-Id"
	headerOrgID  = "X-Org-Id"
	headerAPIKey = "X-API-Key"
)

// LoggerMiddleware adds a structured logger to the request context.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default().With(
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		ctx := contextutil.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORS adds CORS headers to allow cross-origin requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-User-Id, X-Org-Id")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKeyAuth validates the X-API-Key header against the configured key.
// An empty configured key disables the check, for local development.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.Header.Get(headerAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				logger := contextutil.LoggerFromContext(r.Context())
				logger.WarnContext(r.Context(), "rejected request with invalid api key")
				http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Identity resolves the caller's user and org from the gateway headers and
// stores them in the request context. Requests without both headers are
// rejected before reaching a handler.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(headerUserID)
		orgID := r.Header.Get(headerOrgID)
		if userID == "" || orgID == "" {
			logger := contextutil.LoggerFromContext(r.Context())
			logger.WarnContext(r.Context(), "rejected request without identity headers")
			http.Error(w, "Missing X-User-Id or X-Org-Id header", http.StatusUnauthorized)
			return
		}
		ctx := contextutil.WithIdentity(r.Context(), contextutil.Identity{
			UserID: userID,
			OrgID:  orgID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
