package middleware

import (
	"context"
	"net/http"
	"strings"

	"task-manager/backend/logging"
	"task-manager/backend/services"
	"task-manager/backend/utils"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Authenticate validates the auth token from the cookie or the
// Authorization header and stores the caller identity in the request
// context. Requests without a valid token are rejected with 401 before any
// role check runs.
func Authenticate(jwtService *services.JWTService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := tokenFromRequest(r)
		if tokenStr == "" {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_TOKEN, Description: No auth token for request to %s %s", r.Method, r.URL.Path)
			utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
			return
		}

		claims, err := jwtService.ValidateAuthToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
			return
		}

		caller := services.Caller{ID: claims.UserID, Role: claims.Role}
		ctx := context.WithValue(r.Context(), callerContextKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a handler on the caller's role. An empty list allows
// any authenticated caller.
func RequireRole(roles []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "User not authorized")
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if caller.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				logging.Logger.Warnf("Event ID: AUTH_ROLE_DENIED, Description: Role %q denied for request to %s %s", caller.Role, r.Method, r.URL.Path)
				utils.RespondError(w, http.StatusForbidden, "Access denied")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// CallerFromContext returns the authenticated caller stored by
// Authenticate.
func CallerFromContext(ctx context.Context) (services.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(services.Caller)
	return caller, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const bearerPrefix = "Bearer "
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, bearerPrefix)
}

// EnableCORS handles preflight requests and sets the response headers the
// browser frontend needs.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
