package middleware

import (
	"net/http"
)

// matchOrigin reports whether origin is allowed and whether it was listed
// explicitly rather than matched by the "*" wildcard
func matchOrigin(origin string, allowedOrigins []string) (allowed, explicit bool) {
	for _, candidate := range allowedOrigins {
		if candidate == origin {
			return true, true
		}
		if candidate == "*" {
			allowed = true
		}
	}
	return allowed, false
}

// CORSMiddleware adds CORS headers for the configured origins. The session
// travels in a cookie, so explicitly listed origins are echoed with
// credentials allowed. The "*" wildcard never carries credentials.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				switch allowed, explicit := matchOrigin(origin, allowedOrigins); {
				case explicit:
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Add("Vary", "Origin")
				case allowed:
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
