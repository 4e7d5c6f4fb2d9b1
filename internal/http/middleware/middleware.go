package middleware

import (
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/pantry-tracker/internal/http/rate_limiter"
)

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

// AuthMiddleware reads the session cookie and puts the user id on the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(handlers.SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		claims, err := auth.ParseToken(cookie.Value, auth.PurposeSession)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

// RateLimitMiddleware answers 429 once a client IP exceeds its token bucket.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			writeMessage(w, http.StatusTooManyRequests, "Too many requests.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
