package middleware

import (
	"net/http"
	"strings"

	"github.com/clipstream/backend/internal/auth"
)

// SessionCookie is the fallback cookie checked when no bearer token is sent.
const SessionCookie = "clipstream_session"

// SessionResolver validates a session token and extracts its identity.
type SessionResolver interface {
	Resolve(token string) (auth.Identity, bool)
}

// Session resolves the request's session token, if any, and stores the
// identity on the context. An absent or invalid token is not an error here:
// the request continues unauthenticated and protected handlers fail closed.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver != nil {
				if token := sessionToken(r); token != "" {
					if identity, ok := resolver.Resolve(token); ok {
						r = r.WithContext(auth.WithIdentity(r.Context(), identity))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
