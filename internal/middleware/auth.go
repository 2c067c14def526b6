package middleware

import (
	"context"
	"net/http"

	"github.com/ayush/gestion-taches/internal/auth"
	"github.com/ayush/gestion-taches/internal/respond"
)

// SessionLookup resolves a session id to a user id ("" when unknown).
type SessionLookup interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

// RequireSession validates the session cookie and injects the user id into
// the request context.
func RequireSession(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				respond.Message(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || userID == "" {
				respond.Message(w, http.StatusUnauthorized, "session expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
