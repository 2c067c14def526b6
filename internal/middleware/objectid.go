package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/gestion-taches/internal/respond"
	"github.com/ayush/gestion-taches/internal/validation"
)

// ObjectID rejects the request with 400 unless the named URL parameter is a
// well-formed id. Nothing downstream runs for a malformed id.
func ObjectID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validation.IsObjectID(chi.URLParam(r, param)) {
				respond.Message(w, http.StatusBadRequest, "invalid id")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
