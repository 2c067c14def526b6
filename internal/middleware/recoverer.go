package middleware

import (
	"fmt"
	"net/http"

	"github.com/ayush/gestion-taches/internal/respond"
)

// Recoverer turns a panic into the generic 500 JSON body.
func Recoverer(rp *respond.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rp.Unexpected(w, r, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
