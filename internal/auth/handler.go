package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/gestion-taches/internal/models"
	"github.com/ayush/gestion-taches/internal/respond"
	"github.com/ayush/gestion-taches/internal/store"
	"github.com/ayush/gestion-taches/internal/validation"
)

// UserStore is the slice of the user store the login flow needs.
type UserStore interface {
	Credentials(ctx context.Context, email string) (*models.User, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID) (time.Time, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Sessions creates, resolves and destroys login sessions.
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// PasswordMatcher checks a plaintext password against a stored hash.
type PasswordMatcher interface {
	Matches(hash, plain string) bool
}

// Handler holds the login, logout and current-user handlers.
type Handler struct {
	users     UserStore
	sessions  Sessions
	passwords PasswordMatcher
	validate  *validation.Validator
	rp        *respond.Responder
	secure    bool
}

func NewHandler(users UserStore, sessions Sessions, passwords PasswordMatcher, v *validation.Validator, rp *respond.Responder, secureCookies bool) *Handler {
	return &Handler{users: users, sessions: sessions, passwords: passwords, validate: v, rp: rp, secure: secureCookies}
}

// Login checks the credentials, records the login time and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.rp.Bind(w, r, h.validate, &req) {
		return
	}

	user, err := h.users.Credentials(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !h.passwords.Matches(user.MotDePasse, req.MotDePasse)) {
		respond.Message(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}

	at, err := h.users.TouchLogin(r.Context(), user.ID)
	if err != nil {
		h.rp.Error(w, r, err, "user not found")
		return
	}
	user.DernierConnexion = &at
	user.MotDePasse = ""

	sid, err := h.sessions.Create(r.Context(), user.ID.Hex())
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	respond.JSON(w, http.StatusOK, user)
}

// Logout destroys the current session, if any.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.rp.Unexpected(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	respond.Message(w, http.StatusOK, "logged out")
}

// Me returns the user of the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(UserIDFrom(r.Context()))
	if err != nil {
		respond.Message(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
