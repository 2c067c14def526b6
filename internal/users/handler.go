package users

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/gestion-taches/internal/models"
	"github.com/ayush/gestion-taches/internal/respond"
	"github.com/ayush/gestion-taches/internal/validation"
)

// Store defines the user persistence the handlers need. Implementations
// never return the password hash.
type Store interface {
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const notFound = "user not found"

// Handler holds the /api/utilisateurs handlers.
type Handler struct {
	users    Store
	validate *validation.Validator
	rp       *respond.Responder
}

func NewHandler(users Store, v *validation.Validator, rp *respond.Responder) *Handler {
	return &Handler{users: users, validate: v, rp: rp}
}

// Create registers a new user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if !h.rp.Bind(w, r, h.validate, &in) {
		return
	}
	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusCreated, user)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respond.JSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// Update merges the name, email and password fields present in the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	var patch models.UserPatch
	if !h.rp.Bind(w, r, h.validate, &patch) {
		return
	}
	user, err := h.users.Update(r.Context(), id, patch)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// Delete removes the user. Tasks owned by the user are left in place.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.Message(w, http.StatusOK, "user deleted")
}
