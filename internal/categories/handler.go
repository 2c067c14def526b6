package categories

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/gestion-taches/internal/models"
	"github.com/ayush/gestion-taches/internal/respond"
	"github.com/ayush/gestion-taches/internal/store"
	"github.com/ayush/gestion-taches/internal/validation"
)

// Store defines the category persistence the handlers need.
type Store interface {
	Create(ctx context.Context, c models.Category) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error)
	SetIcon(ctx context.Context, id primitive.ObjectID, key string) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
}

// TaskLister expands a list of task ids.
type TaskLister interface {
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.TaskView, error)
}

// IconStore defines the object storage used for category icons.
type IconStore interface {
	Put(ctx context.Context, categoryID primitive.ObjectID, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
}

const (
	notFound     = "category not found"
	maxIconBytes = 2 << 20
)

// Handler holds the /api/categories handlers.
type Handler struct {
	categories Store
	tasks      TaskLister
	icons      IconStore
	validate   *validation.Validator
	rp         *respond.Responder
}

// NewHandler builds the handler. icons may be nil when no object storage is
// configured; the icon routes are then not mounted.
func NewHandler(categories Store, tasks TaskLister, icons IconStore, v *validation.Validator, rp *respond.Responder) *Handler {
	return &Handler{categories: categories, tasks: tasks, icons: icons, validate: v, rp: rp}
}

// HasIcons reports whether icon upload and download are available.
func (h *Handler) HasIcons() bool { return h.icons != nil }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if !h.rp.Bind(w, r, h.validate, &in) {
		return
	}
	c, err := in.Category()
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	created, err := h.categories.Create(r.Context(), c)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	if list == nil {
		list = []models.Category{}
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	var patch models.CategoryPatch
	if !h.rp.Bind(w, r, h.validate, &patch) {
		return
	}
	c, err := h.categories.Update(r.Context(), id, patch)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// Delete removes the category and its icon object. Tasks referencing it are
// left in place.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	if h.icons != nil && c.Icone != "" {
		if err := h.icons.Remove(r.Context(), c.Icone); err != nil {
			h.rp.Warn(r, err, "remove category icon")
		}
	}
	respond.Message(w, http.StatusOK, "category deleted")
}

// Tasks expands the category's denormalized task list. It is not a live
// query on the tasks' own category references and may be stale.
func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	views, err := h.tasks.ListByIDs(r.Context(), c.Taches)
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, views)
}

// UploadIcon stores the raw request body as the category's icon.
func (h *Handler) UploadIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respond.Message(w, http.StatusBadRequest, "icon must be an image")
		return
	}
	if r.ContentLength > maxIconBytes {
		respond.Message(w, http.StatusRequestEntityTooLarge, "icon too large")
		return
	}
	if _, err := h.categories.Get(r.Context(), id); err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxIconBytes)
	key, err := h.icons.Put(r.Context(), id, body, r.ContentLength, contentType)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Message(w, http.StatusRequestEntityTooLarge, "icon too large")
		return
	}
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	c, err := h.categories.SetIcon(r.Context(), id, key)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// Icon streams the category's icon.
func (h *Handler) Icon(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	if c.Icone == "" {
		respond.Message(w, http.StatusNotFound, "icon not found")
		return
	}

	obj, contentType, err := h.icons.Get(r.Context(), c.Icone)
	if errors.Is(err, store.ErrNotFound) {
		respond.Message(w, http.StatusNotFound, "icon not found")
		return
	}
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, obj)
}
