package tasks

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/gestion-taches/internal/models"
	"github.com/ayush/gestion-taches/internal/respond"
	"github.com/ayush/gestion-taches/internal/validation"
)

// Store defines the task persistence the handlers need. Every returned task
// has its owner and categories expanded.
type Store interface {
	Create(ctx context.Context, t models.Task) (*models.TaskView, error)
	List(ctx context.Context, q models.TaskQuery) (*models.TaskPage, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, page models.Page) (*models.TaskPage, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.TaskView, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.TaskPatch) (*models.TaskView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const notFound = "task not found"

// Handler holds the /api/taches handlers.
type Handler struct {
	tasks    Store
	validate *validation.Validator
	rp       *respond.Responder
}

func NewHandler(tasks Store, v *validation.Validator, rp *respond.Responder) *Handler {
	return &Handler{tasks: tasks, validate: v, rp: rp}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if !h.rp.Bind(w, r, h.validate, &in) {
		return
	}
	task, err := in.Task()
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	view, err := h.tasks.Create(r.Context(), task)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusCreated, view)
}

// List serves ?page&limit&statut&priorite&sort.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := listParams(r.URL.Query())
	if errs := h.validate.Struct(params); errs != nil {
		h.rp.Error(w, r, errs, "")
		return
	}
	page, err := h.tasks.List(r.Context(), params.Query())
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

// ListByUser serves one user's tasks, newest first, with ?page&limit.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	params := models.TaskListParams{
		Page:  intParam(q.Get("page"), models.DefaultPage),
		Limit: intParam(q.Get("limit"), models.DefaultLimit),
	}
	if errs := h.validate.Struct(params); errs != nil {
		h.rp.Error(w, r, errs, "")
		return
	}
	page, err := h.tasks.ListByUser(r.Context(), userID, params.Query().Page)
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

// Update changes only the fields present in the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	var req models.TaskPatchRequest
	if !h.rp.Bind(w, r, h.validate, &req) {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.rp.Unexpected(w, r, err)
		return
	}
	view, err := h.tasks.Update(r.Context(), id, patch)
	if err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ParamID(w, r, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), id); err != nil {
		h.rp.Error(w, r, err, notFound)
		return
	}
	respond.Message(w, http.StatusOK, "task deleted")
}

func listParams(q url.Values) models.TaskListParams {
	p := models.TaskListParams{
		Page:     intParam(q.Get("page"), models.DefaultPage),
		Limit:    intParam(q.Get("limit"), models.DefaultLimit),
		Statut:   q.Get("statut"),
		Priorite: q.Get("priorite"),
	}
	p.SortField, p.SortDesc = parseSort(q.Get("sort"))
	return p
}

// intParam returns fallback for an absent value and 0 for a malformed one,
// which the min=1 rule then rejects.
func intParam(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseSort accepts "field", "-field", "field:asc" and "field:desc".
// Anything else, including an empty field, is returned whole so the field
// whitelist rejects it.
func parseSort(raw string) (string, bool) {
	if field, ok := strings.CutPrefix(raw, "-"); ok {
		if field == "" {
			return raw, false
		}
		return field, true
	}
	field, dir, found := strings.Cut(raw, ":")
	if !found || field == "" {
		return raw, false
	}
	switch strings.ToLower(dir) {
	case "desc":
		return field, true
	case "asc":
		return field, false
	}
	return raw, false
}
