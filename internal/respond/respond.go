// Package respond shapes JSON responses and maps error kinds onto HTTP
// statuses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ayush/gestion-taches/internal/logger"
	"github.com/ayush/gestion-taches/internal/store"
	"github.com/ayush/gestion-taches/internal/validation"
)

const maxBodyBytes = 1 << 20

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

type validationBody struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

// Responder carries what error responses need: a logger for unexpected
// failures and whether their detail may reach the client.
type Responder struct {
	log    *logrus.Logger
	expose bool
}

func New(log *logrus.Logger, exposeErrors bool) *Responder {
	return &Responder{log: log, expose: exposeErrors}
}

// Decode reads a JSON body into dst, answering 400 when it is malformed.
func (rp *Responder) Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		Message(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Bind decodes and validates a body. On failure the response is already
// written.
func (rp *Responder) Bind(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) bool {
	if !rp.Decode(w, r, dst) {
		return false
	}
	if errs := v.Struct(dst); errs != nil {
		rp.Error(w, r, errs, "")
		return false
	}
	return true
}

// Error maps err onto a status: validation 400, not found 404 with
// notFoundMsg, conflict 409, anything else 500.
func (rp *Responder) Error(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verrs validation.Errors
	var conflict *store.ConflictError
	switch {
	case errors.As(err, &verrs):
		JSON(w, http.StatusBadRequest, validationBody{Message: "validation failed", Errors: verrs})
	case errors.Is(err, store.ErrNotFound):
		Message(w, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &conflict):
		Message(w, http.StatusConflict, conflict.Message)
	case errors.Is(err, store.ErrConflict):
		Message(w, http.StatusConflict, "conflict")
	default:
		rp.Unexpected(w, r, err)
	}
}

// Warn logs a failure that does not change the response.
func (rp *Responder) Warn(r *http.Request, err error, msg string) {
	logger.WithRequestID(rp.log, chimw.GetReqID(r.Context())).
		WithError(err).
		WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).
		Warn(msg)
}

// Unexpected logs err and answers with a generic 500. The detail is only
// included when the responder exposes errors.
func (rp *Responder) Unexpected(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithRequestID(rp.log, chimw.GetReqID(r.Context())).
		WithError(err).
		WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).
		Error("unexpected error")

	body := map[string]string{"message": "internal server error"}
	if rp.expose && err != nil {
		body["error"] = err.Error()
	}
	JSON(w, http.StatusInternalServerError, body)
}
