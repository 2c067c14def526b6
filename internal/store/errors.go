package store

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ConflictError is returned when a unique index rejects a write. It matches
// ErrConflict with errors.Is.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

const (
	msgEmailInUse    = "email already in use"
	msgCategoryInUse = "category name already in use"
)

// translate maps driver errors onto the store's error kinds. conflictMsg is
// empty for operations that cannot hit a unique index.
func translate(err error, op, conflictMsg string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case conflictMsg != "" && mongo.IsDuplicateKeyError(err):
		return &ConflictError{Message: conflictMsg}
	}
	return fmt.Errorf("%s: %w", op, err)
}
