package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/gestion-taches/internal/models"
)

var fixedNow = time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewWithClock(func() time.Time { return fixedNow })
}

func fields(errs Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}

func strPtr(s string) *string { return &s }

const (
	validOwner    = "64b7f0c2a1b2c3d4e5f60718"
	validCategory = "64b7f0c2a1b2c3d4e5f60719"
)

func TestIsObjectID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{validOwner, true},
		{"64B7F0C2A1B2C3D4E5F60718", true},
		{"64b7f0c2a1b2c3d4e5f6071", false},
		{"64b7f0c2a1b2c3d4e5f607180", false},
		{"zzb7f0c2a1b2c3d4e5f60718", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsObjectID(tt.in), tt.in)
	}
}

func TestTaskInput_ReportsAllViolations(t *testing.T) {
	v := newTestValidator()
	errs := v.Struct(models.TaskInput{
		DateEcheance: "2030-01-01",
		Utilisateur:  validOwner,
		Categories:   []string{validCategory, "not-an-id"},
	})

	require.Len(t, errs, 2)
	got := fields(errs)
	assert.Equal(t, "is required", got["titre"])
	assert.Equal(t, "must be a valid id", got["categories[1]"])
}

func TestTaskInput_DueDateInPast(t *testing.T) {
	v := newTestValidator()
	errs := v.Struct(models.TaskInput{
		Titre:        "Pay rent",
		DateEcheance: "2026-10-16",
		Utilisateur:  validOwner,
	})

	require.Len(t, errs, 1)
	assert.Equal(t, "dateEcheance", errs[0].Field)
	assert.Equal(t, "must not be in the past", errs[0].Message)
}

func TestTaskInput_TodayIsAllowed(t *testing.T) {
	v := newTestValidator()
	errs := v.Struct(models.TaskInput{
		Titre:        "Pay rent",
		DateEcheance: "2026-10-17",
		Utilisateur:  validOwner,
	})
	assert.Nil(t, errs)
}

func TestTaskInput_RangesAndEnums(t *testing.T) {
	v := newTestValidator()
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	errs := v.Struct(models.TaskInput{
		Titre:        "ab",
		Description:  string(long),
		DateEcheance: "tomorrow",
		Priorite:     "urgent",
		Statut:       "blocked",
		Utilisateur:  "123",
	})

	got := fields(errs)
	assert.Len(t, errs, 6)
	assert.Equal(t, "must be at least 3 characters", got["titre"])
	assert.Equal(t, "must be at most 500 characters", got["description"])
	assert.Equal(t, "must be a date (YYYY-MM-DD or RFC 3339)", got["dateEcheance"])
	assert.Equal(t, "must be one of: low, medium, high", got["priorite"])
	assert.Equal(t, "must be one of: todo, in-progress, done", got["statut"])
	assert.Equal(t, "must be a valid id", got["utilisateur"])
}

func TestTaskPatchRequest(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.Struct(models.TaskPatchRequest{Statut: strPtr("done")}))
	assert.Nil(t, v.Struct(models.TaskPatchRequest{}))

	errs := v.Struct(models.TaskPatchRequest{Titre: strPtr("ab"), Statut: strPtr("finished")})
	got := fields(errs)
	assert.Len(t, errs, 2)
	assert.Contains(t, got, "titre")
	assert.Contains(t, got, "statut")
}

func TestUserInput(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.Struct(models.UserInput{Nom: "Ana", Email: "ana@example.com", MotDePasse: "secret1"}))

	errs := v.Struct(models.UserInput{Email: "not-an-email", MotDePasse: "abc"})
	got := fields(errs)
	assert.Len(t, errs, 3)
	assert.Equal(t, "is required", got["nom"])
	assert.Equal(t, "must be a valid email address", got["email"])
	assert.Equal(t, "must be at least 6 characters", got["motDePasse"])

	errs = v.Struct(models.UserInput{Nom: "Ana", Email: "ana@example.com", MotDePasse: "secret!!"})
	require.Len(t, errs, 1)
	assert.Equal(t, "must contain only letters and digits", errs[0].Message)
}

func TestCategoryInput(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.Struct(models.CategoryInput{Nom: "Travail"}))

	errs := v.Struct(models.CategoryInput{Nom: "ab", Taches: []string{"nope"}})
	got := fields(errs)
	assert.Len(t, errs, 2)
	assert.Equal(t, "must be at least 3 characters", got["nom"])
	assert.Equal(t, "must be a valid id", got["taches[0]"])

	errs = v.Struct(models.CategoryPatch{Nom: strPtr("this name is definitely longer than thirty")})
	require.Len(t, errs, 1)
	assert.Equal(t, "nom", errs[0].Field)
}

func TestTaskListParams(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.Struct(models.TaskListParams{Page: 2, Limit: 5, Statut: "todo", SortField: "dateEcheance"}))

	errs := v.Struct(models.TaskListParams{Page: 0, Limit: 500, SortField: "motDePasse"})
	got := fields(errs)
	assert.Len(t, errs, 3)
	assert.Equal(t, "must be at least 1", got["page"])
	assert.Equal(t, "must be at most 100", got["limit"])
	assert.Contains(t, got, "sort")
}

func TestTaskListParams_PageBounds(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		page    int64
		wantErr bool
	}{
		{"first page", 1, false},
		{"last page whose skip fits", models.MaxPage, false},
		{"one past the last page", models.MaxPage + 1, true},
		{"skip would overflow", 1_000_000_000_000_000_000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := models.TaskListParams{Page: tt.page, Limit: models.MaxLimit}
			errs := v.Struct(params)
			if tt.wantErr {
				assert.Contains(t, fields(errs), "page")
				return
			}
			assert.Nil(t, errs)
			assert.GreaterOrEqual(t, params.Query().Page.Skip(), int64(0))
		})
	}
}

func TestErrors_Error(t *testing.T) {
	e := Errors{{Field: "titre", Message: "is required"}, {Field: "statut", Message: "bad"}}
	assert.Equal(t, "validation failed: titre: is required; statut: bad", e.Error())
}
