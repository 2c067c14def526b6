package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Task is a document in the taches collection as stored.
type Task struct {
	ID               primitive.ObjectID   `json:"_id"              bson:"_id,omitempty"`
	Titre            string               `json:"titre"            bson:"titre"`
	Description      string               `json:"description"      bson:"description,omitempty"`
	DateEcheance     time.Time            `json:"dateEcheance"     bson:"dateEcheance"`
	Priorite         Priority             `json:"priorite"         bson:"priorite"`
	Statut           Status               `json:"statut"           bson:"statut"`
	Utilisateur      primitive.ObjectID   `json:"utilisateur"      bson:"utilisateur"`
	Categories       []primitive.ObjectID `json:"categories"       bson:"categories"`
	DateCreation     time.Time            `json:"dateCreation"     bson:"dateCreation"`
	DateModification *time.Time           `json:"dateModification" bson:"dateModification,omitempty"`
}

// TaskView is a task with its owner and categories expanded. Utilisateur is
// nil when the owner no longer exists.
type TaskView struct {
	ID               primitive.ObjectID `json:"_id"              bson:"_id"`
	Titre            string             `json:"titre"            bson:"titre"`
	Description      string             `json:"description"      bson:"description,omitempty"`
	DateEcheance     time.Time          `json:"dateEcheance"     bson:"dateEcheance"`
	Priorite         Priority           `json:"priorite"         bson:"priorite"`
	Statut           Status             `json:"statut"           bson:"statut"`
	Utilisateur      *User              `json:"utilisateur"      bson:"utilisateur,omitempty"`
	Categories       []Category         `json:"categories"       bson:"categories"`
	DateCreation     time.Time          `json:"dateCreation"     bson:"dateCreation"`
	DateModification *time.Time         `json:"dateModification" bson:"dateModification,omitempty"`
}

// TaskInput is the JSON body for POST /api/taches.
type TaskInput struct {
	Titre        string   `json:"titre"        validate:"required,min=3,max=100"`
	Description  string   `json:"description"  validate:"max=500"`
	DateEcheance string   `json:"dateEcheance" validate:"required,isodate,notpast"`
	Priorite     string   `json:"priorite"     validate:"omitempty,oneof=low medium high"`
	Statut       string   `json:"statut"       validate:"omitempty,oneof=todo in-progress done"`
	Utilisateur  string   `json:"utilisateur"  validate:"required,objectid"`
	Categories   []string `json:"categories"   validate:"omitempty,dive,objectid"`
}

// Task converts a validated input into a new document, applying the
// priority and status defaults.
func (in TaskInput) Task() (Task, error) {
	due, err := ParseDate(in.DateEcheance)
	if err != nil {
		return Task{}, err
	}
	owner, err := primitive.ObjectIDFromHex(in.Utilisateur)
	if err != nil {
		return Task{}, err
	}
	categories, err := ObjectIDs(in.Categories)
	if err != nil {
		return Task{}, err
	}

	t := Task{
		Titre:        in.Titre,
		Description:  in.Description,
		DateEcheance: due,
		Priorite:     Priority(in.Priorite),
		Statut:       Status(in.Statut),
		Utilisateur:  owner,
		Categories:   categories,
	}
	if t.Priorite == "" {
		t.Priorite = PriorityMedium
	}
	if t.Statut == "" {
		t.Statut = StatusTodo
	}
	return t, nil
}

// TaskPatchRequest is the JSON body for PUT /api/taches/{id}.
type TaskPatchRequest struct {
	Titre        *string   `json:"titre"        validate:"omitempty,min=3,max=100"`
	Description  *string   `json:"description"  validate:"omitempty,max=500"`
	DateEcheance *string   `json:"dateEcheance" validate:"omitempty,isodate"`
	Priorite     *string   `json:"priorite"     validate:"omitempty,oneof=low medium high"`
	Statut       *string   `json:"statut"       validate:"omitempty,oneof=todo in-progress done"`
	Utilisateur  *string   `json:"utilisateur"  validate:"omitempty,objectid"`
	Categories   *[]string `json:"categories"   validate:"omitempty,dive,objectid"`
}

// TaskPatch is the typed set of fields a partial update changes.
type TaskPatch struct {
	Titre        *string
	Description  *string
	DateEcheance *time.Time
	Priorite     *Priority
	Statut       *Status
	Utilisateur  *primitive.ObjectID
	Categories   *[]primitive.ObjectID
}

// Patch converts a validated request into a TaskPatch.
func (p TaskPatchRequest) Patch() (TaskPatch, error) {
	out := TaskPatch{Titre: p.Titre, Description: p.Description}
	if p.DateEcheance != nil {
		due, err := ParseDate(*p.DateEcheance)
		if err != nil {
			return TaskPatch{}, err
		}
		out.DateEcheance = &due
	}
	if p.Priorite != nil {
		v := Priority(*p.Priorite)
		out.Priorite = &v
	}
	if p.Statut != nil {
		v := Status(*p.Statut)
		out.Statut = &v
	}
	if p.Utilisateur != nil {
		id, err := primitive.ObjectIDFromHex(*p.Utilisateur)
		if err != nil {
			return TaskPatch{}, err
		}
		out.Utilisateur = &id
	}
	if p.Categories != nil {
		ids, err := ObjectIDs(*p.Categories)
		if err != nil {
			return TaskPatch{}, err
		}
		out.Categories = &ids
	}
	return out, nil
}

// TaskListParams are the query parameters of GET /api/taches.
type TaskListParams struct {
	Page      int64  `json:"page"     validate:"min=1,max=92233720368547758"`
	Limit     int64  `json:"limit"    validate:"min=1,max=100"`
	Statut    string `json:"statut"   validate:"omitempty,oneof=todo in-progress done"`
	Priorite  string `json:"priorite" validate:"omitempty,oneof=low medium high"`
	SortField string `json:"sort"     validate:"omitempty,oneof=titre dateEcheance priorite statut dateCreation dateModification"`
	SortDesc  bool   `json:"-"`
}

// TaskQuery is what the task store needs to run a filtered, paged listing.
type TaskQuery struct {
	Statut      Status
	Priorite    Priority
	Utilisateur *primitive.ObjectID
	SortField   string
	SortDesc    bool
	Page        Page
}

// Query converts validated params into a store query. An empty sort field
// means newest first.
func (p TaskListParams) Query() TaskQuery {
	q := TaskQuery{
		Statut:    Status(p.Statut),
		Priorite:  Priority(p.Priorite),
		SortField: p.SortField,
		SortDesc:  p.SortDesc,
		Page:      Page{Number: p.Page, Limit: p.Limit},
	}
	if q.SortField == "" {
		q.SortField = "dateCreation"
		q.SortDesc = true
	}
	return q
}
