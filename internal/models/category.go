package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a document in the categories collection. Taches is a
// denormalized list of task ids kept for display; the task documents'
// categories field is the source of truth.
type Category struct {
	ID               primitive.ObjectID   `json:"_id"              bson:"_id,omitempty"`
	Nom              string               `json:"nom"              bson:"nom"`
	Description      string               `json:"description"      bson:"description,omitempty"`
	Icone            string               `json:"icone,omitempty"  bson:"icone,omitempty"`
	DateCreation     time.Time            `json:"dateCreation"     bson:"dateCreation"`
	DateModification *time.Time           `json:"dateModification" bson:"dateModification,omitempty"`
	Taches           []primitive.ObjectID `json:"taches"           bson:"taches"`
}

// CategoryInput is the JSON body for POST /api/categories.
type CategoryInput struct {
	Nom         string   `json:"nom"         validate:"required,min=3,max=30"`
	Description string   `json:"description" validate:"max=255"`
	Icone       string   `json:"icone"`
	Taches      []string `json:"taches"      validate:"omitempty,dive,objectid"`
}

// Category converts a validated input into a new document.
func (in CategoryInput) Category() (Category, error) {
	taches, err := ObjectIDs(in.Taches)
	if err != nil {
		return Category{}, err
	}
	return Category{
		Nom:         in.Nom,
		Description: in.Description,
		Icone:       in.Icone,
		Taches:      taches,
	}, nil
}

// CategoryPatch is the JSON body for PUT /api/categories/{id}.
type CategoryPatch struct {
	Nom         *string `json:"nom"         validate:"omitempty,min=3,max=30"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Icone       *string `json:"icone"`
}
