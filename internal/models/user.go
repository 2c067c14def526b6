package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the utilisateurs collection. MotDePasse only ever
// holds the bcrypt hash and is never serialized to JSON.
type User struct {
	ID               primitive.ObjectID `json:"_id"              bson:"_id,omitempty"`
	Nom              string             `json:"nom"              bson:"nom"`
	Email            string             `json:"email"            bson:"email"`
	MotDePasse       string             `json:"-"                bson:"motDePasse,omitempty"`
	DateCreation     time.Time          `json:"dateCreation"     bson:"dateCreation"`
	DernierConnexion *time.Time         `json:"dernierConnexion" bson:"dernierConnexion,omitempty"`
}

// UserInput is the JSON body for POST /api/utilisateurs.
type UserInput struct {
	Nom        string `json:"nom"        validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	MotDePasse string `json:"motDePasse" validate:"required,min=6,alphanum"`
}

// UserPatch is the JSON body for PUT /api/utilisateurs/{id}. Nil fields are
// left untouched.
type UserPatch struct {
	Nom        *string `json:"nom"        validate:"omitempty,min=1"`
	Email      *string `json:"email"      validate:"omitempty,email"`
	MotDePasse *string `json:"motDePasse" validate:"omitempty,min=6,alphanum"`
}

// Empty reports whether the patch carries no field at all.
func (p UserPatch) Empty() bool {
	return p.Nom == nil && p.Email == nil && p.MotDePasse == nil
}

// LoginRequest is the JSON body for POST /api/utilisateurs/connexion.
type LoginRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	MotDePasse string `json:"motDePasse" validate:"required"`
}
