package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/gestion-taches/internal/models"
)

// PasswordHasher is the one-way hashing primitive the user store writes
// through.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) bool
}

// UserStore handles user CRUD in MongoDB. Every read except Credentials
// projects the password hash away.
type UserStore struct {
	col    *mongo.Collection
	hasher PasswordHasher
	now    func() time.Time
}

func NewUserStore(db *mongo.Database, hasher PasswordHasher) *UserStore {
	return &UserStore{col: db.Collection(UsersCollection), hasher: hasher, now: now}
}

var withoutPassword = bson.M{"motDePasse": 0}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	hash, err := s.hasher.Hash(in.MotDePasse)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Nom:          in.Nom,
		Email:        normalizeEmail(in.Email),
		MotDePasse:   hash,
		DateCreation: s.now(),
	}
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		return nil, translate(err, "insert user", msgEmailInUse)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	u.MotDePasse = ""
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "dateCreation", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(withoutPassword)
	if err := s.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		return nil, translate(err, "find user", "")
	}
	return &u, nil
}

// Update merges the supplied fields. A supplied password is only re-hashed
// when it differs from the stored one.
func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	set := bson.M{}
	if patch.Nom != nil {
		set["nom"] = *patch.Nom
	}
	if patch.Email != nil {
		set["email"] = normalizeEmail(*patch.Email)
	}
	if patch.MotDePasse != nil {
		hash, changed, err := s.rehashIfChanged(ctx, id, *patch.MotDePasse)
		if err != nil {
			return nil, err
		}
		if changed {
			set["motDePasse"] = hash
		}
	}
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)
	var u models.User
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		return nil, translate(err, "update user", msgEmailInUse)
	}
	return &u, nil
}

func (s *UserStore) rehashIfChanged(ctx context.Context, id primitive.ObjectID, plain string) (string, bool, error) {
	var current struct {
		MotDePasse string `bson:"motDePasse"`
	}
	opts := options.FindOne().SetProjection(bson.M{"motDePasse": 1})
	if err := s.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&current); err != nil {
		return "", false, translate(err, "load password", "")
	}
	if s.hasher.Matches(current.MotDePasse, plain) {
		return "", false, nil
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return "", false, fmt.Errorf("hash password: %w", err)
	}
	return hash, true, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Credentials returns the user with its password hash. Only the login path
// may call it.
func (s *UserStore) Credentials(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u); err != nil {
		return nil, translate(err, "find credentials", "")
	}
	return &u, nil
}

// TouchLogin records a successful login.
func (s *UserStore) TouchLogin(ctx context.Context, id primitive.ObjectID) (time.Time, error) {
	at := s.now()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"dernierConnexion": at}})
	if err != nil {
		return time.Time{}, fmt.Errorf("touch login: %w", err)
	}
	if res.MatchedCount == 0 {
		return time.Time{}, ErrNotFound
	}
	return at, nil
}
