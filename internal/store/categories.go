package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/gestion-taches/internal/models"
)

// CategoryStore handles category CRUD in MongoDB.
type CategoryStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{col: db.Collection(CategoriesCollection), now: now}
}

func normalizeCategory(c *models.Category) {
	if c.Taches == nil {
		c.Taches = []primitive.ObjectID{}
	}
}

func (s *CategoryStore) Create(ctx context.Context, c models.Category) (*models.Category, error) {
	c.ID = primitive.NilObjectID
	c.DateCreation = s.now()
	c.DateModification = nil
	normalizeCategory(&c)

	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		return nil, translate(err, "insert category", msgCategoryInUse)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return &c, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nom", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(ctx)

	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	for i := range categories {
		normalizeCategory(&categories[i])
	}
	return categories, nil
}

func (s *CategoryStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err, "find category", "")
	}
	normalizeCategory(&c)
	return &c, nil
}

// Update merges the supplied fields. Renaming onto a name another category
// already holds is rejected by the unique index.
func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error) {
	set := bson.M{"dateModification": s.now()}
	if patch.Nom != nil {
		set["nom"] = *patch.Nom
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Icone != nil {
		set["icone"] = *patch.Icone
	}
	return s.findAndSet(ctx, id, set, "update category")
}

// SetIcon points the category at an uploaded icon object.
func (s *CategoryStore) SetIcon(ctx context.Context, id primitive.ObjectID, key string) (*models.Category, error) {
	return s.findAndSet(ctx, id, bson.M{"icone": key, "dateModification": s.now()}, "set category icon")
}

func (s *CategoryStore) findAndSet(ctx context.Context, id primitive.ObjectID, set bson.M, op string) (*models.Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Category
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		return nil, translate(err, op, msgCategoryInUse)
	}
	normalizeCategory(&c)
	return &c, nil
}

// Delete removes the category and returns it as it was, so the caller can
// clean up its icon.
func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err, "delete category", "")
	}
	normalizeCategory(&c)
	return &c, nil
}
