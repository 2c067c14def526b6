package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/gestion-taches/internal/models"
)

// TaskStore handles task CRUD in MongoDB. Reads go through an aggregation
// that expands the owner and the categories.
type TaskStore struct {
	col        *mongo.Collection
	categories *mongo.Collection
	log        *logrus.Logger
	now        func() time.Time
}

func NewTaskStore(db *mongo.Database, log *logrus.Logger) *TaskStore {
	return &TaskStore{
		col:        db.Collection(TasksCollection),
		categories: db.Collection(CategoriesCollection),
		log:        log,
		now:        now,
	}
}

// expandStages joins the owner (without password hash) and the categories.
// A task whose owner was deleted keeps a null utilisateur.
func expandStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "utilisateur",
			"foreignField": "_id",
			"as":           "utilisateur",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$utilisateur",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         CategoriesCollection,
			"localField":   "categories",
			"foreignField": "_id",
			"as":           "categories",
		}}},
		{{Key: "$project", Value: bson.M{"utilisateur.motDePasse": 0}}},
	}
}

// taskFilter builds the exact-match filter of a listing.
func taskFilter(q models.TaskQuery) bson.M {
	filter := bson.M{}
	if q.Statut != "" {
		filter["statut"] = q.Statut
	}
	if q.Priorite != "" {
		filter["priorite"] = q.Priorite
	}
	if q.Utilisateur != nil {
		filter["utilisateur"] = *q.Utilisateur
	}
	return filter
}

// taskPatchSet builds the $set document of a partial update. The
// modification date is always written.
func taskPatchSet(p models.TaskPatch, at time.Time) bson.M {
	set := bson.M{"dateModification": at}
	if p.Titre != nil {
		set["titre"] = *p.Titre
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.DateEcheance != nil {
		set["dateEcheance"] = *p.DateEcheance
	}
	if p.Priorite != nil {
		set["priorite"] = *p.Priorite
	}
	if p.Statut != nil {
		set["statut"] = *p.Statut
	}
	if p.Utilisateur != nil {
		set["utilisateur"] = *p.Utilisateur
	}
	if p.Categories != nil {
		set["categories"] = *p.Categories
	}
	return set
}

func (s *TaskStore) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.TaskView, error) {
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tasks: %w", err)
	}
	defer cur.Close(ctx)

	views := []models.TaskView{}
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	for i := range views {
		for j := range views[i].Categories {
			normalizeCategory(&views[i].Categories[j])
		}
		if views[i].Categories == nil {
			views[i].Categories = []models.Category{}
		}
	}
	return views, nil
}

// Create inserts the task and records it in the denormalized task list of
// each referenced category. The task is the write that counts: a failed
// link is logged and the created task still returned.
func (s *TaskStore) Create(ctx context.Context, t models.Task) (*models.TaskView, error) {
	t.ID = primitive.NilObjectID
	t.DateCreation = s.now()
	t.DateModification = nil
	if t.Categories == nil {
		t.Categories = []primitive.ObjectID{}
	}

	res, err := s.col.InsertOne(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID)

	s.linkCategories(ctx, id, t.Categories)
	return s.Get(ctx, id)
}

func (s *TaskStore) linkCategories(ctx context.Context, taskID primitive.ObjectID, categories []primitive.ObjectID) {
	if len(categories) == 0 {
		return
	}
	_, err := s.categories.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": categories}},
		bson.M{"$addToSet": bson.M{"taches": taskID}},
	)
	if err != nil {
		s.log.WithError(err).WithField("task", taskID.Hex()).Warn("link task to categories")
	}
}

// List counts the matching tasks, then fetches one expanded page. The two
// reads are independent, so the total may lag the page under writes.
func (s *TaskStore) List(ctx context.Context, q models.TaskQuery) (*models.TaskPage, error) {
	filter := taskFilter(q)
	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	dir := 1
	if q.SortDesc {
		dir = -1
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: q.SortField, Value: dir}, {Key: "_id", Value: dir}}}},
		{{Key: "$skip", Value: q.Page.Skip()}},
		{{Key: "$limit", Value: q.Page.Limit}},
	}
	views, err := s.aggregate(ctx, append(pipeline, expandStages()...))
	if err != nil {
		return nil, err
	}
	return &models.TaskPage{Taches: views, Pagination: models.NewPagination(q.Page, total)}, nil
}

// ListByUser pages through one user's tasks, newest first.
func (s *TaskStore) ListByUser(ctx context.Context, userID primitive.ObjectID, page models.Page) (*models.TaskPage, error) {
	return s.List(ctx, models.TaskQuery{
		Utilisateur: &userID,
		SortField:   "dateCreation",
		SortDesc:    true,
		Page:        page,
	})
}

// ListByIDs expands the given tasks, newest first. Unknown ids are skipped.
func (s *TaskStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.TaskView, error) {
	if len(ids) == 0 {
		return []models.TaskView{}, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": ids}}}},
		{{Key: "$sort", Value: bson.D{{Key: "dateCreation", Value: -1}}}},
	}
	return s.aggregate(ctx, append(pipeline, expandStages()...))
}

func (s *TaskStore) Get(ctx context.Context, id primitive.ObjectID) (*models.TaskView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
	}
	views, err := s.aggregate(ctx, append(pipeline, expandStages()...))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// Update merges only the fields present in patch and stamps the
// modification date.
func (s *TaskStore) Update(ctx context.Context, id primitive.ObjectID, patch models.TaskPatch) (*models.TaskView, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": taskPatchSet(patch, s.now())})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	if patch.Categories != nil {
		s.linkCategories(ctx, id, *patch.Categories)
	}
	return s.Get(ctx, id)
}

func (s *TaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
