package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection      = "utilisateurs"
	TasksCollection      = "taches"
	CategoriesCollection = "categories"
)

// Connect opens the process-wide client and checks the server answers.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
// Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "nom", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		TasksCollection: {
			{Keys: bson.D{{Key: "utilisateur", Value: 1}}},
			{Keys: bson.D{{Key: "dateEcheance", Value: 1}}},
			{Keys: bson.D{{Key: "utilisateur", Value: 1}, {Key: "dateEcheance", Value: -1}}},
		},
	}
	for coll, idx := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// now is the store clock. Mongo keeps millisecond precision, so values are
// truncated to match what a later read returns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
