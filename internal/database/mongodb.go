// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"time"

	"greenwatch/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.MongoTimeout)*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.DatabaseName),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb disconnect: %w", err)
	}
	return nil
}

// CreateIndexes creates the indexes for all collections.
// Keys use bson.D to keep compound key order.
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	reportCollection := m.Database.Collection("reports")
	reportIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "category", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "assigned_team_id", Value: 1}},
		},
	}
	if _, err := reportCollection.Indexes().CreateMany(ctx, reportIndexes); err != nil {
		return fmt.Errorf("report indexes: %w", err)
	}

	teamCollection := m.Database.Collection("teams")
	teamIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := teamCollection.Indexes().CreateMany(ctx, teamIndexes); err != nil {
		return fmt.Errorf("team indexes: %w", err)
	}

	deliveryCollection := m.Database.Collection("deliveries")
	deliveryIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "job_id", Value: 1},
				{Key: "attempted_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "attempted_at", Value: -1}},
		},
	}
	if _, err := deliveryCollection.Indexes().CreateMany(ctx, deliveryIndexes); err != nil {
		return fmt.Errorf("delivery indexes: %w", err)
	}

	return nil
}
