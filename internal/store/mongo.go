// internal/store/mongo.go
package store

import (
	"context"
	"time"

	"greenwatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoReportStore struct {
	collection *mongo.Collection
}

func NewMongoReportStore(collection *mongo.Collection) *MongoReportStore {
	return &MongoReportStore{collection: collection}
}

func (s *MongoReportStore) Insert(ctx context.Context, report *models.Report) error {
	result, err := s.collection.InsertOne(ctx, report)
	if err != nil {
		return err
	}
	report.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoReportStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *MongoReportStore) List(ctx context.Context) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *MongoReportStore) Update(ctx context.Context, report *models.Report) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoReportStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoReportStore) ClearTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	result, err := s.collection.UpdateMany(
		ctx,
		bson.M{"assigned_team_id": teamID},
		bson.M{
			"$unset": bson.M{"assigned_team_id": "", "assigned_team_name": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

type MongoTeamStore struct {
	collection *mongo.Collection
}

func NewMongoTeamStore(collection *mongo.Collection) *MongoTeamStore {
	return &MongoTeamStore{collection: collection}
}

func (s *MongoTeamStore) Insert(ctx context.Context, team *models.Team) error {
	result, err := s.collection.InsertOne(ctx, team)
	if err != nil {
		return err
	}
	team.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoTeamStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *MongoTeamStore) List(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	teams := []models.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *MongoTeamStore) Update(ctx context.Context, team *models.Team) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": team.ID}, team)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoTeamStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

type MongoDeliveryStore struct {
	collection *mongo.Collection
}

func NewMongoDeliveryStore(collection *mongo.Collection) *MongoDeliveryStore {
	return &MongoDeliveryStore{collection: collection}
}

func (s *MongoDeliveryStore) InsertMany(ctx context.Context, records []models.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}
	_, err := s.collection.InsertMany(ctx, docs)
	return err
}

func (s *MongoDeliveryStore) ListByJob(ctx context.Context, jobID string) ([]models.DeliveryRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.DeliveryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoDeliveryStore) ListRecent(ctx context.Context, limit int64) ([]models.DeliveryRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "attempted_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.DeliveryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
