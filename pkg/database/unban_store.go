package database

import (
	"context"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PendingUnbansCollection holds scheduled unbans
const PendingUnbansCollection = "pending_unbans"

// UnbanStore is the Mongo pending unban backend
type UnbanStore struct {
	db *Database
}

// NewUnbanStore creates an UnbanStore on top of the database
func NewUnbanStore(db *Database) *UnbanStore {
	return &UnbanStore{db: db}
}

// Schedule stores or replaces a pending unban
func (s *UnbanStore) Schedule(ctx context.Context, p models.PendingUnban) error {
	col, err := s.db.collection(PendingUnbansCollection)
	if err != nil {
		return err
	}
	_, err = col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	return err
}

// Due returns the pending unbans due at now, earliest first
func (s *UnbanStore) Due(ctx context.Context, now time.Time) ([]models.PendingUnban, error) {
	col, err := s.db.collection(PendingUnbansCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "dueAt", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"dueAt": bson.M{"$lte": now}}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var due []models.PendingUnban
	if err := cursor.All(ctx, &due); err != nil {
		return nil, err
	}
	return due, nil
}

// Complete removes a processed unban
func (s *UnbanStore) Complete(ctx context.Context, id string) error {
	col, err := s.db.collection(PendingUnbansCollection)
	if err != nil {
		return err
	}
	_, err = col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CancelFor removes every pending unban of the user in the guild
func (s *UnbanStore) CancelFor(ctx context.Context, guildID, userID string) (int, error) {
	col, err := s.db.collection(PendingUnbansCollection)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteMany(ctx, bson.M{"guildId": guildID, "userId": userID})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}
