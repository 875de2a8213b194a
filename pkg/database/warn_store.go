package database

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WarnsCollection holds one document per guild+user
const WarnsCollection = "warns"

// WarnStore is the Mongo warn backend. Every user's warns live in a single
// document so appends and trims are atomic document updates.
type WarnStore struct {
	db *Database
}

// NewWarnStore creates a WarnStore on top of the database
func NewWarnStore(db *Database) *WarnStore {
	return &WarnStore{db: db}
}

func warnFilter(key models.WarnKey) bson.M {
	return bson.M{"guildId": key.GuildID, "userId": key.UserID}
}

func sortWarns(warns []models.WarnRecord) []models.WarnRecord {
	slices.SortStableFunc(warns, func(a, b models.WarnRecord) int {
		return a.IssuedAt.Compare(b.IssuedAt)
	})
	return warns
}

// EnsureIndexes creates the unique guild+user index
func (s *WarnStore) EnsureIndexes(ctx context.Context) error {
	col, err := s.db.collection(WarnsCollection)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Append pushes rec and returns the document as it is after the update
func (s *WarnStore) Append(ctx context.Context, rec models.WarnRecord) ([]models.WarnRecord, error) {
	col, err := s.db.collection(WarnsCollection)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc models.WarnsDocument
	err = col.FindOneAndUpdate(ctx, warnFilter(rec.Key()), bson.M{"$push": bson.M{"warns": rec}}, opts).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return sortWarns(doc.Warns), nil
}

// List returns the user's warns, nil when the document does not exist
func (s *WarnStore) List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	col, err := s.db.collection(WarnsCollection)
	if err != nil {
		return nil, err
	}

	var doc models.WarnsDocument
	err = col.FindOne(ctx, warnFilter(key)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sortWarns(doc.Warns), nil
}

// DeleteRecent keeps the oldest len-n warns, deleting the document when none remain
func (s *WarnStore) DeleteRecent(ctx context.Context, key models.WarnKey, n int) error {
	col, err := s.db.collection(WarnsCollection)
	if err != nil {
		return err
	}

	current, err := s.List(ctx, key)
	if err != nil {
		return err
	}

	keep := len(current) - n
	if keep <= 0 {
		_, err = col.DeleteOne(ctx, warnFilter(key))
		return err
	}

	_, err = col.UpdateOne(ctx, warnFilter(key), bson.M{
		"$push": bson.M{
			"warns": bson.M{
				"$each":  bson.A{},
				"$sort":  bson.M{"issuedAt": 1},
				"$slice": keep,
			},
		},
	})
	return err
}

// DeleteBefore pulls warns issued before cutoff
func (s *WarnStore) DeleteBefore(ctx context.Context, key models.WarnKey, cutoff time.Time) (int, error) {
	col, err := s.db.collection(WarnsCollection)
	if err != nil {
		return 0, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	update := bson.M{"$pull": bson.M{"warns": bson.M{"issuedAt": bson.M{"$lt": cutoff}}}}

	var before models.WarnsDocument
	err = col.FindOneAndUpdate(ctx, warnFilter(key), update, opts).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, w := range before.Warns {
		if w.IssuedAt.Before(cutoff) {
			removed++
		}
	}

	emptied := warnFilter(key)
	emptied["warns"] = bson.M{"$size": 0}
	if _, err := col.DeleteOne(ctx, emptied); err != nil {
		return removed, err
	}
	return removed, nil
}
