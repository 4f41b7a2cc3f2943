// Package mongo stores journal entries in MongoDB. Users, site
// configuration and the reset log stay in PostgreSQL.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	entriesCollection  = "entries"
	countersCollection = "counters"
)

// entryDocument is the stored shape of an entry. The owner is kept as a
// string so documents stay readable in the shell.
type entryDocument struct {
	ID        int64     `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	IPAddress *string   `bson:"ip_address,omitempty"`
	Duration  string    `bson:"duration_str"`
}

func toDocument(e models.Entry) entryDocument {
	return entryDocument{
		ID:        e.ID,
		UserID:    e.UserID.String(),
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		IPAddress: e.IPAddress,
		Duration:  e.Duration,
	}
}

func (d entryDocument) toModel() (models.Entry, error) {
	owner, err := uuid.Parse(d.UserID)
	if err != nil {
		return models.Entry{}, err
	}
	return models.Entry{
		ID:        d.ID,
		UserID:    owner,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		IPAddress: d.IPAddress,
		Duration:  d.Duration,
	}, nil
}

type EntryRepository struct {
	entries  *mongo.Collection
	counters *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{
		entries:  db.Collection(entriesCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the owner/created_at index used by listings
func (r *EntryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.entries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

// nextID allocates a sequential integer id from the counters collection
func (r *EntryRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": entriesCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	return counter.Seq, err
}

func (r *EntryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Entry, error) {
	cursor, err := r.entries.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Entry, 0, len(docs))
	for _, d := range docs {
		e, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (r *EntryRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Entry, error) {
	return r.find(ctx, bson.M{"user_id": userID.String()}, options.Find().SetSort(newestFirst))
}

func (r *EntryRepository) GetOwned(ctx context.Context, userID uuid.UUID, id int64) (models.Entry, error) {
	var doc entryDocument
	err := r.entries.FindOne(ctx, bson.M{"_id": id, "user_id": userID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Entry{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Entry{}, err
	}
	return doc.toModel()
}

func (r *EntryRepository) Create(ctx context.Context, e *models.Entry) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	e.ID = id
	_, err = r.entries.InsertOne(ctx, toDocument(*e))
	return err
}

func (r *EntryRepository) Update(ctx context.Context, e *models.Entry) error {
	set := bson.M{
		"title":        e.Title,
		"content":      e.Content,
		"duration_str": e.Duration,
		"updated_at":   e.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if e.IPAddress != nil {
		set["ip_address"] = *e.IPAddress
	} else {
		update["$unset"] = bson.M{"ip_address": ""}
	}
	result, err := r.entries.UpdateOne(ctx, bson.M{"_id": e.ID, "user_id": e.UserID.String()}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) DeleteOwned(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.entries.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	return r.entries.CountDocuments(ctx, bson.M{})
}

func (r *EntryRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.entries.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

func (r *EntryRepository) CountOwnersSince(ctx context.Context, since time.Time) (int64, error) {
	owners, err := r.entries.Distinct(ctx, "user_id", bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, err
	}
	return int64(len(owners)), nil
}

func (r *EntryRepository) Recent(ctx context.Context, limit int) ([]models.Entry, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *EntryRepository) CountByOwner(ctx context.Context) (map[uuid.UUID]int64, error) {
	cur, err := r.entries.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[uuid.UUID]int64)
	for cur.Next(ctx) {
		var row struct {
			Owner string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		owner, err := uuid.Parse(row.Owner)
		if err != nil {
			return nil, err
		}
		out[owner] = row.Count
	}
	return out, cur.Err()
}

var _ repository.EntryRepository = (*EntryRepository)(nil)
