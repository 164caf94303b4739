package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *todoDocument) toModel() *models.Todo {
	return &models.Todo{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoStore keeps todos as documents in a single collection, addressed by ObjectID.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// mongoNow matches the millisecond precision BSON dates are stored with.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *MongoStore) List(ctx context.Context) ([]models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, err
	}
	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		logger.Error(ctx, "Repository decode todos failed", "error", err)
		return nil, err
	}
	todos := make([]models.Todo, 0, len(docs))
	for i := range docs {
		todos = append(todos, *docs[i].toModel())
	}
	return todos, nil
}

func (s *MongoStore) Create(ctx context.Context, title string) (*models.Todo, error) {
	now := mongoNow()
	doc := todoDocument{
		ID:        primitive.NewObjectID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{"updatedAt": mongoNow()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	var doc todoDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (*models.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc todoDocument
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
