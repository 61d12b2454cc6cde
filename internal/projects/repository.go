package projects

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	ListAll(ctx context.Context) ([]Project, error)
	ListFeatured(ctx context.Context, limit int64) ([]Project, error)
	ListByCategory(ctx context.Context, category Category) ([]Project, error)
	ListByTechnology(ctx context.Context, tech string) ([]Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	Insert(ctx context.Context, item Project) error
	Patch(ctx context.Context, id string, set bson.M) (Project, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// displayOrder is ascending by the manual order field; equal orders fall
// back to insertion time so one call's result is stable.
var displayOrder = bson.D{
	{Key: "order", Value: 1},
	{Key: "created_at", Value: 1},
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]Project, error) {
	return r.find(ctx, bson.M{}, nil)
}

func (r *MongoRepository) ListFeatured(ctx context.Context, limit int64) ([]Project, error) {
	return r.find(ctx, bson.M{"featured": true}, &limit)
}

func (r *MongoRepository) ListByCategory(ctx context.Context, category Category) ([]Project, error) {
	return r.find(ctx, bson.M{"category": category}, nil)
}

func (r *MongoRepository) ListByTechnology(ctx context.Context, tech string) ([]Project, error) {
	// Equality against an array field matches any element, which is the
	// exact string membership the technology filter wants.
	return r.find(ctx, bson.M{"technologies": tech}, nil)
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, limit *int64) ([]Project, error) {
	opts := options.Find().SetSort(displayOrder)
	if limit != nil {
		opts = opts.SetLimit(*limit)
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	for cursor.Next(ctx) {
		var p Project
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) Insert(ctx context.Context, item Project) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Patch(ctx context.Context, id string, set bson.M) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
