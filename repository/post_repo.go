package repository

import (
	"context"

	"stayfinder-backend/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type MongoPostRepo struct {
	coll *mongo.Collection
}

func NewMongoPostRepo(coll *mongo.Collection) *MongoPostRepo {
	return &MongoPostRepo{coll: coll}
}

func (r *MongoPostRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	res, err := r.coll.InsertOne(ctx, post)
	if err != nil {
		return nil, errors.Wrap(err, "postRepo.Create.InsertOne")
	}
	post.ID = res.InsertedID.(bson.ObjectID)
	return post, nil
}

func (r *MongoPostRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "postRepo.FindByID.Decode")
	}
	return &post, nil
}

func (r *MongoPostRepo) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	query := bson.M{}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "postRepo.List.Find")
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "postRepo.List.All")
	}
	return posts, nil
}

func (r *MongoPostRepo) ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"postedBy": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "postRepo.ListByUser.Find")
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "postRepo.ListByUser.All")
	}
	return posts, nil
}

func (r *MongoPostRepo) Update(ctx context.Context, post *models.Post) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return errors.Wrap(err, "postRepo.Update.ReplaceOne")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "postRepo.Delete.DeleteOne")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
