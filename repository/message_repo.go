package repository

import (
	"context"

	"stayfinder-backend/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MessageRepository interface {
	Insert(ctx context.Context, msg *models.Message) (*models.Message, error)
	// ListByRoom returns all messages for a room, timestamp ascending.
	ListByRoom(ctx context.Context, roomID bson.ObjectID) ([]models.Message, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Message, error)
}

type MongoMessageRepo struct {
	coll *mongo.Collection
}

func NewMongoMessageRepo(coll *mongo.Collection) *MongoMessageRepo {
	return &MongoMessageRepo{coll: coll}
}

func (r *MongoMessageRepo) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	res, err := r.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.Insert.InsertOne")
	}
	msg.ID = res.InsertedID.(bson.ObjectID)
	return msg, nil
}

func (r *MongoMessageRepo) ListByRoom(ctx context.Context, roomID bson.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"chatRoom": roomID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListByRoom.Find")
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListByRoom.All")
	}
	return msgs, nil
}

func (r *MongoMessageRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Message, error) {
	var msg models.Message
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.FindByID.Decode")
	}
	return &msg, nil
}
