package repository

import (
	"context"
	"time"

	"stayfinder-backend/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ChatRoomRepository interface {
	Create(ctx context.Context, room *models.ChatRoom) (*models.ChatRoom, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.ChatRoom, error)
	// FindByParticipants expects a normalized pair (see models.NormalizePair).
	FindByParticipants(ctx context.Context, pair []bson.ObjectID) (*models.ChatRoom, error)
	ListByParticipant(ctx context.Context, userID bson.ObjectID) ([]models.ChatRoom, error)
	SetLatestMessage(ctx context.Context, roomID, messageID bson.ObjectID) error
}

type MongoChatRoomRepo struct {
	coll *mongo.Collection
}

func NewMongoChatRoomRepo(coll *mongo.Collection) *MongoChatRoomRepo {
	return &MongoChatRoomRepo{coll: coll}
}

func (r *MongoChatRoomRepo) Create(ctx context.Context, room *models.ChatRoom) (*models.ChatRoom, error) {
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, room)
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.Create.InsertOne")
	}
	room.ID = res.InsertedID.(bson.ObjectID)
	return room, nil
}

func (r *MongoChatRoomRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.FindByID.Decode")
	}
	return &room, nil
}

func (r *MongoChatRoomRepo) FindByParticipants(ctx context.Context, pair []bson.ObjectID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.coll.FindOne(ctx, bson.M{"participants": pair}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.FindByParticipants.Decode")
	}
	return &room, nil
}

func (r *MongoChatRoomRepo) ListByParticipant(ctx context.Context, userID bson.ObjectID) ([]models.ChatRoom, error) {
	opts := options.Find().SetSort(bson.M{"updatedAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.ListByParticipant.Find")
	}
	defer cursor.Close(ctx)

	var rooms []models.ChatRoom
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, errors.Wrap(err, "chatRepo.ListByParticipant.All")
	}
	return rooms, nil
}

func (r *MongoChatRoomRepo) SetLatestMessage(ctx context.Context, roomID, messageID bson.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": roomID}, bson.M{"$set": bson.M{
		"latestMessage": messageID,
		"updatedAt":     time.Now(),
	}})
	if err != nil {
		return errors.Wrap(err, "chatRepo.SetLatestMessage.UpdateOne")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
