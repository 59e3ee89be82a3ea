package repository

import (
	"context"

	"stayfinder-backend/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrNotFound is returned by all repositories when a document is absent.
// Services translate it into the API error taxonomy.
var ErrNotFound = errors.New("document not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	Update(ctx context.Context, id bson.ObjectID, name, passwordHash string) error
}

type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(coll *mongo.Collection) *MongoUserRepo {
	return &MongoUserRepo{coll: coll}
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.Create.InsertOne")
	}
	user.ID = res.InsertedID.(bson.ObjectID)
	return user, nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) FindByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.findOne.Decode")
	}
	return &user, nil
}

// Update sets name and/or password hash; empty values are left untouched.
func (r *MongoUserRepo) Update(ctx context.Context, id bson.ObjectID, name, passwordHash string) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if passwordHash != "" {
		set["password"] = passwordHash
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "userRepo.Update.UpdateOne")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
