package repository

import (
	"context"

	"stayfinder-backend/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type OtpRepository interface {
	// Upsert replaces any pending code for the same email.
	Upsert(ctx context.Context, otp *models.Otp) error
	FindByEmail(ctx context.Context, email string) (*models.Otp, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type MongoOtpRepo struct {
	coll *mongo.Collection
}

func NewMongoOtpRepo(coll *mongo.Collection) *MongoOtpRepo {
	return &MongoOtpRepo{coll: coll}
}

func (r *MongoOtpRepo) Upsert(ctx context.Context, otp *models.Otp) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"email": otp.Email}, otp, opts)
	if err != nil {
		return errors.Wrap(err, "otpRepo.Upsert.ReplaceOne")
	}
	return nil
}

func (r *MongoOtpRepo) FindByEmail(ctx context.Context, email string) (*models.Otp, error) {
	var otp models.Otp
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&otp)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "otpRepo.FindByEmail.Decode")
	}
	return &otp, nil
}

func (r *MongoOtpRepo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return errors.Wrap(err, "otpRepo.DeleteByEmail.DeleteOne")
	}
	return nil
}
