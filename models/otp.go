package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Otp holds a pending registration until the emailed code is verified.
// Password is already bcrypt-hashed when the document is written. The
// document is removed on successful verification, replaced when a new code
// is requested for the same email, and reaped by a TTL index on expiresAt.
type Otp struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string        `bson:"email" json:"email"`
	Name      string        `bson:"name" json:"name"`
	Code      string        `bson:"otp" json:"-"`
	Password  string        `bson:"password" json:"-"`
	ExpiresAt time.Time     `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

func (o *Otp) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
