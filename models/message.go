package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message is immutable once stored. Ordering within a room is by Timestamp
// ascending; the timestamp is server-assigned at insert.
type Message struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatRoomID bson.ObjectID `bson:"chatRoom" json:"chatRoom"`
	SenderID   bson.ObjectID `bson:"sender" json:"senderId"`
	Content    string        `bson:"content" json:"content"`
	Timestamp  time.Time     `bson:"timestamp" json:"timestamp"`

	// Sender is resolved for display on reads; never persisted.
	Sender *PublicUser `bson:"-" json:"sender,omitempty"`
}
