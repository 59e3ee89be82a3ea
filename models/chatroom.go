package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ChatRoom is a durable conversation between exactly two users. PostID
// optionally records the listing the conversation started from; it drives
// the "mine"/"others" split in chat-list views and nothing else.
type ChatRoom struct {
	ID            bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants  []bson.ObjectID `bson:"participants" json:"participants"`
	PostID        bson.ObjectID   `bson:"postId,omitempty" json:"postId,omitempty"`
	LatestMessage bson.ObjectID   `bson:"latestMessage,omitempty" json:"latestMessage,omitempty"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// NormalizePair orders two participant ids canonically so that (a, b) and
// (b, a) address the same room.
func NormalizePair(a, b bson.ObjectID) []bson.ObjectID {
	if b.Hex() < a.Hex() {
		a, b = b, a
	}
	return []bson.ObjectID{a, b}
}

// Conversation is a ChatRoom with participants and the latest message
// resolved, as served to chat-list views.
type Conversation struct {
	ID            bson.ObjectID `json:"id"`
	Participants  []PublicUser  `json:"participants"`
	PostID        bson.ObjectID `json:"postId,omitempty"`
	LatestMessage *Message      `json:"latestMessage,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
