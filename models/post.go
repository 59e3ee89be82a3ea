package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a room listing.
type Post struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string        `bson:"title" json:"title"`
	Description   string        `bson:"description" json:"description"`
	Price         float64       `bson:"price" json:"price"`
	Location      string        `bson:"location" json:"location"`
	Type          string        `bson:"type" json:"type"` // apartment | room | shared
	Occupancy     int           `bson:"occupancy" json:"occupancy"`
	Furnished     bool          `bson:"furnished" json:"furnished"`
	AvailableFrom time.Time     `bson:"availableFrom" json:"availableFrom"`
	Amenities     []string      `bson:"amenities" json:"amenities"`
	Images        []string      `bson:"images" json:"images"`
	PostedBy      bson.ObjectID `bson:"postedBy" json:"postedBy"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}

// PostFilter narrows listing queries. Zero values mean "no constraint".
type PostFilter struct {
	Location string
	Type     string
	MinPrice float64
	MaxPrice float64
}
