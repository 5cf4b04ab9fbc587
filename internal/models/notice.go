package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice is a short announcement posted by a teacher for the whole class.
type Notice struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title    string             `bson:"title" json:"title"`
	Body     string             `bson:"body" json:"body"`
	PostedBy string             `bson:"postedBy" json:"postedBy"`
	PostedAt time.Time          `bson:"postedAt" json:"postedAt"`
}
