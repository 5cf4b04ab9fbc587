package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a short teacher/parent exchange.
type Message struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	From   string             `bson:"from" json:"from"`
	To     string             `bson:"to" json:"to"`
	Body   string             `bson:"body" json:"body"`
	SentAt time.Time          `bson:"sentAt" json:"sentAt"`
}
