package structures

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Friendship struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID    primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	RecipientID primitive.ObjectID `json:"recipient_id" bson:"recipient_id"`
	Status      FriendshipStatus   `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "PENDING"
	FriendshipStatusAccepted FriendshipStatus = "ACCEPTED"
	FriendshipStatusRejected FriendshipStatus = "REJECTED"
)

// Counterpart returns the other side of the friendship relative to userID.
func (f Friendship) Counterpart(userID primitive.ObjectID) primitive.ObjectID {
	if f.SenderID == userID {
		return f.RecipientID
	}

	return f.SenderID
}
