package structures

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomID    primitive.ObjectID `json:"room_id" bson:"room_id"`
	AuthorID  primitive.ObjectID `json:"author_id" bson:"author_id"`
	Type      MessageType        `json:"type" bson:"type"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type MessageType string

const (
	MessageTypeText  MessageType = "TEXT"
	MessageTypeImage MessageType = "IMAGE"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage:
		return true
	}

	return false
}
