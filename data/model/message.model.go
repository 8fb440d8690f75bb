package model

import (
	"github.com/seventv/chat-api/data/structures"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageModel struct {
	ID        primitive.ObjectID     `json:"id"`
	RoomID    primitive.ObjectID     `json:"room_id"`
	AuthorID  primitive.ObjectID     `json:"author_id"`
	Type      structures.MessageType `json:"type" enums:"TEXT,IMAGE"`
	Content   string                 `json:"content"`
	CreatedAt int64                  `json:"created_at"`

	Author *UserPartialModel `json:"author,omitempty"`
}

func (x *modelizer) Message(v structures.Message) MessageModel {
	return MessageModel{
		ID:        v.ID,
		RoomID:    v.RoomID,
		AuthorID:  v.AuthorID,
		Type:      v.Type,
		Content:   v.Content,
		CreatedAt: v.CreatedAt.UnixMilli(),
	}
}
