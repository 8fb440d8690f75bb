package model

import (
	"github.com/seventv/chat-api/data/structures"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomModel struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name,omitempty"`
	IsGroup        bool               `json:"is_group"`
	LastActivityAt int64              `json:"last_activity_at"`
	LastMessageID  primitive.ObjectID `json:"last_message_id,omitempty"`

	// Filled in by the caller where participant data was loaded
	Participants []UserPartialModel `json:"participants,omitempty"`
	UnreadCount  int32              `json:"unread_count,omitempty"`
}

func (x *modelizer) Room(v structures.Room) RoomModel {
	return RoomModel{
		ID:             v.ID,
		Name:           v.Name,
		IsGroup:        v.IsGroup,
		LastActivityAt: v.LastActivityAt.UnixMilli(),
		LastMessageID:  v.LastMessageID,
	}
}
