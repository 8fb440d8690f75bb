package model

import (
	"github.com/seventv/chat-api/data/structures"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendshipModel struct {
	ID          primitive.ObjectID          `json:"id"`
	SenderID    primitive.ObjectID          `json:"sender_id"`
	RecipientID primitive.ObjectID          `json:"recipient_id"`
	Status      structures.FriendshipStatus `json:"status" enums:"PENDING,ACCEPTED,REJECTED"`
	CreatedAt   int64                       `json:"created_at"`
	UpdatedAt   int64                       `json:"updated_at,omitempty"`
}

func (x *modelizer) Friendship(v structures.Friendship) FriendshipModel {
	m := FriendshipModel{
		ID:          v.ID,
		SenderID:    v.SenderID,
		RecipientID: v.RecipientID,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt.UnixMilli(),
	}

	if !v.UpdatedAt.IsZero() {
		m.UpdatedAt = v.UpdatedAt.UnixMilli()
	}

	return m
}
