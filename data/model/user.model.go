package model

import (
	"github.com/seventv/chat-api/data/structures"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserModel struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email,omitempty"`
	AvatarURL    string             `json:"avatar_url,omitempty"`
	Online       bool               `json:"online"`
	LastActiveAt int64              `json:"last_active_at,omitempty"`
	CreatedAt    int64              `json:"created_at,omitempty"`
}

// UserPartialModel is the trimmed form attached to rooms and messages.
type UserPartialModel struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatar_url,omitempty"`
	Online    bool               `json:"online"`
}

func (x *modelizer) User(v structures.User) UserModel {
	avatar := v.AvatarURL
	if avatar == "" && x.websiteURL != "" {
		avatar = x.websiteURL + "/assets/default-avatar.png"
	}

	m := UserModel{
		ID:        v.ID,
		Username:  v.Username,
		Email:     v.Email,
		AvatarURL: avatar,
		Online:    v.State.Online,
		CreatedAt: v.CreatedAt.UnixMilli(),
	}

	if !v.State.LastActiveAt.IsZero() {
		m.LastActiveAt = v.State.LastActiveAt.UnixMilli()
	}

	return m
}

func (um UserModel) ToPartial() UserPartialModel {
	return UserPartialModel{
		ID:        um.ID,
		Username:  um.Username,
		AvatarURL: um.AvatarURL,
		Online:    um.Online,
	}
}
