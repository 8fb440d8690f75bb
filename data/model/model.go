package model

import (
	"github.com/seventv/chat-api/data/structures"
)

type Modelizer interface {
	User(v structures.User) UserModel
	Room(v structures.Room) RoomModel
	Message(v structures.Message) MessageModel
	Friendship(v structures.Friendship) FriendshipModel
}

type modelizer struct {
	websiteURL string
}

func NewInstance(opt ModelInstanceOptions) Modelizer {
	return &modelizer{
		websiteURL: opt.Website,
	}
}

type ModelInstanceOptions struct {
	Website string
}
