package events

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnyPayload interface {
	json.RawMessage |
		HelloPayload |
		AckPayload |
		ErrorPayload |
		DispatchPayload |
		RoomPayload |
		SendMessagePayload |
		LoadOlderMessagesPayload |
		FriendRequestPayload
}

type HelloPayload struct {
	SessionID         string `json:"session_id"`
	HeartbeatInterval int64  `json:"heartbeat_interval"`
}

type AckPayload struct {
	Command string `json:"command"`
}

type ErrorPayload struct {
	Message string         `json:"message"`
	Code    int            `json:"code,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// DispatchPayload wraps a named event on its way to a client.
type DispatchPayload struct {
	Type EventType       `json:"type"`
	Body json.RawMessage `json:"body"`
}

// RoomPayload is the body of the room-scoped commands.
type RoomPayload struct {
	RoomID primitive.ObjectID `json:"room_id"`
}

// RoomUserPayload announces a user acting within a room.
type RoomUserPayload struct {
	RoomID primitive.ObjectID `json:"room_id"`
	UserID primitive.ObjectID `json:"user_id"`
}

type SendMessagePayload struct {
	RoomID  primitive.ObjectID `json:"room_id"`
	Type    string             `json:"type"`
	Content string             `json:"content"`
}

type LoadOlderMessagesPayload struct {
	RoomID          primitive.ObjectID `json:"room_id"`
	BeforeMessageID primitive.ObjectID `json:"before_message_id"`
}

type FriendRequestPayload struct {
	FriendshipID primitive.ObjectID `json:"friendship_id"`
	// UserID is the recipient when creating a new request
	UserID primitive.ObjectID `json:"user_id,omitempty"`
}
