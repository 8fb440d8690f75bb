package chat

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/svc/presence"
	"github.com/seventv/chat-api/internal/svc/viewers"

	"github.com/seventv/chat-api/data/events"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultMessagePageSize = 20

type Instance interface {
	// Connect authenticates a credential and registers the session as the
	// user's active connection
	Connect(ctx context.Context, credential string, sessionID string) (structures.User, error)
	// Disconnect tears down the session's presence and viewer state. Safe to
	// call for a session that has already been superseded by a reconnect
	Disconnect(ctx context.Context, userID primitive.ObjectID, sessionID string) error

	JoinRoom(ctx context.Context, userID primitive.ObjectID, sessionID string, roomID primitive.ObjectID) (structures.Room, error)
	LeaveRoom(userID primitive.ObjectID, sessionID string, roomID primitive.ObjectID)
	SendMessage(ctx context.Context, userID primitive.ObjectID, roomID primitive.ObjectID, kind structures.MessageType, content string) (structures.Message, error)
	LoadMessages(ctx context.Context, roomID primitive.ObjectID) ([]structures.Message, error)
	LoadOlderMessages(ctx context.Context, roomID primitive.ObjectID, beforeID primitive.ObjectID) ([]structures.Message, error)
	MarkRead(ctx context.Context, userID primitive.ObjectID, roomID primitive.ObjectID) error

	SendFriendRequest(ctx context.Context, senderID primitive.ObjectID, recipientID primitive.ObjectID) (structures.Friendship, error)
	AcceptFriendRequest(ctx context.Context, actorID primitive.ObjectID, friendshipID primitive.ObjectID) (structures.Friendship, error)
	RejectFriendRequest(ctx context.Context, actorID primitive.ObjectID, friendshipID primitive.ObjectID) (structures.Friendship, error)
}

// Store is the persistence surface the coordinator depends on. It is
// deliberately narrow so tests can substitute an in-memory implementation
type Store interface {
	FindUser(ctx context.Context, userID primitive.ObjectID) (structures.User, error)
	SetUserOnline(ctx context.Context, userID primitive.ObjectID) error
	SetUserOffline(ctx context.Context, userID primitive.ObjectID) error

	FindRoom(ctx context.Context, roomID primitive.ObjectID) (structures.Room, error)
	Participant(ctx context.Context, roomID primitive.ObjectID, userID primitive.ObjectID) (structures.RoomParticipant, error)
	RoomParticipants(ctx context.Context, roomID primitive.ObjectID) ([]structures.RoomParticipant, error)

	CreateMessage(ctx context.Context, mb *structures.Message) error
	MessageByID(ctx context.Context, messageID primitive.ObjectID) (structures.Message, error)
	RecentMessages(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]structures.Message, error)
	MessagesBefore(ctx context.Context, roomID primitive.ObjectID, before time.Time, beforeID primitive.ObjectID, limit int64) ([]structures.Message, error)

	IncrementUnread(ctx context.Context, roomID primitive.ObjectID, userID primitive.ObjectID) error
	ResetUnread(ctx context.Context, roomID primitive.ObjectID, userID primitive.ObjectID, at time.Time) error

	CreateFriendship(ctx context.Context, fb *structures.Friendship) error
	FriendshipByID(ctx context.Context, friendshipID primitive.ObjectID) (structures.Friendship, error)
	SetFriendshipStatus(ctx context.Context, friendshipID primitive.ObjectID, status structures.FriendshipStatus) (structures.Friendship, error)
}

// TokenVerifier resolves a bearer credential to a user id
type TokenVerifier interface {
	VerifyAccessToken(token string) (primitive.ObjectID, error)
}

type Options struct {
	Store     Store
	Verifier  TokenVerifier
	Presence  presence.Instance
	Viewers   viewers.Instance
	Events    events.Instance
	Modelizer model.Modelizer

	PageSize int64
}

type chatInst struct {
	store     Store
	verifier  TokenVerifier
	presence  presence.Instance
	viewers   viewers.Instance
	events    events.Instance
	modelizer model.Modelizer

	pageSize int64
}

func New(opt Options) Instance {
	if opt.PageSize <= 0 {
		opt.PageSize = DefaultMessagePageSize
	}

	return &chatInst{
		store:     opt.Store,
		verifier:  opt.Verifier,
		presence:  opt.Presence,
		viewers:   opt.Viewers,
		events:    opt.Events,
		modelizer: opt.Modelizer,
		pageSize:  opt.PageSize,
	}
}
