// Package store bridges the chat coordinator's persistence surface onto the
// mongo-backed query and mutate layers.
package store

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/mutate"
	"github.com/seventv/chat-api/data/query"
	"github.com/seventv/chat-api/data/structures"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	query  *query.Query
	mutate *mutate.Mutate
}

func New(q *query.Query, m *mutate.Mutate) *Store {
	return &Store{
		query:  q,
		mutate: m,
	}
}

func (s *Store) FindUser(ctx context.Context, userID primitive.ObjectID) (structures.User, error) {
	return s.query.UserByID(ctx, userID)
}

func (s *Store) SetUserOnline(ctx context.Context, userID primitive.ObjectID) error {
	return s.mutate.SetUserOnline(ctx, userID)
}

func (s *Store) SetUserOffline(ctx context.Context, userID primitive.ObjectID) error {
	return s.mutate.SetUserOffline(ctx, userID)
}

func (s *Store) FindRoom(ctx context.Context, roomID primitive.ObjectID) (structures.Room, error) {
	return s.query.RoomByID(ctx, roomID)
}

func (s *Store) Participant(ctx context.Context, roomID primitive.ObjectID, userID primitive.ObjectID) (structures.RoomParticipant, error) {
	return s.query.Participant(ctx, roomID, userID)
}

func (s *Store) RoomParticipants(ctx context.Context, roomID primitive.ObjectID) ([]structures.RoomParticipant, error) {
	return s.query.RoomParticipants(ctx, roomID).Items()
}

func (s *Store) CreateMessage(ctx context.Context, msg *structures.Message) error {
	return s.mutate.CreateMessage(ctx, msg)
}

func (s *Store) MessageByID(ctx context.Context, messageID primitive.ObjectID) (structures.Message, error) {
	return s.query.MessageByID(ctx, messageID)
}

func (s *Store) RecentMessages(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]structures.Message, error) {
	return s.query.RecentMessages(ctx, roomID, int(limit)).Items()
}

func (s *Store) MessagesBefore(ctx context.Context, roomID primitive.ObjectID, before time.Time, beforeID primitive.ObjectID, limit int64) ([]structures.Message, error) {
	return s.query.MessagesBefore(ctx, roomID, before, beforeID, int(limit)).Items()
}

func (s *Store) IncrementUnread(ctx context.Context, roomID primitive.ObjectID, userID primitive.ObjectID) error {
	return s.mutate.IncrementUnread(ctx, roomID, userID)
}

func (s *Store) ResetUnread(ctx context.Context, roomID primitive.ObjectID, userID primitive.ObjectID, at time.Time) error {
	return s.mutate.ResetUnread(ctx, roomID, userID, at)
}

func (s *Store) CreateFriendship(ctx context.Context, f *structures.Friendship) error {
	return s.mutate.CreateFriendship(ctx, f)
}

func (s *Store) FriendshipByID(ctx context.Context, friendshipID primitive.ObjectID) (structures.Friendship, error) {
	return s.query.FriendshipByID(ctx, friendshipID)
}

func (s *Store) SetFriendshipStatus(ctx context.Context, friendshipID primitive.ObjectID, status structures.FriendshipStatus) (structures.Friendship, error) {
	return s.mutate.SetFriendshipStatus(ctx, friendshipID, status)
}
