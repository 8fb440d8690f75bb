package mutate

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateMessage persists the message and rolls the room's last-activity
// state forward to it. The insertion is the serialization point for the
// room's message order.
func (m *Mutate) CreateMessage(ctx context.Context, msg *structures.Message) error {
	if msg == nil {
		return errors.ErrInternalIncompleteMutation()
	}

	if !msg.Type.Valid() {
		return errors.ErrInvalidRequest().SetDetail("Bad Message Type")
	}

	if msg.Content == "" {
		return errors.ErrMissingRequiredField().SetFields(errors.Fields{"FIELDS": []string{"content"}})
	}

	msg.CreatedAt = time.Now()

	result, err := m.mongo.Collection(structures.CollectionNameMessages).InsertOne(ctx, msg)
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	switch t := result.InsertedID.(type) {
	case primitive.ObjectID:
		msg.ID = t
	}

	if _, err = m.mongo.Collection(structures.CollectionNameRooms).UpdateOne(ctx, bson.M{
		"_id": msg.RoomID,
	}, bson.M{
		"$set": bson.M{
			"last_activity_at": msg.CreatedAt,
			"last_message_id":  msg.ID,
		},
	}); err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return nil
}

// IncrementUnread bumps the unread counter for one (room, user) pair. The
// $inc keeps concurrent sends linearizable; the counter is never
// read-modified-written by callers.
func (m *Mutate) IncrementUnread(ctx context.Context, roomID, userID primitive.ObjectID) error {
	_, err := m.mongo.Collection(structures.CollectionNameRoomParticipants).UpdateOne(ctx, bson.M{
		"room_id": roomID,
		"user_id": userID,
	}, bson.M{
		"$inc": bson.M{"unread_count": 1},
	})
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return nil
}

// ResetUnread zeroes the unread counter and moves the read marker to the
// given time.
func (m *Mutate) ResetUnread(ctx context.Context, roomID, userID primitive.ObjectID, at time.Time) error {
	_, err := m.mongo.Collection(structures.CollectionNameRoomParticipants).UpdateOne(ctx, bson.M{
		"room_id": roomID,
		"user_id": userID,
	}, bson.M{
		"$set": bson.M{
			"unread_count": 0,
			"last_read_at": at,
		},
	})
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return nil
}
