package mutate

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOrCreateDirectRoom returns the direct room for the unordered pair of
// users, creating it on first use. The upsert on the pair key makes this
// idempotent under concurrent calls in either argument order.
func (m *Mutate) FindOrCreateDirectRoom(ctx context.Context, userA, userB primitive.ObjectID, name string) (structures.Room, error) {
	room := structures.Room{}

	if userA == userB {
		return room, errors.ErrDontBeSilly().SetDetail("You cannot open a room with yourself")
	}

	now := time.Now()
	pairKey := structures.DirectRoomPairKey(userA, userB)

	err := m.mongo.Collection(structures.CollectionNameRooms).FindOneAndUpdate(ctx, bson.M{
		"is_group": false,
		"pair_key": pairKey,
	}, bson.M{
		"$setOnInsert": bson.M{
			"name":             name,
			"is_group":         false,
			"pair_key":         pairKey,
			"last_activity_at": now,
			"created_at":       now,
		},
	}, options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&room)
	if err != nil {
		return room, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	for _, userID := range []primitive.ObjectID{userA, userB} {
		if _, err = m.mongo.Collection(structures.CollectionNameRoomParticipants).UpdateOne(ctx, bson.M{
			"room_id": room.ID,
			"user_id": userID,
		}, bson.M{
			"$setOnInsert": structures.RoomParticipant{
				RoomID:     room.ID,
				UserID:     userID,
				LastReadAt: now,
				JoinedAt:   now,
			},
		}, options.Update().SetUpsert(true)); err != nil {
			return room, errors.ErrInternalServerError().SetDetail(err.Error())
		}
	}

	return room, nil
}
