package query

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// messageSort is newest-first with the id as tiebreak, giving a stable total
// order for equal timestamps.
var messageSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (q *Query) MessageByID(ctx context.Context, id primitive.ObjectID) (structures.Message, error) {
	msg := structures.Message{}

	err := q.mongo.Collection(structures.CollectionNameMessages).FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return msg, errors.ErrUnknownMessage()
		}

		return msg, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return msg, nil
}

// RecentMessages returns the latest messages of a room in chronological
// (oldest first) order.
func (q *Query) RecentMessages(ctx context.Context, roomID primitive.ObjectID, limit int) *QueryResult[structures.Message] {
	return q.messages(ctx, bson.M{"room_id": roomID}, limit)
}

// MessagesBefore returns the page of messages immediately preceding the
// given position, chronological order. New messages inserted at or after the
// cursor can never surface in the result.
func (q *Query) MessagesBefore(
	ctx context.Context,
	roomID primitive.ObjectID,
	before time.Time,
	beforeID primitive.ObjectID,
	limit int,
) *QueryResult[structures.Message] {
	return q.messages(ctx, bson.M{
		"room_id": roomID,
		"$or": bson.A{
			bson.M{"created_at": bson.M{"$lt": before}},
			bson.M{"created_at": before, "_id": bson.M{"$lt": beforeID}},
		},
	}, limit)
}

func (q *Query) messages(ctx context.Context, filter bson.M, limit int) *QueryResult[structures.Message] {
	qr := &QueryResult[structures.Message]{}

	cur, err := q.mongo.Collection(structures.CollectionNameMessages).Find(
		ctx,
		filter,
		options.Find().SetSort(messageSort).SetLimit(int64(limit)),
	)
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.Message{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	// flip to chronological order
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	return qr.setItems(items)
}

// UnreadCounts maps each of the user's rooms to its unread message count.
func (q *Query) UnreadCounts(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]int32, error) {
	participants, err := q.ParticipantsForUser(ctx, userID).Items()
	if err != nil {
		return nil, err
	}

	counts := make(map[primitive.ObjectID]int32, len(participants))
	for _, p := range participants {
		counts[p.RoomID] = p.UnreadCount
	}

	return counts, nil
}
