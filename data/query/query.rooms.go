package query

import (
	"context"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/mongo"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (q *Query) RoomByID(ctx context.Context, id primitive.ObjectID) (structures.Room, error) {
	room := structures.Room{}

	err := q.mongo.Collection(structures.CollectionNameRooms).FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return room, errors.ErrNoItems().SetDetail("Unknown Room")
		}

		return room, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return room, nil
}

func (q *Query) Rooms(ctx context.Context, filter bson.M) *QueryResult[structures.Room] {
	qr := &QueryResult[structures.Room]{}

	cur, err := q.mongo.Collection(structures.CollectionNameRooms).Find(ctx, filter)
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.Room{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}

// RoomsForUser returns the rooms the user participates in, most recently
// active first.
func (q *Query) RoomsForUser(ctx context.Context, userID primitive.ObjectID) *QueryResult[structures.Room] {
	qr := &QueryResult[structures.Room]{}

	participants, err := q.ParticipantsForUser(ctx, userID).Items()
	if err != nil {
		return qr.setError(err)
	}

	roomIDs := utils.Map(participants, func(x structures.RoomParticipant) primitive.ObjectID {
		return x.RoomID
	})

	cur, err := q.mongo.Collection(structures.CollectionNameRooms).Find(
		ctx,
		bson.M{"_id": bson.M{"$in": roomIDs}},
		options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}}),
	)
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.Room{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}

func (q *Query) RoomParticipants(ctx context.Context, roomID primitive.ObjectID) *QueryResult[structures.RoomParticipant] {
	qr := &QueryResult[structures.RoomParticipant]{}

	cur, err := q.mongo.Collection(structures.CollectionNameRoomParticipants).Find(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.RoomParticipant{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}

func (q *Query) ParticipantsForUser(ctx context.Context, userID primitive.ObjectID) *QueryResult[structures.RoomParticipant] {
	qr := &QueryResult[structures.RoomParticipant]{}

	cur, err := q.mongo.Collection(structures.CollectionNameRoomParticipants).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.RoomParticipant{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}

func (q *Query) Participant(ctx context.Context, roomID, userID primitive.ObjectID) (structures.RoomParticipant, error) {
	p := structures.RoomParticipant{}

	err := q.mongo.Collection(structures.CollectionNameRoomParticipants).FindOne(ctx, bson.M{
		"room_id": roomID,
		"user_id": userID,
	}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return p, errors.ErrInsufficientPrivilege().SetDetail("You are not a participant of this room")
		}

		return p, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return p, nil
}
