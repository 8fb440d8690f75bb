package query

import (
	"context"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/mongo"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (q *Query) FriendshipByID(ctx context.Context, id primitive.ObjectID) (structures.Friendship, error) {
	f := structures.Friendship{}

	err := q.mongo.Collection(structures.CollectionNameFriendships).FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return f, errors.ErrNoItems().SetDetail("Unknown Friend Request")
		}

		return f, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return f, nil
}

func (q *Query) Friendships(ctx context.Context, filter bson.M) *QueryResult[structures.Friendship] {
	qr := &QueryResult[structures.Friendship]{}

	cur, err := q.mongo.Collection(structures.CollectionNameFriendships).Find(ctx, filter)
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.Friendship{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}

// Friends resolves the users on the accepted side of the given user's
// friendships.
func (q *Query) Friends(ctx context.Context, userID primitive.ObjectID) *QueryResult[structures.User] {
	qr := &QueryResult[structures.User]{}

	friendships, err := q.Friendships(ctx, bson.M{
		"status": structures.FriendshipStatusAccepted,
		"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"recipient_id": userID},
		},
	}).Items()
	if err != nil {
		return qr.setError(err)
	}

	friendIDs := utils.Map(friendships, func(x structures.Friendship) primitive.ObjectID {
		return x.Counterpart(userID)
	})

	return q.Users(ctx, bson.M{"_id": bson.M{"$in": friendIDs}})
}

func (q *Query) PendingFriendRequests(ctx context.Context, recipientID primitive.ObjectID) *QueryResult[structures.Friendship] {
	return q.Friendships(ctx, bson.M{
		"recipient_id": recipientID,
		"status":       structures.FriendshipStatusPending,
	})
}
