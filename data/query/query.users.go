package query

import (
	"context"
	"regexp"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func (q *Query) Users(ctx context.Context, filter bson.M) *QueryResult[structures.User] {
	qr := &QueryResult[structures.User]{}

	cur, err := q.mongo.Collection(structures.CollectionNameUsers).Find(ctx, filter)
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.User{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}

func (q *Query) UserByID(ctx context.Context, id primitive.ObjectID) (structures.User, error) {
	mtx := q.mtx("UserByID:" + id.Hex())
	mtx.Lock()
	defer mtx.Unlock()

	k := q.key("user:" + id.Hex())

	user := structures.User{}
	if ok := q.getFromMemCache(ctx, k, &user); ok {
		return user, nil
	}

	err := q.mongo.Collection(structures.CollectionNameUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return user, errors.ErrUnknownUser()
		}

		return user, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	if err := q.setInMemCache(ctx, k, user, time.Second*30); err != nil {
		zap.S().Errorw("failed to cache user query", "error", err)
	}

	return user, nil
}

func (q *Query) UserByEmail(ctx context.Context, email string) (structures.User, error) {
	user := structures.User{}

	err := q.mongo.Collection(structures.CollectionNameUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return user, errors.ErrUnknownUser()
		}

		return user, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return user, nil
}

// SearchUsers matches usernames by case-insensitive substring, excluding the
// searching user themselves.
func (q *Query) SearchUsers(ctx context.Context, name string, exclude primitive.ObjectID) *QueryResult[structures.User] {
	qr := &QueryResult[structures.User]{}

	cur, err := q.mongo.Collection(structures.CollectionNameUsers).Find(ctx, bson.M{
		"username": bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"},
		"_id":      bson.M{"$not": bson.M{"$eq": exclude}},
	}, options.Find().SetLimit(25))
	if err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	items := []structures.User{}
	if err = cur.All(ctx, &items); err != nil {
		return qr.setError(errors.ErrInternalServerError().SetDetail(err.Error()))
	}

	return qr.setItems(items)
}
