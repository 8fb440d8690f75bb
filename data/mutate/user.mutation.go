package mutate

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (m *Mutate) CreateUser(ctx context.Context, user *structures.User) error {
	if user == nil {
		return errors.ErrInternalIncompleteMutation()
	}

	if user.Username == "" || user.Email == "" || user.PasswordHash == "" {
		return errors.ErrMissingRequiredField().SetFields(errors.Fields{
			"FIELDS": []string{"username", "email", "password"},
		})
	}

	// Reject duplicate emails
	err := m.mongo.Collection(structures.CollectionNameUsers).FindOne(ctx, bson.M{
		"email": user.Email,
	}).Err()
	if err == nil {
		return errors.ErrInvalidRequest().SetDetail("Email Already In Use")
	} else if err != mongo.ErrNoDocuments {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	user.CreatedAt = time.Now()
	user.State = structures.UserState{
		Online:       false,
		LastActiveAt: user.CreatedAt,
	}

	result, err := m.mongo.Collection(structures.CollectionNameUsers).InsertOne(ctx, user)
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	switch t := result.InsertedID.(type) {
	case primitive.ObjectID:
		user.ID = t
	}

	return nil
}

// SetUserOnline flags the user online and refreshes their last-active time.
func (m *Mutate) SetUserOnline(ctx context.Context, userID primitive.ObjectID) error {
	return m.setUserState(ctx, userID, true)
}

func (m *Mutate) SetUserOffline(ctx context.Context, userID primitive.ObjectID) error {
	return m.setUserState(ctx, userID, false)
}

func (m *Mutate) setUserState(ctx context.Context, userID primitive.ObjectID, online bool) error {
	_, err := m.mongo.Collection(structures.CollectionNameUsers).UpdateOne(ctx, bson.M{
		"_id": userID,
	}, bson.M{
		"$set": bson.M{
			"state.online":         online,
			"state.last_active_at": time.Now(),
		},
	})
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return nil
}
