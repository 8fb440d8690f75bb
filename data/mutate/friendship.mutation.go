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

func (m *Mutate) CreateFriendship(ctx context.Context, f *structures.Friendship) error {
	if f == nil {
		return errors.ErrInternalIncompleteMutation()
	}

	if f.SenderID == f.RecipientID {
		return errors.ErrDontBeSilly().SetDetail("You cannot send a friend request to yourself")
	}

	// A pending or accepted request between the pair blocks a new one
	err := m.mongo.Collection(structures.CollectionNameFriendships).FindOne(ctx, bson.M{
		"status": bson.M{"$in": bson.A{structures.FriendshipStatusPending, structures.FriendshipStatusAccepted}},
		"$or": bson.A{
			bson.M{"sender_id": f.SenderID, "recipient_id": f.RecipientID},
			bson.M{"sender_id": f.RecipientID, "recipient_id": f.SenderID},
		},
	}).Err()
	if err == nil {
		return errors.ErrInvalidRequest().SetDetail("A friend request already exists between these users")
	} else if err != mongo.ErrNoDocuments {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	f.Status = structures.FriendshipStatusPending
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt

	result, err := m.mongo.Collection(structures.CollectionNameFriendships).InsertOne(ctx, f)
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	switch t := result.InsertedID.(type) {
	case primitive.ObjectID:
		f.ID = t
	}

	return nil
}

// SetFriendshipStatus transitions a friendship out of PENDING. The filter
// carries the PENDING precondition so the transition is atomic; a request
// already resolved cannot be resolved again.
func (m *Mutate) SetFriendshipStatus(ctx context.Context, id primitive.ObjectID, status structures.FriendshipStatus) (structures.Friendship, error) {
	f := structures.Friendship{}

	if status != structures.FriendshipStatusAccepted && status != structures.FriendshipStatusRejected {
		return f, errors.ErrInvalidRequest().SetDetail("Bad Friendship Status")
	}

	result, err := m.mongo.Collection(structures.CollectionNameFriendships).UpdateOne(ctx, bson.M{
		"_id":    id,
		"status": structures.FriendshipStatusPending,
	}, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	})
	if err != nil {
		return f, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	if err = m.mongo.Collection(structures.CollectionNameFriendships).FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return f, errors.ErrNoItems().SetDetail("Unknown Friend Request")
		}

		return f, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	if result.MatchedCount == 0 {
		// the row exists but was not pending
		return f, errors.ErrInvalidRequest().SetDetail("Friend Request Already Resolved")
	}

	return f, nil
}
