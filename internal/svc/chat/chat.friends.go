package chat

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/structures"

	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (i *chatInst) SendFriendRequest(ctx context.Context, senderID primitive.ObjectID, recipientID primitive.ObjectID) (structures.Friendship, error) {
	if _, err := i.store.FindUser(ctx, recipientID); err != nil {
		return structures.Friendship{}, err
	}

	fs := structures.Friendship{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      structures.FriendshipStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := i.store.CreateFriendship(ctx, &fs); err != nil {
		return structures.Friendship{}, err
	}

	if sessionID, ok := i.presence.Lookup(recipientID); ok {
		i.events.DispatchTo(sessionID, events.EventTypeNewFriendRequest, i.modelizer.Friendship(fs))
	}

	return fs, nil
}

func (i *chatInst) AcceptFriendRequest(ctx context.Context, actorID primitive.ObjectID, friendshipID primitive.ObjectID) (structures.Friendship, error) {
	return i.resolveFriendRequest(ctx, actorID, friendshipID, structures.FriendshipStatusAccepted, events.EventTypeFriendRequestAccepted)
}

func (i *chatInst) RejectFriendRequest(ctx context.Context, actorID primitive.ObjectID, friendshipID primitive.ObjectID) (structures.Friendship, error) {
	return i.resolveFriendRequest(ctx, actorID, friendshipID, structures.FriendshipStatusRejected, events.EventTypeFriendRequestRejected)
}

func (i *chatInst) resolveFriendRequest(
	ctx context.Context,
	actorID primitive.ObjectID,
	friendshipID primitive.ObjectID,
	status structures.FriendshipStatus,
	t events.EventType,
) (structures.Friendship, error) {
	fs, err := i.store.FriendshipByID(ctx, friendshipID)
	if err != nil {
		return structures.Friendship{}, err
	}

	// only the user the request was addressed to may resolve it
	if fs.RecipientID != actorID {
		return structures.Friendship{}, errors.ErrInsufficientPrivilege().SetDetail("You cannot respond to this friend request")
	}

	fs, err = i.store.SetFriendshipStatus(ctx, friendshipID, status)
	if err != nil {
		return structures.Friendship{}, err
	}

	if sessionID, ok := i.presence.Lookup(fs.SenderID); ok {
		i.events.DispatchTo(sessionID, t, i.modelizer.Friendship(fs))
	}

	return fs, nil
}
