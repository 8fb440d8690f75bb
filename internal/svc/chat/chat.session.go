package chat

import (
	"context"

	"github.com/seventv/chat-api/data/structures"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (i *chatInst) Connect(ctx context.Context, credential string, sessionID string) (structures.User, error) {
	userID, err := i.verifier.VerifyAccessToken(credential)
	if err != nil {
		return structures.User{}, err
	}

	user, err := i.store.FindUser(ctx, userID)
	if err != nil {
		return structures.User{}, err
	}

	// a reconnect replaces the previous session outright
	i.presence.Register(userID, sessionID)

	// the registry is the authoritative connect side effect; the persisted
	// flag is best-effort and repaired by the next state write
	if err = i.store.SetUserOnline(ctx, userID); err != nil {
		zap.S().Errorw("chat, couldn't mark user online", "user_id", userID, "error", err)
	}

	return user, nil
}

func (i *chatInst) Disconnect(ctx context.Context, userID primitive.ObjectID, sessionID string) error {
	// if the registry holds a different session the user has already
	// reconnected, so this teardown must not touch their state
	if !i.presence.Unregister(userID, sessionID) {
		return nil
	}

	i.viewers.PurgeUser(userID)

	return i.store.SetUserOffline(ctx, userID)
}
