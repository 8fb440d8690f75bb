package chat

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/structures"

	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (i *chatInst) JoinRoom(ctx context.Context, userID primitive.ObjectID, sessionID string, roomID primitive.ObjectID) (structures.Room, error) {
	if _, err := i.store.Participant(ctx, roomID, userID); err != nil {
		return structures.Room{}, err
	}

	room, err := i.store.FindRoom(ctx, roomID)
	if err != nil {
		return structures.Room{}, err
	}

	// joining is additive: the user may be viewing several rooms at once
	i.viewers.Enter(roomID, userID)
	i.events.Join(sessionID, roomID)

	if err = i.markRead(ctx, userID, roomID); err != nil {
		zap.S().Errorw("chat, couldn't clear unread on join",
			"error", err,
			"room_id", roomID,
			"user_id", userID,
		)
	}

	i.events.DispatchTo(sessionID, events.EventTypeJoinedRoom, events.RoomPayload{RoomID: roomID})

	i.notifyPeers(ctx, roomID, userID, events.EventTypeFriendJoinedRoom, events.RoomUserPayload{
		RoomID: roomID,
		UserID: userID,
	})

	return room, nil
}

func (i *chatInst) LeaveRoom(userID primitive.ObjectID, sessionID string, roomID primitive.ObjectID) {
	i.events.Leave(sessionID, roomID)

	// a stale session's leave must not strip the successor's viewing state
	if current, ok := i.presence.Lookup(userID); ok && current != sessionID {
		return
	}

	i.viewers.Leave(roomID, userID)
}

func (i *chatInst) MarkRead(ctx context.Context, userID primitive.ObjectID, roomID primitive.ObjectID) error {
	if _, err := i.store.Participant(ctx, roomID, userID); err != nil {
		return err
	}

	return i.markRead(ctx, userID, roomID)
}

// markRead clears the caller's unread counter, anchoring last_read_at to the
// newest message so a message that lands concurrently is not swallowed.
func (i *chatInst) markRead(ctx context.Context, userID primitive.ObjectID, roomID primitive.ObjectID) error {
	at := time.Now()

	latest, err := i.store.RecentMessages(ctx, roomID, 1)
	if err != nil {
		return err
	}

	if len(latest) > 0 {
		at = latest[len(latest)-1].CreatedAt
	}

	return i.store.ResetUnread(ctx, roomID, userID, at)
}

// notifyPeers dispatches an event to every online participant of the room
// except the acting user.
func (i *chatInst) notifyPeers(ctx context.Context, roomID primitive.ObjectID, actorID primitive.ObjectID, t events.EventType, body any) {
	participants, err := i.store.RoomParticipants(ctx, roomID)
	if err != nil {
		if apiErr, ok := err.(errors.APIError); !ok || apiErr.Code() != errors.ErrNoItems().Code() {
			zap.S().Errorw("chat, couldn't list participants for notify",
				"error", err,
				"room_id", roomID,
			)
		}

		return
	}

	for _, p := range participants {
		if p.UserID == actorID {
			continue
		}

		if sessionID, ok := i.presence.Lookup(p.UserID); ok {
			i.events.DispatchTo(sessionID, t, body)
		}
	}
}
