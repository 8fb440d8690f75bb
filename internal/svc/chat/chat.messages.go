package chat

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/structures"

	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (i *chatInst) SendMessage(ctx context.Context, userID primitive.ObjectID, roomID primitive.ObjectID, kind structures.MessageType, content string) (structures.Message, error) {
	if _, err := i.store.Participant(ctx, roomID, userID); err != nil {
		return structures.Message{}, err
	}

	msg := structures.Message{
		RoomID:    roomID,
		AuthorID:  userID,
		Type:      kind,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := i.store.CreateMessage(ctx, &msg); err != nil {
		return structures.Message{}, err
	}

	participants, err := i.store.RoomParticipants(ctx, roomID)
	if err != nil {
		zap.S().Errorw("chat, couldn't list participants for message fanout",
			"error", err,
			"room_id", roomID,
			"message_id", msg.ID,
		)

		participants = nil
	}

	for _, p := range participants {
		if p.UserID == userID {
			continue
		}

		// a participant with the room open has read the message the moment
		// it lands
		if i.viewers.IsViewing(roomID, p.UserID) {
			if err = i.store.ResetUnread(ctx, roomID, p.UserID, msg.CreatedAt); err != nil {
				zap.S().Errorw("chat, couldn't refresh read marker",
					"error", err,
					"room_id", roomID,
					"user_id", p.UserID,
				)
			}

			continue
		}

		if err = i.store.IncrementUnread(ctx, roomID, p.UserID); err != nil {
			zap.S().Errorw("chat, couldn't increment unread",
				"error", err,
				"room_id", roomID,
				"user_id", p.UserID,
			)
		}

		if sessionID, ok := i.presence.Lookup(p.UserID); ok {
			i.events.DispatchTo(sessionID, events.EventTypeNewMessageNotification, events.RoomPayload{RoomID: roomID})
		}
	}

	mm := i.modelizer.Message(msg)

	if author, err := i.store.FindUser(ctx, userID); err == nil {
		mm.Author = utils.PointerOf(i.modelizer.User(author).ToPartial())
	}

	i.events.Broadcast(roomID, events.EventTypeReceivedMessage, mm)

	return msg, nil
}

func (i *chatInst) LoadMessages(ctx context.Context, roomID primitive.ObjectID) ([]structures.Message, error) {
	return i.store.RecentMessages(ctx, roomID, i.pageSize)
}

func (i *chatInst) LoadOlderMessages(ctx context.Context, roomID primitive.ObjectID, beforeID primitive.ObjectID) ([]structures.Message, error) {
	anchor, err := i.store.MessageByID(ctx, beforeID)
	if err != nil {
		// a vanished cursor means the caller paged past the start of history
		if apiErr, ok := err.(errors.APIError); ok && apiErr.Code() == errors.ErrUnknownMessage().Code() {
			return []structures.Message{}, nil
		}

		return nil, err
	}

	return i.store.MessagesBefore(ctx, roomID, anchor.CreatedAt, anchor.ID, i.pageSize)
}
