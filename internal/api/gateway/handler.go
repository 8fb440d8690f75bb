package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/constant"
	"github.com/seventv/chat-api/internal/svc/limiter"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// messagePage is the body of the messagesLoaded and olderMessagesLoaded
// events.
type messagePage struct {
	RoomID   primitive.ObjectID   `json:"room_id"`
	Messages []model.MessageModel `json:"messages"`
}

func (s *session) handleMessage(msg events.Message[json.RawMessage]) {
	var err error

	switch msg.Op {
	case events.OpcodeHeartbeat:
		s.writeAck(events.OpcodeHeartbeat)
		return
	case events.OpcodeJoinRoom:
		err = s.onJoinRoom(msg)
	case events.OpcodeLeaveRoom:
		err = s.onLeaveRoom(msg)
	case events.OpcodeSendMessage:
		err = s.onSendMessage(msg)
	case events.OpcodeLoadMessages:
		err = s.onLoadMessages(msg)
	case events.OpcodeLoadOlderMessages:
		err = s.onLoadOlderMessages(msg)
	case events.OpcodeMarkRead:
		err = s.onMarkRead(msg)
	case events.OpcodeSendFriendRequest:
		err = s.onSendFriendRequest(msg)
	case events.OpcodeAcceptFriendRequest, events.OpcodeRejectFriendRequest:
		err = s.onResolveFriendRequest(msg)
	default:
		err = errors.ErrUnknownRoute().SetDetail("Undocumented Operation")
	}

	if err != nil {
		s.writeError(err)
		return
	}

	s.writeAck(msg.Op)
}

func (s *session) onJoinRoom(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.RoomPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	if _, err := s.gctx.Inst().Chat.JoinRoom(s.gctx, s.user.ID, s.id, pl.Data.RoomID); err != nil {
		return err
	}

	// the latest page rides along so the client can render immediately
	return s.dispatchMessagePage(events.EventTypeMessagesLoaded, pl.Data.RoomID, primitive.NilObjectID)
}

func (s *session) onLeaveRoom(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.RoomPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	s.gctx.Inst().Chat.LeaveRoom(s.user.ID, s.id, pl.Data.RoomID)

	return nil
}

func (s *session) onSendMessage(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.SendMessagePayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	if limit := s.gctx.Config().Limits.MaxMessageLength; limit > 0 && len(pl.Data.Content) > limit {
		return errors.ErrInvalidRequest().SetDetail("Message Too Long")
	}

	if rate := s.gctx.Config().Limits.Buckets.Messages; rate[0] > 0 {
		ctx := context.WithValue(s.gctx, constant.UserKey, s.user.ID)
		if !s.gctx.Inst().Limiter.Test(ctx, "messages", rate[0], time.Second*time.Duration(rate[1]), limiter.TestOptions{}) {
			return errors.ErrRateLimited()
		}
	}

	kind := structures.MessageType(pl.Data.Type)
	if pl.Data.Type == "" {
		kind = structures.MessageTypeText
	}

	if _, err := s.gctx.Inst().Chat.SendMessage(s.gctx, s.user.ID, pl.Data.RoomID, kind, pl.Data.Content); err != nil {
		return err
	}

	s.gctx.Inst().Prometheus.MessagesSent().Inc()

	return nil
}

func (s *session) onLoadMessages(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.RoomPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	return s.dispatchMessagePage(events.EventTypeMessagesLoaded, pl.Data.RoomID, primitive.NilObjectID)
}

func (s *session) onLoadOlderMessages(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.LoadOlderMessagesPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	return s.dispatchMessagePage(events.EventTypeOlderMessagesLoaded, pl.Data.RoomID, pl.Data.BeforeMessageID)
}

func (s *session) onMarkRead(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.RoomPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	return s.gctx.Inst().Chat.MarkRead(s.gctx, s.user.ID, pl.Data.RoomID)
}

func (s *session) onSendFriendRequest(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.FriendRequestPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	_, err = s.gctx.Inst().Chat.SendFriendRequest(s.gctx, s.user.ID, pl.Data.UserID)

	return err
}

func (s *session) onResolveFriendRequest(msg events.Message[json.RawMessage]) error {
	pl, err := events.ConvertMessage[events.FriendRequestPayload](msg)
	if err != nil {
		return errors.ErrInvalidRequest().SetDetail("Bad Payload")
	}

	if msg.Op == events.OpcodeAcceptFriendRequest {
		_, err = s.gctx.Inst().Chat.AcceptFriendRequest(s.gctx, s.user.ID, pl.Data.FriendshipID)
	} else {
		_, err = s.gctx.Inst().Chat.RejectFriendRequest(s.gctx, s.user.ID, pl.Data.FriendshipID)
	}

	return err
}

// dispatchMessagePage loads a page of history and sends it back on this
// session. A zero beforeID means the latest page.
func (s *session) dispatchMessagePage(t events.EventType, roomID primitive.ObjectID, beforeID primitive.ObjectID) error {
	var (
		messages []structures.Message
		err      error
	)

	if beforeID.IsZero() {
		messages, err = s.gctx.Inst().Chat.LoadMessages(s.gctx, roomID)
	} else {
		messages, err = s.gctx.Inst().Chat.LoadOlderMessages(s.gctx, roomID, beforeID)
	}

	if err != nil {
		return err
	}

	page := messagePage{
		RoomID:   roomID,
		Messages: make([]model.MessageModel, len(messages)),
	}

	for i, m := range messages {
		mm := s.gctx.Inst().Modelizer.Message(m)

		if author, err := s.gctx.Inst().Loaders.UserByID().Load(m.AuthorID); err == nil {
			mm.Author = utils.PointerOf(s.gctx.Inst().Modelizer.User(author).ToPartial())
		}

		page.Messages[i] = mm
	}

	s.gctx.Inst().Events.DispatchTo(s.id, t, page)

	return nil
}
