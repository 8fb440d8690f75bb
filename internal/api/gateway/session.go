package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/google/uuid"
	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"go.uber.org/zap"
)

type session struct {
	gctx global.Context
	conn *websocket.Conn
	id   string
	user structures.User

	writeMx sync.Mutex
}

func newSession(gctx global.Context, conn *websocket.Conn) *session {
	return &session{
		gctx: gctx,
		conn: conn,
		id:   uuid.NewString(),
	}
}

// WriteEvent delivers a routed event to this connection.
func (s *session) WriteEvent(msg events.Message[json.RawMessage]) error {
	s.gctx.Inst().Prometheus.EventsDispatched().Inc()

	return s.write(msg)
}

func (s *session) write(msg events.Message[json.RawMessage]) error {
	s.writeMx.Lock()
	defer s.writeMx.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(time.Second * 10))

	return s.conn.WriteJSON(msg)
}

func (s *session) writeError(err error) {
	payload := events.ErrorPayload{Message: err.Error()}

	if apiErr, ok := err.(errors.APIError); ok {
		payload.Message = apiErr.Message()
		payload.Code = apiErr.Code()
		payload.Fields = apiErr.GetFields()
	}

	_ = s.write(events.NewMessage(events.OpcodeError, payload).ToRaw())
}

func (s *session) writeAck(op events.Opcode) {
	_ = s.write(events.NewMessage(events.OpcodeAck, events.AckPayload{Command: op.String()}).ToRaw())
}

func (s *session) run(token string) {
	defer func() {
		_ = s.conn.Close()
	}()

	user, err := s.gctx.Inst().Chat.Connect(s.gctx, token, s.id)
	if err != nil {
		s.writeError(err)
		return
	}

	s.user = user

	s.gctx.Inst().Prometheus.TotalConnections().Inc()
	s.gctx.Inst().Prometheus.CurrentConnections().Inc()

	s.gctx.Inst().Events.Attach(s.id, s)

	defer func() {
		s.gctx.Inst().Events.Detach(s.id)
		s.gctx.Inst().Prometheus.CurrentConnections().Dec()

		if err := s.gctx.Inst().Chat.Disconnect(s.gctx, s.user.ID, s.id); err != nil {
			zap.S().Errorw("gateway, session teardown failed",
				"error", err,
				"session_id", s.id,
				"user_id", s.user.ID,
			)
		}
	}()

	if err = s.write(events.NewMessage(events.OpcodeHello, events.HelloPayload{
		SessionID:         s.id,
		HeartbeatInterval: heartbeatInterval.Milliseconds(),
	}).ToRaw()); err != nil {
		return
	}

	go s.heartbeat()

	s.readLoop()
}

func (s *session) heartbeat() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.gctx.Done():
			_ = s.conn.Close()
			return
		case <-ticker.C:
			if err := s.write(events.NewMessage(events.OpcodeHeartbeat, json.RawMessage("{}")).ToRaw()); err != nil {
				_ = s.conn.Close()
				return
			}
		}
	}
}

func (s *session) readLoop() {
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(heartbeatInterval * 3))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		msg := events.Message[json.RawMessage]{}
		if err = json.Unmarshal(data, &msg); err != nil {
			s.writeError(err)
			continue
		}

		s.handleMessage(msg)
	}
}
