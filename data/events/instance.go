package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/seventv/common/redis"
	"github.com/seventv/common/sync_map"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SessionWriter is the transport-side write handle of one live connection.
type SessionWriter interface {
	WriteEvent(msg Message[json.RawMessage]) error
}

// Instance routes events to live sessions. Delivery is best-effort: an
// absent target means the event is dropped, never an error.
type Instance interface {
	Attach(sessionID string, w SessionWriter)
	Detach(sessionID string)
	Join(sessionID string, roomID primitive.ObjectID)
	Leave(sessionID string, roomID primitive.ObjectID)
	DispatchTo(sessionID string, t EventType, body any)
	Broadcast(roomID primitive.ObjectID, t EventType, body any)
	SessionCount() int
}

type routerInst struct {
	ctx   context.Context
	id    string
	redis redis.Instance

	sessions *sync_map.Map[string, SessionWriter]

	mx        sync.RWMutex
	rooms     map[primitive.ObjectID]utils.Set[string]
	sessRooms map[string]utils.Set[primitive.ObjectID]
}

// remoteDispatch is the cross-pod fanout envelope published over redis.
type remoteDispatch struct {
	Origin    string                   `json:"origin"`
	SessionID string                   `json:"session_id,omitempty"`
	RoomID    primitive.ObjectID       `json:"room_id,omitempty"`
	Message   Message[json.RawMessage] `json:"message"`
}

func NewRouter(ctx context.Context, redisInst redis.Instance) Instance {
	r := &routerInst{
		ctx:       ctx,
		id:        uuid.NewString(),
		redis:     redisInst,
		sessions:  &sync_map.Map[string, SessionWriter]{},
		rooms:     map[primitive.ObjectID]utils.Set[string]{},
		sessRooms: map[string]utils.Set[primitive.ObjectID]{},
	}

	if redisInst != nil {
		go r.subscribe()
	}

	return r
}

func (r *routerInst) key() redis.Key {
	return r.redis.ComposeKey("chat", "events:dispatch")
}

// subscribe applies dispatches published by other pods to local sessions.
func (r *routerInst) subscribe() {
	sub := r.redis.RawClient().Subscribe(r.ctx, r.key().String())

	defer func() {
		_ = sub.Close()
	}()

	ch := sub.Channel()

	for {
		select {
		case <-r.ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}

			rd := remoteDispatch{}
			if err := json.Unmarshal(utils.S2B(m.Payload), &rd); err != nil {
				zap.S().Errorw("events, bad remote dispatch", "error", err)
				continue
			}

			if rd.Origin == r.id {
				continue
			}

			if rd.SessionID != "" {
				r.writeLocal(rd.SessionID, rd.Message)
			} else if !rd.RoomID.IsZero() {
				for _, sid := range r.roomSessions(rd.RoomID) {
					r.writeLocal(sid, rd.Message)
				}
			}
		}
	}
}

func (r *routerInst) publish(rd remoteDispatch) {
	if r.redis == nil {
		return
	}

	rd.Origin = r.id

	j, err := json.Marshal(rd)
	if err != nil {
		return
	}

	if err := r.redis.RawClient().Publish(r.ctx, r.key().String(), utils.B2S(j)).Err(); err != nil {
		zap.S().Errorw("events, failed to publish dispatch", "error", err)
	}
}

func (r *routerInst) Attach(sessionID string, w SessionWriter) {
	r.sessions.Store(sessionID, w)
}

func (r *routerInst) Detach(sessionID string) {
	r.sessions.Delete(sessionID)

	r.mx.Lock()
	defer r.mx.Unlock()

	for roomID := range r.sessRooms[sessionID] {
		if members, ok := r.rooms[roomID]; ok {
			members.Delete(sessionID)

			if len(members) == 0 {
				delete(r.rooms, roomID)
			}
		}
	}

	delete(r.sessRooms, sessionID)
}

func (r *routerInst) Join(sessionID string, roomID primitive.ObjectID) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = utils.Set[string]{}
	}

	r.rooms[roomID].Add(sessionID)

	if _, ok := r.sessRooms[sessionID]; !ok {
		r.sessRooms[sessionID] = utils.Set[primitive.ObjectID]{}
	}

	r.sessRooms[sessionID].Add(roomID)
}

func (r *routerInst) Leave(sessionID string, roomID primitive.ObjectID) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if members, ok := r.rooms[roomID]; ok {
		members.Delete(sessionID)

		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}

	if rooms, ok := r.sessRooms[sessionID]; ok {
		rooms.Delete(roomID)
	}
}

func (r *routerInst) DispatchTo(sessionID string, t EventType, body any) {
	if sessionID == "" {
		return
	}

	msg := dispatchMessage(t, body)

	if r.writeLocal(sessionID, msg) {
		return
	}

	// the session may live on another pod
	r.publish(remoteDispatch{SessionID: sessionID, Message: msg})
}

func (r *routerInst) Broadcast(roomID primitive.ObjectID, t EventType, body any) {
	msg := dispatchMessage(t, body)

	for _, sid := range r.roomSessions(roomID) {
		r.writeLocal(sid, msg)
	}

	r.publish(remoteDispatch{RoomID: roomID, Message: msg})
}

func (r *routerInst) SessionCount() int {
	count := 0

	r.sessions.Range(func(_ string, _ SessionWriter) bool {
		count++
		return true
	})

	return count
}

func (r *routerInst) roomSessions(roomID primitive.ObjectID) []string {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.rooms[roomID].Values()
}

func (r *routerInst) writeLocal(sessionID string, msg Message[json.RawMessage]) bool {
	w, ok := r.sessions.Load(sessionID)
	if !ok {
		return false
	}

	if err := w.WriteEvent(msg); err != nil {
		zap.S().Debugw("events, failed to write to session",
			"error", err,
			"session_id", sessionID,
		)
	}

	return true
}

func dispatchMessage(t EventType, body any) Message[json.RawMessage] {
	raw, _ := json.Marshal(body)

	return NewMessage(OpcodeDispatch, DispatchPayload{
		Type: t,
		Body: raw,
	}).ToRaw()
}
