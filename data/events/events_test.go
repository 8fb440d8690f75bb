package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/seventv/chat-api/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type captureWriter struct {
	mx       sync.Mutex
	messages []Message[json.RawMessage]
}

func (w *captureWriter) WriteEvent(msg Message[json.RawMessage]) error {
	w.mx.Lock()
	defer w.mx.Unlock()

	w.messages = append(w.messages, msg)

	return nil
}

func (w *captureWriter) types(t *testing.T) []EventType {
	t.Helper()

	w.mx.Lock()
	defer w.mx.Unlock()

	result := make([]EventType, len(w.messages))

	for n, msg := range w.messages {
		testutil.Assert(t, OpcodeDispatch, msg.Op, "dispatch opcode")

		pl, err := ConvertMessage[DispatchPayload](msg)
		testutil.IsNil(t, err, "payload decodes")

		result[n] = pl.Data.Type
	}

	return result
}

func TestDispatchTo(t *testing.T) {
	t.Parallel()

	router := NewRouter(context.Background(), nil)

	w := &captureWriter{}
	router.Attach("sess-1", w)

	router.DispatchTo("sess-1", EventTypeNewFriendRequest, RoomPayload{RoomID: primitive.NewObjectID()})
	router.DispatchTo("sess-unknown", EventTypeNewFriendRequest, nil)

	types := w.types(t)
	testutil.Assert(t, 1, len(types), "one delivery")
	testutil.Assert(t, EventTypeNewFriendRequest, types[0], "event type")
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	t.Parallel()

	router := NewRouter(context.Background(), nil)
	roomID := primitive.NewObjectID()

	member := &captureWriter{}
	outsider := &captureWriter{}

	router.Attach("sess-member", member)
	router.Attach("sess-outsider", outsider)
	router.Join("sess-member", roomID)

	router.Broadcast(roomID, EventTypeReceivedMessage, RoomPayload{RoomID: roomID})

	testutil.Assert(t, 1, len(member.types(t)), "member received")
	testutil.Assert(t, 0, len(outsider.types(t)), "outsider skipped")
}

func TestLeaveStopsDelivery(t *testing.T) {
	t.Parallel()

	router := NewRouter(context.Background(), nil)
	roomID := primitive.NewObjectID()

	w := &captureWriter{}
	router.Attach("sess-1", w)
	router.Join("sess-1", roomID)
	router.Leave("sess-1", roomID)

	router.Broadcast(roomID, EventTypeReceivedMessage, nil)

	testutil.Assert(t, 0, len(w.types(t)), "no delivery after leave")
}

func TestDetachClearsRoomMembership(t *testing.T) {
	t.Parallel()

	router := NewRouter(context.Background(), nil)
	roomID := primitive.NewObjectID()

	w := &captureWriter{}
	router.Attach("sess-1", w)
	router.Join("sess-1", roomID)

	testutil.Assert(t, 1, router.SessionCount(), "one session")

	router.Detach("sess-1")

	testutil.Assert(t, 0, router.SessionCount(), "no sessions")

	router.Broadcast(roomID, EventTypeReceivedMessage, nil)
	router.DispatchTo("sess-1", EventTypeReceivedMessage, nil)

	testutil.Assert(t, 0, len(w.types(t)), "no delivery after detach")
}

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()

	in := NewMessage(OpcodeHello, HelloPayload{
		SessionID:         "sess-1",
		HeartbeatInterval: 45000,
	})

	raw := in.ToRaw()
	testutil.Assert(t, OpcodeHello, raw.Op, "opcode preserved")

	out, err := ConvertMessage[HelloPayload](raw)
	testutil.IsNil(t, err, "converts back")
	testutil.Assert(t, "sess-1", out.Data.SessionID, "session id")
	testutil.Assert(t, int64(45000), out.Data.HeartbeatInterval, "heartbeat interval")
}
