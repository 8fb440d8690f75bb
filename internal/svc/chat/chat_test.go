package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/svc/presence"
	"github.com/seventv/chat-api/internal/svc/viewers"
	"github.com/seventv/chat-api/internal/testutil"

	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeVerifier struct {
	tokens map[string]primitive.ObjectID
}

func (f *fakeVerifier) VerifyAccessToken(token string) (primitive.ObjectID, error) {
	id, ok := f.tokens[token]
	if !ok {
		return primitive.NilObjectID, errors.ErrUnauthorized().SetDetail("Invalid Token")
	}

	return id, nil
}

type dispatchRecord struct {
	SessionID string
	RoomID    primitive.ObjectID
	Type      events.EventType
	Body      any
}

type recordingEvents struct {
	mx         sync.Mutex
	dispatches []dispatchRecord
	broadcasts []dispatchRecord
	joined     map[string][]primitive.ObjectID
}

func newRecordingEvents() *recordingEvents {
	return &recordingEvents{joined: map[string][]primitive.ObjectID{}}
}

func (r *recordingEvents) Attach(sessionID string, w events.SessionWriter) {}
func (r *recordingEvents) Detach(sessionID string)                        {}
func (r *recordingEvents) SessionCount() int                              { return 0 }

func (r *recordingEvents) Join(sessionID string, roomID primitive.ObjectID) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.joined[sessionID] = append(r.joined[sessionID], roomID)
}

func (r *recordingEvents) Leave(sessionID string, roomID primitive.ObjectID) {
	r.mx.Lock()
	defer r.mx.Unlock()

	rooms := r.joined[sessionID]
	for i, id := range rooms {
		if id == roomID {
			r.joined[sessionID] = append(rooms[:i], rooms[i+1:]...)
			break
		}
	}
}

func (r *recordingEvents) DispatchTo(sessionID string, t events.EventType, body any) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.dispatches = append(r.dispatches, dispatchRecord{SessionID: sessionID, Type: t, Body: body})
}

func (r *recordingEvents) Broadcast(roomID primitive.ObjectID, t events.EventType, body any) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.broadcasts = append(r.broadcasts, dispatchRecord{RoomID: roomID, Type: t, Body: body})
}

func (r *recordingEvents) joinedTo(sessionID string, roomID primitive.ObjectID) bool {
	r.mx.Lock()
	defer r.mx.Unlock()

	for _, id := range r.joined[sessionID] {
		if id == roomID {
			return true
		}
	}

	return false
}

func (r *recordingEvents) dispatchesTo(sessionID string, t events.EventType) int {
	r.mx.Lock()
	defer r.mx.Unlock()

	count := 0

	for _, d := range r.dispatches {
		if d.SessionID == sessionID && d.Type == t {
			count++
		}
	}

	return count
}

type fakeStore struct {
	mx           sync.Mutex
	users        map[primitive.ObjectID]structures.User
	online       map[primitive.ObjectID]bool
	rooms        map[primitive.ObjectID]structures.Room
	participants map[primitive.ObjectID]map[primitive.ObjectID]*structures.RoomParticipant
	messages     []structures.Message
	friendships  map[primitive.ObjectID]*structures.Friendship
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[primitive.ObjectID]structures.User{},
		online:       map[primitive.ObjectID]bool{},
		rooms:        map[primitive.ObjectID]structures.Room{},
		participants: map[primitive.ObjectID]map[primitive.ObjectID]*structures.RoomParticipant{},
		friendships:  map[primitive.ObjectID]*structures.Friendship{},
	}
}

func (f *fakeStore) addUser(name string) structures.User {
	f.mx.Lock()
	defer f.mx.Unlock()

	u := structures.User{ID: primitive.NewObjectID(), Username: name}
	f.users[u.ID] = u

	return u
}

func (f *fakeStore) addRoom(members ...primitive.ObjectID) structures.Room {
	f.mx.Lock()
	defer f.mx.Unlock()

	r := structures.Room{ID: primitive.NewObjectID(), CreatedAt: time.Now()}
	f.rooms[r.ID] = r
	f.participants[r.ID] = map[primitive.ObjectID]*structures.RoomParticipant{}

	for _, m := range members {
		f.participants[r.ID][m] = &structures.RoomParticipant{
			ID:       primitive.NewObjectID(),
			RoomID:   r.ID,
			UserID:   m,
			JoinedAt: time.Now(),
		}
	}

	return r
}

func (f *fakeStore) unread(roomID, userID primitive.ObjectID) int32 {
	f.mx.Lock()
	defer f.mx.Unlock()

	return f.participants[roomID][userID].UnreadCount
}

func (f *fakeStore) FindUser(ctx context.Context, userID primitive.ObjectID) (structures.User, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return structures.User{}, errors.ErrUnknownUser()
	}

	return u, nil
}

func (f *fakeStore) SetUserOnline(ctx context.Context, userID primitive.ObjectID) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.online[userID] = true

	return nil
}

func (f *fakeStore) SetUserOffline(ctx context.Context, userID primitive.ObjectID) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.online[userID] = false

	return nil
}

func (f *fakeStore) FindRoom(ctx context.Context, roomID primitive.ObjectID) (structures.Room, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	r, ok := f.rooms[roomID]
	if !ok {
		return structures.Room{}, errors.ErrNoItems().SetDetail("Unknown Room")
	}

	return r, nil
}

func (f *fakeStore) Participant(ctx context.Context, roomID, userID primitive.ObjectID) (structures.RoomParticipant, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	p, ok := f.participants[roomID][userID]
	if !ok {
		return structures.RoomParticipant{}, errors.ErrInsufficientPrivilege().SetDetail("You are not a participant of this room")
	}

	return *p, nil
}

func (f *fakeStore) RoomParticipants(ctx context.Context, roomID primitive.ObjectID) ([]structures.RoomParticipant, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	result := []structures.RoomParticipant{}
	for _, p := range f.participants[roomID] {
		result = append(result, *p)
	}

	return result, nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, msg *structures.Message) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	msg.ID = primitive.NewObjectID()
	f.messages = append(f.messages, *msg)

	return nil
}

func (f *fakeStore) MessageByID(ctx context.Context, messageID primitive.ObjectID) (structures.Message, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	for _, m := range f.messages {
		if m.ID == messageID {
			return m, nil
		}
	}

	return structures.Message{}, errors.ErrUnknownMessage()
}

func (f *fakeStore) RecentMessages(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]structures.Message, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	result := []structures.Message{}

	for _, m := range f.messages {
		if m.RoomID == roomID {
			result = append(result, m)
		}
	}

	if int64(len(result)) > limit {
		result = result[int64(len(result))-limit:]
	}

	return result, nil
}

func (f *fakeStore) MessagesBefore(ctx context.Context, roomID primitive.ObjectID, before time.Time, beforeID primitive.ObjectID, limit int64) ([]structures.Message, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	result := []structures.Message{}

	for _, m := range f.messages {
		if m.RoomID != roomID {
			continue
		}

		if m.CreatedAt.Before(before) || (m.CreatedAt.Equal(before) && m.ID.Hex() < beforeID.Hex()) {
			result = append(result, m)
		}
	}

	if int64(len(result)) > limit {
		result = result[int64(len(result))-limit:]
	}

	return result, nil
}

func (f *fakeStore) IncrementUnread(ctx context.Context, roomID, userID primitive.ObjectID) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.participants[roomID][userID].UnreadCount++

	return nil
}

func (f *fakeStore) ResetUnread(ctx context.Context, roomID, userID primitive.ObjectID, at time.Time) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	p := f.participants[roomID][userID]
	p.UnreadCount = 0
	p.LastReadAt = at

	return nil
}

func (f *fakeStore) CreateFriendship(ctx context.Context, fs *structures.Friendship) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	if fs.SenderID == fs.RecipientID {
		return errors.ErrDontBeSilly()
	}

	fs.ID = primitive.NewObjectID()
	f.friendships[fs.ID] = fs

	return nil
}

func (f *fakeStore) FriendshipByID(ctx context.Context, friendshipID primitive.ObjectID) (structures.Friendship, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	fs, ok := f.friendships[friendshipID]
	if !ok {
		return structures.Friendship{}, errors.ErrNoItems().SetDetail("Unknown Friend Request")
	}

	return *fs, nil
}

func (f *fakeStore) SetFriendshipStatus(ctx context.Context, friendshipID primitive.ObjectID, status structures.FriendshipStatus) (structures.Friendship, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	fs, ok := f.friendships[friendshipID]
	if !ok {
		return structures.Friendship{}, errors.ErrNoItems().SetDetail("Unknown Friend Request")
	}

	if fs.Status != structures.FriendshipStatusPending {
		return structures.Friendship{}, errors.ErrInvalidRequest().SetDetail("Friend Request Already Resolved")
	}

	fs.Status = status

	return *fs, nil
}

type harness struct {
	store    *fakeStore
	verifier *fakeVerifier
	presence presence.Instance
	viewers  viewers.Instance
	events   *recordingEvents
	chat     Instance
}

func newHarness() *harness {
	h := &harness{
		store:    newFakeStore(),
		verifier: &fakeVerifier{tokens: map[string]primitive.ObjectID{}},
		presence: presence.New(),
		viewers:  viewers.New(),
		events:   newRecordingEvents(),
	}

	h.chat = New(Options{
		Store:     h.store,
		Verifier:  h.verifier,
		Presence:  h.presence,
		Viewers:   h.viewers,
		Events:    h.events,
		Modelizer: model.NewInstance(model.ModelInstanceOptions{Website: "https://chat.example.com"}),
	})

	return h
}

func (h *harness) connect(t *testing.T, user structures.User, sessionID string) {
	t.Helper()

	token := "token-" + sessionID
	h.verifier.tokens[token] = user.ID

	_, err := h.chat.Connect(context.Background(), token, sessionID)
	testutil.IsNil(t, err, "connect succeeds")
}

func apiCode(err error) int {
	if apiErr, ok := err.(errors.APIError); ok {
		return apiErr.Code()
	}

	return 0
}

func TestConnect(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")

	h.connect(t, alice, "sess-1")

	sid, ok := h.presence.Lookup(alice.ID)
	testutil.Assert(t, true, ok, "user is registered")
	testutil.Assert(t, "sess-1", sid, "session id")
	testutil.Assert(t, true, h.store.online[alice.ID], "user marked online")
}

func TestConnectRejectsBadToken(t *testing.T) {
	t.Parallel()

	h := newHarness()

	_, err := h.chat.Connect(context.Background(), "garbage", "sess-1")
	testutil.Assert(t, errors.ErrUnauthorized().Code(), apiCode(err), "auth error code")
}

func TestReconnectSupersedesOldSession(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")

	h.connect(t, alice, "sess-1")
	h.connect(t, alice, "sess-2")

	// the stale session's teardown must not evict the new one
	err := h.chat.Disconnect(context.Background(), alice.ID, "sess-1")
	testutil.IsNil(t, err, "stale disconnect is benign")

	sid, ok := h.presence.Lookup(alice.ID)
	testutil.Assert(t, true, ok, "user still online")
	testutil.Assert(t, "sess-2", sid, "newer session kept")
	testutil.Assert(t, true, h.store.online[alice.ID], "store still online")

	err = h.chat.Disconnect(context.Background(), alice.ID, "sess-2")
	testutil.IsNil(t, err, "disconnect succeeds")

	_, ok = h.presence.Lookup(alice.ID)
	testutil.Assert(t, false, ok, "user offline after real disconnect")
	testutil.Assert(t, false, h.store.online[alice.ID], "store offline")
}

func TestDisconnectSameSessionTwice(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")

	h.connect(t, alice, "sess-1")

	err := h.chat.Disconnect(context.Background(), alice.ID, "sess-1")
	testutil.IsNil(t, err, "first disconnect succeeds")

	// a duplicate teardown for the same session id is a no-op
	err = h.chat.Disconnect(context.Background(), alice.ID, "sess-1")
	testutil.IsNil(t, err, "second disconnect is benign")

	h.connect(t, alice, "sess-2")

	err = h.chat.Disconnect(context.Background(), alice.ID, "sess-1")
	testutil.IsNil(t, err, "late duplicate is benign")

	sid, ok := h.presence.Lookup(alice.ID)
	testutil.Assert(t, true, ok, "new session untouched")
	testutil.Assert(t, "sess-2", sid, "new session kept")
	testutil.Assert(t, true, h.store.online[alice.ID], "store still online")
}

func TestJoinRoom(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	bob := h.store.addUser("bob")
	carol := h.store.addUser("carol")
	room := h.store.addRoom(alice.ID, bob.ID, carol.ID)

	h.connect(t, alice, "sess-a")
	h.connect(t, bob, "sess-b")
	// carol stays offline

	_ = h.store.IncrementUnread(context.Background(), room.ID, alice.ID)

	got, err := h.chat.JoinRoom(context.Background(), alice.ID, "sess-a", room.ID)
	testutil.IsNil(t, err, "join succeeds")
	testutil.Assert(t, room.ID, got.ID, "room returned")

	testutil.Assert(t, true, h.viewers.IsViewing(room.ID, alice.ID), "alice is viewing")
	testutil.Assert(t, int32(0), h.store.unread(room.ID, alice.ID), "unread cleared on join")

	testutil.Assert(t, 1, h.events.dispatchesTo("sess-a", events.EventTypeJoinedRoom), "joined event to self")
	testutil.Assert(t, 1, h.events.dispatchesTo("sess-b", events.EventTypeFriendJoinedRoom), "peer notified")
	testutil.Assert(t, 0, h.events.dispatchesTo("sess-a", events.EventTypeFriendJoinedRoom), "actor not notified")
}

func TestJoinRoomIsAdditive(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	roomA := h.store.addRoom(alice.ID)
	roomB := h.store.addRoom(alice.ID)

	h.connect(t, alice, "sess-a")

	_, err := h.chat.JoinRoom(context.Background(), alice.ID, "sess-a", roomA.ID)
	testutil.IsNil(t, err, "join a")
	_, err = h.chat.JoinRoom(context.Background(), alice.ID, "sess-a", roomB.ID)
	testutil.IsNil(t, err, "join b")

	testutil.Assert(t, true, h.viewers.IsViewing(roomA.ID, alice.ID), "still viewing first room")
	testutil.Assert(t, true, h.viewers.IsViewing(roomB.ID, alice.ID), "viewing second room")
}

func TestJoinRoomRequiresMembership(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	mallory := h.store.addUser("mallory")
	room := h.store.addRoom(alice.ID)

	h.connect(t, mallory, "sess-m")

	_, err := h.chat.JoinRoom(context.Background(), mallory.ID, "sess-m", room.ID)
	testutil.Assert(t, errors.ErrInsufficientPrivilege().Code(), apiCode(err), "forbidden code")
	testutil.Assert(t, false, h.viewers.IsViewing(room.ID, mallory.ID), "no viewer state recorded")
}

func TestSendMessageFanout(t *testing.T) {
	t.Parallel()

	h := newHarness()
	author := h.store.addUser("author")
	viewer := h.store.addUser("viewer")
	idler := h.store.addUser("idler")
	offline := h.store.addUser("offline")
	room := h.store.addRoom(author.ID, viewer.ID, idler.ID, offline.ID)

	h.connect(t, author, "sess-author")
	h.connect(t, viewer, "sess-viewer")
	h.connect(t, idler, "sess-idler")

	_, err := h.chat.JoinRoom(context.Background(), viewer.ID, "sess-viewer", room.ID)
	testutil.IsNil(t, err, "viewer joins")

	msg, err := h.chat.SendMessage(context.Background(), author.ID, room.ID, structures.MessageTypeText, "hello")
	testutil.IsNil(t, err, "send succeeds")
	testutil.Assert(t, false, msg.ID.IsZero(), "message persisted")

	// read-while-present: the viewer never accumulates unread
	testutil.Assert(t, int32(0), h.store.unread(room.ID, viewer.ID), "viewer unread stays zero")
	testutil.Assert(t, int32(1), h.store.unread(room.ID, idler.ID), "idler unread incremented")
	testutil.Assert(t, int32(1), h.store.unread(room.ID, offline.ID), "offline unread incremented")
	testutil.Assert(t, int32(0), h.store.unread(room.ID, author.ID), "author unread untouched")

	testutil.Assert(t, 0, h.events.dispatchesTo("sess-viewer", events.EventTypeNewMessageNotification), "viewer not nagged")
	testutil.Assert(t, 1, h.events.dispatchesTo("sess-idler", events.EventTypeNewMessageNotification), "idler notified")
	testutil.Assert(t, 0, h.events.dispatchesTo("sess-author", events.EventTypeNewMessageNotification), "author not notified")

	testutil.Assert(t, 1, len(h.events.broadcasts), "one room broadcast")
	testutil.Assert(t, events.EventTypeReceivedMessage, h.events.broadcasts[0].Type, "broadcast type")
	testutil.Assert(t, room.ID, h.events.broadcasts[0].RoomID, "broadcast room")
}

func TestSendMessageRequiresMembership(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	mallory := h.store.addUser("mallory")
	room := h.store.addRoom(alice.ID)

	_, err := h.chat.SendMessage(context.Background(), mallory.ID, room.ID, structures.MessageTypeText, "hi")
	testutil.Assert(t, errors.ErrInsufficientPrivilege().Code(), apiCode(err), "forbidden code")
	testutil.Assert(t, 0, len(h.store.messages), "nothing persisted")
}

func TestLeaveRoomStopsReadWhilePresent(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	bob := h.store.addUser("bob")
	room := h.store.addRoom(alice.ID, bob.ID)

	h.connect(t, alice, "sess-a")
	h.connect(t, bob, "sess-b")

	_, err := h.chat.JoinRoom(context.Background(), bob.ID, "sess-b", room.ID)
	testutil.IsNil(t, err, "bob joins")

	h.chat.LeaveRoom(bob.ID, "sess-b", room.ID)

	_, err = h.chat.SendMessage(context.Background(), alice.ID, room.ID, structures.MessageTypeText, "hello")
	testutil.IsNil(t, err, "send succeeds")

	testutil.Assert(t, int32(1), h.store.unread(room.ID, bob.ID), "unread accumulates after leave")
	testutil.Assert(t, 1, h.events.dispatchesTo("sess-b", events.EventTypeNewMessageNotification), "bob notified after leave")
}

func TestLeaveRoomStaleSession(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	room := h.store.addRoom(alice.ID)

	h.connect(t, alice, "sess-1")
	_, err := h.chat.JoinRoom(context.Background(), alice.ID, "sess-1", room.ID)
	testutil.IsNil(t, err, "join on first session")

	h.connect(t, alice, "sess-2")
	_, err = h.chat.JoinRoom(context.Background(), alice.ID, "sess-2", room.ID)
	testutil.IsNil(t, err, "join on second session")

	// a leave issued by the superseded session must not strip the
	// successor's state
	h.chat.LeaveRoom(alice.ID, "sess-1", room.ID)

	testutil.Assert(t, true, h.viewers.IsViewing(room.ID, alice.ID), "still viewing")
	testutil.Assert(t, true, h.events.joinedTo("sess-2", room.ID), "successor still routed to the room")
	testutil.Assert(t, false, h.events.joinedTo("sess-1", room.ID), "stale session unrouted")

	h.chat.LeaveRoom(alice.ID, "sess-2", room.ID)

	testutil.Assert(t, false, h.viewers.IsViewing(room.ID, alice.ID), "active session's leave clears viewing")
	testutil.Assert(t, false, h.events.joinedTo("sess-2", room.ID), "successor unrouted after its own leave")
}

func TestSendMessageDisconnectRace(t *testing.T) {
	t.Parallel()

	for round := 0; round < 25; round++ {
		h := newHarness()
		author := h.store.addUser("author")
		viewer := h.store.addUser("viewer")
		room := h.store.addRoom(author.ID, viewer.ID)

		h.connect(t, author, "sess-author")
		h.connect(t, viewer, "sess-viewer")

		_, err := h.chat.JoinRoom(context.Background(), viewer.ID, "sess-viewer", room.ID)
		testutil.IsNil(t, err, "viewer joins")

		wg := sync.WaitGroup{}
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, _ = h.chat.SendMessage(context.Background(), author.ID, room.ID, structures.MessageTypeText, "racing")
		}()

		go func() {
			defer wg.Done()

			_ = h.chat.Disconnect(context.Background(), viewer.ID, "sess-viewer")
		}()

		wg.Wait()

		// either the viewer was still present (unread reset) or already
		// gone (one unread accrued); anything else is a lost update
		unread := h.store.unread(room.ID, viewer.ID)
		if unread != 0 && unread != 1 {
			t.Fatalf("round %d: unread count out of range: %d", round, unread)
		}

		testutil.Assert(t, false, h.viewers.IsViewing(room.ID, viewer.ID), "disconnect purged viewing state")
	}
}

func TestMarkReadAnchorsToLatestMessage(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	bob := h.store.addUser("bob")
	room := h.store.addRoom(alice.ID, bob.ID)

	_, err := h.chat.SendMessage(context.Background(), alice.ID, room.ID, structures.MessageTypeText, "one")
	testutil.IsNil(t, err, "send")

	last, err := h.chat.SendMessage(context.Background(), alice.ID, room.ID, structures.MessageTypeText, "two")
	testutil.IsNil(t, err, "send")

	err = h.chat.MarkRead(context.Background(), bob.ID, room.ID)
	testutil.IsNil(t, err, "mark read")

	testutil.Assert(t, int32(0), h.store.unread(room.ID, bob.ID), "unread cleared")

	h.store.mx.Lock()
	at := h.store.participants[room.ID][bob.ID].LastReadAt
	h.store.mx.Unlock()

	testutil.Assert(t, true, at.Equal(last.CreatedAt), "read marker anchored to newest message")
}

func TestMarkReadEmptyRoom(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	room := h.store.addRoom(alice.ID)

	before := time.Now()

	err := h.chat.MarkRead(context.Background(), alice.ID, room.ID)
	testutil.IsNil(t, err, "mark read")

	h.store.mx.Lock()
	at := h.store.participants[room.ID][alice.ID].LastReadAt
	h.store.mx.Unlock()

	testutil.Assert(t, false, at.Before(before), "read marker falls back to now")
}

func TestLoadOlderMessagesMissingCursor(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	room := h.store.addRoom(alice.ID)

	page, err := h.chat.LoadOlderMessages(context.Background(), room.ID, primitive.NewObjectID())
	testutil.IsNil(t, err, "missing cursor is not an error")
	testutil.Assert(t, 0, len(page), "empty page")
}

func TestLoadOlderMessagesPaginates(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	room := h.store.addRoom(alice.ID)

	base := time.Now().Add(-time.Hour)

	for n := 0; n < 5; n++ {
		msg := structures.Message{
			RoomID:    room.ID,
			AuthorID:  alice.ID,
			Type:      structures.MessageTypeText,
			Content:   "msg",
			CreatedAt: base.Add(time.Duration(n) * time.Second),
		}

		err := h.store.CreateMessage(context.Background(), &msg)
		testutil.IsNil(t, err, "seed message")
	}

	recent, err := h.chat.LoadMessages(context.Background(), room.ID)
	testutil.IsNil(t, err, "load recent")
	testutil.Assert(t, 5, len(recent), "all messages fit one page")

	older, err := h.chat.LoadOlderMessages(context.Background(), room.ID, recent[2].ID)
	testutil.IsNil(t, err, "load older")
	testutil.Assert(t, 2, len(older), "only messages before the cursor")

	for _, m := range older {
		testutil.Assert(t, true, m.CreatedAt.Before(recent[2].CreatedAt), "strictly older than cursor")
	}
}

func TestFriendRequestLifecycle(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	bob := h.store.addUser("bob")

	h.connect(t, alice, "sess-a")
	h.connect(t, bob, "sess-b")

	fs, err := h.chat.SendFriendRequest(context.Background(), alice.ID, bob.ID)
	testutil.IsNil(t, err, "request sent")
	testutil.Assert(t, structures.FriendshipStatusPending, fs.Status, "starts pending")
	testutil.Assert(t, 1, h.events.dispatchesTo("sess-b", events.EventTypeNewFriendRequest), "recipient notified")

	fs, err = h.chat.AcceptFriendRequest(context.Background(), bob.ID, fs.ID)
	testutil.IsNil(t, err, "accepted")
	testutil.Assert(t, structures.FriendshipStatusAccepted, fs.Status, "status accepted")
	testutil.Assert(t, 1, h.events.dispatchesTo("sess-a", events.EventTypeFriendRequestAccepted), "sender notified")

	// a resolved request cannot be resolved again
	_, err = h.chat.RejectFriendRequest(context.Background(), bob.ID, fs.ID)
	testutil.Assert(t, errors.ErrInvalidRequest().Code(), apiCode(err), "already resolved code")
}

func TestFriendRequestRecipientOnly(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")
	bob := h.store.addUser("bob")

	fs, err := h.chat.SendFriendRequest(context.Background(), alice.ID, bob.ID)
	testutil.IsNil(t, err, "request sent")

	// the sender cannot accept their own request
	_, err = h.chat.AcceptFriendRequest(context.Background(), alice.ID, fs.ID)
	testutil.Assert(t, errors.ErrInsufficientPrivilege().Code(), apiCode(err), "forbidden code")

	fs, err = h.chat.RejectFriendRequest(context.Background(), bob.ID, fs.ID)
	testutil.IsNil(t, err, "recipient rejects")
	testutil.Assert(t, structures.FriendshipStatusRejected, fs.Status, "status rejected")
}

func TestSendFriendRequestUnknownRecipient(t *testing.T) {
	t.Parallel()

	h := newHarness()
	alice := h.store.addUser("alice")

	_, err := h.chat.SendFriendRequest(context.Background(), alice.ID, primitive.NewObjectID())
	testutil.Assert(t, errors.ErrUnknownUser().Code(), apiCode(err), "not found code")
}
