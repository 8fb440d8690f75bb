package viewers

import (
	"sync"
	"testing"

	"github.com/seventv/chat-api/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnterLeave(t *testing.T) {
	t.Parallel()

	inst := New()
	roomID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	testutil.Assert(t, false, inst.IsViewing(roomID, userID), "not viewing initially")

	inst.Enter(roomID, userID)
	testutil.Assert(t, true, inst.IsViewing(roomID, userID), "viewing after enter")

	// entering twice is not an error
	inst.Enter(roomID, userID)
	testutil.Assert(t, true, inst.IsViewing(roomID, userID), "still viewing")

	inst.Leave(roomID, userID)
	testutil.Assert(t, false, inst.IsViewing(roomID, userID), "gone after leave")

	// leaving a room never entered is a no-op
	inst.Leave(primitive.NewObjectID(), userID)
}

func TestEnterIsAdditive(t *testing.T) {
	t.Parallel()

	inst := New()
	roomA := primitive.NewObjectID()
	roomB := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	inst.Enter(roomA, userID)
	inst.Enter(roomB, userID)

	testutil.Assert(t, true, inst.IsViewing(roomA, userID), "first room kept")
	testutil.Assert(t, true, inst.IsViewing(roomB, userID), "second room added")

	inst.Leave(roomA, userID)

	testutil.Assert(t, false, inst.IsViewing(roomA, userID), "left first room")
	testutil.Assert(t, true, inst.IsViewing(roomB, userID), "second room unaffected")
}

func TestPurgeUser(t *testing.T) {
	t.Parallel()

	inst := New()
	roomA := primitive.NewObjectID()
	roomB := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	inst.Enter(roomA, alice)
	inst.Enter(roomB, alice)
	inst.Enter(roomA, bob)

	inst.PurgeUser(alice)

	testutil.Assert(t, false, inst.IsViewing(roomA, alice), "purged from first room")
	testutil.Assert(t, false, inst.IsViewing(roomB, alice), "purged from second room")
	testutil.Assert(t, true, inst.IsViewing(roomA, bob), "other viewers untouched")
}

func TestConcurrentViewers(t *testing.T) {
	t.Parallel()

	inst := New()

	rooms := make([]primitive.ObjectID, 8)
	for n := range rooms {
		rooms[n] = primitive.NewObjectID()
	}

	users := make([]primitive.ObjectID, 32)
	for n := range users {
		users[n] = primitive.NewObjectID()
	}

	wg := sync.WaitGroup{}

	for _, userID := range users {
		wg.Add(1)

		go func(userID primitive.ObjectID) {
			defer wg.Done()

			for _, roomID := range rooms {
				inst.Enter(roomID, userID)
			}

			for _, roomID := range rooms[:4] {
				inst.Leave(roomID, userID)
			}
		}(userID)
	}

	wg.Wait()

	for _, userID := range users {
		for _, roomID := range rooms[:4] {
			testutil.Assert(t, false, inst.IsViewing(roomID, userID), "left rooms are empty")
		}

		for _, roomID := range rooms[4:] {
			testutil.Assert(t, true, inst.IsViewing(roomID, userID), "kept rooms are viewed")
		}
	}
}
