package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/seventv/chat-api/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegisterReplacesSession(t *testing.T) {
	t.Parallel()

	inst := New()
	userID := primitive.NewObjectID()

	inst.Register(userID, "sess-1")
	inst.Register(userID, "sess-2")

	sid, ok := inst.Lookup(userID)
	testutil.Assert(t, true, ok, "user found")
	testutil.Assert(t, "sess-2", sid, "latest session wins")
	testutil.Assert(t, 1, inst.Count(), "one entry per user")
}

func TestUnregisterCompareAndRemove(t *testing.T) {
	t.Parallel()

	inst := New()
	userID := primitive.NewObjectID()

	inst.Register(userID, "sess-1")
	inst.Register(userID, "sess-2")

	testutil.Assert(t, false, inst.Unregister(userID, "sess-1"), "stale session is a no-op")

	_, ok := inst.Lookup(userID)
	testutil.Assert(t, true, ok, "user still registered")

	testutil.Assert(t, true, inst.Unregister(userID, "sess-2"), "matching session removes")

	_, ok = inst.Lookup(userID)
	testutil.Assert(t, false, ok, "user gone")
	testutil.Assert(t, false, inst.Unregister(userID, "sess-2"), "repeat unregister is a no-op")
}

func TestLookupUnknownUser(t *testing.T) {
	t.Parallel()

	inst := New()

	_, ok := inst.Lookup(primitive.NewObjectID())
	testutil.Assert(t, false, ok, "unknown user not found")
}

func TestConcurrentRegistration(t *testing.T) {
	t.Parallel()

	inst := New()

	users := make([]primitive.ObjectID, 64)
	for n := range users {
		users[n] = primitive.NewObjectID()
	}

	wg := sync.WaitGroup{}

	for n, userID := range users {
		wg.Add(1)

		go func(n int, userID primitive.ObjectID) {
			defer wg.Done()

			for c := 0; c < 100; c++ {
				inst.Register(userID, fmt.Sprintf("sess-%d-%d", n, c))
			}
		}(n, userID)
	}

	wg.Wait()

	testutil.Assert(t, len(users), inst.Count(), "one entry per user")

	for n, userID := range users {
		sid, ok := inst.Lookup(userID)
		testutil.Assert(t, true, ok, "user registered")
		testutil.Assert(t, fmt.Sprintf("sess-%d-99", n), sid, "last write wins")
	}
}
