package structures

import (
	"testing"

	"github.com/seventv/chat-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDirectRoomPairKey(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	// the key must not depend on argument order: it is the uniqueness
	// anchor the direct-room upsert filters on
	testutil.Assert(t, DirectRoomPairKey(a, b), DirectRoomPairKey(b, a), "pair key is order-insensitive")

	c := primitive.NewObjectID()
	if DirectRoomPairKey(a, b) == DirectRoomPairKey(a, c) {
		t.Fatalf("distinct pairs must not collide: %s", DirectRoomPairKey(a, b))
	}

	lo, hi := a.Hex(), b.Hex()
	if lo > hi {
		lo, hi = hi, lo
	}

	testutil.Assert(t, lo+":"+hi, DirectRoomPairKey(a, b), "key is the sorted hex pair")
}
