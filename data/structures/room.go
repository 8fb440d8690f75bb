package structures

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Room struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name    string             `json:"name,omitempty" bson:"name,omitempty"`
	IsGroup bool               `json:"is_group" bson:"is_group"`
	// PairKey uniquely identifies a direct room by its unordered pair of
	// participants. Empty for group rooms.
	PairKey        string             `json:"-" bson:"pair_key,omitempty"`
	LastActivityAt time.Time          `json:"last_activity_at" bson:"last_activity_at"`
	LastMessageID  primitive.ObjectID `json:"last_message_id,omitempty" bson:"last_message_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// RoomParticipant is the per-(room, user) read state. UnreadCount holds the
// number of messages created after LastReadAt by other authors.
type RoomParticipant struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomID      primitive.ObjectID `json:"room_id" bson:"room_id"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id"`
	UnreadCount int32              `json:"unread_count" bson:"unread_count"`
	LastReadAt  time.Time          `json:"last_read_at" bson:"last_read_at"`
	JoinedAt    time.Time          `json:"joined_at" bson:"joined_at"`
}

// DirectRoomPairKey composes the uniqueness key for a direct room from an
// unordered user pair.
func DirectRoomPairKey(a, b primitive.ObjectID) string {
	lo, hi := a.Hex(), b.Hex()
	if lo > hi {
		lo, hi = hi, lo
	}

	return fmt.Sprintf("%s:%s", lo, hi)
}
