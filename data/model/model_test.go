package model

import (
	"testing"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserModel(t *testing.T) {
	m := NewInstance(ModelInstanceOptions{Website: "https://chat.example.com"})

	now := time.Now()

	u := m.User(structures.User{
		ID:        primitive.NewObjectID(),
		Username:  "ayla",
		Email:     "ayla@example.com",
		CreatedAt: now,
		State: structures.UserState{
			Online:       true,
			LastActiveAt: now,
		},
	})

	testutil.Assert(t, "ayla", u.Username, "username carries over")
	testutil.Assert(t, true, u.Online, "online state carries over")
	testutil.Assert(t, now.UnixMilli(), u.LastActiveAt, "last active is epoch millis")
	testutil.Assert(t, "https://chat.example.com/assets/default-avatar.png", u.AvatarURL, "empty avatar falls back to the site default")

	p := u.ToPartial()
	testutil.Assert(t, u.ID, p.ID, "partial keeps the id")
	testutil.Assert(t, u.AvatarURL, p.AvatarURL, "partial keeps the avatar")
}

func TestUserModelNeverActive(t *testing.T) {
	m := NewInstance(ModelInstanceOptions{})

	u := m.User(structures.User{
		ID:        primitive.NewObjectID(),
		Username:  "robo",
		AvatarURL: "https://cdn.example.com/robo.png",
		CreatedAt: time.Now(),
	})

	testutil.Assert(t, int64(0), u.LastActiveAt, "a user who was never active has no last_active_at")
	testutil.Assert(t, "https://cdn.example.com/robo.png", u.AvatarURL, "a set avatar is untouched")
}

func TestFriendshipModel(t *testing.T) {
	m := NewInstance(ModelInstanceOptions{})

	created := time.Now().Add(-time.Hour)

	pending := m.Friendship(structures.Friendship{
		ID:          primitive.NewObjectID(),
		SenderID:    primitive.NewObjectID(),
		RecipientID: primitive.NewObjectID(),
		Status:      structures.FriendshipStatusPending,
		CreatedAt:   created,
	})

	testutil.Assert(t, structures.FriendshipStatusPending, pending.Status, "status carries over")
	testutil.Assert(t, int64(0), pending.UpdatedAt, "an unresolved request has no updated_at")

	resolved := m.Friendship(structures.Friendship{
		Status:    structures.FriendshipStatusAccepted,
		CreatedAt: created,
		UpdatedAt: time.Now(),
	})

	testutil.Assert(t, true, resolved.UpdatedAt > 0, "a resolved request has updated_at set")
}

func TestMessageModel(t *testing.T) {
	m := NewInstance(ModelInstanceOptions{})

	now := time.Now()

	msg := m.Message(structures.Message{
		ID:        primitive.NewObjectID(),
		RoomID:    primitive.NewObjectID(),
		AuthorID:  primitive.NewObjectID(),
		Type:      structures.MessageTypeText,
		Content:   "hello there",
		CreatedAt: now,
	})

	testutil.Assert(t, "hello there", msg.Content, "content carries over")
	testutil.Assert(t, now.UnixMilli(), msg.CreatedAt, "created at is epoch millis")
	testutil.Assert(t, true, msg.Author == nil, "author is only attached by the caller")
}
