package structures

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	AvatarURL    string             `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	State        UserState          `json:"state" bson:"state"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// UserState is the connectivity state persisted for a user. It is written
// only by the conversation coordinator on connect and disconnect.
type UserState struct {
	Online       bool      `json:"online" bson:"online"`
	LastActiveAt time.Time `json:"last_active_at" bson:"last_active_at"`
}

var DeletedUser = User{
	Username: "*DeletedUser",
}
