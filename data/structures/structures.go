package structures

import "github.com/seventv/common/mongo"

// Collections owned by the chat service.
const (
	CollectionNameUsers            = mongo.CollectionName("chat_users")
	CollectionNameRooms            = mongo.CollectionName("chat_rooms")
	CollectionNameRoomParticipants = mongo.CollectionName("chat_room_participants")
	CollectionNameMessages         = mongo.CollectionName("chat_messages")
	CollectionNameFriendships      = mongo.CollectionName("chat_friendships")
)
