package events

import (
	"encoding/json"
	"time"

	"github.com/seventv/common/utils"
)

type Message[D AnyPayload] struct {
	Op        Opcode `json:"op"`
	Timestamp int64  `json:"t"`
	Data      D      `json:"d"`
}

func NewMessage[D AnyPayload](op Opcode, data D) Message[D] {
	return Message[D]{
		Op:        op,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

func (e Message[D]) ToRaw() Message[json.RawMessage] {
	switch x := utils.ToAny(e.Data).(type) {
	case json.RawMessage:
		return Message[json.RawMessage]{
			Op:        e.Op,
			Timestamp: e.Timestamp,
			Data:      x,
		}
	}

	raw, _ := json.Marshal(e.Data)

	return Message[json.RawMessage]{
		Op:        e.Op,
		Timestamp: e.Timestamp,
		Data:      raw,
	}
}

func ConvertMessage[D AnyPayload](c Message[json.RawMessage]) (Message[D], error) {
	var d D
	err := json.Unmarshal(c.Data, &d)

	return Message[D]{
		Op:        c.Op,
		Timestamp: c.Timestamp,
		Data:      d,
	}, err
}

type Opcode uint8

const (
	// Server ops (0-32)
	OpcodeDispatch  Opcode = 0 // R - Server dispatches an event to the client
	OpcodeHello     Opcode = 1 // R - Server greets the client
	OpcodeHeartbeat Opcode = 2 // R - Keep the connection alive
	OpcodeAck       Opcode = 5 // R - Acknowledgement of a command
	OpcodeError     Opcode = 6 // R - Error context for a failed command

	// Commands (33+)
	OpcodeJoinRoom            Opcode = 33 // S - Start viewing a room
	OpcodeLeaveRoom           Opcode = 34 // S - Stop viewing a room
	OpcodeSendMessage         Opcode = 35 // S - Send a message to a room
	OpcodeLoadMessages        Opcode = 36 // S - Load the latest page of a room
	OpcodeLoadOlderMessages   Opcode = 37 // S - Page backwards through history
	OpcodeMarkRead            Opcode = 38 // S - Mark a room as read
	OpcodeSendFriendRequest   Opcode = 39 // S - Notify a new friend request
	OpcodeAcceptFriendRequest Opcode = 40 // S - Accept a pending friend request
	OpcodeRejectFriendRequest Opcode = 41 // S - Reject a pending friend request
)

func (op Opcode) String() string {
	switch op {
	case OpcodeDispatch:
		return "DISPATCH"
	case OpcodeHello:
		return "HELLO"
	case OpcodeHeartbeat:
		return "HEARTBEAT"
	case OpcodeAck:
		return "ACK"
	case OpcodeError:
		return "ERROR"
	case OpcodeJoinRoom:
		return "JOIN_ROOM"
	case OpcodeLeaveRoom:
		return "LEAVE_ROOM"
	case OpcodeSendMessage:
		return "SEND_MESSAGE"
	case OpcodeLoadMessages:
		return "LOAD_MESSAGES"
	case OpcodeLoadOlderMessages:
		return "LOAD_OLDER_MESSAGES"
	case OpcodeMarkRead:
		return "MARK_READ"
	case OpcodeSendFriendRequest:
		return "SEND_FRIEND_REQUEST"
	case OpcodeAcceptFriendRequest:
		return "ACCEPT_FRIEND_REQUEST"
	case OpcodeRejectFriendRequest:
		return "REJECT_FRIEND_REQUEST"
	default:
		return "UNDOCUMENTED_OPERATION"
	}
}

// EventType names dispatched to clients. These are the product's wire names
// and must not be renamed.
type EventType string

const (
	EventTypeJoinedRoom             EventType = "joinedRoom"
	EventTypeFriendJoinedRoom       EventType = "friendJoinedRoom"
	EventTypeReceivedMessage        EventType = "receivedMessage"
	EventTypeNewMessageNotification EventType = "newMessageNotification"
	EventTypeMessagesLoaded         EventType = "messagesLoaded"
	EventTypeOlderMessagesLoaded    EventType = "olderMessagesLoaded"
	EventTypeNewFriendRequest       EventType = "newFriendRequest"
	EventTypeFriendRequestAccepted  EventType = "friendRequestAccepted"
	EventTypeFriendRequestRejected  EventType = "friendRequestRejected"
)
