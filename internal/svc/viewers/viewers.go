package viewers

import (
	"hash/crc32"
	"sync"

	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instance tracks which users are actively viewing which rooms. Membership
// is advisory: it only decides whether a delivered message counts as unread.
// A user may appear in several rooms' viewer sets at once.
type Instance interface {
	Enter(roomID, userID primitive.ObjectID)
	Leave(roomID, userID primitive.ObjectID)
	IsViewing(roomID, userID primitive.ObjectID) bool
	PurgeUser(userID primitive.ObjectID)
}

const shardCount = 32

type inst struct {
	shards [shardCount]*shard

	// reverse index so a disconnect only touches the user's own rooms
	umx   sync.Mutex
	users map[primitive.ObjectID]utils.Set[primitive.ObjectID]
}

type shard struct {
	mx    sync.Mutex
	rooms map[primitive.ObjectID]utils.Set[primitive.ObjectID]
}

func New() Instance {
	v := &inst{
		users: map[primitive.ObjectID]utils.Set[primitive.ObjectID]{},
	}

	for i := range v.shards {
		v.shards[i] = &shard{
			rooms: map[primitive.ObjectID]utils.Set[primitive.ObjectID]{},
		}
	}

	return v
}

func (v *inst) shard(roomID primitive.ObjectID) *shard {
	return v.shards[crc32.ChecksumIEEE(roomID[:])%shardCount]
}

func (v *inst) Enter(roomID, userID primitive.ObjectID) {
	s := v.shard(roomID)

	s.mx.Lock()

	if _, ok := s.rooms[roomID]; !ok {
		s.rooms[roomID] = utils.Set[primitive.ObjectID]{}
	}

	s.rooms[roomID].Add(userID)
	s.mx.Unlock()

	v.umx.Lock()
	defer v.umx.Unlock()

	if _, ok := v.users[userID]; !ok {
		v.users[userID] = utils.Set[primitive.ObjectID]{}
	}

	v.users[userID].Add(roomID)
}

func (v *inst) Leave(roomID, userID primitive.ObjectID) {
	s := v.shard(roomID)

	s.mx.Lock()
	v.dropViewer(s, roomID, userID)
	s.mx.Unlock()

	v.umx.Lock()
	defer v.umx.Unlock()

	if rooms, ok := v.users[userID]; ok {
		rooms.Delete(roomID)

		if len(rooms) == 0 {
			delete(v.users, userID)
		}
	}
}

func (v *inst) IsViewing(roomID, userID primitive.ObjectID) bool {
	s := v.shard(roomID)

	s.mx.Lock()
	defer s.mx.Unlock()

	return s.rooms[roomID].Has(userID)
}

// PurgeUser removes the user from every viewer set. Called on disconnect: a
// dropped connection cannot be viewing anything.
func (v *inst) PurgeUser(userID primitive.ObjectID) {
	v.umx.Lock()
	rooms := v.users[userID].Values()
	delete(v.users, userID)
	v.umx.Unlock()

	for _, roomID := range rooms {
		s := v.shard(roomID)

		s.mx.Lock()
		v.dropViewer(s, roomID, userID)
		s.mx.Unlock()
	}
}

// dropViewer must be called with the shard lock held. Empty sets are
// removed so abandoned rooms do not pin memory.
func (v *inst) dropViewer(s *shard, roomID, userID primitive.ObjectID) {
	viewers, ok := s.rooms[roomID]
	if !ok {
		return
	}

	viewers.Delete(userID)

	if len(viewers) == 0 {
		delete(s.rooms, roomID)
	}
}
