package presence

import (
	"hash/crc32"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instance is the in-memory registry of online users. It maps a user to the
// session currently carrying their connection; the latest registration wins
// and a stale unregister from a superseded session is a no-op. State is
// ephemeral and rebuilt empty on process restart.
type Instance interface {
	Register(userID primitive.ObjectID, sessionID string)
	Unregister(userID primitive.ObjectID, sessionID string) bool
	Lookup(userID primitive.ObjectID) (string, bool)
	Count() int
}

const shardCount = 32

type inst struct {
	shards [shardCount]*shard
}

type shard struct {
	mx    sync.Mutex
	users map[primitive.ObjectID]string
}

func New() Instance {
	p := &inst{}

	for i := range p.shards {
		p.shards[i] = &shard{
			users: map[primitive.ObjectID]string{},
		}
	}

	return p
}

func (p *inst) shard(userID primitive.ObjectID) *shard {
	return p.shards[crc32.ChecksumIEEE(userID[:])%shardCount]
}

func (p *inst) Register(userID primitive.ObjectID, sessionID string) {
	s := p.shard(userID)

	s.mx.Lock()
	defer s.mx.Unlock()

	s.users[userID] = sessionID
}

// Unregister removes the mapping only if sessionID is still the registered
// session. Returns whether an entry was removed.
func (p *inst) Unregister(userID primitive.ObjectID, sessionID string) bool {
	s := p.shard(userID)

	s.mx.Lock()
	defer s.mx.Unlock()

	if cur, ok := s.users[userID]; !ok || cur != sessionID {
		return false
	}

	delete(s.users, userID)

	return true
}

func (p *inst) Lookup(userID primitive.ObjectID) (string, bool) {
	s := p.shard(userID)

	s.mx.Lock()
	defer s.mx.Unlock()

	sessionID, ok := s.users[userID]

	return sessionID, ok
}

func (p *inst) Count() int {
	count := 0

	for _, s := range p.shards {
		s.mx.Lock()
		count += len(s.users)
		s.mx.Unlock()
	}

	return count
}
