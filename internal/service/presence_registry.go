package service

import (
	"hash/fnv"
	"sync"
)

const presenceShardCount = 32

type presenceShard struct {
	mu       sync.Mutex
	sessions map[string]map[string]struct{} // userID -> set of session ids
}

// PresenceRegistry tracks the open real-time sessions of every user. A user
// is online iff it holds at least one session. The registry is sharded by
// user id so connects and disconnects of unrelated users never contend,
// while all calls for one user serialize on its shard. The empty-set check
// and the mutation happen under the same lock, which is what makes the
// online/offline edge signals fire exactly once per transition.
type PresenceRegistry struct {
	shards [presenceShardCount]*presenceShard
}

func NewPresenceRegistry() *PresenceRegistry {
	r := &PresenceRegistry{}
	for i := range r.shards {
		r.shards[i] = &presenceShard{sessions: make(map[string]map[string]struct{})}
	}
	return r
}

func (r *PresenceRegistry) shard(userID string) *presenceShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%presenceShardCount]
}

// RegisterSession adds a session and reports whether the user was offline
// before the add. Only the first concurrent session produces true.
func (r *PresenceRegistry) RegisterSession(userID, sessionID string) (wasOffline bool) {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sessions[userID]
	if !ok {
		set = make(map[string]struct{})
		s.sessions[userID] = set
	}
	wasOffline = len(set) == 0
	set[sessionID] = struct{}{}
	return wasOffline
}

// DeregisterSession removes a session and reports whether that emptied the
// user's set. Removing an unknown session (disconnects can race explicit
// logouts) is a no-op returning false.
func (r *PresenceRegistry) DeregisterSession(userID, sessionID string) (isNowOffline bool) {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if _, ok := set[sessionID]; !ok {
		return false
	}
	delete(set, sessionID)
	if len(set) == 0 {
		delete(s.sessions, userID)
		return true
	}
	return false
}

func (r *PresenceRegistry) IsOnline(userID string) bool {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[userID]) > 0
}

// OnlineUserIDs returns a point-in-time snapshot of the online user ids.
func (r *PresenceRegistry) OnlineUserIDs() []string {
	var ids []string
	for _, s := range r.shards {
		s.mu.Lock()
		for userID := range s.sessions {
			ids = append(ids, userID)
		}
		s.mu.Unlock()
	}
	return ids
}

// SessionCount returns the number of open sessions for a user.
func (r *PresenceRegistry) SessionCount(userID string) int {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[userID])
}
