package service

import (
	"errors"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"pixelpals_backend/internal/model"
	"pixelpals_backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

var (
	errFakeNotFound     = errors.New("record not found")
	errFakeDuplicateKey = errors.New("duplicate key")
)

// --- users ---

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		if u.ID == "" {
			u.ID = model.GenerateUUID()
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) FindByUsername(username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errFakeNotFound
}

func (s *fakeUserStore) FindByIDs(ids []string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) FindAll() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.users[id])
	}
	return out, nil
}

func (s *fakeUserStore) SetOnline(id string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errFakeNotFound
	}
	u.Online = online
	return nil
}

func (s *fakeUserStore) RecordMatchPlayed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errFakeNotFound
	}
	u.MatchesPlayed++
	u.Level = model.LevelForMatches(u.MatchesPlayed)
	return nil
}

func (s *fakeUserStore) AddRating(id string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errFakeNotFound
	}
	u.TotalRatingPoints += rating
	u.NumberOfRatings++
	u.Rating = u.TotalRatingPoints / float64(u.NumberOfRatings)
	return nil
}

func (s *fakeUserStore) get(id string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

// --- friendships ---

type fakeFriendshipStore struct {
	mu      sync.Mutex
	records map[string]*model.Friendship
}

func newFakeFriendshipStore() *fakeFriendshipStore {
	return &fakeFriendshipStore{records: make(map[string]*model.Friendship)}
}

func (s *fakeFriendshipStore) Create(f *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// pair_key carries a unique index
	for _, existing := range s.records {
		if existing.PairKey == f.PairKey {
			return errFakeDuplicateKey
		}
	}
	if f.ID == "" {
		f.ID = model.GenerateUUID()
	}
	f.CreatedAt = time.Now()
	copied := *f
	s.records[f.ID] = &copied
	return nil
}

func (s *fakeFriendshipStore) FindByID(id string) (*model.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.records[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *fakeFriendshipStore) FindByPair(userAID, userBID string) (*model.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := model.PairKeyFor(userAID, userBID)
	for _, f := range s.records {
		if f.PairKey == key {
			copied := *f
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeFriendshipStore) ListAccepted(userID string) ([]model.Friendship, error) {
	return s.list(func(f *model.Friendship) bool {
		return f.Status == model.FriendshipAccepted && (f.SenderID == userID || f.ReceiverID == userID)
	}), nil
}

func (s *fakeFriendshipStore) ListReceivedPending(userID string) ([]model.Friendship, error) {
	return s.list(func(f *model.Friendship) bool {
		return f.Status == model.FriendshipPending && f.ReceiverID == userID
	}), nil
}

func (s *fakeFriendshipStore) ListSentPending(userID string) ([]model.Friendship, error) {
	return s.list(func(f *model.Friendship) bool {
		return f.Status == model.FriendshipPending && f.SenderID == userID
	}), nil
}

func (s *fakeFriendshipStore) list(match func(*model.Friendship) bool) []model.Friendship {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Friendship
	for _, f := range s.records {
		if match(f) {
			out = append(out, *f)
		}
	}
	return out
}

func (s *fakeFriendshipStore) TransitionStatus(id string, from, to model.FriendshipStatus, acceptedAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.records[id]
	if !ok || f.Status != from {
		return false, nil
	}
	f.Status = to
	f.AcceptedAt = acceptedAt
	return true, nil
}

func (s *fakeFriendshipStore) Revive(id, senderID, receiverID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.records[id]
	if !ok || f.Status != model.FriendshipRejected {
		return false, nil
	}
	f.Status = model.FriendshipPending
	f.SenderID = senderID
	f.ReceiverID = receiverID
	f.AcceptedAt = nil
	f.CreatedAt = time.Now()
	return true, nil
}

func (s *fakeFriendshipStore) DeleteAccepted(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.records[id]
	if !ok || f.Status != model.FriendshipAccepted {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *fakeFriendshipStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// --- matches ---

type fakeMatchStore struct {
	mu      sync.Mutex
	records map[string]*model.Match
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{records: make(map[string]*model.Match)}
}

func (s *fakeMatchStore) Create(m *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = model.GenerateUUID()
	}
	m.CreatedAt = time.Now()
	copied := *m
	s.records[m.ID] = &copied
	return nil
}

func (s *fakeMatchStore) FindByID(id string) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMatchStore) ExistsPendingBetween(userAID, userBID, gameID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.records {
		if m.Status != model.MatchPending || m.GameID != gameID {
			continue
		}
		forward := m.UserAID == userAID && m.UserBID == userBID
		reverse := m.UserAID == userBID && m.UserBID == userAID
		if forward || reverse {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeMatchStore) TransitionStatus(id string, from, to model.MatchStatus, updates map[string]interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Status = to
	for col, val := range updates {
		switch col {
		case "accepted_at":
			m.AcceptedAt = val.(*time.Time)
		case "declined_at":
			m.DeclinedAt = val.(*time.Time)
		case "completed_at":
			m.CompletedAt = val.(*time.Time)
		case "chat_room_id":
			m.ChatRoomID = val.(string)
		}
	}
	return true, nil
}

func (s *fakeMatchStore) ListPendingForUser(userID string) ([]model.Match, error) {
	return s.list(func(m *model.Match) bool {
		return m.Status == model.MatchPending && m.UserBID == userID
	}), nil
}

func (s *fakeMatchStore) ListAcceptedForUser(userID string) ([]model.Match, error) {
	return s.list(func(m *model.Match) bool {
		return m.Status == model.MatchAccepted && m.HasParticipant(userID)
	}), nil
}

func (s *fakeMatchStore) list(match func(*model.Match) bool) []model.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Match
	for _, m := range s.records {
		if match(m) {
			out = append(out, *m)
		}
	}
	return out
}

// --- messages ---

type fakeMessageStore struct {
	mu        sync.Mutex
	messages  []*model.Message
	countsErr error
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (s *fakeMessageStore) Create(m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = model.GenerateUUID()
	}
	copied := *m
	s.messages = append(s.messages, &copied)
	return nil
}

func (s *fakeMessageStore) ListByChatRoom(chatRoomID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.ChatRoomID == chatRoomID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *fakeMessageStore) MarkRead(userID, chatRoomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ChatRoomID == chatRoomID && m.ReceiverID == userID {
			m.Read = true
		}
	}
	return nil
}

func (s *fakeMessageStore) CountUnread(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeMessageStore) UnreadCountsByRoom(userID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countsErr != nil {
		return nil, s.countsErr
	}
	counts := make(map[string]int)
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.Read {
			counts[m.ChatRoomID]++
		}
	}
	return counts, nil
}

// --- games ---

type fakeGameStore struct {
	games map[string]*model.Game
}

func newFakeGameStore(games ...*model.Game) *fakeGameStore {
	s := &fakeGameStore{games: make(map[string]*model.Game)}
	for _, g := range games {
		if g.ID == "" {
			g.ID = model.GenerateUUID()
		}
		s.games[g.ID] = g
	}
	return s
}

func (s *fakeGameStore) FindByID(id string) (*model.Game, error) {
	g, ok := s.games[id]
	if !ok {
		return nil, errFakeNotFound
	}
	copied := *g
	return &copied, nil
}

// --- notifier ---

type sentNotification struct {
	Username string
	Channel  string
	Payload  interface{}
}

type broadcastNotification struct {
	Topic   string
	Payload interface{}
}

// recordingNotifier captures pushes so tests can assert on delivery
// without a running hub.
type recordingNotifier struct {
	mu         sync.Mutex
	sent       []sentNotification
	broadcasts []broadcastNotification
}

func (n *recordingNotifier) SendToUser(username, channel string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Username: username, Channel: channel, Payload: payload})
}

func (n *recordingNotifier) Broadcast(topic string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, broadcastNotification{Topic: topic, Payload: payload})
}

func (n *recordingNotifier) sentTo(username string) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentNotification
	for _, s := range n.sent {
		if s.Username == username {
			out = append(out, s)
		}
	}
	return out
}

func (n *recordingNotifier) allBroadcasts() []broadcastNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]broadcastNotification(nil), n.broadcasts...)
}
