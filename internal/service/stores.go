package service

import (
	"time"

	"pixelpals_backend/internal/model"
)

// Narrow persistence contracts consumed by the engines. The gorm
// repositories in internal/repository implement them; tests substitute
// in-memory fakes.

type UserStore interface {
	FindByID(id string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByIDs(ids []string) ([]model.User, error)
	FindAll() ([]model.User, error)
	SetOnline(id string, online bool) error
	RecordMatchPlayed(id string) error
	AddRating(id string, rating float64) error
}

type FriendshipStore interface {
	Create(f *model.Friendship) error
	FindByID(id string) (*model.Friendship, error)
	// FindByPair returns (nil, nil) when no record exists for the pair.
	FindByPair(userAID, userBID string) (*model.Friendship, error)
	ListAccepted(userID string) ([]model.Friendship, error)
	ListReceivedPending(userID string) ([]model.Friendship, error)
	ListSentPending(userID string) ([]model.Friendship, error)
	TransitionStatus(id string, from, to model.FriendshipStatus, acceptedAt *time.Time) (bool, error)
	Revive(id, senderID, receiverID string) (bool, error)
	DeleteAccepted(id string) (bool, error)
}

type MatchStore interface {
	Create(m *model.Match) error
	FindByID(id string) (*model.Match, error)
	ExistsPendingBetween(userAID, userBID, gameID string) (bool, error)
	TransitionStatus(id string, from, to model.MatchStatus, updates map[string]interface{}) (bool, error)
	ListPendingForUser(userID string) ([]model.Match, error)
	ListAcceptedForUser(userID string) ([]model.Match, error)
}

type MessageStore interface {
	Create(m *model.Message) error
	ListByChatRoom(chatRoomID string) ([]model.Message, error)
	MarkRead(userID, chatRoomID string) error
	CountUnread(userID string) (int, error)
	UnreadCountsByRoom(userID string) (map[string]int, error)
}

type GameStore interface {
	FindByID(id string) (*model.Game, error)
}
