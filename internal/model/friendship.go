package model

import (
	"sort"
	"strings"
	"time"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipRejected FriendshipStatus = "REJECTED"
)

// RelationStatus is the caller-relative view of a friendship record.
type RelationStatus string

const (
	RelationSelf            RelationStatus = "SELF"
	RelationNone            RelationStatus = "NONE"
	RelationPendingSent     RelationStatus = "PENDING_SENT"
	RelationPendingReceived RelationStatus = "PENDING_RECEIVED"
	RelationAccepted        RelationStatus = "ACCEPTED"
	RelationRejected        RelationStatus = "REJECTED"
)

// Friendship holds the single record for an unordered pair of users.
// PairKey carries a uniqueIndex so the one-record-per-pair invariant is
// enforced at the data layer, not just by request-time checks.
type Friendship struct {
	UUIDBase
	SenderID   string           `gorm:"type:varchar(36);index;not null" json:"senderId"`
	ReceiverID string           `gorm:"type:varchar(36);index;not null" json:"receiverId"`
	PairKey    string           `gorm:"type:varchar(80);uniqueIndex;not null" json:"-"`
	Status     FriendshipStatus `gorm:"type:varchar(16);default:'PENDING'" json:"status"`
	AcceptedAt *time.Time       `json:"acceptedAt,omitempty"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// OtherSide returns the participant that is not userID.
func (f *Friendship) OtherSide(userID string) string {
	if f.SenderID == userID {
		return f.ReceiverID
	}
	return f.SenderID
}

// PairKeyFor builds the order-independent key for two user ids.
func PairKeyFor(userAID, userBID string) string {
	ids := []string{userAID, userBID}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}
