package model

import "time"

type MatchStatus string

const (
	MatchPending   MatchStatus = "PENDING"
	MatchAccepted  MatchStatus = "ACCEPTED"
	MatchDeclined  MatchStatus = "DECLINED"
	MatchCompleted MatchStatus = "COMPLETED"
)

// Match is the lifecycle record of a game pairing. UserA is the requester,
// UserB the target; only UserB may accept or decline. Usernames are
// denormalized onto the record so notification payloads and listings never
// need a join.
type Match struct {
	UUIDBase
	UserAID       string      `gorm:"type:varchar(36);index;not null" json:"userAId"`
	UserAUsername string      `gorm:"size:100;not null" json:"userAUsername"`
	UserBID       string      `gorm:"type:varchar(36);index;not null" json:"userBId"`
	UserBUsername string      `gorm:"size:100;not null" json:"userBUsername"`
	GameID        string      `gorm:"type:varchar(36);not null" json:"gameId"`
	GameName      string      `gorm:"size:100;not null" json:"gameName"`
	Status        MatchStatus `gorm:"type:varchar(16);index;default:'PENDING'" json:"status"`
	MatchedAt     time.Time   `json:"matchedAt"`
	AcceptedAt    *time.Time  `json:"acceptedAt,omitempty"`
	DeclinedAt    *time.Time  `json:"declinedAt,omitempty"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
	ChatRoomID    string      `gorm:"size:80" json:"chatRoomId,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// HasParticipant reports whether userID is one of the two sides.
func (m *Match) HasParticipant(userID string) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// Opponent returns the other participant's username, or "" if userID is
// not a participant.
func (m *Match) Opponent(userID string) string {
	switch userID {
	case m.UserAID:
		return m.UserBUsername
	case m.UserBID:
		return m.UserAUsername
	}
	return ""
}
