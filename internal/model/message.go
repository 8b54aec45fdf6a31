package model

import (
	"strings"
	"time"
)

// Message is a persisted chat line. ChatRoomID is either the sorted join of
// the two peer ids (friend chat) or a match id (match chat); messages are
// never deleted, only flipped to read.
type Message struct {
	UUIDBase
	SenderID   string    `gorm:"type:varchar(36);index;not null" json:"senderId"`
	ReceiverID string    `gorm:"type:varchar(36);index;not null" json:"receiverId"`
	Content    string    `gorm:"size:2000;not null" json:"content"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
	Read       bool      `gorm:"default:false" json:"read"`
	ChatRoomID string    `gorm:"size:80;index;not null" json:"chatRoomId"`
}

func (Message) TableName() string {
	return "messages"
}

// IsPeerRoom reports whether a chat room id names a friend chat (sorted
// id pair) rather than a match chat (bare match id).
func IsPeerRoom(chatRoomID string) bool {
	return strings.Contains(chatRoomID, "_")
}
