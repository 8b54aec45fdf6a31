package repository

import (
	"pixelpals_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(m *model.Message) error {
	return r.DB.Create(m).Error
}

func (r *MessageRepository) ListByChatRoom(chatRoomID string) ([]model.Message, error) {
	var ms []model.Message
	err := r.DB.Where("chat_room_id = ?", chatRoomID).
		Order("timestamp ASC").Find(&ms).Error
	return ms, err
}

// MarkRead flips every unread message addressed to the user in the room.
func (r *MessageRepository) MarkRead(userID, chatRoomID string) error {
	return r.DB.Model(&model.Message{}).
		Where("chat_room_id = ? AND receiver_id = ? AND `read` = ?", chatRoomID, userID, false).
		Update("read", true).Error
}

func (r *MessageRepository) CountUnread(userID string) (int, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).
		Where("receiver_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return int(count), err
}

// UnreadCountsByRoom groups the user's unread messages by chat room.
func (r *MessageRepository) UnreadCountsByRoom(userID string) (map[string]int, error) {
	type roomCount struct {
		ChatRoomID string
		Count      int
	}
	var rows []roomCount
	err := r.DB.Model(&model.Message{}).
		Select("chat_room_id, COUNT(*) as count").
		Where("receiver_id = ? AND `read` = ?", userID, false).
		Group("chat_room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ChatRoomID] = row.Count
	}
	return counts, nil
}
