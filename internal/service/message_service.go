package service

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"pixelpals_backend/internal/model"
	"pixelpals_backend/internal/util"
	"pixelpals_backend/pkg/logger"
)

// UnreadUpdate is pushed to the receiver on every new message. Type
// distinguishes peer chat from match chat so the client can route it.
type UnreadUpdate struct {
	Type           string `json:"type"`
	ChatRoomID     string `json:"chatRoomId"`
	SenderID       string `json:"senderId"`
	SenderUsername string `json:"senderUsername"`
	UnreadCount    int    `json:"unreadCount"`
}

// MessageService persists chat messages and tracks unread counts.
type MessageService struct {
	Messages MessageStore
	Users    UserStore
	Notifier Notifier
}

func NewMessageService(messages MessageStore, users UserStore, notifier Notifier) *MessageService {
	return &MessageService{Messages: messages, Users: users, Notifier: notifier}
}

// ChatRoomID derives the peer-chat room for two users: their ids sorted
// lexicographically and joined with "_". Order independent by construction.
func ChatRoomID(userAID, userBID string) string {
	ids := []string{userAID, userBID}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// Send persists a message as unread and pushes the receiver's fresh unread
// count for the room on the unread-updates channel.
func (s *MessageService) Send(senderID, receiverID, content, chatRoomID string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, util.InvalidOperationf("cannot message yourself")
	}
	if strings.TrimSpace(content) == "" {
		return nil, util.InvalidOperationf("message content must not be empty")
	}
	sender, err := s.Users.FindByID(senderID)
	if err != nil {
		return nil, util.NotFoundf("sender %s", senderID)
	}
	receiver, err := s.Users.FindByID(receiverID)
	if err != nil {
		return nil, util.NotFoundf("receiver %s", receiverID)
	}
	if chatRoomID == "" {
		chatRoomID = ChatRoomID(senderID, receiverID)
	}

	msg := &model.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    content,
		Timestamp:  time.Now(),
		Read:       false,
		ChatRoomID: chatRoomID,
	}
	if err := s.Messages.Create(msg); err != nil {
		return nil, err
	}

	counts, err := s.Messages.UnreadCountsByRoom(receiver.ID)
	unread := 1 // the message itself is unread even if the count read fails
	if err != nil {
		logger.Log.Warn("unread count read failed, pushing 1",
			zap.String("chatRoomId", chatRoomID), zap.Error(err))
	} else {
		unread = counts[chatRoomID]
	}
	eventType := EventChatMatch
	if model.IsPeerRoom(chatRoomID) {
		eventType = EventChatFriend
	}
	s.Notifier.SendToUser(receiver.Username, ChannelUnreadUpdates, UnreadUpdate{
		Type:           eventType,
		ChatRoomID:     chatRoomID,
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		UnreadCount:    unread,
	})
	return msg, nil
}

// History returns all messages of a room, oldest first.
func (s *MessageService) History(chatRoomID string) ([]model.Message, error) {
	return s.Messages.ListByChatRoom(chatRoomID)
}

// MarkRead flips every unread message addressed to the user in the room.
// Idempotent.
func (s *MessageService) MarkRead(userID, chatRoomID string) error {
	return s.Messages.MarkRead(userID, chatRoomID)
}

// TotalUnread counts all unread messages addressed to the user.
func (s *MessageService) TotalUnread(userID string) (int, error) {
	return s.Messages.CountUnread(userID)
}

// UnreadPerRoom returns chatRoomId -> unread count for the user.
func (s *MessageService) UnreadPerRoom(userID string) (map[string]int, error) {
	return s.Messages.UnreadCountsByRoom(userID)
}
