package service

// Logical destinations. These names are part of the client contract and
// must not change: friend-request and match-lifecycle events go to the
// per-user match-notifications channel, unread counters to unread-updates,
// presence transitions to the shared status topic.
const (
	ChannelMatchNotifications = "match-notifications"
	ChannelUnreadUpdates      = "unread-updates"
	TopicStatus               = "status"
)

// Payload type tags carried in every pushed event.
const (
	EventMatchRequest   = "MATCH_REQUEST"
	EventMatchAccepted  = "MATCH_ACCEPTED"
	EventMatchDeclined  = "MATCH_DECLINED"
	EventMatchClosed    = "MATCH_CLOSED"
	EventFriendRequest  = "FRIEND_REQUEST"
	EventFriendAccepted = "FRIEND_ACCEPTED"
	EventFriendRejected = "FRIEND_REJECTED"
	EventFriendRemoved  = "FRIEND_REMOVED"
	EventChatFriend     = "CHAT_FRIEND"
	EventChatMatch      = "CHAT_MATCH"
	EventUserStatus     = "USER_STATUS"
)

// Notifier delivers payloads to connected clients. Delivery is
// fire-and-forget: implementations must never block the caller on
// transport progress, and a recipient with no open session simply misses
// the event.
type Notifier interface {
	// SendToUser pushes a payload onto one user's private channel.
	SendToUser(username, channel string, payload interface{})
	// Broadcast pushes a payload onto a shared topic.
	Broadcast(topic string, payload interface{})
}

// NopNotifier discards everything. Used when engines are constructed
// without a transport.
type NopNotifier struct{}

func (NopNotifier) SendToUser(username, channel string, payload interface{}) {}
func (NopNotifier) Broadcast(topic string, payload interface{})              {}
