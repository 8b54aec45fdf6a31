package service

import (
	"pixelpals_backend/pkg/logger"

	"go.uber.org/zap"
)

// UserStatusEvent is broadcast on the status topic whenever a user crosses
// an offline/online edge.
type UserStatusEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

// PresenceEventRouter consumes transport connect/disconnect events, keeps
// the registry current, persists the user's online flag and broadcasts the
// transition. Presence is best-effort: a user that cannot be resolved is
// logged and dropped, and the state self-heals on the next connect.
type PresenceEventRouter struct {
	Registry *PresenceRegistry
	Users    UserStore
	Notifier Notifier
}

func NewPresenceEventRouter(registry *PresenceRegistry, users UserStore, notifier Notifier) *PresenceEventRouter {
	return &PresenceEventRouter{
		Registry: registry,
		Users:    users,
		Notifier: notifier,
	}
}

// Connected handles a transport connect. Only the session that takes the
// user from zero sessions to one emits the online transition.
func (p *PresenceEventRouter) Connected(userID, username, sessionID string) {
	wasOffline := p.Registry.RegisterSession(userID, sessionID)
	if !wasOffline {
		return
	}

	if err := p.Users.SetOnline(userID, true); err != nil {
		logger.Log.Warn("presence: dropping connect for unresolvable user",
			zap.String("userId", userID), zap.Error(err))
		return
	}

	p.Notifier.Broadcast(TopicStatus, UserStatusEvent{
		Type:     EventUserStatus,
		UserID:   userID,
		Username: username,
		Online:   true,
	})
}

// Disconnected handles a transport disconnect. Only the close of the last
// session emits the offline transition.
func (p *PresenceEventRouter) Disconnected(userID, username, sessionID string) {
	isNowOffline := p.Registry.DeregisterSession(userID, sessionID)
	if !isNowOffline {
		return
	}

	if err := p.Users.SetOnline(userID, false); err != nil {
		logger.Log.Warn("presence: dropping disconnect for unresolvable user",
			zap.String("userId", userID), zap.Error(err))
		return
	}

	p.Notifier.Broadcast(TopicStatus, UserStatusEvent{
		Type:     EventUserStatus,
		UserID:   userID,
		Username: username,
		Online:   false,
	})
}
