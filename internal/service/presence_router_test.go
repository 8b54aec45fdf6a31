package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pixelpals_backend/internal/model"
)

func newTestRouter(users ...*model.User) (*PresenceEventRouter, *fakeUserStore, *recordingNotifier) {
	store := newFakeUserStore(users...)
	notifier := &recordingNotifier{}
	return NewPresenceEventRouter(NewPresenceRegistry(), store, notifier), store, notifier
}

func TestPresenceRouter_ConnectPersistsAndBroadcastsOnce(t *testing.T) {
	req := require.New(t)
	alice := &model.User{Username: "alice"}
	router, store, notifier := newTestRouter(alice)

	router.Connected(alice.ID, "alice", "s1")
	router.Connected(alice.ID, "alice", "s2")

	req.True(store.get(alice.ID).Online)

	broadcasts := notifier.allBroadcasts()
	req.Len(broadcasts, 1)
	req.Equal(TopicStatus, broadcasts[0].Topic)

	event, ok := broadcasts[0].Payload.(UserStatusEvent)
	req.True(ok)
	req.Equal(EventUserStatus, event.Type)
	req.Equal(alice.ID, event.UserID)
	req.Equal("alice", event.Username)
	req.True(event.Online)
}

func TestPresenceRouter_DisconnectOnlyOnLastSession(t *testing.T) {
	req := require.New(t)
	alice := &model.User{Username: "alice"}
	router, store, notifier := newTestRouter(alice)

	router.Connected(alice.ID, "alice", "s1")
	router.Connected(alice.ID, "alice", "s2")
	router.Disconnected(alice.ID, "alice", "s1")

	req.True(store.get(alice.ID).Online)
	req.Len(notifier.allBroadcasts(), 1)

	router.Disconnected(alice.ID, "alice", "s2")

	req.False(store.get(alice.ID).Online)
	broadcasts := notifier.allBroadcasts()
	req.Len(broadcasts, 2)

	event, ok := broadcasts[1].Payload.(UserStatusEvent)
	req.True(ok)
	req.False(event.Online)
}

func TestPresenceRouter_UnresolvableUserIsDropped(t *testing.T) {
	req := require.New(t)
	router, _, notifier := newTestRouter()

	router.Connected("deleted-user", "ghost", "s1")

	// registry still tracks the session, but nothing is broadcast
	req.True(router.Registry.IsOnline("deleted-user"))
	req.Empty(notifier.allBroadcasts())
}

func TestPresenceRouter_DisconnectOfUntrackedSessionIsNoop(t *testing.T) {
	req := require.New(t)
	alice := &model.User{Username: "alice"}
	router, store, notifier := newTestRouter(alice)

	router.Disconnected(alice.ID, "alice", "never-registered")

	req.False(store.get(alice.ID).Online)
	req.Empty(notifier.allBroadcasts())
}
