package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pixelpals_backend/internal/model"
	"pixelpals_backend/internal/util"
)

func newFriendshipFixture(t *testing.T) (*FriendshipService, *fakeFriendshipStore, *recordingNotifier, *model.User, *model.User) {
	t.Helper()
	alice := &model.User{Username: "alice"}
	bob := &model.User{Username: "bob"}
	users := newFakeUserStore(alice, bob)
	store := newFakeFriendshipStore()
	notifier := &recordingNotifier{}
	svc := NewFriendshipService(store, users, NewPresenceRegistry(), notifier)
	return svc, store, notifier, alice, bob
}

func TestFriendship_SendRequestCreatesPendingAndNotifiesReceiver(t *testing.T) {
	req := require.New(t)
	svc, store, notifier, alice, _ := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	req.Equal(model.FriendshipPending, dto.Status)
	req.Equal("alice", dto.SenderUsername)
	req.Equal("bob", dto.ReceiverUsername)
	req.Equal(1, store.count())

	pushes := notifier.sentTo("bob")
	req.Len(pushes, 1)
	req.Equal(ChannelMatchNotifications, pushes[0].Channel)
	event := pushes[0].Payload.(FriendshipEvent)
	req.Equal(EventFriendRequest, event.Type)
}

func TestFriendship_SelfRequestIsInvalid(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, _ := newFriendshipFixture(t)

	_, err := svc.SendRequest(alice.ID, "alice")
	req.ErrorIs(err, util.ErrInvalidOperation)
}

func TestFriendship_DuplicatePendingConflictsEitherDirection(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, bob := newFriendshipFixture(t)

	_, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)

	_, err = svc.SendRequest(alice.ID, "bob")
	req.ErrorIs(err, util.ErrConflict)

	// reverse direction hits the same pair record
	_, err = svc.SendRequest(bob.ID, "alice")
	req.ErrorIs(err, util.ErrConflict)
}

func TestFriendship_AcceptOnlyByReceiver(t *testing.T) {
	req := require.New(t)
	svc, _, notifier, alice, _ := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)

	_, err = svc.Accept(dto.ID, "alice")
	req.ErrorIs(err, util.ErrUnauthorized)

	accepted, err := svc.Accept(dto.ID, "bob")
	req.NoError(err)
	req.Equal(model.FriendshipAccepted, accepted.Status)
	req.NotNil(accepted.AcceptedAt)

	// both parties are told
	req.NotEmpty(notifier.sentTo("alice"))
	req.NotEmpty(notifier.sentTo("bob"))
}

func TestFriendship_AcceptNonPendingIsInvalidState(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, _ := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	_, err = svc.Accept(dto.ID, "bob")
	req.NoError(err)

	_, err = svc.Accept(dto.ID, "bob")
	req.ErrorIs(err, util.ErrInvalidState)
}

func TestFriendship_RejectedIsRevivedNotDuplicated(t *testing.T) {
	req := require.New(t)
	svc, store, _, alice, bob := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	_, err = svc.Reject(dto.ID, "bob")
	req.NoError(err)

	// re-request from the other side reuses the record
	revived, err := svc.SendRequest(bob.ID, "alice")
	req.NoError(err)
	req.Equal(dto.ID, revived.ID)
	req.Equal(model.FriendshipPending, revived.Status)
	req.Equal(bob.ID, revived.SenderID)
	req.Nil(revived.AcceptedAt)
	req.Equal(1, store.count())
}

func TestFriendship_RequestWhileAcceptedConflicts(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, bob := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	_, err = svc.Accept(dto.ID, "bob")
	req.NoError(err)

	_, err = svc.SendRequest(bob.ID, "alice")
	req.ErrorIs(err, util.ErrConflict)
}

func TestFriendship_RemoveDeletesAndNotifiesBoth(t *testing.T) {
	req := require.New(t)
	svc, store, notifier, alice, bob := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	_, err = svc.Accept(dto.ID, "bob")
	req.NoError(err)

	req.NoError(svc.Remove(bob.ID, "alice"))
	req.Equal(0, store.count())

	var removeEvents int
	for _, push := range append(notifier.sentTo("alice"), notifier.sentTo("bob")...) {
		if e, ok := push.Payload.(FriendRemovedEvent); ok {
			req.Equal(EventFriendRemoved, e.Type)
			removeEvents++
		}
	}
	req.Equal(2, removeEvents)

	// removing again is NotFound
	req.ErrorIs(svc.Remove(bob.ID, "alice"), util.ErrNotFound)
}

func TestFriendship_RemoveThenReRequestStartsFresh(t *testing.T) {
	req := require.New(t)
	svc, store, _, alice, bob := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	_, err = svc.Accept(dto.ID, "bob")
	req.NoError(err)
	req.NoError(svc.Remove(bob.ID, "alice"))

	// the pair key must be free again: a new request creates a fresh
	// PENDING record instead of tripping the unique index
	fresh, err := svc.SendRequest(bob.ID, "alice")
	req.NoError(err)
	req.Equal(model.FriendshipPending, fresh.Status)
	req.NotEqual(dto.ID, fresh.ID)
	req.Equal(1, store.count())
}

func TestFriendship_ListFriendsDeduplicatesOtherSide(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, _ := newFriendshipFixture(t)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)
	_, err = svc.Accept(dto.ID, "bob")
	req.NoError(err)

	friends, err := svc.ListFriends("alice")
	req.NoError(err)
	req.Len(friends, 1)
	req.Equal("bob", friends[0].Username)

	friends, err = svc.ListFriends("bob")
	req.NoError(err)
	req.Len(friends, 1)
	req.Equal("alice", friends[0].Username)
}

func TestFriendship_StatusBetween(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, bob := newFriendshipFixture(t)

	status, err := svc.StatusBetween("alice", alice.ID)
	req.NoError(err)
	req.Equal(model.RelationSelf, status)

	status, err = svc.StatusBetween("alice", bob.ID)
	req.NoError(err)
	req.Equal(model.RelationNone, status)

	dto, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)

	status, err = svc.StatusBetween("alice", bob.ID)
	req.NoError(err)
	req.Equal(model.RelationPendingSent, status)

	status, err = svc.StatusBetween("bob", alice.ID)
	req.NoError(err)
	req.Equal(model.RelationPendingReceived, status)

	_, err = svc.Accept(dto.ID, "bob")
	req.NoError(err)

	status, err = svc.StatusBetween("alice", bob.ID)
	req.NoError(err)
	req.Equal(model.RelationAccepted, status)
}

func TestFriendship_ListPendingAndSent(t *testing.T) {
	req := require.New(t)
	svc, _, _, alice, _ := newFriendshipFixture(t)

	_, err := svc.SendRequest(alice.ID, "bob")
	req.NoError(err)

	pending, err := svc.ListPending("bob")
	req.NoError(err)
	req.Len(pending, 1)
	req.Equal("alice", pending[0].SenderUsername)

	sent, err := svc.ListSent("alice")
	req.NoError(err)
	req.Len(sent, 1)
	req.Equal("bob", sent[0].ReceiverUsername)

	req.Empty(mustList(t, svc.ListPending, "alice"))
	req.Empty(mustList(t, svc.ListSent, "bob"))
}

func mustList(t *testing.T, fn func(string) ([]FriendshipDTO, error), username string) []FriendshipDTO {
	t.Helper()
	out, err := fn(username)
	require.NoError(t, err)
	return out
}
